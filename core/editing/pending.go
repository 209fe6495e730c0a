package editing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kundihq/kundi/core"
	"github.com/kundihq/kundi/core/gamify"
	"github.com/kundihq/kundi/core/roster"
)

// DefaultCommitDelay is how long a staged fix stays cancellable before it is
// written upstream.
const DefaultCommitDelay = 5 * time.Second

type (
	// Notifier surfaces committed-edit failures to the operator. Cancelled
	// staged edits are a normal, silent path and never notify.
	Notifier interface {
		WriteFailed(s roster.Student, err error)
	}

	// AuditLog journals committed edits; best-effort.
	AuditLog interface {
		LogEdit(ctx context.Context, e AuditEntry) error
	}

	AuditEntry struct {
		ID          string     `json:"id" db:"id"`
		PersonID    string     `json:"person_id" db:"person_id"`
		Description string     `json:"description" db:"description"`
		Attrs       Attributes `json:"attrs" db:"-"`
		CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	}

	PendingWindowDeps struct {
		Delay      time.Duration // 0 means DefaultCommitDelay
		Gateway    WriteGateway
		Reconciler Reconciler
		History    *History
		Notifier   Notifier       // optional
		Stats      *gamify.Tracker // optional
		Audit      AuditLog       // optional
		Logger     core.Logger
	}

	// PendingWindow is the single-slot staging area between "the operator
	// clicked fix" and "the edit is written upstream". A staged edit shows up
	// locally right away; the remote write only happens once the delay
	// elapses. At most one edit is ever staged: staging on top of a live
	// window flush-commits the old edit first.
	PendingWindow struct {
		deps  PendingWindowDeps
		delay time.Duration

		mu     sync.Mutex
		staged *stagedEdit
		timer  *time.Timer
	}

	stagedEdit struct {
		original    roster.Student
		target      roster.Student
		statsBefore gamify.State
	}
)

func NewPendingWindow(deps PendingWindowDeps) *PendingWindow {
	delay := deps.Delay
	if delay <= 0 {
		delay = DefaultCommitDelay
	}
	return &PendingWindow{deps: deps, delay: delay}
}

// Stage opens the undo window for a proposed fix. The target is applied to
// the local projection immediately and the gamification counter bumps
// optimistically; both roll back together on Cancel. If an edit is already
// staged it is committed now, before the new one takes the slot — a staged
// edit is never silently dropped. A failed flush reverts and notifies like
// any committed-edit failure, but does not block the new edit from staging.
func (w *PendingWindow) Stage(ctx context.Context, original, target roster.Student) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.staged != nil {
		w.timer.Stop()
		w.commit(ctx, w.staged)
	}

	ed := &stagedEdit{original: original, target: target}
	if w.deps.Stats != nil {
		ed.statsBefore = w.deps.Stats.State()
		w.deps.Stats.Advance()
	}
	w.deps.Reconciler.Apply(target)

	w.staged = ed
	w.timer = time.AfterFunc(w.delay, func() { w.expire(ed) })
}

// Cancel reverts a staged edit before it commits: timer stopped, local state
// and counters restored, no remote call ever made. Reports whether an edit
// was actually pending.
func (w *PendingWindow) Cancel() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.staged == nil {
		return false
	}
	w.timer.Stop()
	ed := w.staged
	w.staged = nil
	w.timer = nil

	w.deps.Reconciler.Apply(ed.original)
	if w.deps.Stats != nil {
		w.deps.Stats.Restore(ed.statsBefore)
	}
	return true
}

// Pending reports whether an edit is currently staged.
func (w *PendingWindow) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.staged != nil
}

// Close cancels any live timer so a torn-down session cannot fire a dangling
// commit.
func (w *PendingWindow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.staged = nil
	w.timer = nil
}

// expire is the timer callback. ed identifies the edit the timer was armed
// for: if the slot holds anything else by now (cancelled, or flushed by a
// newer Stage racing this callback), there is nothing left to commit — this
// is what keeps a flush and a natural expiry from double-firing.
func (w *PendingWindow) expire(ed *stagedEdit) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.staged != ed {
		return
	}
	w.commit(context.Background(), ed)
}

// commit converts the staged edit into an UpdateCommand and executes it.
// Success registers the command with the history (it becomes undoable the
// permanent way) and journals it. Failure reverts local state and counters
// and notifies the operator — a failed write leaves no history entry.
// mu must be held.
func (w *PendingWindow) commit(ctx context.Context, ed *stagedEdit) {
	w.staged = nil
	w.timer = nil

	cmd := NewUpdateCommand(ed.original, ed.target, w.deps.Gateway, w.deps.Reconciler)
	if err := cmd.Execute(ctx); err != nil {
		w.deps.Logger.Error(fmt.Sprintf("committing edit for %s: %v", ed.target.ID, err), err)
		w.deps.Reconciler.Apply(ed.original)
		if w.deps.Stats != nil {
			w.deps.Stats.Restore(ed.statsBefore)
		}
		if w.deps.Notifier != nil {
			w.deps.Notifier.WriteFailed(ed.target, err)
		}
		return
	}

	w.deps.History.Record(cmd)
	if w.deps.Audit != nil {
		entry := AuditEntry{
			ID:          cmd.ID(),
			PersonID:    cmd.Target().ID,
			Description: cmd.Description(),
			Attrs:       cmd.Attributes(),
			CreatedAt:   time.Now().UTC(),
		}
		if err := w.deps.Audit.LogEdit(ctx, entry); err != nil {
			w.deps.Logger.Warn(fmt.Sprintf("journaling edit %s: %v", cmd.ID(), err), err)
		}
	}
}
