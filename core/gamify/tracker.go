package gamify

import (
	"context"
	"fmt"
	"sync"

	"github.com/kundihq/kundi/core"
)

type (
	// Repository persists the steward's progress between sessions.
	Repository interface {
		Load(ctx context.Context) (State, error)
		Save(ctx context.Context, s State) error
	}

	// Tracker is the session-owned, mutable view over the pure Advance
	// transition. Persistence is best-effort: a failed Save never blocks an
	// edit.
	Tracker struct {
		mu     sync.Mutex
		state  State
		repo   Repository // optional
		logger core.Logger
	}
)

func NewTracker(ctx context.Context, repo Repository, logger core.Logger) *Tracker {
	t := &Tracker{repo: repo, logger: logger}
	if repo != nil {
		state, err := repo.Load(ctx)
		if err != nil {
			logger.Warn(fmt.Sprintf("loading gamification state: %v", err), err)
		} else {
			t.state = state
		}
	}
	return t
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Advance counts one fix and returns any newly unlocked badges.
func (t *Tracker) Advance() (State, []Badge) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, badges := Advance(t.state)
	t.state = next
	t.persist()
	return next, badges
}

// Restore rolls the state back to a snapshot taken before an optimistic bump.
func (t *Tracker) Restore(s State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = s
	t.persist()
}

// persist saves best-effort; mu must be held.
func (t *Tracker) persist() {
	if t.repo == nil {
		return
	}
	if err := t.repo.Save(context.Background(), t.state); err != nil {
		t.logger.Warn(fmt.Sprintf("saving gamification state: %v", err), err)
	}
}
