// Package editing is the reversible-edit engine: commands that patch single
// records upstream, an undo/redo history over them, and the single-slot
// pending window that gives every fix a short grace period before it commits.
package editing

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kundihq/kundi/core/roster"
)

// Attributes is the partial-update payload sent to the ChMS people endpoint.
type Attributes map[string]interface{}

// attribute names understood by the people endpoint
const (
	attrName  = "name"
	attrGrade = "grade"
	attrEmail = "email"
	attrPhone = "phone_number"

	// AttrChild is the child/adult role flag. The generic diff does not
	// compare it; batch role swaps pass it through the always list.
	AttrChild = "child"
)

type (
	// WriteGateway issues one authenticated partial update upstream.
	// Retries and the sandbox marker are the gateway's business; commands
	// treat any rejection uniformly as "write failed".
	WriteGateway interface {
		UpdatePerson(ctx context.Context, id string, attrs Attributes) error
	}

	// Reconciler is the single point that folds a remote-confirmed student
	// state back into the local projection. Commands emit through it instead
	// of holding ad hoc state-change closures.
	Reconciler interface {
		Apply(s roster.Student)
	}

	Command interface {
		// Execute applies the edit upstream; a no-op diff makes no network
		// call. Also the redo path.
		Execute(ctx context.Context) error
		// Undo reverses the edit by replaying the diff in the opposite
		// direction. A true inverse, not "set to some prior value".
		Undo(ctx context.Context) error
		Description() string
	}
)

// UpdateAttributes computes the minimal patch that takes original to target.
// Only fields that actually changed are included. Extra comparisons beyond
// the standard editable fields are declared through always (see AttrChild);
// special-casing is data here, not code in the callers.
func UpdateAttributes(original, target roster.Student, always ...string) Attributes {
	attrs := Attributes{}
	if original.Name != target.Name {
		attrs[attrName] = target.Name
	}
	if original.Grade != target.Grade {
		attrs[attrGrade] = target.Grade
	}
	if original.Email != target.Email {
		attrs[attrEmail] = target.Email
	}
	if original.Phone != target.Phone {
		attrs[attrPhone] = target.Phone
	}
	for _, fld := range always {
		if fld == AttrChild && original.IsChild != target.IsChild {
			attrs[AttrChild] = target.IsChild
		}
	}
	return attrs
}

// UpdateCommand is one reversible single-record edit. The original and target
// snapshots are immutable once the command exists; undo and redo only replay
// them.
type UpdateCommand struct {
	id       string
	original roster.Student
	target   roster.Student
	gw       WriteGateway
	rec      Reconciler
}

var _ Command = (*UpdateCommand)(nil)

func NewUpdateCommand(original, target roster.Student, gw WriteGateway, rec Reconciler) *UpdateCommand {
	return &UpdateCommand{
		id:       uuid.New().String(),
		original: original,
		target:   target,
		gw:       gw,
		rec:      rec,
	}
}

func (cmd *UpdateCommand) ID() string { return cmd.id }

func (cmd *UpdateCommand) Description() string {
	return "Update " + cmd.target.Name
}

func (cmd *UpdateCommand) Target() roster.Student { return cmd.target }

// Attributes returns the forward diff this command sends on Execute.
func (cmd *UpdateCommand) Attributes() Attributes {
	return UpdateAttributes(cmd.original, cmd.target)
}

func (cmd *UpdateCommand) Execute(ctx context.Context) error {
	return cmd.apply(ctx, cmd.original, cmd.target)
}

func (cmd *UpdateCommand) Undo(ctx context.Context) error {
	return cmd.apply(ctx, cmd.target, cmd.original)
}

func (cmd *UpdateCommand) apply(ctx context.Context, from, to roster.Student) error {
	attrs := UpdateAttributes(from, to)
	if len(attrs) == 0 {
		return nil
	}
	if err := cmd.gw.UpdatePerson(ctx, to.ID, attrs); err != nil {
		return errors.Wrap(err, "updating person "+to.ID)
	}
	cmd.rec.Apply(to)
	return nil
}

// BatchUpdate is one (original, target) pair inside a batch.
type BatchUpdate struct {
	Original roster.Student
	Target   roster.Student
}

// BatchUpdateCommand applies the single-edit protocol to an ordered list of
// pairs, one remote call per non-empty diff. Not transactional: when call N
// fails, calls 1..N-1 have already taken effect upstream and stay there.
type BatchUpdateCommand struct {
	id      string
	updates []BatchUpdate
	gw      WriteGateway
	rec     Reconciler
	desc    string
}

var _ Command = (*BatchUpdateCommand)(nil)

func NewBatchUpdateCommand(desc string, updates []BatchUpdate, gw WriteGateway, rec Reconciler) *BatchUpdateCommand {
	return &BatchUpdateCommand{
		id:      uuid.New().String(),
		updates: updates,
		gw:      gw,
		rec:     rec,
		desc:    desc,
	}
}

func (cmd *BatchUpdateCommand) ID() string { return cmd.id }

func (cmd *BatchUpdateCommand) Description() string { return cmd.desc }

func (cmd *BatchUpdateCommand) Execute(ctx context.Context) error {
	for _, u := range cmd.updates {
		if err := applyPair(ctx, cmd.gw, cmd.rec, u.Original, u.Target); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *BatchUpdateCommand) Undo(ctx context.Context) error {
	for _, u := range cmd.updates {
		if err := applyPair(ctx, cmd.gw, cmd.rec, u.Target, u.Original); err != nil {
			return err
		}
	}
	return nil
}

func applyPair(ctx context.Context, gw WriteGateway, rec Reconciler, from, to roster.Student) error {
	attrs := UpdateAttributes(from, to, AttrChild)
	if len(attrs) == 0 {
		return nil
	}
	if err := gw.UpdatePerson(ctx, to.ID, attrs); err != nil {
		return errors.Wrap(err, "updating person "+to.ID)
	}
	rec.Apply(to)
	return nil
}
