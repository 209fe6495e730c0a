package editing

import (
	"context"
	"sync"
)

// History is a classic undo/redo stack pair. It knows nothing about domain
// fields; it only replays Commands. The mutex makes serialized undo/redo a
// hard guarantee instead of a UI convention — concurrent calls queue up
// rather than interleave.
type History struct {
	mu     sync.Mutex
	done   []Command
	undone []Command
}

func NewHistory() *History {
	return &History{}
}

// Record registers an already-executed command. Pure bookkeeping: Record
// never runs the command, the caller has executed it beforehand. Recording
// anything new clears the redo stack.
func (h *History) Record(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done = append(h.done, cmd)
	h.undone = nil
}

// Undo reverses the most recent command and moves it to the redo stack.
// Returns the command undone, or nil when there was nothing to undo.
// On failure the command stays on the done stack, still undoable.
func (h *History) Undo(ctx context.Context) (Command, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.done) == 0 {
		return nil, nil
	}
	cmd := h.done[len(h.done)-1]
	if err := cmd.Undo(ctx); err != nil {
		return nil, err
	}
	h.done = h.done[:len(h.done)-1]
	h.undone = append(h.undone, cmd)
	return cmd, nil
}

// Redo replays the most recently undone command and moves it back to the
// done stack. Returns the command redone, or nil when the redo stack is
// empty. On failure the command stays redoable.
func (h *History) Redo(ctx context.Context) (Command, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undone) == 0 {
		return nil, nil
	}
	cmd := h.undone[len(h.undone)-1]
	if err := cmd.Execute(ctx); err != nil {
		return nil, err
	}
	h.undone = h.undone[:len(h.undone)-1]
	h.done = append(h.done, cmd)
	return cmd, nil
}

func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.done) > 0
}

func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undone) > 0
}

// Summary lists the descriptions of both stacks, oldest first.
func (h *History) Summary() (done, undone []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, cmd := range h.done {
		done = append(done, cmd.Description())
	}
	for _, cmd := range h.undone {
		undone = append(undone, cmd.Description())
	}
	return done, undone
}
