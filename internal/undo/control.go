package undo

import (
	"github.com/bethropolis/prism/internal/dispatch"
	"github.com/bethropolis/prism/internal/logger"
)

// DefaultHistorySize is the number of applied operations kept for undo.
const DefaultHistorySize = 20

const logTag = "history"

// Option configures a Control.
type Option func(*settings)

type settings struct {
	historySize int
	onChange    func()
}

// WithHistorySize bounds the applied history; values below 1 keep the default.
func WithHistorySize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithOnChange registers fn to run on the GUI context after every history mutation.
func WithOnChange(fn func()) Option {
	return func(s *settings) { s.onChange = fn }
}

// Control is the single gate for mutating an editor's undo/redo history.
//
// Every mutating call runs on the GUI context: it is applied immediately when
// the caller is already there, and posted otherwise. Because the GUI context is
// a single FIFO goroutine, history mutations are applied in request order and
// never concurrently, so the two sequences need no lock.
//
// Control does not wait for asynchronous work an operation dispatches itself;
// the history records the operation once its top-level action returns.
type Control[E Editor] struct {
	editor   E
	gui      dispatch.Context
	size     int
	onChange func()

	applied  []Operation[E] // most recent last
	redoable []Operation[E] // most recent last
}

// NewControl creates a control applying operations to editor on the gui context.
func NewControl[E Editor](editor E, gui dispatch.Context, opts ...Option) *Control[E] {
	s := settings{historySize: DefaultHistorySize}
	for _, opt := range opts {
		opt(&s)
	}
	return &Control[E]{
		editor:   editor,
		gui:      gui,
		size:     s.historySize,
		onChange: s.onChange,
		applied:  make([]Operation[E], 0, s.historySize),
	}
}

// HistorySize returns the bound on applied operations.
func (c *Control[E]) HistorySize() int { return c.size }

// Execute applies op and records it, discarding the redo buffer.
//
// The returned error is op's failure when the call was applied immediately.
// A posted call returns nil and its failure reaches the GUI context's fault
// boundary instead. A failed op is not recorded and the change counter is untouched.
func (c *Control[E]) Execute(op Operation[E]) error {
	if op == nil {
		logger.WarnTagf(logTag, "History: ignoring nil operation")
		return nil
	}
	return c.onGUI(func() error { return c.execute(op) })
}

// Undo reverts the most recent applied operation. Empty history is a no-op.
func (c *Control[E]) Undo() error {
	return c.onGUI(c.undo)
}

// Redo re-applies the most recently undone operation. An empty redo buffer is a no-op.
func (c *Control[E]) Redo() error {
	return c.onGUI(c.redo)
}

// Clear empties both sequences without touching the change counter.
func (c *Control[E]) Clear() {
	_ = c.onGUI(func() error {
		c.clear()
		return nil
	})
}

func (c *Control[E]) onGUI(task dispatch.Task) error {
	if c.gui.InContext() {
		return task()
	}
	c.gui.Post(task)
	return nil
}

func (c *Control[E]) execute(op Operation[E]) error {
	if err := op.Redo(c.editor); err != nil {
		return err
	}
	c.editor.IncrementChange()
	c.pushApplied(op)

	for i := range c.redoable {
		c.redoable[i] = nil
	}
	c.redoable = c.redoable[:0]

	logger.DebugTagf(logTag, "History: executed %s. Applied: %d", Describe(op), len(c.applied))
	c.changed()
	return nil
}

func (c *Control[E]) undo() error {
	op, ok := pop(&c.applied)
	if !ok {
		logger.DebugTagf(logTag, "History: nothing to undo.")
		return nil
	}
	if err := op.Undo(c.editor); err != nil {
		c.applied = append(c.applied, op) // keep it undoable
		return err
	}
	c.editor.DecrementChange()
	c.redoable = append(c.redoable, op)

	logger.DebugTagf(logTag, "History: undid %s. Applied: %d, Redoable: %d", Describe(op), len(c.applied), len(c.redoable))
	c.changed()
	return nil
}

func (c *Control[E]) redo() error {
	op, ok := pop(&c.redoable)
	if !ok {
		logger.DebugTagf(logTag, "History: nothing to redo.")
		return nil
	}
	if err := op.Redo(c.editor); err != nil {
		c.redoable = append(c.redoable, op)
		return err
	}
	c.editor.IncrementChange()
	c.pushApplied(op)

	logger.DebugTagf(logTag, "History: redid %s. Applied: %d, Redoable: %d", Describe(op), len(c.applied), len(c.redoable))
	c.changed()
	return nil
}

func (c *Control[E]) clear() {
	for i := range c.applied {
		c.applied[i] = nil
	}
	for i := range c.redoable {
		c.redoable[i] = nil
	}
	c.applied = c.applied[:0]
	c.redoable = c.redoable[:0]
	logger.DebugTagf(logTag, "History: cleared.")
	c.changed()
}

// pushApplied appends op and drops the oldest entries past the bound.
// Redo goes through here too so the bound holds on every path.
func (c *Control[E]) pushApplied(op Operation[E]) {
	c.applied = append(c.applied, op)
	if over := len(c.applied) - c.size; over > 0 {
		for i := 0; i < over; i++ {
			c.applied[i] = nil
		}
		c.applied = append(c.applied[:0], c.applied[over:]...)
	}
}

func (c *Control[E]) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func pop[T any](s *[]T) (T, bool) {
	var zero T
	n := len(*s)
	if n == 0 {
		return zero, false
	}
	v := (*s)[n-1]
	(*s)[n-1] = zero
	*s = (*s)[:n-1]
	return v, true
}

// The accessors below read history state and, like the mutators, must be
// called on the GUI context.

// Len returns the number of undoable operations.
func (c *Control[E]) Len() int { return len(c.applied) }

// RedoLen returns the number of redoable operations.
func (c *Control[E]) RedoLen() int { return len(c.redoable) }

// CanUndo reports whether Undo would do something.
func (c *Control[E]) CanUndo() bool { return len(c.applied) > 0 }

// CanRedo reports whether Redo would do something.
func (c *Control[E]) CanRedo() bool { return len(c.redoable) > 0 }

// Applied returns a copy of the applied sequence, oldest first.
func (c *Control[E]) Applied() []Operation[E] {
	return append([]Operation[E](nil), c.applied...)
}

// Redoable returns a copy of the redo buffer, oldest first.
func (c *Control[E]) Redoable() []Operation[E] {
	return append([]Operation[E](nil), c.redoable...)
}
