// Package undo provides reversible editor operations and the control that keeps
// their bounded undo/redo history.
package undo

import "fmt"

// Editor is the undoable editor operations are applied against. The change
// counter is only touched from the GUI context.
type Editor interface {
	IncrementChange()
	DecrementChange()
}

// Operation is one reversible change. Undo must be the exact inverse of Redo.
// Operations hold references into the scene but never own it, and their payload
// is fixed at construction so they can be replayed any number of times.
type Operation[E any] interface {
	Redo(editor E) error
	Undo(editor E) error
}

// Describer is implemented by operations that can name themselves for logs
// and the status bar.
type Describer interface {
	Describe() string
}

// Func adapts a pair of closures to an Operation.
type Func[E any] struct {
	Name     string
	RedoFunc func(E) error
	UndoFunc func(E) error
}

// Redo calls RedoFunc.
func (f Func[E]) Redo(editor E) error {
	if f.RedoFunc == nil {
		return nil
	}
	return f.RedoFunc(editor)
}

// Undo calls UndoFunc.
func (f Func[E]) Undo(editor E) error {
	if f.UndoFunc == nil {
		return nil
	}
	return f.UndoFunc(editor)
}

// Describe returns Name.
func (f Func[E]) Describe() string { return f.Name }

// Describe names op for log lines.
func Describe(op interface{}) string {
	if d, ok := op.(Describer); ok {
		return d.Describe()
	}
	return fmt.Sprintf("%T", op)
}
