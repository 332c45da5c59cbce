package operation

import (
	"fmt"

	"github.com/bethropolis/prism/internal/scene"
)

// AddChild attaches child under parent.
type AddChild[E ModelEditor] struct {
	hops
	parent     *scene.Node
	child      *scene.Node
	index      int
	needSelect bool
	copied     bool
}

// NewAddChild adds child at index; a negative index appends.
func NewAddChild[E ModelEditor](parent, child *scene.Node, index int, needSelect bool) *AddChild[E] {
	return &AddChild[E]{parent: parent, child: child, index: index, needSelect: needSelect}
}

// NewPaste adds a fresh copy of copied under parent. The copy is taken now,
// so every redo re-attaches the same node.
func NewPaste[E ModelEditor](parent, copied *scene.Node, index int) *AddChild[E] {
	return &AddChild[E]{parent: parent, child: copied.Clone(), index: index, needSelect: true, copied: true}
}

// Child returns the node this operation attaches.
func (op *AddChild[E]) Child() *scene.Node { return op.child }

// Copied reports whether the child is a pasted copy.
func (op *AddChild[E]) Copied() bool { return op.copied }

func (op *AddChild[E]) Redo(editor E) error {
	index := op.index
	op.run(editor.Dispatcher(), func() error {
		if err := op.parent.AttachAt(op.child, op.index); err != nil {
			return fmt.Errorf("add %s to %s: %w", op.child, op.parent, err)
		}
		index = op.parent.IndexOf(op.child)
		return nil
	}, func() {
		editor.NotifyAddedChild(op.parent, op.child, index, op.needSelect)
	})
	return nil
}

func (op *AddChild[E]) Undo(editor E) error {
	op.run(editor.Dispatcher(), func() error {
		if _, err := op.parent.Detach(op.child); err != nil {
			return fmt.Errorf("remove %s from %s: %w", op.child, op.parent, err)
		}
		return nil
	}, func() {
		editor.NotifyRemovedChild(op.parent, op.child)
	})
	return nil
}

func (op *AddChild[E]) Describe() string {
	if op.copied {
		return "paste " + op.child.Name
	}
	return "add " + op.child.Name
}

// RemoveChild detaches child from parent and puts it back at the same index on undo.
type RemoveChild[E ModelEditor] struct {
	hops
	parent *scene.Node
	child  *scene.Node
	index  int
}

// NewRemoveChild removes child, which the caller sees at index under parent.
func NewRemoveChild[E ModelEditor](parent, child *scene.Node, index int) *RemoveChild[E] {
	return &RemoveChild[E]{parent: parent, child: child, index: index}
}

func (op *RemoveChild[E]) Redo(editor E) error {
	op.run(editor.Dispatcher(), func() error {
		if _, err := op.parent.Detach(op.child); err != nil {
			return fmt.Errorf("remove %s from %s: %w", op.child, op.parent, err)
		}
		return nil
	}, func() {
		editor.NotifyRemovedChild(op.parent, op.child)
	})
	return nil
}

func (op *RemoveChild[E]) Undo(editor E) error {
	index := op.index
	op.run(editor.Dispatcher(), func() error {
		if err := op.parent.AttachAt(op.child, op.index); err != nil {
			return fmt.Errorf("restore %s under %s: %w", op.child, op.parent, err)
		}
		index = op.parent.IndexOf(op.child)
		return nil
	}, func() {
		editor.NotifyAddedChild(op.parent, op.child, index, true)
	})
	return nil
}

func (op *RemoveChild[E]) Describe() string { return "delete " + op.child.Name }

// Move reparents node, or reorders it when both parents are the same.
type Move[E ModelEditor] struct {
	hops
	node       *scene.Node
	prevParent *scene.Node
	prevIndex  int
	newParent  *scene.Node
	newIndex   int
}

// NewMove moves node from prevParent[prevIndex] to newParent[newIndex].
func NewMove[E ModelEditor](node, prevParent *scene.Node, prevIndex int, newParent *scene.Node, newIndex int) *Move[E] {
	return &Move[E]{node: node, prevParent: prevParent, prevIndex: prevIndex, newParent: newParent, newIndex: newIndex}
}

func (op *Move[E]) Redo(editor E) error {
	op.move(editor, op.prevParent, op.newParent, op.newIndex)
	return nil
}

func (op *Move[E]) Undo(editor E) error {
	op.move(editor, op.newParent, op.prevParent, op.prevIndex)
	return nil
}

func (op *Move[E]) move(editor E, from, to *scene.Node, index int) {
	at := index
	op.run(editor.Dispatcher(), func() error {
		if op.node.Parent() != from {
			return fmt.Errorf("move %s: %w", op.node, scene.ErrNotChild)
		}
		if err := to.AttachAt(op.node, index); err != nil {
			return fmt.Errorf("move %s to %s: %w", op.node, to, err)
		}
		at = to.IndexOf(op.node)
		return nil
	}, func() {
		editor.NotifyMoved(from, to, op.node, at, true)
	})
}

func (op *Move[E]) Describe() string { return "move " + op.node.Name }
