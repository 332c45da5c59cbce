package operation

import (
	"fmt"

	"github.com/bethropolis/prism/internal/scene"
)

// AddAnimation appends anim to control.
type AddAnimation[E ModelEditor] struct {
	hops
	control *scene.AnimControl
	anim    *scene.Animation
}

func NewAddAnimation[E ModelEditor](control *scene.AnimControl, anim *scene.Animation) *AddAnimation[E] {
	return &AddAnimation[E]{control: control, anim: anim}
}

func (op *AddAnimation[E]) Redo(editor E) error {
	index := -1
	op.run(editor.Dispatcher(), func() error {
		op.control.AddAnim(op.anim)
		index = op.control.IndexOf(op.anim)
		return nil
	}, func() {
		editor.NotifyAddedChild(op.control, op.anim, index, true)
	})
	return nil
}

func (op *AddAnimation[E]) Undo(editor E) error {
	op.run(editor.Dispatcher(), func() error {
		if op.control.RemoveAnim(op.anim) < 0 {
			return fmt.Errorf("remove animation %q: not in control", op.anim.Name)
		}
		return nil
	}, func() {
		editor.NotifyRemovedChild(op.control, op.anim)
	})
	return nil
}

func (op *AddAnimation[E]) Describe() string { return "add animation " + op.anim.Name }

// RemoveAnimation removes anim from control, restoring it at its old index on undo.
type RemoveAnimation[E ModelEditor] struct {
	hops
	control *scene.AnimControl
	anim    *scene.Animation
	index   int
}

// NewRemoveAnimation removes anim, which the caller sees at index.
func NewRemoveAnimation[E ModelEditor](control *scene.AnimControl, anim *scene.Animation, index int) *RemoveAnimation[E] {
	return &RemoveAnimation[E]{control: control, anim: anim, index: index}
}

func (op *RemoveAnimation[E]) Redo(editor E) error {
	op.run(editor.Dispatcher(), func() error {
		if op.control.RemoveAnim(op.anim) < 0 {
			return fmt.Errorf("remove animation %q: not in control", op.anim.Name)
		}
		return nil
	}, func() {
		editor.NotifyRemovedChild(op.control, op.anim)
	})
	return nil
}

func (op *RemoveAnimation[E]) Undo(editor E) error {
	index := op.index
	op.run(editor.Dispatcher(), func() error {
		op.control.InsertAnim(op.anim, op.index)
		index = op.control.IndexOf(op.anim)
		return nil
	}, func() {
		editor.NotifyAddedChild(op.control, op.anim, index, true)
	})
	return nil
}

func (op *RemoveAnimation[E]) Describe() string { return "remove animation " + op.anim.Name }
