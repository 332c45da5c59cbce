package operation

import (
	"fmt"

	"github.com/bethropolis/prism/internal/scene"
)

// Property names reported through NotifyChangedProperty.
const (
	PropName      = "name"
	PropTransform = "transform"
	PropVisible   = "visible"
	PropMaterial  = "material"
	PropEnabled   = "enabled"
)

// ChangeProperty sets one property of object from prev to next.
type ChangeProperty[E ModelEditor, T any] struct {
	hops
	object   any
	property string
	prev     T
	next     T
	apply    func(T)
}

// NewChangeProperty edits property of object; apply writes a value and runs
// on the engine context.
func NewChangeProperty[E ModelEditor, T any](object any, property string, prev, next T, apply func(T)) *ChangeProperty[E, T] {
	return &ChangeProperty[E, T]{object: object, property: property, prev: prev, next: next, apply: apply}
}

// NewRename renames node from prev to next.
func NewRename[E ModelEditor](node *scene.Node, prev, next string) *ChangeProperty[E, string] {
	return NewChangeProperty[E](node, PropName, prev, next, func(name string) { node.Name = name })
}

// NewSetVisible toggles node visibility.
func NewSetVisible[E ModelEditor](node *scene.Node, visible bool) *ChangeProperty[E, bool] {
	return NewChangeProperty[E](node, PropVisible, !visible, visible, func(v bool) { node.Visible = v })
}

func (op *ChangeProperty[E, T]) Redo(editor E) error {
	op.set(editor, op.next)
	return nil
}

func (op *ChangeProperty[E, T]) Undo(editor E) error {
	op.set(editor, op.prev)
	return nil
}

func (op *ChangeProperty[E, T]) set(editor E, v T) {
	op.run(editor.Dispatcher(), func() error {
		op.apply(v)
		return nil
	}, func() {
		editor.NotifyChangedProperty(op.object, op.property)
	})
}

func (op *ChangeProperty[E, T]) Describe() string {
	return fmt.Sprintf("change %s to %v", op.property, op.next)
}

// Transform replaces a node's local transform. After each apply the node's
// sleeping rigid bodies are woken so physics picks up the new placement.
type Transform[E ModelEditor] struct {
	hops
	node *scene.Node
	prev scene.Transform
	next scene.Transform
}

// NewTransform moves node from prev to next.
func NewTransform[E ModelEditor](node *scene.Node, prev, next scene.Transform) *Transform[E] {
	return &Transform[E]{node: node, prev: prev, next: next}
}

func (op *Transform[E]) Redo(editor E) error {
	op.set(editor, op.next)
	return nil
}

func (op *Transform[E]) Undo(editor E) error {
	op.set(editor, op.prev)
	return nil
}

func (op *Transform[E]) set(editor E, t scene.Transform) {
	op.run(editor.Dispatcher(), func() error {
		op.node.Transform = t
		scene.ReactivatePhysics(op.node)
		return nil
	}, func() {
		editor.NotifyChangedProperty(op.node, PropTransform)
	})
}

func (op *Transform[E]) Describe() string { return "transform " + op.node.Name }

// ChangeLayer moves node between layers; a nil layer means none.
type ChangeLayer[E SceneEditor] struct {
	hops
	node *scene.Node
	prev *scene.Layer
	next *scene.Layer
}

// NewChangeLayer moves node from prev to next.
func NewChangeLayer[E SceneEditor](node *scene.Node, prev, next *scene.Layer) *ChangeLayer[E] {
	return &ChangeLayer[E]{node: node, prev: prev, next: next}
}

func (op *ChangeLayer[E]) Redo(editor E) error {
	op.set(editor, op.prev, op.next)
	return nil
}

func (op *ChangeLayer[E]) Undo(editor E) error {
	op.set(editor, op.next, op.prev)
	return nil
}

func (op *ChangeLayer[E]) set(editor E, from, to *scene.Layer) {
	op.run(editor.Dispatcher(), func() error {
		op.node.Layer = to
		return nil
	}, func() {
		editor.NotifyChangedLayer(op.node, from, to)
	})
}

func (op *ChangeLayer[E]) Describe() string {
	if op.next == nil {
		return "clear layer of " + op.node.Name
	}
	return fmt.Sprintf("move %s to layer %s", op.node.Name, op.next.Name)
}
