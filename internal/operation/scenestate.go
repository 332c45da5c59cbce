package operation

import (
	"fmt"

	"github.com/bethropolis/prism/internal/scene"
)

// AddAppState inserts an app state into the edited scene.
type AddAppState[E SceneEditor] struct {
	hops
	state *scene.AppState
	index int
}

// NewAddAppState adds state at index; a negative index appends.
func NewAddAppState[E SceneEditor](state *scene.AppState, index int) *AddAppState[E] {
	return &AddAppState[E]{state: state, index: index}
}

func (op *AddAppState[E]) Redo(editor E) error {
	op.run(editor.Dispatcher(), func() error {
		editor.CurrentScene().InsertAppState(op.state, op.index)
		return nil
	}, func() { editor.NotifyAddedAppState(op.state) })
	return nil
}

func (op *AddAppState[E]) Undo(editor E) error {
	op.run(editor.Dispatcher(), func() error {
		return removeAppState(editor.CurrentScene(), op.state)
	}, func() { editor.NotifyRemovedAppState(op.state) })
	return nil
}

func (op *AddAppState[E]) Describe() string { return "add app state " + op.state.Name }

// RemoveAppState removes an app state, putting it back at its index on undo.
type RemoveAppState[E SceneEditor] struct {
	hops
	state *scene.AppState
	index int
}

func NewRemoveAppState[E SceneEditor](state *scene.AppState, index int) *RemoveAppState[E] {
	return &RemoveAppState[E]{state: state, index: index}
}

func (op *RemoveAppState[E]) Redo(editor E) error {
	op.run(editor.Dispatcher(), func() error {
		return removeAppState(editor.CurrentScene(), op.state)
	}, func() { editor.NotifyRemovedAppState(op.state) })
	return nil
}

func (op *RemoveAppState[E]) Undo(editor E) error {
	op.run(editor.Dispatcher(), func() error {
		editor.CurrentScene().InsertAppState(op.state, op.index)
		return nil
	}, func() { editor.NotifyAddedAppState(op.state) })
	return nil
}

func (op *RemoveAppState[E]) Describe() string { return "remove app state " + op.state.Name }

// ChangeAppStateEnabled toggles an app state.
type ChangeAppStateEnabled[E SceneEditor] struct {
	hops
	state   *scene.AppState
	enabled bool
}

func NewChangeAppStateEnabled[E SceneEditor](state *scene.AppState, enabled bool) *ChangeAppStateEnabled[E] {
	return &ChangeAppStateEnabled[E]{state: state, enabled: enabled}
}

func (op *ChangeAppStateEnabled[E]) Redo(editor E) error {
	op.set(editor, op.enabled)
	return nil
}

func (op *ChangeAppStateEnabled[E]) Undo(editor E) error {
	op.set(editor, !op.enabled)
	return nil
}

func (op *ChangeAppStateEnabled[E]) set(editor E, enabled bool) {
	op.run(editor.Dispatcher(), func() error {
		op.state.Enabled = enabled
		return nil
	}, func() { editor.NotifyChangedAppState(op.state) })
}

func (op *ChangeAppStateEnabled[E]) Describe() string {
	return fmt.Sprintf("set app state %s enabled=%t", op.state.Name, op.enabled)
}

// AddFilter inserts a filter into the edited scene.
type AddFilter[E SceneEditor] struct {
	hops
	filter *scene.Filter
	index  int
}

// NewAddFilter adds filter at index; a negative index appends.
func NewAddFilter[E SceneEditor](filter *scene.Filter, index int) *AddFilter[E] {
	return &AddFilter[E]{filter: filter, index: index}
}

func (op *AddFilter[E]) Redo(editor E) error {
	op.run(editor.Dispatcher(), func() error {
		editor.CurrentScene().InsertFilter(op.filter, op.index)
		return nil
	}, func() { editor.NotifyAddedFilter(op.filter) })
	return nil
}

func (op *AddFilter[E]) Undo(editor E) error {
	op.run(editor.Dispatcher(), func() error {
		return removeFilter(editor.CurrentScene(), op.filter)
	}, func() { editor.NotifyRemovedFilter(op.filter) })
	return nil
}

func (op *AddFilter[E]) Describe() string { return "add filter " + op.filter.Name }

// RemoveFilter removes a filter, putting it back at its index on undo.
type RemoveFilter[E SceneEditor] struct {
	hops
	filter *scene.Filter
	index  int
}

func NewRemoveFilter[E SceneEditor](filter *scene.Filter, index int) *RemoveFilter[E] {
	return &RemoveFilter[E]{filter: filter, index: index}
}

func (op *RemoveFilter[E]) Redo(editor E) error {
	op.run(editor.Dispatcher(), func() error {
		return removeFilter(editor.CurrentScene(), op.filter)
	}, func() { editor.NotifyRemovedFilter(op.filter) })
	return nil
}

func (op *RemoveFilter[E]) Undo(editor E) error {
	op.run(editor.Dispatcher(), func() error {
		editor.CurrentScene().InsertFilter(op.filter, op.index)
		return nil
	}, func() { editor.NotifyAddedFilter(op.filter) })
	return nil
}

func (op *RemoveFilter[E]) Describe() string { return "remove filter " + op.filter.Name }

// ChangeFilterEnabled toggles a filter.
type ChangeFilterEnabled[E SceneEditor] struct {
	hops
	filter  *scene.Filter
	enabled bool
}

func NewChangeFilterEnabled[E SceneEditor](filter *scene.Filter, enabled bool) *ChangeFilterEnabled[E] {
	return &ChangeFilterEnabled[E]{filter: filter, enabled: enabled}
}

func (op *ChangeFilterEnabled[E]) Redo(editor E) error {
	op.set(editor, op.enabled)
	return nil
}

func (op *ChangeFilterEnabled[E]) Undo(editor E) error {
	op.set(editor, !op.enabled)
	return nil
}

func (op *ChangeFilterEnabled[E]) set(editor E, enabled bool) {
	op.run(editor.Dispatcher(), func() error {
		op.filter.Enabled = enabled
		return nil
	}, func() { editor.NotifyChangedFilter(op.filter) })
}

func (op *ChangeFilterEnabled[E]) Describe() string {
	return fmt.Sprintf("set filter %s enabled=%t", op.filter.Name, op.enabled)
}

func removeAppState(s *scene.Scene, state *scene.AppState) error {
	if s.RemoveAppState(state) < 0 {
		return fmt.Errorf("remove app state %q: not in scene", state.Name)
	}
	return nil
}

func removeFilter(s *scene.Scene, filter *scene.Filter) error {
	if s.RemoveFilter(filter) < 0 {
		return fmt.Errorf("remove filter %q: not in scene", filter.Name)
	}
	return nil
}
