package editor

import (
	"github.com/bethropolis/prism/internal/change"
	"github.com/bethropolis/prism/internal/event"
	"github.com/bethropolis/prism/internal/scene"
)

// Dispatcher returns the contexts operations run on.
func (e *SceneEditor) Dispatcher() change.Dispatcher { return e.rt }

// CurrentModel returns the scene root. Engine context only.
func (e *SceneEditor) CurrentModel() *scene.Node { return e.scene.Root }

// CurrentScene returns the scene. Engine context only.
func (e *SceneEditor) CurrentScene() *scene.Scene { return e.scene }

func (e *SceneEditor) NotifyAddedChild(parent, child any, index int, needSelect bool) {
	e.events.Dispatch(event.TypeChildAdded, event.ChildData{Parent: parent, Child: child, Index: index, NeedSelect: needSelect})
}

func (e *SceneEditor) NotifyRemovedChild(parent, child any) {
	e.events.Dispatch(event.TypeChildRemoved, event.ChildData{Parent: parent, Child: child, Index: -1})
}

func (e *SceneEditor) NotifyChangedProperty(object any, property string) {
	e.events.Dispatch(event.TypePropertyChanged, event.PropertyData{Object: object, Property: property})
}

func (e *SceneEditor) NotifyMoved(prevParent, newParent, node *scene.Node, index int, needSelect bool) {
	e.events.Dispatch(event.TypeNodeMoved, event.MovedData{
		PrevParent: prevParent,
		NewParent:  newParent,
		Node:       node,
		Index:      index,
		NeedSelect: needSelect,
	})
}

func (e *SceneEditor) NotifyAddedAppState(state *scene.AppState) {
	e.events.Dispatch(event.TypeAppStateAdded, event.AppStateData{State: state})
}

func (e *SceneEditor) NotifyRemovedAppState(state *scene.AppState) {
	e.events.Dispatch(event.TypeAppStateRemoved, event.AppStateData{State: state})
}

func (e *SceneEditor) NotifyChangedAppState(state *scene.AppState) {
	e.events.Dispatch(event.TypeAppStateChanged, event.AppStateData{State: state})
}

func (e *SceneEditor) NotifyAddedFilter(filter *scene.Filter) {
	e.events.Dispatch(event.TypeFilterAdded, event.FilterData{Filter: filter})
}

func (e *SceneEditor) NotifyRemovedFilter(filter *scene.Filter) {
	e.events.Dispatch(event.TypeFilterRemoved, event.FilterData{Filter: filter})
}

func (e *SceneEditor) NotifyChangedFilter(filter *scene.Filter) {
	e.events.Dispatch(event.TypeFilterChanged, event.FilterData{Filter: filter})
}

func (e *SceneEditor) NotifyChangedLayer(node *scene.Node, prev, next *scene.Layer) {
	e.events.Dispatch(event.TypeLayerChanged, event.LayerData{Node: node, Prev: prev, Next: next})
}
