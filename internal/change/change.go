// Package change defines the consumer side of scene edits: the views and
// editors operations notify after they mutate the scene.
//
// Every Notify method is called on the GUI context.
package change

import (
	"github.com/bethropolis/prism/internal/dispatch"
	"github.com/bethropolis/prism/internal/scene"
)

// Dispatcher is the set of contexts an operation may post work to.
type Dispatcher = dispatch.Dispatcher

// ModelConsumer receives node tree changes.
//
// parent and child are usually *scene.Node, but animation edits report an
// *scene.AnimControl parent and an *scene.Animation child.
type ModelConsumer interface {
	// Dispatcher returns the contexts operations run their hops on.
	Dispatcher() Dispatcher
	// CurrentModel returns the root of the edited tree. Engine context only.
	CurrentModel() *scene.Node

	NotifyAddedChild(parent, child any, index int, needSelect bool)
	NotifyRemovedChild(parent, child any)
	NotifyChangedProperty(object any, property string)
	NotifyMoved(prevParent, newParent, node *scene.Node, index int, needSelect bool)
}

// SceneConsumer also receives edits to the scene-level collections.
type SceneConsumer interface {
	ModelConsumer

	// CurrentScene returns the edited scene. Engine context only.
	CurrentScene() *scene.Scene

	NotifyAddedAppState(state *scene.AppState)
	NotifyRemovedAppState(state *scene.AppState)
	NotifyChangedAppState(state *scene.AppState)

	NotifyAddedFilter(filter *scene.Filter)
	NotifyRemovedFilter(filter *scene.Filter)
	NotifyChangedFilter(filter *scene.Filter)

	NotifyChangedLayer(node *scene.Node, prev, next *scene.Layer)
}
