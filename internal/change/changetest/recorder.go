// Package changetest provides a recording scene consumer for tests.
package changetest

import (
	"sync"

	"github.com/bethropolis/prism/internal/change"
	"github.com/bethropolis/prism/internal/scene"
	"github.com/bethropolis/prism/internal/undo"
)

// Kind names a notification.
type Kind string

const (
	AddedChild      Kind = "added-child"
	RemovedChild    Kind = "removed-child"
	ChangedProperty Kind = "changed-property"
	Moved           Kind = "moved"
	AddedAppState   Kind = "added-app-state"
	RemovedAppState Kind = "removed-app-state"
	ChangedAppState Kind = "changed-app-state"
	AddedFilter     Kind = "added-filter"
	RemovedFilter   Kind = "removed-filter"
	ChangedFilter   Kind = "changed-filter"
	ChangedLayer    Kind = "changed-layer"
)

// Notification is one recorded call. Unused fields stay zero.
type Notification struct {
	Kind       Kind
	Parent     any
	Child      any
	Index      int
	NeedSelect bool
	Property   string
	PrevParent *scene.Node
	PrevLayer  *scene.Layer
	NextLayer  *scene.Layer
}

// Recorder is a change.SceneConsumer and undo.Editor that keeps every
// notification it receives.
type Recorder struct {
	undo.Counter

	Scene *scene.Scene
	Disp  change.Dispatcher

	mu    sync.Mutex
	notes []Notification
}

var _ change.SceneConsumer = (*Recorder)(nil)

// New returns a recorder over s posting through d.
func New(s *scene.Scene, d change.Dispatcher) *Recorder {
	return &Recorder{Scene: s, Disp: d}
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

// Reset drops the recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.notes = nil
	r.mu.Unlock()
}

func (r *Recorder) record(n Notification) {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	r.mu.Unlock()
}

func (r *Recorder) Dispatcher() change.Dispatcher { return r.Disp }
func (r *Recorder) CurrentModel() *scene.Node     { return r.Scene.Root }
func (r *Recorder) CurrentScene() *scene.Scene    { return r.Scene }

func (r *Recorder) NotifyAddedChild(parent, child any, index int, needSelect bool) {
	r.record(Notification{Kind: AddedChild, Parent: parent, Child: child, Index: index, NeedSelect: needSelect})
}

func (r *Recorder) NotifyRemovedChild(parent, child any) {
	r.record(Notification{Kind: RemovedChild, Parent: parent, Child: child})
}

func (r *Recorder) NotifyChangedProperty(object any, property string) {
	r.record(Notification{Kind: ChangedProperty, Child: object, Property: property})
}

func (r *Recorder) NotifyMoved(prevParent, newParent, node *scene.Node, index int, needSelect bool) {
	r.record(Notification{Kind: Moved, PrevParent: prevParent, Parent: newParent, Child: node, Index: index, NeedSelect: needSelect})
}

func (r *Recorder) NotifyAddedAppState(state *scene.AppState) {
	r.record(Notification{Kind: AddedAppState, Child: state})
}

func (r *Recorder) NotifyRemovedAppState(state *scene.AppState) {
	r.record(Notification{Kind: RemovedAppState, Child: state})
}

func (r *Recorder) NotifyChangedAppState(state *scene.AppState) {
	r.record(Notification{Kind: ChangedAppState, Child: state})
}

func (r *Recorder) NotifyAddedFilter(filter *scene.Filter) {
	r.record(Notification{Kind: AddedFilter, Child: filter})
}

func (r *Recorder) NotifyRemovedFilter(filter *scene.Filter) {
	r.record(Notification{Kind: RemovedFilter, Child: filter})
}

func (r *Recorder) NotifyChangedFilter(filter *scene.Filter) {
	r.record(Notification{Kind: ChangedFilter, Child: filter})
}

func (r *Recorder) NotifyChangedLayer(node *scene.Node, prev, next *scene.Layer) {
	r.record(Notification{Kind: ChangedLayer, Child: node, PrevLayer: prev, NextLayer: next})
}
