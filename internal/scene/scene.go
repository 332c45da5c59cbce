package scene

import (
	"time"
)

// Layer groups nodes for visibility toggling in the editor.
type Layer struct {
	Name    string
	Visible bool
}

// AppState is an engine state attached to the scene (sky, physics, light probes...).
type AppState struct {
	Name    string
	Kind    string
	Enabled bool
}

// Filter is a post-processing filter attached to the scene (FXAA, tone mapping...).
type Filter struct {
	Name    string
	Kind    string
	Enabled bool
}

// Scene is a root node plus the scene-level collections.
type Scene struct {
	Root      *Node
	Layers    []*Layer
	AppStates []*AppState
	Filters   []*Filter
}

// New creates an empty scene with a root node of the given name.
func New(name string) *Scene {
	return &Scene{Root: NewNode(name, KindNode)}
}

// Layer looks a layer up by name.
func (s *Scene) Layer(name string) *Layer {
	for _, l := range s.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// AddLayer appends a layer and returns it; an existing layer with the name is returned as is.
func (s *Scene) AddLayer(name string) *Layer {
	if l := s.Layer(name); l != nil {
		return l
	}
	l := &Layer{Name: name, Visible: true}
	s.Layers = append(s.Layers, l)
	return l
}

// InsertAppState puts state at index; an out of range index appends.
func (s *Scene) InsertAppState(state *AppState, index int) {
	s.AppStates = insertAt(s.AppStates, state, index)
}

// RemoveAppState removes state and returns its former index, or -1.
func (s *Scene) RemoveAppState(state *AppState) int {
	var i int
	s.AppStates, i = removeItem(s.AppStates, state)
	return i
}

// AppState looks an app state up by name.
func (s *Scene) AppState(name string) *AppState {
	for _, a := range s.AppStates {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// InsertFilter puts filter at index; an out of range index appends.
func (s *Scene) InsertFilter(filter *Filter, index int) {
	s.Filters = insertAt(s.Filters, filter, index)
}

// RemoveFilter removes filter and returns its former index, or -1.
func (s *Scene) RemoveFilter(filter *Filter) int {
	var i int
	s.Filters, i = removeItem(s.Filters, filter)
	return i
}

// Filter looks a filter up by name.
func (s *Scene) Filter(name string) *Filter {
	for _, f := range s.Filters {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Stats counts the nodes of each kind under the root, root included.
func (s *Scene) Stats() map[Kind]int {
	stats := make(map[Kind]int)
	s.Root.Walk(func(n *Node) bool {
		stats[n.Kind]++
		return true
	})
	return stats
}

// physics tuning for Update; accuracy is not a goal, settling is.
const (
	linearDamping = 0.9
	sleepSpeed    = 0.01
)

// Update advances the scene by one engine frame: emitters age and active
// rigid bodies drift with damping until they fall asleep.
func (s *Scene) Update(tpf time.Duration) {
	dt := float32(tpf.Seconds())
	s.Root.Walk(func(n *Node) bool {
		if n.Emitter != nil && n.Emitter.Enabled {
			n.Emitter.Elapsed += tpf
		}
		if rb := n.RigidBody; rb != nil && rb.Enabled && rb.Active && rb.Mass != 0 {
			n.Transform.Translation = n.Transform.Translation.Add(rb.Velocity.Mul(dt))
			rb.Velocity = rb.Velocity.Mul(linearDamping)
			if rb.Velocity.Len() < sleepSpeed {
				rb.Active = false
			}
		}
		return true
	})
}

// ReactivatePhysics wakes every enabled, non-static, sleeping rigid body in
// node's subtree. It runs after a node is transformed by hand so bodies react
// to their new position.
func ReactivatePhysics(node *Node) int {
	woken := 0
	node.Walk(func(n *Node) bool {
		rb := n.RigidBody
		if rb != nil && rb.Enabled && rb.Mass != 0 && !rb.Active {
			rb.Activate()
			woken++
		}
		return true
	})
	return woken
}

func insertAt[T any](s []T, v T, index int) []T {
	if index < 0 || index > len(s) {
		index = len(s)
	}
	var zero T
	s = append(s, zero)
	copy(s[index+1:], s[index:])
	s[index] = v
	return s
}

func removeItem[T comparable](s []T, v T) ([]T, int) {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...), i
		}
	}
	return s, -1
}
