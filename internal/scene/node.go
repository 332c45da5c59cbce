// Package scene is the engine-owned scene graph. Nothing in here is
// goroutine-safe: it is mutated only from the engine context.
package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrNotChild = errors.New("scene: node is not a child of parent")
	ErrCycle    = errors.New("scene: node cannot be attached under itself")
	ErrNilNode  = errors.New("scene: nil node")
)

// Kind tells what a node represents.
type Kind int

const (
	KindNode Kind = iota // plain grouping node
	KindGeometry
	KindLight
	KindEmitter
	KindAudio
)

var kindNames = map[Kind]string{
	KindNode:     "node",
	KindGeometry: "geometry",
	KindLight:    "light",
	KindEmitter:  "emitter",
	KindAudio:    "audio",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a kind name back to a Kind.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindNode, false
}

// Node is one spatial in the scene graph.
type Node struct {
	Name      string
	Kind      Kind
	Transform Transform
	Visible   bool
	Material  string

	Light     *Light
	Emitter   *Emitter
	Audio     *Audio
	RigidBody *RigidBody
	Anim      *AnimControl

	// Layer is a non-owning reference into Scene.Layers.
	Layer *Layer

	parent   *Node
	children []*Node
}

// NewNode creates a visible node of the given kind with an identity transform.
// Lights, emitters and audio nodes get default payloads.
func NewNode(name string, kind Kind) *Node {
	n := &Node{
		Name:      name,
		Kind:      kind,
		Transform: IdentityTransform(),
		Visible:   true,
	}
	switch kind {
	case KindLight:
		n.Light = &Light{Type: PointLight, Color: mgl32.Vec3{1, 1, 1}, Intensity: 1, Radius: 10}
	case KindEmitter:
		n.Emitter = &Emitter{Shape: "box", Rate: 20, Life: 2, Enabled: true}
	case KindAudio:
		n.Audio = &Audio{Volume: 1, Positional: true}
	case KindGeometry:
		n.Material = "default"
	}
	return n
}

// Parent returns the node's parent, nil for a detached or root node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child or nil if out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// IndexOf returns child's position among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Attach appends child, detaching it from any previous parent first.
func (n *Node) Attach(child *Node) error {
	return n.AttachAt(child, -1)
}

// AttachAt inserts child at index. An index outside [0, ChildCount] appends.
func (n *Node) AttachAt(child *Node, index int) error {
	if child == nil {
		return ErrNilNode
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return ErrCycle
		}
	}
	if child.parent != nil {
		if _, err := child.parent.Detach(child); err != nil {
			return err
		}
	}
	if index < 0 || index > len(n.children) {
		index = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.parent = n
	return nil
}

// Detach removes child and returns the index it had.
func (n *Node) Detach(child *Node) (int, error) {
	i := n.IndexOf(child)
	if i < 0 {
		return -1, ErrNotChild
	}
	copy(n.children[i:], n.children[i+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.parent = nil
	return i, nil
}

// Walk visits n and its descendants depth-first, pre-order.
// Returning false from fn skips that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Path returns the slash separated names from the root down to n.
func (n *Node) Path() string {
	var parts []string
	for p := n; p != nil; p = p.parent {
		parts = append(parts, p.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Find resolves a path relative to n ("a/b" finds grandchild b under child a).
func (n *Node) Find(path string) *Node {
	cur := n
	for _, name := range strings.Split(strings.Trim(path, "/"), "/") {
		if name == "" {
			continue
		}
		var next *Node
		for _, c := range cur.children {
			if c.Name == name {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// Depth returns the number of ancestors.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// WorldMatrix composes the transforms from the root down to n.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.Transform.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Transform.Matrix().Mul4(m)
	}
	return m
}

// Clone deep-copies n and its subtree. The copy is detached; layer
// references are shared, payloads are copied.
func (n *Node) Clone() *Node {
	c := &Node{
		Name:      n.Name,
		Kind:      n.Kind,
		Transform: n.Transform,
		Visible:   n.Visible,
		Material:  n.Material,
		Layer:     n.Layer,
	}
	if n.Light != nil {
		l := *n.Light
		c.Light = &l
	}
	if n.Emitter != nil {
		e := *n.Emitter
		c.Emitter = &e
	}
	if n.Audio != nil {
		a := *n.Audio
		c.Audio = &a
	}
	if n.RigidBody != nil {
		rb := *n.RigidBody
		c.RigidBody = &rb
	}
	if n.Anim != nil {
		c.Anim = n.Anim.clone()
	}
	for _, child := range n.children {
		cc := child.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.Name, n.Kind)
}
