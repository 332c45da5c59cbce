package scene

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// LightType is the kind of light source.
type LightType string

const (
	PointLight       LightType = "point"
	DirectionalLight LightType = "directional"
	SpotLight        LightType = "spot"
	AmbientLight     LightType = "ambient"
)

// Light is the payload of a light node.
type Light struct {
	Type      LightType
	Color     mgl32.Vec3
	Intensity float32
	Radius    float32
}

// Emitter is the payload of a particle emitter node.
type Emitter struct {
	Shape   string // box, sphere, mesh-face, ...
	Rate    float32
	Life    float32 // particle lifetime in seconds
	Enabled bool

	Elapsed time.Duration // advanced by Scene.Update
}

// Audio is the payload of an audio node.
type Audio struct {
	Path       string
	Volume     float32
	Looping    bool
	Positional bool
}

// RigidBody is a physics control attached to a node.
type RigidBody struct {
	Mass     float32
	Enabled  bool
	Active   bool
	Velocity mgl32.Vec3
}

// Activate wakes the body up so the simulation moves it again.
func (rb *RigidBody) Activate() { rb.Active = true }

// Animation is one named clip.
type Animation struct {
	Name   string
	Length time.Duration
}

// AnimControl holds a node's animations.
type AnimControl struct {
	anims []*Animation
}

// Animations returns a copy of the animation list.
func (a *AnimControl) Animations() []*Animation {
	return append([]*Animation(nil), a.anims...)
}

// AddAnim appends anim.
func (a *AnimControl) AddAnim(anim *Animation) {
	a.anims = append(a.anims, anim)
}

// InsertAnim puts anim at index, appending for an out of range index.
func (a *AnimControl) InsertAnim(anim *Animation, index int) {
	if index < 0 || index > len(a.anims) {
		index = len(a.anims)
	}
	a.anims = append(a.anims, nil)
	copy(a.anims[index+1:], a.anims[index:])
	a.anims[index] = anim
}

// RemoveAnim removes anim and returns its former index, or -1.
func (a *AnimControl) RemoveAnim(anim *Animation) int {
	i := a.IndexOf(anim)
	if i < 0 {
		return -1
	}
	a.anims = append(a.anims[:i], a.anims[i+1:]...)
	return i
}

// IndexOf returns anim's position or -1.
func (a *AnimControl) IndexOf(anim *Animation) int {
	for i, x := range a.anims {
		if x == anim {
			return i
		}
	}
	return -1
}

// Anim looks an animation up by name.
func (a *AnimControl) Anim(name string) *Animation {
	for _, x := range a.anims {
		if x.Name == name {
			return x
		}
	}
	return nil
}

func (a *AnimControl) clone() *AnimControl {
	c := &AnimControl{}
	for _, anim := range a.anims {
		cp := *anim
		c.anims = append(c.anims, &cp)
	}
	return c
}
