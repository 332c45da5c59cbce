package scene

import "github.com/go-gl/mathgl/mgl32"

// Transform is a node's local translation, rotation and scale.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityTransform returns the transform that leaves a node where it is.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	sc := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return tr.Mul4(t.Rotation.Normalize().Mat4()).Mul4(sc)
}

// Moved returns a copy translated by delta.
func (t Transform) Moved(delta mgl32.Vec3) Transform {
	t.Translation = t.Translation.Add(delta)
	return t
}

// Rotated returns a copy rotated by angle radians around axis.
func (t Transform) Rotated(angle float32, axis mgl32.Vec3) Transform {
	t.Rotation = mgl32.QuatRotate(angle, axis.Normalize()).Mul(t.Rotation).Normalize()
	return t
}

// Scaled returns a copy with every scale component multiplied by f.
func (t Transform) Scaled(f float32) Transform {
	t.Scale = t.Scale.Mul(f)
	return t
}

// ApproxEqual compares two transforms component-wise within mgl32's epsilon.
func (t Transform) ApproxEqual(o Transform) bool {
	return t.Translation.ApproxEqual(o.Translation) &&
		t.Rotation.ApproxEqual(o.Rotation) &&
		t.Scale.ApproxEqual(o.Scale)
}
