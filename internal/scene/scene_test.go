package scene

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestAttachAtAndDetach(t *testing.T) {
	root := NewNode("root", KindNode)
	a, b, c := NewNode("a", KindNode), NewNode("b", KindNode), NewNode("c", KindNode)

	require.NoError(t, root.Attach(a))
	require.NoError(t, root.Attach(c))
	require.NoError(t, root.AttachAt(b, 1))
	assert.Equal(t, []string{"a", "b", "c"}, names(root.Children()))
	assert.Same(t, root, b.Parent())

	idx, err := root.Detach(b)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Nil(t, b.Parent())
	assert.Equal(t, []string{"a", "c"}, names(root.Children()))

	_, err = root.Detach(b)
	assert.ErrorIs(t, err, ErrNotChild)

	require.NoError(t, root.AttachAt(b, 99))
	assert.Equal(t, 2, root.IndexOf(b), "out of range index appends")
}

func TestAttachReparentsAndRejectsCycles(t *testing.T) {
	root := NewNode("root", KindNode)
	group := NewNode("group", KindNode)
	leaf := NewNode("leaf", KindGeometry)
	require.NoError(t, root.Attach(group))
	require.NoError(t, group.Attach(leaf))

	require.NoError(t, root.Attach(leaf))
	assert.Equal(t, 0, group.ChildCount())
	assert.Same(t, root, leaf.Parent())

	assert.ErrorIs(t, group.Attach(root), ErrCycle)
	assert.ErrorIs(t, group.Attach(group), ErrCycle)
	assert.ErrorIs(t, group.Attach(nil), ErrNilNode)
}

func TestPathFindAndDepth(t *testing.T) {
	root := NewNode("Scene", KindNode)
	lights := NewNode("Lights", KindNode)
	sun := NewNode("Sun", KindLight)
	require.NoError(t, root.Attach(lights))
	require.NoError(t, lights.Attach(sun))

	assert.Equal(t, "Scene/Lights/Sun", sun.Path())
	assert.Same(t, sun, root.Find("Lights/Sun"))
	assert.Same(t, sun, root.Find("/Lights/Sun/"))
	assert.Nil(t, root.Find("Lights/Moon"))
	assert.Same(t, root, root.Find(""))
	assert.Equal(t, 2, sun.Depth())
}

func TestCloneIsDeepAndDetached(t *testing.T) {
	root := NewNode("root", KindNode)
	emitter := NewNode("fire", KindEmitter)
	spark := NewNode("spark", KindLight)
	emitter.Anim = &AnimControl{}
	emitter.Anim.AddAnim(&Animation{Name: "burst", Length: time.Second})
	require.NoError(t, root.Attach(emitter))
	require.NoError(t, emitter.Attach(spark))

	cp := emitter.Clone()
	assert.Nil(t, cp.Parent())
	require.Equal(t, 1, cp.ChildCount())
	assert.Same(t, cp, cp.Child(0).Parent())
	assert.NotSame(t, spark, cp.Child(0))

	cp.Emitter.Rate = 1
	cp.Child(0).Light.Intensity = 42
	cp.Anim.Animations()[0].Name = "changed"
	assert.NotEqual(t, float32(1), emitter.Emitter.Rate)
	assert.Equal(t, float32(1), spark.Light.Intensity)
	assert.Equal(t, "burst", emitter.Anim.Animations()[0].Name)
}

func TestWorldMatrix(t *testing.T) {
	root := NewNode("root", KindNode)
	child := NewNode("child", KindNode)
	require.NoError(t, root.Attach(child))
	root.Transform = root.Transform.Moved(mgl32.Vec3{1, 0, 0})
	child.Transform = child.Transform.Moved(mgl32.Vec3{0, 2, 0})

	pos := child.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.True(t, pos.Vec3().ApproxEqual(mgl32.Vec3{1, 2, 0}), "got %v", pos)
}

func TestTransformHelpers(t *testing.T) {
	tr := IdentityTransform()
	assert.True(t, tr.ApproxEqual(IdentityTransform()))

	moved := tr.Moved(mgl32.Vec3{1, 2, 3})
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, moved.Translation)
	assert.Equal(t, mgl32.Vec3{}, tr.Translation, "helpers return copies")

	scaled := tr.Scaled(2)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, scaled.Scale)

	rotated := tr.Rotated(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	assert.False(t, rotated.ApproxEqual(tr))
	v := rotated.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0, v.X(), 1e-5)
	assert.InDelta(t, -1, v.Z(), 1e-5)

	back := rotated.Rotated(mgl32.DegToRad(-90), mgl32.Vec3{0, 1, 0})
	v = back.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 1, v.X(), 1e-5)
	assert.InDelta(t, 0, v.Z(), 1e-5)
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindNode, KindGeometry, KindLight, KindEmitter, KindAudio} {
		got, ok := ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("camera")
	assert.False(t, ok)
}

func TestSceneCollections(t *testing.T) {
	s := New("Scene")
	sky := &AppState{Name: "sky", Kind: "sky", Enabled: true}
	probe := &AppState{Name: "probe", Kind: "light-probe"}
	s.InsertAppState(sky, -1)
	s.InsertAppState(probe, 0)
	assert.Equal(t, []*AppState{probe, sky}, s.AppStates)
	assert.Same(t, sky, s.AppState("sky"))
	assert.Equal(t, 1, s.RemoveAppState(sky))
	assert.Equal(t, -1, s.RemoveAppState(sky))

	fxaa := &Filter{Name: "fxaa", Kind: "fxaa", Enabled: true}
	s.InsertFilter(fxaa, 5)
	assert.Same(t, fxaa, s.Filter("fxaa"))
	assert.Equal(t, 0, s.RemoveFilter(fxaa))

	l := s.AddLayer("props")
	assert.Same(t, l, s.AddLayer("props"))
	assert.Same(t, l, s.Layer("props"))
	assert.Len(t, s.Layers, 1)
}

func TestUpdateSettlesBodiesAndAgesEmitters(t *testing.T) {
	s := New("Scene")
	box := NewNode("box", KindGeometry)
	box.RigidBody = &RigidBody{Mass: 1, Enabled: true, Active: true, Velocity: mgl32.Vec3{1, 0, 0}}
	fire := NewNode("fire", KindEmitter)
	require.NoError(t, s.Root.Attach(box))
	require.NoError(t, s.Root.Attach(fire))

	for i := 0; i < 200 && box.RigidBody.Active; i++ {
		s.Update(16 * time.Millisecond)
	}
	assert.False(t, box.RigidBody.Active, "body falls asleep")
	assert.Greater(t, box.Transform.Translation.X(), float32(0))
	assert.Greater(t, fire.Emitter.Elapsed, time.Duration(0))
}

func TestReactivatePhysics(t *testing.T) {
	root := NewNode("root", KindNode)
	sleeping := NewNode("sleeping", KindGeometry)
	sleeping.RigidBody = &RigidBody{Mass: 2, Enabled: true}
	static := NewNode("static", KindGeometry)
	static.RigidBody = &RigidBody{Mass: 0, Enabled: true}
	disabled := NewNode("disabled", KindGeometry)
	disabled.RigidBody = &RigidBody{Mass: 1}
	require.NoError(t, root.Attach(sleeping))
	require.NoError(t, sleeping.Attach(static))
	require.NoError(t, root.Attach(disabled))

	assert.Equal(t, 1, ReactivatePhysics(root))
	assert.True(t, sleeping.RigidBody.Active)
	assert.False(t, static.RigidBody.Active)
	assert.False(t, disabled.RigidBody.Active)
}

func TestStats(t *testing.T) {
	s := New("Scene")
	require.NoError(t, s.Root.Attach(NewNode("sun", KindLight)))
	require.NoError(t, s.Root.Attach(NewNode("lamp", KindLight)))
	require.NoError(t, s.Root.Attach(NewNode("crate", KindGeometry)))
	stats := s.Stats()
	assert.Equal(t, 2, stats[KindLight])
	assert.Equal(t, 1, stats[KindGeometry])
	assert.Equal(t, 1, stats[KindNode])
}
