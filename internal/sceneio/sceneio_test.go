package sceneio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/prism/internal/scene"
)

func sampleScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New("Scene")
	props := s.AddLayer("props")
	s.InsertAppState(&scene.AppState{Name: "sky", Kind: "sky", Enabled: true}, -1)
	s.InsertFilter(&scene.Filter{Name: "fxaa", Kind: "fxaa"}, -1)

	sun := scene.NewNode("Sun", scene.KindLight)
	sun.Light.Type = scene.DirectionalLight
	sun.Transform = sun.Transform.Rotated(mgl32.DegToRad(45), mgl32.Vec3{1, 0, 0})

	crate := scene.NewNode("Crate", scene.KindGeometry)
	crate.Layer = props
	crate.RigidBody = &scene.RigidBody{Mass: 3, Enabled: true}
	crate.Anim = &scene.AnimControl{}
	crate.Anim.AddAnim(&scene.Animation{Name: "open", Length: 1500 * time.Millisecond})
	crate.Transform = crate.Transform.Moved(mgl32.Vec3{1, 0, -2}).Scaled(0.5)

	fire := scene.NewNode("Fire", scene.KindEmitter)
	music := scene.NewNode("Music", scene.KindAudio)
	music.Audio.Path = "sounds/theme.ogg"

	require.NoError(t, s.Root.Attach(sun))
	require.NoError(t, s.Root.Attach(crate))
	require.NoError(t, crate.Attach(fire))
	require.NoError(t, s.Root.Attach(music))
	return s
}

func TestEncodeDecode(t *testing.T) {
	s := sampleScene(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s))
	assert.Contains(t, buf.String(), "version: 1")

	got, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, "Scene", got.Root.Name)
	require.Equal(t, 3, got.Root.ChildCount())
	crate := got.Root.Find("Crate")
	require.NotNil(t, crate)
	assert.Same(t, got.Layer("props"), crate.Layer)
	assert.Equal(t, float32(3), crate.RigidBody.Mass)
	assert.False(t, crate.RigidBody.Active)
	assert.True(t, crate.Transform.ApproxEqual(s.Root.Find("Crate").Transform))
	assert.Equal(t, 1500*time.Millisecond, crate.Anim.Anim("open").Length)
	assert.NotNil(t, got.Root.Find("Crate/Fire").Emitter)
	assert.Equal(t, scene.DirectionalLight, got.Root.Find("Sun").Light.Type)
	assert.Equal(t, "sounds/theme.ogg", got.Root.Find("Music").Audio.Path)
	assert.True(t, got.AppState("sky").Enabled)
	assert.False(t, got.Filter("fxaa").Enabled)
	assert.Equal(t, s.Stats(), got.Stats())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"newer version", "version: 9\nroot: {name: a, kind: node}\n", "unsupported format version"},
		{"no root", "version: 1\n", "missing root node"},
		{"bad kind", "version: 1\nroot: {name: a, kind: camera}\n", "unknown kind camera"},
		{"bad layer", "version: 1\nroot: {name: a, kind: node, layer: x}\n", "unknown layer x"},
		{"unknown field", "version: 1\nroot: {name: a, kind: node, colour: red}\n", "colour"},
		{"bad length", "version: 1\nroot: {name: a, kind: node, animations: [{name: w, length: soon}]}\n", "animation w"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeDefaultsRotation(t *testing.T) {
	s, err := Decode(strings.NewReader("version: 1\nroot: {name: a, kind: node, scale: [1, 1, 1]}\n"))
	require.NoError(t, err)
	assert.Equal(t, mgl32.QuatIdent(), s.Root.Transform.Rotation)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleScene(t)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Root.ChildCount())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
