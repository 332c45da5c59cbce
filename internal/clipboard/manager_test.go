package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/prism/internal/scene"
)

func fakeSystem(m *Manager) *string {
	var text string
	m.system = true
	m.writeAll = func(s string) error { text = s; return nil }
	m.readAll = func() (string, error) { return text, nil }
	return &text
}

func TestCopyKeepsDetachedClone(t *testing.T) {
	m := NewManager(false)
	_, ok := m.Content()
	assert.False(t, ok)

	root := scene.NewNode("Scene", scene.KindNode)
	lamp := scene.NewNode("lamp", scene.KindLight)
	require.NoError(t, root.Attach(lamp))

	m.Copy(lamp)
	got, ok := m.Content()
	require.True(t, ok)
	assert.NotSame(t, lamp, got)
	assert.Nil(t, got.Parent())
	assert.Equal(t, "lamp", got.Name)

	lamp.Name = "renamed"
	assert.Equal(t, "lamp", got.Name, "later edits do not leak into the clipboard")

	m.Clear()
	_, ok = m.Content()
	assert.False(t, ok)
}

func TestSystemMirror(t *testing.T) {
	m := NewManager(false)
	text := fakeSystem(m)

	root := scene.NewNode("Scene", scene.KindNode)
	crate := scene.NewNode("crate", scene.KindGeometry)
	require.NoError(t, root.Attach(crate))
	m.Copy(crate)

	assert.Equal(t, "Scene/crate", *text)
	path, ok := m.SystemPath()
	assert.True(t, ok)
	assert.Equal(t, "Scene/crate", path)
}

func TestSystemFailuresAreNotFatal(t *testing.T) {
	m := NewManager(false)
	m.system = true
	m.writeAll = func(string) error { return errors.New("no display") }
	m.readAll = func() (string, error) { return "", errors.New("no display") }

	m.Copy(scene.NewNode("a", scene.KindNode))
	_, ok := m.Content()
	assert.True(t, ok)
	_, ok = m.SystemPath()
	assert.False(t, ok)
}

func TestDisabledSystemClipboard(t *testing.T) {
	m := NewManager(false)
	_, ok := m.SystemPath()
	assert.False(t, ok)
	m.Copy(nil)
	_, ok = m.Content()
	assert.False(t, ok)
}
