package tui

import (
	"strings"
	"testing"

	"github.com/bethropolis/prism/internal/scene"
	"github.com/bethropolis/prism/internal/theme"
	"github.com/bethropolis/prism/internal/treeview"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSim(t *testing.T, w, h int) (*TUI, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	th := theme.DevComfortDark
	ui, err := NewWithScreen(sim, &th)
	require.NoError(t, err)
	t.Cleanup(ui.Close)
	sim.SetSize(w, h)
	return ui, sim
}

func line(sim tcell.SimulationScreen, y, from, to int) string {
	cells, w, _ := sim.GetContents()
	var b strings.Builder
	for x := from; x < to; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(b.String(), " ")
}

func sampleScene(t *testing.T) (*scene.Scene, *scene.Node) {
	s := scene.New("Scene")
	lights := scene.NewNode("Lights", scene.KindNode)
	sun := scene.NewNode("Sun", scene.KindLight)
	require.NoError(t, s.Root.Attach(lights))
	require.NoError(t, lights.Attach(sun))
	require.NoError(t, s.Root.Attach(scene.NewNode("Crate", scene.KindGeometry)))
	return s, sun
}

func TestComputeLayout(t *testing.T) {
	l := ComputeLayout(100, 30)
	assert.Equal(t, Layout{TreeWidth: 40, DetailsX: 41, DetailsWidth: 59, Height: 29}, l)

	narrow := ComputeLayout(30, 10)
	assert.Equal(t, 30, narrow.TreeWidth, "too narrow for a details pane")
	assert.Zero(t, narrow.DetailsWidth)

	assert.Zero(t, ComputeLayout(10, 0).Height)
}

func TestDrawTree(t *testing.T) {
	ui, sim := newSim(t, 60, 6)
	s, sun := sampleScene(t)
	tree := treeview.New()
	tree.Rebuild(s.Root)
	require.True(t, tree.Select(sun))

	th := theme.DevComfortDark
	DrawTree(ui, tree, &th)
	ui.Show()

	assert.Equal(t, "▾ Scene", line(sim, 0, 0, 24))
	assert.Equal(t, "  ▾ Lights", line(sim, 1, 0, 24))
	assert.Equal(t, "      Sun", line(sim, 2, 0, 24))
	assert.Equal(t, "    Crate", line(sim, 3, 0, 24))

	cells, w, _ := sim.GetContents()
	assert.Equal(t, th.GetStyle(theme.StyleSelection), cells[2*w+6].Style)
	assert.Equal(t, th.NodeStyle("geometry"), cells[3*w+4].Style)
	assert.Equal(t, '│', cells[0*w+24].Runes[0])
}

func TestDrawTreeCollapsedAndHidden(t *testing.T) {
	ui, sim := newSim(t, 60, 6)
	s, _ := sampleScene(t)
	lights := s.Root.Find("Lights")
	lights.Visible = false

	tree := treeview.New()
	tree.Rebuild(s.Root)
	require.True(t, tree.Select(lights))
	tree.Toggle()
	require.True(t, tree.Select(s.Root))

	th := theme.DevComfortDark
	DrawTree(ui, tree, &th)
	ui.Show()

	assert.Equal(t, "  ▸ Lights", line(sim, 1, 0, 24))
	assert.Equal(t, "    Crate", line(sim, 2, 0, 24))
	cells, w, _ := sim.GetContents()
	assert.Equal(t, th.GetStyle(theme.StyleHidden), cells[1*w+4].Style)
}

func TestDrawDetails(t *testing.T) {
	ui, sim := newSim(t, 80, 12)
	_, sun := sampleScene(t)
	DrawDetails(ui, sun, nil)
	ui.Show()

	l := ComputeLayout(80, 12)
	assert.Equal(t, "Sun (light)", line(sim, 0, l.DetailsX+1, 80))
	assert.Equal(t, "path      Scene/Lights/Sun", line(sim, 1, l.DetailsX+1, 80))
	assert.Contains(t, DetailLines(sun), "light     point intensity 1.00 radius 10.00")
	assert.Nil(t, DetailLines(nil))
}

func TestDrawTextClipsWideGraphemes(t *testing.T) {
	ui, sim := newSim(t, 10, 1)
	used := drawText(ui.GetScreen(), 0, 0, 3, "日本語", tcell.StyleDefault)
	ui.Show()
	assert.Equal(t, 2, used, "second wide rune does not fit")
	assert.Equal(t, "日", line(sim, 0, 0, 1))
}
