// internal/tui/drawing.go
package tui

import (
	"fmt"
	"strings"

	"github.com/bethropolis/prism/internal/scene"
	"github.com/bethropolis/prism/internal/theme"
	"github.com/bethropolis/prism/internal/treeview"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// StatusBarHeight is the number of lines reserved at the bottom.
const StatusBarHeight = 1

const (
	minTreeWidth = 16
	indentWidth  = 2
)

// Layout splits the screen into the tree pane on the left and the details
// pane on the right, both above the status bar.
type Layout struct {
	TreeWidth    int
	DetailsX     int
	DetailsWidth int
	Height       int
}

// ComputeLayout lays a width x height screen out.
func ComputeLayout(width, height int) Layout {
	l := Layout{Height: height - StatusBarHeight}
	if l.Height < 0 {
		l.Height = 0
	}
	l.TreeWidth = width * 2 / 5
	if l.TreeWidth < minTreeWidth {
		l.TreeWidth = width
	}
	if l.TreeWidth < width {
		l.DetailsX = l.TreeWidth + 1
		l.DetailsWidth = width - l.DetailsX
	}
	return l
}

// drawText draws text at (x, y) clipped to width cells and returns the
// number of cells used. Grapheme clusters are measured with uniseg.
func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	used := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if used+clusterWidth > width {
			break
		}
		runes := gr.Runes()
		screen.SetContent(x+used, y, runes[0], runes[1:], style)
		for cw := 1; cw < clusterWidth; cw++ {
			screen.SetContent(x+used+cw, y, ' ', nil, style)
		}
		used += clusterWidth
	}
	return used
}

func fill(screen tcell.Screen, x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		screen.SetContent(x+i, y, ' ', nil, style)
	}
}

// DrawTree draws the visible rows of tree into the left pane. The caller
// holds the scene lock.
func DrawTree(t *TUI, tree *treeview.Tree, activeTheme *theme.Theme) {
	if activeTheme == nil {
		activeTheme = &theme.DevComfortDark
	}
	width, height := t.Size()
	l := ComputeLayout(width, height)
	if l.Height == 0 || l.TreeWidth == 0 {
		return
	}
	tree.SetViewHeight(l.Height)

	defaultStyle := activeTheme.GetStyle(theme.StyleDefault)
	guideStyle := activeTheme.GetStyle(theme.StyleGuide)
	selectionStyle := activeTheme.GetStyle(theme.StyleSelection)
	hiddenStyle := activeTheme.GetStyle(theme.StyleHidden)

	rows := tree.Visible()
	selected := tree.Selected()
	for y := 0; y < l.Height; y++ {
		fill(t.screen, 0, y, l.TreeWidth, defaultStyle)
		if y >= len(rows) {
			continue
		}
		row := rows[y]
		x := drawText(t.screen, 0, y, l.TreeWidth, strings.Repeat(" ", row.Depth*indentWidth), guideStyle)

		marker := "  "
		if row.Node.ChildCount() > 0 {
			marker = "▾ "
			if tree.Collapsed(row.Node) {
				marker = "▸ "
			}
		}
		x += drawText(t.screen, x, y, l.TreeWidth-x, marker, guideStyle)

		style := activeTheme.NodeStyle(row.Node.Kind.String())
		if !row.Node.Visible {
			style = hiddenStyle
		}
		if row.Node == selected {
			style = selectionStyle
		}
		drawText(t.screen, x, y, l.TreeWidth-x, row.Node.Name, style)
	}

	if l.DetailsX > 0 {
		for y := 0; y < l.Height; y++ {
			t.screen.SetContent(l.TreeWidth, y, '│', nil, guideStyle)
		}
	}
}

// DetailLines describes node for the details pane.
func DetailLines(node *scene.Node) []string {
	if node == nil {
		return nil
	}
	tr := node.Transform
	lines := []string{
		node.Name + " (" + node.Kind.String() + ")",
		"path      " + node.Path(),
		fmt.Sprintf("visible   %v", node.Visible),
		fmt.Sprintf("position  %.2f %.2f %.2f", tr.Translation.X(), tr.Translation.Y(), tr.Translation.Z()),
		fmt.Sprintf("rotation  %.2f %.2f %.2f %.2f", tr.Rotation.W, tr.Rotation.X(), tr.Rotation.Y(), tr.Rotation.Z()),
		fmt.Sprintf("scale     %.2f %.2f %.2f", tr.Scale.X(), tr.Scale.Y(), tr.Scale.Z()),
	}
	if node.Layer != nil {
		lines = append(lines, "layer     "+node.Layer.Name)
	}
	if node.Material != "" {
		lines = append(lines, "material  "+node.Material)
	}
	if l := node.Light; l != nil {
		lines = append(lines, fmt.Sprintf("light     %s intensity %.2f radius %.2f", l.Type, l.Intensity, l.Radius))
	}
	if em := node.Emitter; em != nil {
		lines = append(lines, fmt.Sprintf("emitter   %s rate %.1f life %.1fs enabled %v", em.Shape, em.Rate, em.Life, em.Enabled))
	}
	if a := node.Audio; a != nil {
		lines = append(lines, fmt.Sprintf("audio     %q volume %.2f loop %v", a.Path, a.Volume, a.Looping))
	}
	if rb := node.RigidBody; rb != nil {
		lines = append(lines, fmt.Sprintf("body      mass %.2f active %v", rb.Mass, rb.Active))
	}
	if node.Anim != nil {
		for _, anim := range node.Anim.Animations() {
			lines = append(lines, fmt.Sprintf("anim      %s %v", anim.Name, anim.Length))
		}
	}
	return lines
}

// DrawDetails draws node's properties into the right pane. The caller
// holds the scene lock.
func DrawDetails(t *TUI, node *scene.Node, activeTheme *theme.Theme) {
	if activeTheme == nil {
		activeTheme = &theme.DevComfortDark
	}
	width, height := t.Size()
	l := ComputeLayout(width, height)
	if l.DetailsWidth <= 0 {
		return
	}
	defaultStyle := activeTheme.GetStyle(theme.StyleDefault)
	lines := DetailLines(node)
	for y := 0; y < l.Height; y++ {
		fill(t.screen, l.DetailsX, y, l.DetailsWidth, defaultStyle)
		if y < len(lines) {
			style := defaultStyle
			if y == 0 {
				style = activeTheme.NodeStyle(node.Kind.String()).Bold(true)
			}
			drawText(t.screen, l.DetailsX+1, y, l.DetailsWidth-1, lines[y], style)
		}
	}
}
