package app

import (
	"context"
	"time"

	"github.com/bethropolis/prism/internal/logger"
	"github.com/bethropolis/prism/internal/scene"
	"github.com/bethropolis/prism/internal/tui"
)

// draw clears the screen and redraws all components. GUI context only.
func (a *App) draw() {
	activeTheme := a.themeManager.Current()
	a.statusBar.SetEditorMode(a.modeHandler.GetCurrentMode().String())

	a.tuiManager.Clear()
	a.editor.View(func(s *scene.Scene) {
		tui.DrawTree(a.tuiManager, a.tree, activeTheme)
		selected := a.tree.Selected()
		if selected != nil {
			a.statusBar.SetSelection(selected.Path())
		} else {
			a.statusBar.SetSelection("")
		}
		tui.DrawDetails(a.tuiManager, selected, activeTheme)
	})

	width, height := a.tuiManager.Size()
	logger.DebugTagf("draw", "App: drawing %d x %d, %d tree rows", width, height, a.tree.Len())
	a.statusBar.Draw(a.tuiManager.GetScreen(), width, height, activeTheme)
	a.tuiManager.Show()
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // a redraw is already pending
	}
}

// redrawLoop turns redraw requests and the refresh tick into draw tasks on
// the GUI context.
func (a *App) redrawLoop(ctx context.Context) error {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.redrawRequest:
		case <-ticker.C:
		}
		a.exec.GUI.Post(func() error {
			a.draw()
			return nil
		})
	}
}
