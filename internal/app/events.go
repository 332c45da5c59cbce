package app

import (
	"github.com/bethropolis/prism/internal/event"
	"github.com/bethropolis/prism/internal/logger"
	"github.com/bethropolis/prism/internal/scene"
)

// subscribe wires the tree pane and the status bar to editor events. Every
// handler runs on the GUI context.
func (a *App) subscribe() {
	m := a.eventManager
	m.Subscribe(event.TypeChildAdded, a.handleChildAdded)
	m.Subscribe(event.TypeChildRemoved, a.handleChildRemoved)
	m.Subscribe(event.TypeNodeMoved, a.handleNodeMoved)
	for _, t := range []event.Type{
		event.TypePropertyChanged,
		event.TypeLayerChanged,
		event.TypeAppStateAdded,
		event.TypeAppStateRemoved,
		event.TypeAppStateChanged,
		event.TypeFilterAdded,
		event.TypeFilterRemoved,
		event.TypeFilterChanged,
	} {
		m.Subscribe(t, a.handleRedraw)
	}
	m.Subscribe(event.TypeHistoryChanged, a.handleHistoryChanged)
	m.Subscribe(event.TypeDirtyChanged, a.handleDirtyChanged)
	m.Subscribe(event.TypeSavingStarted, a.handleSavingStarted)
	m.Subscribe(event.TypeSavingFinished, a.handleSavingFinished)
	m.Subscribe(event.TypeSceneLoaded, a.handleSceneLoaded)
	m.Subscribe(event.TypeFileChangedExternally, a.handleFileChangedExternally)
	m.Subscribe(event.TypeThemeChanged, a.handleThemeChanged)
}

// handleChildAdded splices the new node into the tree. Animation children are
// not shown in the tree.
func (a *App) handleChildAdded(e event.Event) bool {
	data, ok := e.Data.(event.ChildData)
	if !ok {
		return false
	}
	parent, pok := data.Parent.(*scene.Node)
	child, cok := data.Child.(*scene.Node)
	if pok && cok {
		a.editor.View(func(*scene.Scene) {
			a.tree.Added(parent, child, data.Index, data.NeedSelect)
		})
	}
	a.requestRedraw()
	return false
}

func (a *App) handleChildRemoved(e event.Event) bool {
	data, ok := e.Data.(event.ChildData)
	if !ok {
		return false
	}
	parent, pok := data.Parent.(*scene.Node)
	child, cok := data.Child.(*scene.Node)
	if pok && cok {
		a.editor.View(func(*scene.Scene) {
			a.tree.Removed(parent, child)
		})
	}
	a.requestRedraw()
	return false
}

func (a *App) handleNodeMoved(e event.Event) bool {
	if data, ok := e.Data.(event.MovedData); ok {
		a.editor.View(func(*scene.Scene) {
			a.tree.Moved(data.PrevParent, data.NewParent, data.Node, data.Index, data.NeedSelect)
		})
		a.requestRedraw()
	}
	return false
}

func (a *App) handleRedraw(event.Event) bool {
	a.requestRedraw()
	return false
}

func (a *App) handleHistoryChanged(e event.Event) bool {
	if data, ok := e.Data.(event.HistoryData); ok {
		a.statusBar.SetHistory(data.Undo, data.Redo)
		a.requestRedraw()
	}
	return false
}

func (a *App) handleDirtyChanged(e event.Event) bool {
	if data, ok := e.Data.(event.DirtyData); ok {
		a.statusBar.SetFileInfo(a.editor.Path(), data.Dirty)
		a.requestRedraw()
	}
	return false
}

func (a *App) handleSavingStarted(e event.Event) bool {
	if data, ok := e.Data.(event.SavingData); ok {
		a.statusBar.SetFileInfo(data.FilePath, a.editor.IsDirty())
	}
	a.statusBar.SetSaving(true)
	a.requestRedraw()
	return false
}

// handleSavingFinished reports the result and finishes a quit that was
// waiting for the save.
func (a *App) handleSavingFinished(e event.Event) bool {
	a.statusBar.SetSaving(false)
	data, _ := e.Data.(event.SavingData)
	if data.Err != nil {
		a.quitAfterSave = false
		a.statusBar.SetTemporaryMessage("Save failed: %v", data.Err)
	} else {
		a.statusBar.SetTemporaryMessage("Saved %s", data.FilePath)
		if a.quitAfterSave {
			logger.Debugf("App: save finished, quitting")
			a.quit()
		}
	}
	a.requestRedraw()
	return false
}

func (a *App) handleSceneLoaded(e event.Event) bool {
	a.editor.View(func(s *scene.Scene) { a.tree.Rebuild(s.Root) })
	if data, ok := e.Data.(event.SceneData); ok {
		a.statusBar.SetTemporaryMessage("Reloaded %s", data.FilePath)
	}
	a.requestRedraw()
	return false
}

func (a *App) handleFileChangedExternally(e event.Event) bool {
	if data, ok := e.Data.(event.SceneData); ok {
		a.statusBar.SetTemporaryMessage("%s changed on disk; :revert drops your changes and reloads it", data.FilePath)
		a.requestRedraw()
	}
	return false
}

func (a *App) handleThemeChanged(event.Event) bool {
	a.tuiManager.SetTheme(a.themeManager.Current())
	a.requestRedraw()
	return false
}
