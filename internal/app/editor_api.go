// internal/app/editor_api.go
package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bethropolis/prism/internal/editor"
	"github.com/bethropolis/prism/internal/event"
	"github.com/bethropolis/prism/internal/logger"
	"github.com/bethropolis/prism/internal/operation"
	"github.com/bethropolis/prism/internal/plugin"
	"github.com/bethropolis/prism/internal/scene"
	"github.com/bethropolis/prism/internal/theme"
	"github.com/bethropolis/prism/internal/undo"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Ensure appEditorAPI implements the plugin.EditorAPI interface.
var _ plugin.EditorAPI = (*appEditorAPI)(nil)

var (
	errNoSelection = errors.New("no node selected")
	errRoot        = errors.New("the scene root cannot be changed that way")
	errEmptyClip   = errors.New("clipboard is empty")
)

// ed is the editor type operations are instantiated for.
type ed = *editor.SceneEditor

// appEditorAPI builds operations from the selection and hands them to the
// scene editor. Reads of the scene happen under editor.View.
type appEditorAPI struct {
	app *App
}

func newEditorAPI(app *App) *appEditorAPI {
	return &appEditorAPI{app: app}
}

// --- Scene state ---

func (api *appEditorAPI) ScenePath() string  { return api.app.editor.Path() }
func (api *appEditorAPI) IsSceneDirty() bool { return api.app.editor.IsDirty() }
func (api *appEditorAPI) IsSaving() bool     { return api.app.editor.IsSaving() }

func (api *appEditorAPI) Selected() *scene.Node { return api.app.tree.Selected() }

func (api *appEditorAPI) ViewScene(fn func(s *scene.Scene)) { api.app.editor.View(fn) }

// build runs fn under the scene lock and executes the operation it returns.
func (api *appEditorAPI) build(fn func(s *scene.Scene) (editor.Op, error)) error {
	var op editor.Op
	var err error
	api.app.editor.View(func(s *scene.Scene) { op, err = fn(s) })
	if err != nil {
		return err
	}
	if op == nil {
		return nil
	}
	logger.DebugTagf("api", "API: executing %s", undo.Describe(op))
	return api.app.editor.Execute(op)
}

// selectedNonRoot returns the selection, refusing the root.
func (api *appEditorAPI) selectedNonRoot() (*scene.Node, error) {
	sel := api.app.tree.Selected()
	if sel == nil {
		return nil, errNoSelection
	}
	if sel.Parent() == nil {
		return nil, errRoot
	}
	return sel, nil
}

// insertionParent is where new nodes go: the selected node, or its parent
// when the selection is a leaf kind.
func (api *appEditorAPI) insertionParent(s *scene.Scene) *scene.Node {
	sel := api.app.tree.Selected()
	if sel == nil {
		return s.Root
	}
	if sel.Kind != scene.KindNode && sel.Parent() != nil {
		return sel.Parent()
	}
	return sel
}

// --- Scene edits ---

func (api *appEditorAPI) AddNode(kind scene.Kind, name string) error {
	return api.build(func(s *scene.Scene) (editor.Op, error) {
		parent := api.insertionParent(s)
		if name == "" {
			name = uniqueChildName(parent, defaultName(kind.String()))
		}
		child := scene.NewNode(name, kind)
		return operation.NewAddChild[ed](parent, child, parent.ChildCount(), true), nil
	})
}

func (api *appEditorAPI) DeleteSelected() error {
	return api.build(func(*scene.Scene) (editor.Op, error) {
		sel, err := api.selectedNonRoot()
		if err != nil {
			return nil, err
		}
		parent := sel.Parent()
		return operation.NewRemoveChild[ed](parent, sel, parent.IndexOf(sel)), nil
	})
}

func (api *appEditorAPI) RenameSelected(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid node name %q", name)
	}
	return api.build(func(*scene.Scene) (editor.Op, error) {
		sel := api.app.tree.Selected()
		if sel == nil {
			return nil, errNoSelection
		}
		if sel.Name == name {
			return nil, nil
		}
		return operation.NewRename[ed](sel, sel.Name, name), nil
	})
}

func (api *appEditorAPI) MoveSelected(delta int) error {
	return api.build(func(*scene.Scene) (editor.Op, error) {
		sel, err := api.selectedNonRoot()
		if err != nil {
			return nil, err
		}
		parent := sel.Parent()
		from := parent.IndexOf(sel)
		to := from + delta
		if to < 0 || to >= parent.ChildCount() {
			return nil, fmt.Errorf("%s cannot move further", sel.Name)
		}
		return operation.NewMove[ed](sel, parent, from, parent, to), nil
	})
}

func (api *appEditorAPI) NudgeSelected(dx, dy, dz float32) error {
	return api.build(func(*scene.Scene) (editor.Op, error) {
		sel := api.app.tree.Selected()
		if sel == nil {
			return nil, errNoSelection
		}
		prev := sel.Transform
		return operation.NewTransform[ed](sel, prev, prev.Moved(mgl32.Vec3{dx, dy, dz})), nil
	})
}

func (api *appEditorAPI) ToggleSelectedVisible() error {
	return api.build(func(*scene.Scene) (editor.Op, error) {
		sel := api.app.tree.Selected()
		if sel == nil {
			return nil, errNoSelection
		}
		return operation.NewSetVisible[ed](sel, !sel.Visible), nil
	})
}

// SetSelectedLayer puts the selection on the named layer, creating the layer
// if needed. An empty name clears the layer.
func (api *appEditorAPI) SetSelectedLayer(name string) error {
	return api.build(func(s *scene.Scene) (editor.Op, error) {
		sel := api.app.tree.Selected()
		if sel == nil {
			return nil, errNoSelection
		}
		var next *scene.Layer
		if name != "" {
			next = s.AddLayer(name)
		}
		if sel.Layer == next {
			return nil, nil
		}
		return operation.NewChangeLayer[ed](sel, sel.Layer, next), nil
	})
}

func (api *appEditorAPI) AddFilter(kind, name string) error {
	if kind == "" {
		return errors.New("filter kind is required")
	}
	if name == "" {
		name = kind
	}
	return api.build(func(s *scene.Scene) (editor.Op, error) {
		if s.Filter(name) != nil {
			return nil, fmt.Errorf("filter %q already exists", name)
		}
		f := &scene.Filter{Name: name, Kind: kind, Enabled: true}
		return operation.NewAddFilter[ed](f, len(s.Filters)), nil
	})
}

func (api *appEditorAPI) ToggleFilter(name string) error {
	return api.build(func(s *scene.Scene) (editor.Op, error) {
		f := s.Filter(name)
		if f == nil {
			return nil, fmt.Errorf("no filter named %q", name)
		}
		return operation.NewChangeFilterEnabled[ed](f, !f.Enabled), nil
	})
}

func (api *appEditorAPI) RemoveFilter(name string) error {
	return api.build(func(s *scene.Scene) (editor.Op, error) {
		f := s.Filter(name)
		if f == nil {
			return nil, fmt.Errorf("no filter named %q", name)
		}
		return operation.NewRemoveFilter[ed](f, indexOf(s.Filters, f)), nil
	})
}

func (api *appEditorAPI) AddAppState(kind, name string) error {
	if kind == "" {
		return errors.New("app state kind is required")
	}
	if name == "" {
		name = kind
	}
	return api.build(func(s *scene.Scene) (editor.Op, error) {
		if s.AppState(name) != nil {
			return nil, fmt.Errorf("app state %q already exists", name)
		}
		st := &scene.AppState{Name: name, Kind: kind, Enabled: true}
		return operation.NewAddAppState[ed](st, len(s.AppStates)), nil
	})
}

func (api *appEditorAPI) ToggleAppState(name string) error {
	return api.build(func(s *scene.Scene) (editor.Op, error) {
		st := s.AppState(name)
		if st == nil {
			return nil, fmt.Errorf("no app state named %q", name)
		}
		return operation.NewChangeAppStateEnabled[ed](st, !st.Enabled), nil
	})
}

func (api *appEditorAPI) RemoveAppState(name string) error {
	return api.build(func(s *scene.Scene) (editor.Op, error) {
		st := s.AppState(name)
		if st == nil {
			return nil, fmt.Errorf("no app state named %q", name)
		}
		return operation.NewRemoveAppState[ed](st, indexOf(s.AppStates, st)), nil
	})
}

// AddAnimation adds a clip to the selected node, giving it an animation
// control first if it has none.
func (api *appEditorAPI) AddAnimation(name string, length time.Duration) error {
	if name == "" {
		return errors.New("animation name is required")
	}
	return api.build(func(*scene.Scene) (editor.Op, error) {
		sel := api.app.tree.Selected()
		if sel == nil {
			return nil, errNoSelection
		}
		if sel.Anim == nil {
			sel.Anim = &scene.AnimControl{}
		} else if sel.Anim.Anim(name) != nil {
			return nil, fmt.Errorf("%s already has an animation %q", sel.Name, name)
		}
		anim := &scene.Animation{Name: name, Length: length}
		return operation.NewAddAnimation[ed](sel.Anim, anim), nil
	})
}

func (api *appEditorAPI) RemoveAnimation(name string) error {
	return api.build(func(*scene.Scene) (editor.Op, error) {
		sel := api.app.tree.Selected()
		if sel == nil {
			return nil, errNoSelection
		}
		var anim *scene.Animation
		if sel.Anim != nil {
			anim = sel.Anim.Anim(name)
		}
		if anim == nil {
			return nil, fmt.Errorf("%s has no animation %q", sel.Name, name)
		}
		return operation.NewRemoveAnimation[ed](sel.Anim, anim, sel.Anim.IndexOf(anim)), nil
	})
}

func (api *appEditorAPI) Copy() error {
	sel := api.app.tree.Selected()
	if sel == nil {
		return errNoSelection
	}
	var path string
	api.app.editor.View(func(*scene.Scene) {
		api.app.clipboard.Copy(sel)
		path = sel.Path()
	})
	api.SetStatusMessage("Copied %s", path)
	return nil
}

// Paste adds a copy of the clipboard under the insertion parent. With an
// empty clipboard a node path on the system clipboard is resolved instead.
func (api *appEditorAPI) Paste() error {
	return api.build(func(s *scene.Scene) (editor.Op, error) {
		content, ok := api.app.clipboard.Content()
		if !ok {
			content = api.resolveSystemPath(s)
		}
		if content == nil {
			return nil, errEmptyClip
		}
		parent := api.insertionParent(s)
		return operation.NewPaste[ed](parent, content, parent.ChildCount()), nil
	})
}

func (api *appEditorAPI) resolveSystemPath(s *scene.Scene) *scene.Node {
	path, ok := api.app.clipboard.SystemPath()
	if !ok {
		return nil
	}
	root, rest, _ := strings.Cut(strings.Trim(path, "/"), "/")
	if root != s.Root.Name {
		return nil
	}
	n := s.Root.Find(rest)
	if n == nil || n == s.Root {
		return nil
	}
	return n
}

func (api *appEditorAPI) Undo() error { return api.app.editor.Undo() }
func (api *appEditorAPI) Redo() error { return api.app.editor.Redo() }

// --- Files ---

func (api *appEditorAPI) Save(path string) error {
	if path == "" {
		return api.app.editor.Save(nil)
	}
	return api.app.editor.SaveAs(path, nil)
}

func (api *appEditorAPI) Revert() error {
	return api.app.editor.Revert()
}

// --- Event Bus Interaction ---

func (api *appEditorAPI) DispatchEvent(eventType event.Type, data interface{}) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *appEditorAPI) SubscribeEvent(eventType event.Type, handler event.Handler) {
	api.app.eventManager.Subscribe(eventType, handler)
}

func (api *appEditorAPI) Post(fn func()) {
	if fn == nil {
		return
	}
	api.app.exec.GUI.Post(func() error {
		fn()
		return nil
	})
}

// --- Command Registration ---

func (api *appEditorAPI) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	return api.app.modeHandler.RegisterCommand(name, cmdFunc)
}

// --- Status Bar ---

func (api *appEditorAPI) SetStatusMessage(format string, args ...interface{}) {
	api.app.statusBar.SetTemporaryMessage(format, args...)
	api.app.requestRedraw()
}

// --- Theme Access ---

func (api *appEditorAPI) GetThemeStyle(styleName string) tcell.Style {
	return api.app.themeManager.Current().GetStyle(styleName)
}

func (api *appEditorAPI) SetTheme(name string) error {
	if err := api.app.themeManager.SetTheme(name); err != nil {
		return err
	}
	api.app.eventManager.Dispatch(event.TypeThemeChanged, event.ThemeChangedData{Name: api.app.themeManager.Current().Name})
	logger.Debugf("Theme changed to '%s', redraw requested", name)
	return nil
}

func (api *appEditorAPI) GetTheme() *theme.Theme { return api.app.themeManager.Current() }

func (api *appEditorAPI) ListThemes() []string { return api.app.themeManager.ListThemes() }

// --- Configuration ---

func (api *appEditorAPI) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	return api.app.cfg.PluginValue(pluginName, key)
}

// RequestQuit ends the application. Without force it refuses while there are
// unsaved changes, and waits for a running save to finish.
func (api *appEditorAPI) RequestQuit(force bool) {
	switch {
	case force:
		logger.Debugf("API: Force quit requested.")
	case api.app.editor.IsSaving():
		logger.Debugf("API: Quit requested while saving, quitting after the save.")
		api.app.quitAfterSave = true
		api.SetStatusMessage("Quitting after save...")
		return
	case api.app.editor.IsDirty():
		api.SetStatusMessage("No write since last change (use :q! or Ctrl+Q to force quit)")
		return
	}
	api.app.quit()
}

func indexOf[T comparable](items []T, item T) int {
	for i, it := range items {
		if it == item {
			return i
		}
	}
	return -1
}

// defaultName capitalizes a kind name: "light" becomes "Light".
func defaultName(kind string) string {
	if kind == "" {
		return "Node"
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}

// uniqueChildName returns base, or base.001, base.002 and so on, whichever is
// first free among parent's children.
func uniqueChildName(parent *scene.Node, base string) string {
	taken := make(map[string]bool, parent.ChildCount())
	for _, c := range parent.Children() {
		taken[c.Name] = true
	}
	if !taken[base] {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if !taken[name] {
			return name
		}
	}
}
