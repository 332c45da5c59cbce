// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bethropolis/prism/internal/clipboard"
	"github.com/bethropolis/prism/internal/commands"
	"github.com/bethropolis/prism/internal/config"
	"github.com/bethropolis/prism/internal/dispatch"
	"github.com/bethropolis/prism/internal/editor"
	"github.com/bethropolis/prism/internal/event"
	"github.com/bethropolis/prism/internal/input"
	"github.com/bethropolis/prism/internal/logger"
	"github.com/bethropolis/prism/internal/modehandler"
	"github.com/bethropolis/prism/internal/plugin"
	"github.com/bethropolis/prism/internal/scene"
	"github.com/bethropolis/prism/internal/statusbar"
	"github.com/bethropolis/prism/internal/theme"
	"github.com/bethropolis/prism/internal/treeview"
	"github.com/bethropolis/prism/internal/tui"
	"github.com/gdamore/tcell/v2"
)

// refreshInterval redraws the screen even without a request, so engine-side
// changes such as settling bodies and expiring status messages show up.
const refreshInterval = 250 * time.Millisecond

// newSceneName names the root of a scene started without a file.
const newSceneName = "Scene"

// Options configures NewApp.
type Options struct {
	Config   *config.Config
	FilePath string
	// Screen replaces the terminal, e.g. with a tcell.SimulationScreen.
	Screen tcell.Screen
	// ThemesDir overrides the user themes directory.
	ThemesDir string
}

// App wires the execution contexts, the scene editor and the terminal UI.
type App struct {
	cfg           *config.Config
	exec          *dispatch.Executor
	editor        *editor.SceneEditor
	tuiManager    *tui.TUI
	tree          *treeview.Tree
	statusBar     *statusbar.StatusBar
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	modeHandler   *modehandler.ModeHandler
	themeManager  *theme.Manager
	clipboard     *clipboard.Manager
	editorAPI     *appEditorAPI

	redrawRequest chan struct{}
	quitAfterSave bool

	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

// NewApp creates the editor for opts.FilePath and the UI around it. Nothing
// runs until Run is called.
func NewApp(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	exec := dispatch.NewExecutor(cfg.Editor.FrameRate, cfg.Editor.BackgroundWorkers)
	eventManager := event.NewManager()
	edOpts := []editor.Option{
		editor.WithHistorySize(cfg.Editor.HistorySize),
		editor.WithEvents(eventManager),
	}

	var ed *editor.SceneEditor
	if opts.FilePath == "" {
		ed = editor.New(exec, exec.GUI, scene.New(newSceneName), "", edOpts...)
	} else {
		var err error
		ed, err = editor.Open(exec, exec.GUI, opts.FilePath, edOpts...)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", opts.FilePath, err)
		}
	}
	exec.Engine.OnUpdate(ed.Update)

	themeManager := newThemeManager(opts.ThemesDir, cfg.Editor.Theme)

	var tuiManager *tui.TUI
	var err error
	if opts.Screen != nil {
		tuiManager, err = tui.NewWithScreen(opts.Screen, themeManager.Current())
	} else {
		tuiManager, err = tui.New(themeManager.Current())
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	tree := treeview.New()
	tree.ScrollOff = cfg.Editor.ScrollOff
	ed.View(func(s *scene.Scene) { tree.Rebuild(s.Root) })

	sbCfg := statusbar.DefaultConfig()
	sbCfg.MessageTimeout = config.MessageTimeout
	statusBar := statusbar.New(sbCfg)
	statusBar.SetFileInfo(ed.Path(), false)

	a := &App{
		cfg:           cfg,
		exec:          exec,
		editor:        ed,
		tuiManager:    tuiManager,
		tree:          tree,
		statusBar:     statusBar,
		eventManager:  eventManager,
		pluginManager: plugin.NewManager(),
		themeManager:  themeManager,
		clipboard:     clipboard.NewManager(cfg.Editor.SystemClipboard),
		redrawRequest: make(chan struct{}, 1),
	}

	a.modeHandler = modehandler.New(modehandler.Config{
		Tree:           tree,
		InputProcessor: input.NewInputProcessor(),
		EventManager:   eventManager,
		StatusBar:      statusBar,
	})
	a.editorAPI = newEditorAPI(a)
	a.modeHandler.SetAPI(a.editorAPI)

	a.subscribe()
	commands.RegisterAppCommands(a.editorAPI)
	if err := registerPlugins(a.pluginManager); err != nil {
		logger.Warnf("App: %v", err)
	}
	return a, nil
}

func newThemeManager(dir, name string) *theme.Manager {
	if dir == "" {
		var err error
		if dir, err = config.ThemesDir(); err != nil {
			logger.Warnf("App: no themes directory: %v", err)
		}
	}
	m := theme.NewManager(dir)
	if name != "" {
		if err := m.SetTheme(name); err != nil {
			logger.Warnf("App: %v, keeping %s", err, m.Current().Name)
		}
	}
	return m
}

// Run starts the engine and background contexts, runs the GUI loop on the
// calling goroutine and returns once the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancelMu.Lock()
	a.cancel = cancel
	a.cancelMu.Unlock()
	defer cancel()

	a.exec.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.pollEvents)
	g.Go(func() error { return a.redrawLoop(gctx) })
	if a.cfg.Editor.WatchFile && a.editor.Path() != "" {
		g.Go(func() error {
			err := a.editor.Watch(gctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warnf("App: not watching %s: %v", a.editor.Path(), err)
			}
			return nil
		})
	}

	// Queued ahead of every key press.
	a.exec.GUI.Post(func() error {
		if err := a.pluginManager.InitializePlugins(a.editorAPI); err != nil {
			logger.Warnf("App: %v", err)
		}
		a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
		a.statusBar.SetTemporaryMessage("Prism - :w Save | u Undo | r Redo | ESC Quit")
		a.requestRedraw()
		return nil
	})

	err := a.exec.GUI.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, dispatch.ErrStopped) {
		err = nil
	}

	a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
	a.pluginManager.ShutdownPlugins()
	if a.editor.IsDirty() {
		logger.Warnf("App: exited with unsaved changes to %s", a.editor.Path())
	}

	cancel()
	a.exec.Stop()
	// Closing the screen unblocks PollEvent.
	a.tuiManager.Close()
	if werr := g.Wait(); werr != nil && err == nil {
		err = werr
	}
	logger.Infof("Exiting application.")
	return err
}

// quit ends Run.
func (a *App) quit() {
	a.cancelMu.Lock()
	cancel := a.cancel
	a.cancelMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// pollEvents forwards terminal events to the GUI context until the screen is closed.
func (a *App) pollEvents() error {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return nil
		}
		a.exec.GUI.Post(func() error {
			a.handleTerminalEvent(ev)
			return nil
		})
	}
}

func (a *App) handleTerminalEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.Sync()
		a.requestRedraw()
	case *tcell.EventKey:
		if a.modeHandler.HandleKeyEvent(ev) {
			a.requestRedraw()
		}
	}
}

// Editor returns the scene editor.
func (a *App) Editor() *editor.SceneEditor { return a.editor }

// API returns the editor API plugins see.
func (a *App) API() plugin.EditorAPI { return a.editorAPI }
