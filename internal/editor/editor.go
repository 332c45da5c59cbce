// Package editor is the undoable scene editor: it owns the operation history
// and change counter, publishes scene changes to the event bus and saves the
// scene without stalling the engine.
package editor

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bethropolis/prism/internal/change"
	"github.com/bethropolis/prism/internal/dispatch"
	"github.com/bethropolis/prism/internal/event"
	"github.com/bethropolis/prism/internal/logger"
	"github.com/bethropolis/prism/internal/operation"
	"github.com/bethropolis/prism/internal/scene"
	"github.com/bethropolis/prism/internal/sceneio"
	"github.com/bethropolis/prism/internal/undo"
	"github.com/bethropolis/prism/internal/watch"
)

const logTag = "editor"

var (
	// ErrSaving is returned by Save while a previous save is still running.
	ErrSaving = errors.New("editor: save already in progress")
	// ErrNoPath is returned by Save and Revert for a scene that was never saved.
	ErrNoPath = errors.New("editor: scene has no file path")
)

// Runtime is what the editor needs from the execution contexts.
type Runtime interface {
	dispatch.Dispatcher
	dispatch.Locker
}

// Op is an operation the scene editor can execute.
type Op = undo.Operation[*SceneEditor]

// Option configures a SceneEditor.
type Option func(*SceneEditor)

// WithHistorySize bounds the undo history.
func WithHistorySize(n int) Option {
	return func(e *SceneEditor) { e.historySize = n }
}

// WithEvents publishes editor events on m instead of a private bus.
func WithEvents(m *event.Manager) Option {
	return func(e *SceneEditor) { e.events = m }
}

// SceneEditor edits one scene.
//
// The scene itself belongs to the engine context. Every other field is GUI
// state and is only read or written on the GUI context.
type SceneEditor struct {
	rt     Runtime
	gui    dispatch.Context
	events *event.Manager

	historySize int
	history     *undo.Control[*SceneEditor]
	changes     undo.Counter
	dirty       bool

	path         string
	saving       bool
	saveCallback func(error)
	savedSum     [sha256.Size]byte
	// Change count and file hash of the save in flight.
	savingChanges int
	writingSum    [sha256.Size]byte

	scene *scene.Scene // engine context, or AsyncLock held
}

var (
	_ undo.Editor           = (*SceneEditor)(nil)
	_ change.SceneConsumer  = (*SceneEditor)(nil)
	_ operation.SceneEditor = (*SceneEditor)(nil)
	_ operation.ModelEditor = (*SceneEditor)(nil)
)

// New creates an editor for s, which has not been saved yet unless path is set.
func New(rt Runtime, gui dispatch.Context, s *scene.Scene, path string, opts ...Option) *SceneEditor {
	e := &SceneEditor{
		rt:          rt,
		gui:         gui,
		scene:       s,
		path:        path,
		historySize: undo.DefaultHistorySize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.events == nil {
		e.events = event.NewManager()
	}
	e.history = undo.NewControl[*SceneEditor](e, gui,
		undo.WithHistorySize(e.historySize),
		undo.WithOnChange(e.historyChanged),
	)
	return e
}

// Open loads the scene at path, or starts an empty one named after the file
// when it does not exist yet. Call it before the contexts start running.
func Open(rt Runtime, gui dispatch.Context, path string, opts ...Option) (*SceneEditor, error) {
	s, sum, err := loadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		logger.Infof("Editor: %s does not exist, starting a new scene", path)
		return New(rt, gui, scene.New(name), path, opts...), nil
	}
	if err != nil {
		return nil, err
	}
	e := New(rt, gui, s, path, opts...)
	e.savedSum = sum
	return e, nil
}

func loadFile(path string) (*scene.Scene, [sha256.Size]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, [sha256.Size]byte{}, err
	}
	s, err := sceneio.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, [sha256.Size]byte{}, err
	}
	return s, sha256.Sum256(data), nil
}

// Events returns the bus editor events are published on.
func (e *SceneEditor) Events() *event.Manager { return e.events }

// History returns the operation control. GUI context only.
func (e *SceneEditor) History() *undo.Control[*SceneEditor] { return e.history }

// Execute applies op and records it.
func (e *SceneEditor) Execute(op Op) error { return e.history.Execute(op) }

// Undo reverts the most recent operation.
func (e *SceneEditor) Undo() error { return e.history.Undo() }

// Redo re-applies the most recently undone operation.
func (e *SceneEditor) Redo() error { return e.history.Redo() }

// ClearHistory drops every recorded operation.
func (e *SceneEditor) ClearHistory() { e.history.Clear() }

// IncrementChange records an applied action.
func (e *SceneEditor) IncrementChange() {
	e.changes.IncrementChange()
	e.updateDirty()
}

// DecrementChange records an undone action.
func (e *SceneEditor) DecrementChange() {
	e.changes.DecrementChange()
	e.updateDirty()
}

// Changes returns the net change count since the last save or load.
func (e *SceneEditor) Changes() int { return e.changes.Changes() }

// IsDirty reports unsaved changes. Undoing back to the saved state makes the
// scene clean again.
func (e *SceneEditor) IsDirty() bool { return e.dirty }

// IsSaving reports whether a save is running.
func (e *SceneEditor) IsSaving() bool { return e.saving }

// Path returns the scene file path.
func (e *SceneEditor) Path() string { return e.path }

func (e *SceneEditor) updateDirty() {
	e.setDirty(e.changes.Changes() != 0)
}

func (e *SceneEditor) setDirty(dirty bool) {
	if e.dirty == dirty {
		return
	}
	e.dirty = dirty
	e.events.Dispatch(event.TypeDirtyChanged, event.DirtyData{Dirty: dirty})
}

func (e *SceneEditor) historyChanged() {
	e.events.Dispatch(event.TypeHistoryChanged, event.HistoryData{
		Undo: e.history.Len(),
		Redo: e.history.RedoLen(),
	})
}

// Update advances the scene by one frame. Register it with Engine.OnUpdate.
func (e *SceneEditor) Update(tpf time.Duration) { e.scene.Update(tpf) }

// View runs fn with the scene while holding the engine's async lock, so a
// GUI reader never sees a frame half applied. fn must not post and wait on
// the engine.
func (e *SceneEditor) View(fn func(s *scene.Scene)) {
	stamp := e.rt.AsyncLock()
	defer e.unlock(stamp)
	fn(e.scene)
}

func (e *SceneEditor) unlock(stamp dispatch.Stamp) {
	if err := e.rt.AsyncUnlock(stamp); err != nil {
		logger.Errorf("Editor: async unlock: %v", err)
	}
}

func (e *SceneEditor) onGUI(task dispatch.Task) error {
	if e.gui.InContext() {
		return task()
	}
	e.gui.Post(task)
	return nil
}

// Watch reports external changes to the scene file until ctx is done.
// A clean scene is reverted; a dirty one only publishes
// TypeFileChangedExternally so the user can decide.
func (e *SceneEditor) Watch(ctx context.Context) error {
	if e.path == "" {
		return ErrNoPath
	}
	w, err := watch.New(e.path, 0, func(path string) {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.DebugTagf(logTag, "Editor: watched file unreadable: %v", err)
			return
		}
		sum := sha256.Sum256(data)
		e.gui.Post(func() error {
			e.externalChange(sum)
			return nil
		})
	})
	if err != nil {
		return err
	}
	defer w.Close()
	logger.Infof("Editor: watching %s", w.Path())
	return w.Run(ctx)
}

func (e *SceneEditor) externalChange(sum [sha256.Size]byte) {
	if sum == e.savedSum {
		return
	}
	// The watcher can see the rename before postSave records the new hash.
	if e.saving && sum == e.writingSum {
		logger.DebugTagf(logTag, "Editor: saw our own write while saving")
		return
	}
	logger.InfoTagf(logTag, "Editor: %s changed on disk", e.path)
	if e.dirty || e.saving {
		e.events.Dispatch(event.TypeFileChangedExternally, event.SceneData{FilePath: e.path})
		return
	}
	if err := e.Revert(); err != nil {
		logger.Warnf("Editor: revert after external change: %v", err)
	}
}
