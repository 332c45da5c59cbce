// internal/plugin/plugin.go
package plugin

import (
	"time"

	"github.com/bethropolis/prism/internal/event"
	"github.com/bethropolis/prism/internal/scene"
	"github.com/bethropolis/prism/internal/theme"
	"github.com/gdamore/tcell/v2"
)

// CommandFunc is a command registered for the ':' command line.
type CommandFunc func(args []string) error

// EditorAPI is what plugins and built-in commands may do to the editor.
// Every method must be called from the GUI context; Post schedules work
// there from any goroutine.
type EditorAPI interface {
	// --- Scene state ---
	ScenePath() string
	IsSceneDirty() bool
	IsSaving() bool
	Selected() *scene.Node
	// ViewScene runs fn with the scene while the engine is held still.
	ViewScene(fn func(s *scene.Scene))

	// --- Scene edits (each one is undoable) ---
	AddNode(kind scene.Kind, name string) error
	DeleteSelected() error
	RenameSelected(name string) error
	MoveSelected(delta int) error
	NudgeSelected(dx, dy, dz float32) error
	ToggleSelectedVisible() error
	SetSelectedLayer(name string) error
	AddFilter(kind, name string) error
	ToggleFilter(name string) error
	AddAppState(kind, name string) error
	RemoveFilter(name string) error
	ToggleAppState(name string) error
	RemoveAppState(name string) error
	AddAnimation(name string, length time.Duration) error
	RemoveAnimation(name string) error
	Copy() error
	Paste() error
	Undo() error
	Redo() error

	// --- Files ---
	// Save writes the scene to path, or to its current path when path is "".
	Save(path string) error
	Revert() error

	// --- Event Bus Interaction ---
	DispatchEvent(eventType event.Type, data interface{})
	SubscribeEvent(eventType event.Type, handler event.Handler)
	Post(fn func())

	// --- Command Registration ---
	RegisterCommand(name string, cmdFunc CommandFunc) error

	// --- Status Bar ---
	SetStatusMessage(format string, args ...interface{})

	// --- Theme Access ---
	GetThemeStyle(styleName string) tcell.Style
	SetTheme(name string) error
	GetTheme() *theme.Theme
	ListThemes() []string

	// --- Configuration ---
	GetPluginConfigValue(pluginName, key string) (interface{}, bool)

	RequestQuit(force bool)
}

// Plugin is implemented by every plugin.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded, on the GUI
	// context. Plugins subscribe to events and register commands here.
	Initialize(api EditorAPI) error

	// Shutdown is called once when the editor is closing.
	Shutdown() error
}
