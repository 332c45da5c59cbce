// internal/event/event.go
package event

import (
	"fmt"

	"github.com/bethropolis/prism/internal/scene"
	"github.com/gdamore/tcell/v2"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Scene tree changes, published after the engine applied them
	TypeChildAdded
	TypeChildRemoved
	TypePropertyChanged
	TypeNodeMoved
	TypeLayerChanged

	// Scene-level collections
	TypeAppStateAdded
	TypeAppStateRemoved
	TypeAppStateChanged
	TypeFilterAdded
	TypeFilterRemoved
	TypeFilterChanged

	// Editor state
	TypeHistoryChanged
	TypeDirtyChanged
	TypeSceneLoaded
	TypeSavingStarted
	TypeSavingFinished
	TypeSceneSaved
	TypeFileChangedExternally
	TypeSelectionChanged

	TypeKeyPressed

	// Application lifecycle
	TypeAppReady
	TypeAppQuit

	TypeThemeChanged
)

var typeNames = [...]string{
	TypeUnknown:               "unknown",
	TypeChildAdded:            "child-added",
	TypeChildRemoved:          "child-removed",
	TypePropertyChanged:       "property-changed",
	TypeNodeMoved:             "node-moved",
	TypeLayerChanged:          "layer-changed",
	TypeAppStateAdded:         "app-state-added",
	TypeAppStateRemoved:       "app-state-removed",
	TypeAppStateChanged:       "app-state-changed",
	TypeFilterAdded:           "filter-added",
	TypeFilterRemoved:         "filter-removed",
	TypeFilterChanged:         "filter-changed",
	TypeHistoryChanged:        "history-changed",
	TypeDirtyChanged:          "dirty-changed",
	TypeSceneLoaded:           "scene-loaded",
	TypeSavingStarted:         "saving-started",
	TypeSavingFinished:        "saving-finished",
	TypeSceneSaved:            "scene-saved",
	TypeFileChangedExternally: "file-changed-externally",
	TypeSelectionChanged:      "selection-changed",
	TypeKeyPressed:            "key-pressed",
	TypeAppReady:              "app-ready",
	TypeAppQuit:               "app-quit",
	TypeThemeChanged:          "theme-changed",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// ChildData goes with TypeChildAdded and TypeChildRemoved. Parent and Child
// are nodes, or an animation control and one of its animations.
type ChildData struct {
	Parent     interface{}
	Child      interface{}
	Index      int // -1 for removals
	NeedSelect bool
}

// PropertyData goes with TypePropertyChanged.
type PropertyData struct {
	Object   interface{}
	Property string
}

// MovedData goes with TypeNodeMoved.
type MovedData struct {
	PrevParent *scene.Node
	NewParent  *scene.Node
	Node       *scene.Node
	Index      int
	NeedSelect bool
}

// LayerData goes with TypeLayerChanged.
type LayerData struct {
	Node *scene.Node
	Prev *scene.Layer
	Next *scene.Layer
}

// AppStateData goes with the app state events.
type AppStateData struct {
	State *scene.AppState
}

// FilterData goes with the filter events.
type FilterData struct {
	Filter *scene.Filter
}

// HistoryData goes with TypeHistoryChanged.
type HistoryData struct {
	Undo, Redo int
}

// DirtyData goes with TypeDirtyChanged.
type DirtyData struct {
	Dirty bool
}

// SceneData goes with TypeSceneLoaded, TypeSceneSaved and TypeFileChangedExternally.
type SceneData struct {
	FilePath string
}

// SavingData goes with TypeSavingStarted and TypeSavingFinished.
type SavingData struct {
	FilePath string
	Err      error // set on a failed save
}

// SelectionData goes with TypeSelectionChanged.
type SelectionData struct {
	Node *scene.Node
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

// ThemeChangedData names the theme now active.
type ThemeChangedData struct {
	Name string
}

type AppQuitData struct{}

type AppReadyData struct{}
