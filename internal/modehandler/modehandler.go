// internal/modehandler/modehandler.go
package modehandler

import (
	"fmt"
	"sort"

	"github.com/bethropolis/prism/internal/event"
	"github.com/bethropolis/prism/internal/input"
	"github.com/bethropolis/prism/internal/logger"
	"github.com/bethropolis/prism/internal/plugin"
	"github.com/bethropolis/prism/internal/statusbar"
	"github.com/bethropolis/prism/internal/treeview"
	"github.com/gdamore/tcell/v2"
)

// InputMode is the state the key handler is in.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeCommand
)

func (m InputMode) String() string {
	if m == ModeCommand {
		return "COMMAND"
	}
	return "NORMAL"
}

// defaultPageSize is used for PgUp/PgDn before the tree has been drawn.
const defaultPageSize = 10

// ModeHandler turns key events into editor actions and runs ':' commands.
// It runs on the GUI context only.
type ModeHandler struct {
	api            plugin.EditorAPI
	tree           *treeview.Tree
	inputProcessor *input.InputProcessor
	eventManager   *event.Manager
	statusBar      *statusbar.StatusBar

	currentMode      InputMode
	cmdBuffer        []rune
	commands         map[string]plugin.CommandFunc
	forceQuitPending bool
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	API            plugin.EditorAPI
	Tree           *treeview.Tree
	InputProcessor *input.InputProcessor
	EventManager   *event.Manager
	StatusBar      *statusbar.StatusBar
}

// New creates a ModeHandler. API may be nil until SetAPI is called, which
// lets the API register commands on a handler it does not own yet.
func New(cfg Config) *ModeHandler {
	if cfg.Tree == nil || cfg.InputProcessor == nil || cfg.EventManager == nil || cfg.StatusBar == nil {
		panic("modehandler.New: Missing required dependencies in Config")
	}
	return &ModeHandler{
		api:            cfg.API,
		tree:           cfg.Tree,
		inputProcessor: cfg.InputProcessor,
		eventManager:   cfg.EventManager,
		statusBar:      cfg.StatusBar,
		currentMode:    ModeNormal,
		commands:       make(map[string]plugin.CommandFunc),
	}
}

// SetAPI sets the editor API actions are run against.
func (mh *ModeHandler) SetAPI(api plugin.EditorAPI) { mh.api = api }

// HandleKeyEvent handles one key and reports whether a redraw is needed.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	mh.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev})

	actionEvent := mh.inputProcessor.ProcessEvent(ev)
	switch mh.currentMode {
	case ModeNormal:
		return mh.handleActionNormal(actionEvent)
	case ModeCommand:
		return mh.handleActionCommand(actionEvent)
	default:
		logger.Warnf("ModeHandler: Unknown input mode: %v", mh.currentMode)
		return false
	}
}

// RegisterCommand adds a ':' command.
func (mh *ModeHandler) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if cmdFunc == nil {
		return fmt.Errorf("command '%s' has no function", name)
	}
	if _, exists := mh.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	mh.commands[name] = cmdFunc
	logger.DebugTagf("command", "ModeHandler: Registered command ':%s'", name)
	return nil
}

// Commands returns the registered command names, sorted.
func (mh *ModeHandler) Commands() []string {
	names := make([]string, 0, len(mh.commands))
	for name := range mh.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetCurrentMode returns the current input mode.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	return mh.currentMode
}

// GetCommandBuffer returns the command being typed.
func (mh *ModeHandler) GetCommandBuffer() string {
	if mh.currentMode == ModeCommand {
		return string(mh.cmdBuffer)
	}
	return ""
}

func (mh *ModeHandler) pageSize() int {
	if h := mh.tree.ViewHeight(); h > 0 {
		return h
	}
	return defaultPageSize
}
