// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/bethropolis/prism/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// DefaultMessageTimeout is how long a temporary message stays up.
const DefaultMessageTimeout = 4 * time.Second

// Config defines the behavior of the status bar. Styles come from the theme
// passed to Draw.
type Config struct {
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{MessageTimeout: DefaultMessageTimeout}
}

// StatusBar is the bottom line of the screen.
type StatusBar struct {
	config Config
	mu     sync.RWMutex
	now    func() time.Time

	filePath   string
	dirty      bool
	saving     bool
	selected   string
	undoCount  int
	redoCount  int
	editorMode string

	tempMessage     string
	tempMessageTime time.Time
	command         bool // tempMessage is the command line being typed
}

// New creates a StatusBar with the given configuration.
func New(config Config) *StatusBar {
	if config.MessageTimeout <= 0 {
		config.MessageTimeout = DefaultMessageTimeout
	}
	return &StatusBar{config: config, now: time.Now}
}

// SetFileInfo updates the scene file path and its dirty flag.
func (sb *StatusBar) SetFileInfo(path string, dirty bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.dirty = dirty
}

// SetSaving toggles the saving indicator.
func (sb *StatusBar) SetSaving(saving bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.saving = saving
}

// SetSelection shows the path of the selected node.
func (sb *StatusBar) SetSelection(path string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.selected = path
}

// SetHistory shows the undo and redo depth.
func (sb *StatusBar) SetHistory(undo, redo int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.undoCount = undo
	sb.redoCount = redo
}

// SetEditorMode updates the displayed editor mode.
func (sb *StatusBar) SetEditorMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.editorMode = mode
}

// SetTemporaryMessage displays a message for the configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
	sb.command = false
}

// SetCommandLine shows the command being typed until it is reset.
func (sb *StatusBar) SetCommandLine(text string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ":" + text
	sb.tempMessageTime = time.Time{}
	sb.command = true
}

// ResetTemporaryMessage clears any temporary message or command line.
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
	sb.command = false
}

// Text returns what Draw would show, expiring a stale message first.
func (sb *StatusBar) Text() string {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	text, _ := sb.current()
	return text
}

// current picks the line to show. Callers hold mu.
func (sb *StatusBar) current() (string, string) {
	if sb.command {
		return sb.tempMessage, theme.StyleStatusBarCommand
	}
	if !sb.tempMessageTime.IsZero() {
		if sb.now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout {
			return sb.tempMessage, theme.StyleStatusBarMessage
		}
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}
	return sb.defaultText(), theme.StyleStatusBar
}

func (sb *StatusBar) defaultText() string {
	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	}
	state := ""
	switch {
	case sb.saving:
		state = " [Saving]"
	case sb.dirty:
		state = " [Modified]"
	}

	modeIndicator := ""
	if sb.editorMode != "" {
		modeIndicator = fmt.Sprintf(" -- %s", sb.editorMode)
	}
	sel := ""
	if sb.selected != "" {
		sel = " -- " + sb.selected
	}
	return fmt.Sprintf("%s%s%s -- undo %d, redo %d%s",
		fPath, state, sel, sb.undoCount, sb.redoCount, modeIndicator)
}

// Draw renders the status bar on the last line of the screen.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int, th *theme.Theme) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	sb.mu.Lock()
	text, styleName := sb.current()
	if styleName == theme.StyleStatusBar && sb.dirty && !sb.saving {
		styleName = theme.StyleStatusBarModified
	}
	sb.mu.Unlock()

	style := th.GetStyle(styleName)
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	gr := uniseg.NewGraphemes(text)
	currentX := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > width {
			break
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			screen.SetContent(currentX, y, runes[0], runes[1:], style)
		}
		currentX += clusterWidth
	}
}
