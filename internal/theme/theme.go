// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/prism/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Style names used by the tree pane and status bar. Node styles are looked up
// as "Node.<kind>" and fall back to "Node".
const (
	StyleDefault           = "Default"
	StyleSelection         = "Selection"
	StyleGuide             = "TreeGuide"
	StyleNode              = "Node"
	StyleHidden            = "Hidden"
	StyleStatusBar         = "StatusBar"
	StyleStatusBarModified = "StatusBarModified"
	StyleStatusBarMessage  = "StatusBarMessage"
	StyleStatusBarCommand  = "StatusBarCommand"
)

type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle resolves name, then the part before its first dot, then "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		baseName := name[:dotIndex]
		if style, ok := t.Styles[baseName]; ok {
			return style
		}
	}

	if defStyle, ok := t.Styles[StyleDefault]; ok {
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// NodeStyle returns the style for a node of the named kind.
func (t *Theme) NodeStyle(kind string) tcell.Style {
	return t.GetStyle(StyleNode + "." + kind)
}

// DevComfortDark is the built-in theme.
var DevComfortDark = newDevComfortDark()

func newDevComfortDark() Theme {
	dcBackground := tcell.NewHexColor(0x2a2f38)
	dcForeground := tcell.NewHexColor(0xc5cdd9)
	dcComment := tcell.NewHexColor(0x5c6370)
	dcOrange := tcell.NewHexColor(0xd19a66)
	dcYellow := tcell.NewHexColor(0xe5c07b)
	dcGreen := tcell.NewHexColor(0x98c379)
	dcCyan := tcell.NewHexColor(0x56b6c2)
	dcBlue := tcell.NewHexColor(0x61afef)
	dcMagenta := tcell.NewHexColor(0xc678dd)

	// Terminal background, DevComfort foreground
	baseStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(dcForeground)

	return Theme{
		Name:   "DevComfort Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			StyleDefault:   baseStyle,
			StyleSelection: baseStyle.Reverse(true),
			StyleGuide:     baseStyle.Foreground(dcComment),
			StyleHidden:    baseStyle.Foreground(dcComment).Italic(true),

			StyleNode:       baseStyle,
			"Node.geometry": baseStyle.Foreground(dcCyan),
			"Node.light":    baseStyle.Foreground(dcYellow),
			"Node.emitter":  baseStyle.Foreground(dcOrange),
			"Node.audio":    baseStyle.Foreground(dcMagenta),

			StyleStatusBar:         tcell.StyleDefault.Background(dcBackground).Foreground(dcForeground),
			StyleStatusBarModified: tcell.StyleDefault.Background(dcBackground).Foreground(dcYellow),
			StyleStatusBarMessage:  tcell.StyleDefault.Background(dcBackground).Foreground(dcForeground).Bold(true),
			StyleStatusBarCommand:  tcell.StyleDefault.Background(dcBackground).Foreground(dcGreen).Bold(true),
			"StatusBarSaving":      tcell.StyleDefault.Background(dcBackground).Foreground(dcBlue),
		},
	}
}
