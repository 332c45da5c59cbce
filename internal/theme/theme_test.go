package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStyleFallsBack(t *testing.T) {
	th := &Theme{Name: "t", Styles: map[string]tcell.Style{
		StyleDefault: tcell.StyleDefault.Foreground(tcell.ColorWhite),
		StyleNode:    tcell.StyleDefault.Foreground(tcell.ColorGreen),
		"Node.light": tcell.StyleDefault.Foreground(tcell.ColorYellow),
	}}

	fg, _, _ := th.NodeStyle("light").Decompose()
	assert.Equal(t, tcell.ColorYellow, fg)
	fg, _, _ = th.NodeStyle("audio").Decompose()
	assert.Equal(t, tcell.ColorGreen, fg, "falls back to the base name")
	fg, _, _ = th.GetStyle("Missing").Decompose()
	assert.Equal(t, tcell.ColorWhite, fg, "falls back to Default")

	empty := &Theme{Name: "empty"}
	assert.Equal(t, tcell.StyleDefault, empty.GetStyle("Anything"))
}

func TestParseColorString(t *testing.T) {
	c, err := parseColorString("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, tcell.NewHexColor(0xff0000), c)

	c, err = parseColorString(" Reset ")
	require.NoError(t, err)
	assert.Equal(t, tcell.ColorReset, c)

	c, err = parseColorString("navy")
	require.NoError(t, err)
	assert.Equal(t, tcell.ColorNavy, c)

	for _, bad := range []string{"#fff", "#gggggg", "notacolor"} {
		_, err := parseColorString(bad)
		assert.Error(t, err, bad)
	}
}

const solarized = `
name = "Solarized"
is_dark = true

[styles.Default]
fg = "#839496"

[styles."Node.light"]
fg = "#b58900"
bold = true

[styles.Broken]
fg = "nope"
`

func TestManagerLoadsThemesFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "solarized.toml"), []byte(solarized), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.toml"), []byte("name = ["), 0o644))

	m := NewManager(dir)
	assert.Equal(t, DevComfortDark.Name, m.Current().Name)
	assert.Equal(t, []string{"DevComfort Dark", "Solarized"}, m.ListThemes())

	require.NoError(t, m.SetTheme("solarized"))
	th := m.Current()
	assert.True(t, th.IsDark)

	fg, _, attrs := th.NodeStyle("light").Decompose()
	assert.Equal(t, tcell.NewHexColor(0xb58900), fg)
	assert.NotZero(t, attrs&tcell.AttrBold)
	_, ok := th.Styles["Broken"]
	assert.False(t, ok, "unparsable styles are skipped")

	assert.Error(t, m.SetTheme("missing"))
	assert.Equal(t, "Solarized", m.Current().Name)
}

func TestManagerCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "themes")
	m := NewManager(dir)
	assert.DirExists(t, dir)
	assert.Equal(t, []string{"DevComfort Dark"}, m.ListThemes())

	_, ok := NewManager("").GetTheme("DEVCOMFORT DARK")
	assert.True(t, ok)
}
