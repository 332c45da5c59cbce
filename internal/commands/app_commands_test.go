package commands

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/prism/internal/plugin"
	"github.com/bethropolis/prism/internal/scene"
	"github.com/bethropolis/prism/internal/theme"
)

// fakeAPI records the calls commands make. Methods the commands never use
// panic through the nil embedded interface.
type fakeAPI struct {
	plugin.EditorAPI

	commands map[string]plugin.CommandFunc
	calls    []string
	path     string
	message  string
	themes   map[string]*theme.Theme
	current  *theme.Theme
}

func newFakeAPI() *fakeAPI {
	dark := &theme.Theme{Name: "DevComfort Dark"}
	return &fakeAPI{
		commands: make(map[string]plugin.CommandFunc),
		themes:   map[string]*theme.Theme{"devcomfort dark": dark},
		current:  dark,
	}
}

func (f *fakeAPI) RegisterCommand(name string, fn plugin.CommandFunc) error {
	if _, ok := f.commands[name]; ok {
		return fmt.Errorf("command '%s' already registered", name)
	}
	f.commands[name] = fn
	return nil
}

func (f *fakeAPI) run(t *testing.T, name string, args ...string) error {
	t.Helper()
	fn, ok := f.commands[name]
	require.True(t, ok, "command %s registered", name)
	return fn(args)
}

func (f *fakeAPI) record(format string, args ...interface{}) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return nil
}

func (f *fakeAPI) ScenePath() string { return f.path }
func (f *fakeAPI) Save(path string) error { return f.record("save %q", path) }
func (f *fakeAPI) Revert() error { return f.record("revert") }
func (f *fakeAPI) RequestQuit(force bool) { _ = f.record("quit %v", force) }
func (f *fakeAPI) Undo() error { return f.record("undo") }
func (f *fakeAPI) Redo() error { return f.record("redo") }
func (f *fakeAPI) DeleteSelected() error { return f.record("delete") }
func (f *fakeAPI) Copy() error { return f.record("copy") }
func (f *fakeAPI) Paste() error { return f.record("paste") }
func (f *fakeAPI) ToggleFilter(n string) error { return f.record("togglefilter %s", n) }
func (f *fakeAPI) ToggleAppState(n string) error { return f.record("togglestate %s", n) }
func (f *fakeAPI) RemoveFilter(n string) error { return f.record("rmfilter %s", n) }
func (f *fakeAPI) RemoveAppState(n string) error { return f.record("rmstate %s", n) }
func (f *fakeAPI) RemoveAnimation(n string) error { return f.record("anim rm %s", n) }
func (f *fakeAPI) AddAnimation(n string, length time.Duration) error {
	return f.record("anim add %s %v", n, length)
}
func (f *fakeAPI) ToggleSelectedVisible() error { return f.record("hide") }
func (f *fakeAPI) RenameSelected(n string) error { return f.record("rename %s", n) }
func (f *fakeAPI) SetSelectedLayer(n string) error {
	return f.record("layer %q", n)
}
func (f *fakeAPI) AddNode(kind scene.Kind, name string) error {
	return f.record("add %s %q", kind, name)
}
func (f *fakeAPI) AddFilter(kind, name string) error {
	return f.record("filter %s %q", kind, name)
}
func (f *fakeAPI) AddAppState(kind, name string) error {
	return f.record("state %s %q", kind, name)
}
func (f *fakeAPI) NudgeSelected(dx, dy, dz float32) error {
	return f.record("nudge %g %g %g", dx, dy, dz)
}
func (f *fakeAPI) SetStatusMessage(format string, args ...interface{}) {
	f.message = fmt.Sprintf(format, args...)
}
func (f *fakeAPI) GetTheme() *theme.Theme { return f.current }
func (f *fakeAPI) ListThemes() []string { return []string{"devcomfort dark"} }
func (f *fakeAPI) SetTheme(name string) error {
	th, ok := f.themes[name]
	if !ok {
		return errors.New("not found")
	}
	f.current = th
	return nil
}

func registered(t *testing.T) *fakeAPI {
	t.Helper()
	api := newFakeAPI()
	RegisterAppCommands(api)
	return api
}

func TestFileCommands(t *testing.T) {
	api := registered(t)

	assert.Error(t, api.run(t, "w"), "no path yet")
	require.NoError(t, api.run(t, "w", "levels/one.yaml"))
	api.path = "levels/one.yaml"
	require.NoError(t, api.run(t, "write"))
	require.NoError(t, api.run(t, "wq"))
	require.NoError(t, api.run(t, "q"))
	require.NoError(t, api.run(t, "q!"))
	require.NoError(t, api.run(t, "revert"))

	assert.Equal(t, []string{
		`save "levels/one.yaml"`,
		`save ""`,
		`save ""`,
		"quit false",
		"quit false",
		"quit true",
		"revert",
	}, api.calls)
}

func TestEditCommands(t *testing.T) {
	api := registered(t)

	require.NoError(t, api.run(t, "add", "light", "Key", "Light"))
	require.NoError(t, api.run(t, "add", "Emitter"))
	assert.Error(t, api.run(t, "add", "camera"))
	assert.Error(t, api.run(t, "add"))
	require.NoError(t, api.run(t, "rename", "Crate"))
	assert.Error(t, api.run(t, "rename"))
	require.NoError(t, api.run(t, "nudge", "1", "-0.5", "2"))
	assert.Error(t, api.run(t, "nudge", "1", "x", "2"))
	assert.Error(t, api.run(t, "nudge", "1"))
	require.NoError(t, api.run(t, "layer", "props"))
	require.NoError(t, api.run(t, "layer"))
	require.NoError(t, api.run(t, "undo"))
	require.NoError(t, api.run(t, "redo"))

	assert.Equal(t, []string{
		`add light "Key Light"`,
		`add emitter ""`,
		"rename Crate",
		"nudge 1 -0.5 2",
		`layer "props"`,
		`layer ""`,
		"undo",
		"redo",
	}, api.calls)
}

func TestSceneCommands(t *testing.T) {
	api := registered(t)

	require.NoError(t, api.run(t, "filter", "fxaa"))
	require.NoError(t, api.run(t, "filter", "bloom", "soft", "glow"))
	require.NoError(t, api.run(t, "togglefilter", "fxaa"))
	require.NoError(t, api.run(t, "state", "sky", "day"))
	require.NoError(t, api.run(t, "togglestate", "day"))
	require.NoError(t, api.run(t, "rmfilter", "fxaa"))
	require.NoError(t, api.run(t, "rmstate", "day"))
	for _, name := range []string{"filter", "togglefilter", "state", "togglestate", "rmfilter", "rmstate"} {
		assert.Error(t, api.run(t, name), name)
	}

	assert.Equal(t, []string{
		`filter fxaa ""`,
		`filter bloom "soft glow"`,
		"togglefilter fxaa",
		`state sky "day"`,
		"togglestate day",
		"rmfilter fxaa",
		"rmstate day",
	}, api.calls)
}

func TestAnimCommand(t *testing.T) {
	api := registered(t)

	require.NoError(t, api.run(t, "anim", "add", "walk"))
	require.NoError(t, api.run(t, "anim", "add", "run", "1.5s"))
	require.NoError(t, api.run(t, "anim", "rm", "walk"))
	assert.Error(t, api.run(t, "anim", "add", "jump", "soon"))
	assert.Error(t, api.run(t, "anim", "add", "jump", "1s", "extra"))
	assert.Error(t, api.run(t, "anim", "play", "walk"))
	assert.Error(t, api.run(t, "anim", "rm"))

	assert.Equal(t, []string{
		"anim add walk 0s",
		"anim add run 1.5s",
		"anim rm walk",
	}, api.calls)
}

func TestThemeCommands(t *testing.T) {
	api := registered(t)

	require.NoError(t, api.run(t, "theme"))
	assert.Equal(t, "Current theme: DevComfort Dark", api.message)

	err := api.run(t, "theme", "solarized")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "devcomfort dark")

	require.NoError(t, api.run(t, "theme", "devcomfort", "dark"))
	assert.Equal(t, "Theme set to: devcomfort dark", api.message)

	require.NoError(t, api.run(t, "themes"))
	assert.Equal(t, "Available themes: devcomfort dark", api.message)
}

func TestRegisteringTwiceKeepsFirst(t *testing.T) {
	api := registered(t)
	before := len(api.commands)
	RegisterThemeCommands(api)
	assert.Len(t, api.commands, before)
}
