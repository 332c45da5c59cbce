package autosave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/prism/internal/plugin"
)

type fakeAPI struct {
	plugin.EditorAPI

	config   map[string]interface{}
	posted   chan func()
	dirty    bool
	saving   bool
	path     string
	saves    int
	message  string
	commands map[string]plugin.CommandFunc
}

func newFakeAPI(config map[string]interface{}) *fakeAPI {
	return &fakeAPI{
		config:   config,
		posted:   make(chan func(), 8),
		path:     "level.yaml",
		commands: make(map[string]plugin.CommandFunc),
	}
}

func (f *fakeAPI) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	if pluginName != "autosave" {
		return nil, false
	}
	v, ok := f.config[key]
	return v, ok
}

func (f *fakeAPI) RegisterCommand(name string, fn plugin.CommandFunc) error {
	f.commands[name] = fn
	return nil
}

func (f *fakeAPI) Post(fn func()) { f.posted <- fn }
func (f *fakeAPI) IsSceneDirty() bool { return f.dirty }
func (f *fakeAPI) IsSaving() bool { return f.saving }
func (f *fakeAPI) ScenePath() string { return f.path }
func (f *fakeAPI) Save(path string) error {
	f.saves++
	return nil
}
func (f *fakeAPI) SetStatusMessage(format string, args ...interface{}) { f.message = format }

// manualTicker lets the test decide when the timer fires.
func manualTicker(ticks chan time.Time) func(time.Duration) (<-chan time.Time, func()) {
	return func(time.Duration) (<-chan time.Time, func()) { return ticks, func() {} }
}

// fire ticks once and runs the check the timer posted, as the GUI would.
func fire(t *testing.T, api *fakeAPI, ticks chan time.Time) {
	t.Helper()
	ticks <- time.Now()
	select {
	case fn := <-api.posted:
		fn()
	case <-time.After(time.Second):
		t.Fatal("timer did not post a check")
	}
}

func newPlugin(t *testing.T, config map[string]interface{}) (*AutoSave, *fakeAPI, chan time.Time) {
	t.Helper()
	p := New().(*AutoSave)
	ticks := make(chan time.Time)
	p.tick = manualTicker(ticks)
	api := newFakeAPI(config)
	require.NoError(t, p.Initialize(api))
	t.Cleanup(func() { _ = p.Shutdown() })
	return p, api, ticks
}

func TestReadsConfig(t *testing.T) {
	p, _, _ := newPlugin(t, map[string]interface{}{"enabled": true, "interval": "30s"})
	assert.True(t, p.Enabled())
	assert.Equal(t, 30*time.Second, p.interval)

	p, _, _ = newPlugin(t, map[string]interface{}{"enabled": "yes", "interval": "-1s"})
	assert.False(t, p.Enabled())
	assert.Equal(t, defaultInterval, p.interval)
}

func TestSavesOnlyWhenNeeded(t *testing.T) {
	_, api, ticks := newPlugin(t, map[string]interface{}{"enabled": true})

	fire(t, api, ticks)
	assert.Equal(t, 0, api.saves, "clean scene")

	api.dirty = true
	api.saving = true
	fire(t, api, ticks)
	assert.Equal(t, 0, api.saves, "save already running")

	api.saving = false
	api.path = ""
	fire(t, api, ticks)
	assert.Equal(t, 0, api.saves, "no file yet")

	api.path = "level.yaml"
	fire(t, api, ticks)
	assert.Equal(t, 1, api.saves)
}

func TestToggleCommand(t *testing.T) {
	p, api, ticks := newPlugin(t, nil)
	assert.False(t, p.Enabled())
	assert.Nil(t, p.stopChan, "no timer while disabled")

	require.NoError(t, api.commands["autosave"]([]string{"on"}))
	assert.True(t, p.Enabled())
	api.dirty = true
	fire(t, api, ticks)
	assert.Equal(t, 1, api.saves)

	require.NoError(t, api.commands["autosave"]([]string{"off"}))
	fire(t, api, ticks)
	assert.Equal(t, 1, api.saves)
	assert.NotEmpty(t, api.message)
}
