// Package autosave saves a modified scene on a timer.
package autosave

import (
	"sync"
	"time"

	"github.com/bethropolis/prism/internal/logger"
	"github.com/bethropolis/prism/internal/plugin"
)

// Ensure AutoSave implements plugin.Plugin
var _ plugin.Plugin = (*AutoSave)(nil)

const (
	// Default configuration values
	defaultEnabled  = false
	defaultInterval = 1 * time.Minute
)

// AutoSave plugin saves the scene when it has unsaved changes. Its timer runs
// on its own goroutine, which only posts the check to the GUI context.
type AutoSave struct {
	api plugin.EditorAPI

	mutex    sync.RWMutex // protects the config fields below
	enabled  bool
	interval time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup

	// tick overrides the ticker in tests.
	tick func(time.Duration) (<-chan time.Time, func())
}

// New creates a new instance of the AutoSave plugin.
func New() plugin.Plugin {
	return &AutoSave{
		enabled:  defaultEnabled,
		interval: defaultInterval,
		tick: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Name returns the unique name of the plugin.
func (p *AutoSave) Name() string {
	return "autosave"
}

// Initialize reads [plugins.autosave] and starts the timer if enabled.
func (p *AutoSave) Initialize(api plugin.EditorAPI) error {
	p.api = api
	pluginName := p.Name()

	p.mutex.Lock()
	if enabledVal, ok := api.GetPluginConfigValue(pluginName, "enabled"); ok {
		if boolVal, isBool := enabledVal.(bool); isBool {
			p.enabled = boolVal
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", pluginName, enabledVal, p.enabled)
		}
	}

	if intervalVal, ok := api.GetPluginConfigValue(pluginName, "interval"); ok {
		if strVal, isStr := intervalVal.(string); isStr {
			parsedInterval, err := time.ParseDuration(strVal)
			if err != nil {
				logger.Warnf("%s: Invalid format for 'interval' config ('%s'): %v. Using default (%v)", pluginName, strVal, err, p.interval)
			} else if parsedInterval <= 0 {
				logger.Warnf("%s: 'interval' config must be positive ('%s'). Using default (%v)", pluginName, strVal, p.interval)
			} else {
				p.interval = parsedInterval
			}
		} else {
			logger.Warnf("%s: Invalid type for 'interval' config (%T), using default (%v)", pluginName, intervalVal, p.interval)
		}
	}
	isEnabled := p.enabled
	interval := p.interval
	p.mutex.Unlock()

	logger.Infof("%s initialized. Enabled: %v, Interval: %v", pluginName, isEnabled, interval)

	if isEnabled {
		p.stopChan = make(chan struct{})
		p.wg.Add(1)
		go p.saverLoop(interval, p.stopChan)
	}
	return api.RegisterCommand("autosave", p.toggleCommand)
}

// Shutdown signals the saver goroutine to stop and waits for it.
func (p *AutoSave) Shutdown() error {
	if p.stopChan != nil {
		close(p.stopChan)
		p.wg.Wait()
		p.stopChan = nil
		logger.Debugf("%s: Saver goroutine stopped.", p.Name())
	}
	return nil
}

// Enabled reports whether timed saves happen.
func (p *AutoSave) Enabled() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.enabled
}

// toggleCommand is :autosave [on|off]. The timer keeps running while
// disabled so the command can turn saving back on.
func (p *AutoSave) toggleCommand(args []string) error {
	p.mutex.Lock()
	switch {
	case len(args) == 0:
	case args[0] == "on":
		p.enabled = true
	case args[0] == "off":
		p.enabled = false
	}
	enabled := p.enabled
	interval := p.interval
	p.mutex.Unlock()

	if enabled && p.stopChan == nil {
		p.stopChan = make(chan struct{})
		p.wg.Add(1)
		go p.saverLoop(interval, p.stopChan)
	}
	state := "off"
	if enabled {
		state = "on"
	}
	p.api.SetStatusMessage("Autosave %s (every %v)", state, interval)
	return nil
}

func (p *AutoSave) saverLoop(interval time.Duration, stopChan <-chan struct{}) {
	defer p.wg.Done()
	ticks, stop := p.tick(interval)
	defer stop()

	for {
		select {
		case <-ticks:
			p.api.Post(p.saveIfModified)
		case <-stopChan:
			return
		}
	}
}

// saveIfModified runs on the GUI context.
func (p *AutoSave) saveIfModified() {
	if !p.Enabled() {
		return
	}
	if !p.api.IsSceneDirty() || p.api.IsSaving() {
		return
	}
	filePath := p.api.ScenePath()
	if filePath == "" {
		logger.Debugf("%s: Scene is modified but has no file, skipping auto-save.", p.Name())
		return
	}

	logger.Infof("%s: Auto-saving %s", p.Name(), filePath)
	if err := p.api.Save(""); err != nil {
		logger.Errorf("%s: Auto-save failed for '%s': %v", p.Name(), filePath, err)
	}
}
