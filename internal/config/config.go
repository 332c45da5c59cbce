// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/prism/internal/logger"
	"github.com/mitchellh/go-homedir"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config                     `toml:"logger"`
	Editor  EditorConfig                      `toml:"editor"`
	Plugins map[string]map[string]interface{} `toml:"plugins"` // [plugins.<name>] tables
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	HistorySize       int    `toml:"history_size"`
	FrameRate         int    `toml:"frame_rate"`
	BackgroundWorkers int    `toml:"background_workers"`
	ScrollOff         int    `toml:"scroll_off"`
	SystemClipboard   bool   `toml:"system_clipboard"`
	WatchFile         bool   `toml:"watch_file"`
	Theme             string `toml:"theme"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel:    "info",
			LogFilePath: "",
		},
		Editor: EditorConfig{
			HistorySize:       DefaultHistorySize,
			FrameRate:         DefaultFrameRate,
			BackgroundWorkers: DefaultBackgroundWorkers,
			ScrollOff:         DefaultScrollOff,
			SystemClipboard:   SystemClipboard,
			WatchFile:         WatchFile,
			Theme:             DefaultTheme,
		},
		Plugins: map[string]map[string]interface{}{},
	}
}

// Dir returns the expanded configuration directory.
func Dir() (string, error) {
	return homedir.Expand(ConfigDirName)
}

// ThemesDir returns the directory custom themes are loaded from.
func ThemesDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ThemesDirName), nil
}

// DefaultLogPath returns where the log goes when no log file is configured.
func DefaultLogPath() string {
	dir, err := Dir()
	if err != nil {
		return filepath.Join(os.TempDir(), DefaultLogFileName)
	}
	return filepath.Join(dir, DefaultLogFileName)
}

// loadFromFile decodes filePath over cfg. A missing file leaves cfg as is.
func loadFromFile(cfg *Config, filePath string) (undecoded []toml.Key, err error) {
	if _, err := os.Stat(filePath); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	return metadata.Undecoded(), nil
}

// validate resets invalid values to their defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.HistorySize <= 0 {
		c.Editor.HistorySize = defaults.Editor.HistorySize
	}
	if c.Editor.FrameRate <= 0 {
		c.Editor.FrameRate = defaults.Editor.FrameRate
	}
	if c.Editor.BackgroundWorkers <= 0 {
		c.Editor.BackgroundWorkers = defaults.Editor.BackgroundWorkers
	}
	if c.Editor.ScrollOff < 0 {
		c.Editor.ScrollOff = defaults.Editor.ScrollOff
	}
	if c.Editor.Theme == "" {
		c.Editor.Theme = defaults.Editor.Theme
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if c.Plugins == nil {
		c.Plugins = defaults.Plugins
	}
}

// PluginValue looks up key in the [plugins.<name>] table.
func (c *Config) PluginValue(pluginName, key string) (interface{}, bool) {
	table, ok := c.Plugins[pluginName]
	if !ok {
		return nil, false
	}
	v, ok := table[key]
	return v, ok
}

// load merges defaults, the config file and flag overrides. The logger is
// not initialized yet, so nothing here logs.
func load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		if dir, err := Dir(); err == nil {
			effectivePath = filepath.Join(dir, DefaultConfigFileName)
		}
	} else if expanded, err := homedir.Expand(effectivePath); err == nil {
		effectivePath = expanded
	}

	var err error
	if effectivePath != "" {
		var undecoded []toml.Key
		undecoded, err = loadFromFile(cfg, effectivePath)
		switch {
		case err != nil:
			// a half-decoded file is worse than none
			cfg = NewDefaultConfig()
		case len(undecoded) > 0:
			err = &UnknownKeysError{Path: effectivePath, Keys: undecoded}
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, err
}

// UnknownKeysError reports keys in the config file nothing reads. The
// config is still usable.
type UnknownKeysError struct {
	Path string
	Keys []toml.Key
}

func (e *UnknownKeysError) Error() string {
	return fmt.Sprintf("config file '%s': unrecognized keys: %v", e.Path, e.Keys)
}

// LoadConfig loads the configuration once, typically from main. The
// returned config is usable even when err is an *UnknownKeysError.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = load(configFilePath, flags)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
