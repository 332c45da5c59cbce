// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"
)

// Flags holds values parsed from command-line flags.
type Flags struct {
	fs *flag.FlagSet

	ConfigFilePath    *string
	Version           *bool
	LogLevel          *string
	LogFilePath       *string
	HistorySize       *int
	FrameRate         *int
	BackgroundWorkers *int
	Theme             *string
	EnableTags        *string
	DisableTags       *string
	EnablePkgs        *string
	DisablePkgs       *string
	EnableFiles       *string
	DisableFiles      *string
	SystemClipboard   *bool
	WatchFile         *bool
}

// NewFlags defines the flags on fs, or on flag.CommandLine when fs is nil.
func NewFlags(fs *flag.FlagSet) *Flags {
	if fs == nil {
		fs = flag.CommandLine
	}
	f := &Flags{fs: fs}
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default %s/%s)", ConfigDirName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.HistorySize = fs.Int("history", 0, "Number of undoable operations to keep - Overrides config file")
	f.FrameRate = fs.Int("fps", 0, "Engine frames per second - Overrides config file")
	f.BackgroundWorkers = fs.Int("workers", 0, "Background worker goroutines - Overrides config file")
	f.Theme = fs.String("theme", "", "Theme name - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.SystemClipboard = fs.Bool("system-clipboard", SystemClipboard, "Mirror copied node paths to the system clipboard")
	f.WatchFile = fs.Bool("watch", WatchFile, "Reload the scene when its file changes on disk")
	return f
}

// Parse parses args and returns the remaining non-flag arguments.
func (f *Flags) Parse(args []string) ([]string, error) {
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f.fs.Args(), nil
}

// ApplyOverrides copies the flags that were set on the command line into cfg.
func (f *Flags) ApplyOverrides(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "history":
			if *f.HistorySize > 0 {
				cfg.Editor.HistorySize = *f.HistorySize
			}
		case "fps":
			if *f.FrameRate > 0 {
				cfg.Editor.FrameRate = *f.FrameRate
			}
		case "workers":
			if *f.BackgroundWorkers > 0 {
				cfg.Editor.BackgroundWorkers = *f.BackgroundWorkers
			}
		case "theme":
			if *f.Theme != "" {
				cfg.Editor.Theme = *f.Theme
			}
		case "system-clipboard":
			cfg.Editor.SystemClipboard = *f.SystemClipboard
		case "watch":
			cfg.Editor.WatchFile = *f.WatchFile
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = splitCommaList(*f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = splitCommaList(*f.DisableFiles)
		}
	})
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
