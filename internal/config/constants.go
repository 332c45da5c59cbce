package config

import "time"

// Base application details
const AppName = "prism"
const ConfigDirName = "~/.config/" + AppName
const ThemesDirName = "themes"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "prism.log"

// Editor defaults
const DefaultHistorySize = 100
const DefaultFrameRate = 60
const DefaultBackgroundWorkers = 2
const DefaultScrollOff = 2
const SystemClipboard = true
const WatchFile = true
const DefaultTheme = "DevComfort Dark"

// Status Bar
const MessageTimeout = 4 * time.Second
