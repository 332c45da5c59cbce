// cmd/prism/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	stlog "log" // for fatal errors before the logger is ready
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bethropolis/prism/internal/app"
	"github.com/bethropolis/prism/internal/config"
	"github.com/bethropolis/prism/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	flags := config.NewFlags(nil)
	args, err := flags.Parse(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}
	var filePath string
	if len(args) > 0 {
		filePath = args[0]
	}

	cfg, cfgErr := config.LoadConfig(*flags.ConfigFilePath, flags)
	var unknown *config.UnknownKeysError
	if cfgErr != nil && !errors.As(cfgErr, &unknown) {
		stlog.Printf("Warning: %v, using defaults", cfgErr)
	}

	logOutput, closeLog, err := openLog(cfg.Logger.LogFilePath)
	if err != nil {
		stlog.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()
	logger.Init(cfg.Logger, logOutput)

	logger.Infof("Starting Prism scene editor %s...", version)
	logger.Debugf("Log level set to: %s", cfg.Logger.LogLevel)
	if unknown != nil {
		logger.Warnf("%v", unknown)
	}
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	} else {
		logger.Debugf("No file specified, starting an empty scene.")
	}

	prismApp, err := app.NewApp(app.Options{Config: cfg, FilePath: filePath})
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		fmt.Fprintf(os.Stderr, "prism: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := prismApp.Run(ctx); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		closeLog()
		os.Exit(1)
	}
	logger.Infof("Prism scene editor finished.")
}

// openLog opens the configured log file. Empty means the default file in
// the config directory, "-" means stderr.
func openLog(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stderr, func() {}, nil
	}
	if path == "" {
		path = config.DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("'%s': %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
