package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shapesynth/internal/catalog"
	"github.com/vovakirdan/shapesynth/internal/config"
	"github.com/vovakirdan/shapesynth/internal/registry"
	"github.com/vovakirdan/shapesynth/internal/storage"
)

// exitf prints an error to stderr and exits with status 1.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the configuration and applies the global flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		exitf("%v", err)
	}
	if flagPack != "" {
		cfg.Pack = flagPack
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	if cfg.DBPath == "" {
		cfg.DBPath = config.DefaultDBPath()
	}
	return cfg
}

// openCatalog resolves a pack by registry name, falling back to a YAML file.
func openCatalog(pack string) (*catalog.Catalog, error) {
	if registry.Exists(pack) {
		return registry.Open(pack)
	}
	if _, err := os.Stat(pack); err != nil {
		return nil, fmt.Errorf("unknown pack %q (run 'shapesynth packs' to list packs)", pack)
	}
	p, err := catalog.LoadPack(pack)
	if err != nil {
		return nil, err
	}
	return catalog.New(p)
}

// mustCatalog opens the configured pack or exits.
func mustCatalog(cfg config.Config) *catalog.Catalog {
	c, err := openCatalog(cfg.Pack)
	if err != nil {
		exitf("%v", err)
	}
	return c
}

// openStore opens the run history. Games still work without it, so a
// failure is only a warning.
func openStore(path string, logger *log.Logger) *storage.Store {
	store, err := storage.Open(path)
	if err != nil {
		logger.Warn("could not open run history", "path", path, "error", err)
		return nil
	}
	return store
}

// newLogger builds the process logger. Interactive commands pass quiet so
// that log lines do not tear the terminal UI unless a log file is set.
func newLogger(quiet bool) (*log.Logger, func()) {
	var w io.Writer = os.Stderr
	closeFn := func() {}

	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			exitf("cannot open log file: %v", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case quiet:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "shapesynth",
	})

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		exitf("invalid --log-level %q", flagLogLevel)
	}
	logger.SetLevel(level)

	return logger, closeFn
}
