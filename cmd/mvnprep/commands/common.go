package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ecairns22/mvnprep/internal/config"
	"github.com/ecairns22/mvnprep/internal/logging"
	"github.com/ecairns22/mvnprep/internal/state"
)

// loadConfig reads the config named by --config, or the default location.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.logLevel != "" {
		if err := logging.ValidateLevel(opts.logLevel); err != nil {
			return nil, err
		}
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs go to stderr so Maven's echoed
// stdout and command output stay clean.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.New(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level))
}

// openStore opens the run history database, creating its directory if needed.
func openStore(cfg *config.Config) (*state.Store, error) {
	path := cfg.State.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating state directory for %s: %w", path, err)
		}
	}
	store, err := state.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening run history: %w", err)
	}
	return store, nil
}
