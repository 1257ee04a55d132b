package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecairns22/mvnprep/internal/config"
	"github.com/ecairns22/mvnprep/internal/runner"
)

func initCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "First-time setup: write config template, check Maven, create run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}
}

func runInit(cmd *cobra.Command, opts *globalOptions) error {
	w := cmd.OutOrStdout()

	// 1. Write template config if missing
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, []byte(config.TemplateConfig()), 0644); err != nil {
			return fmt.Errorf("writing config template: %w", err)
		}
		fmt.Fprintf(w, "  wrote config template to %s\n", configPath)
	}

	// 2. Load config
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	fmt.Fprintf(w, "  config loaded from %s\n", configPath)

	// 3. Check Maven can be launched
	r := &runner.OSRunner{}
	res, err := r.Run(cmd.Context(), runner.Request{Executable: cfg.Maven.Executable, Args: []string{"--version"}})
	switch {
	case err != nil:
		fmt.Fprintf(w, "  maven %s: NOT FOUND (%v)\n", cfg.Maven.Executable, err)
	case !res.Success():
		fmt.Fprintf(w, "  maven %s: exited %d\n", cfg.Maven.Executable, res.ExitCode)
	default:
		fmt.Fprintf(w, "  maven %s: OK\n", cfg.Maven.Executable)
	}

	// 4. Initialize run history
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	store.Close()
	fmt.Fprintf(w, "  run history %s: OK\n", cfg.State.Path)

	fmt.Fprintf(w, "\nmvnprep initialized.\n")
	return nil
}
