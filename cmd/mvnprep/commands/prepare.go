package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecairns22/mvnprep/internal/maven"
	"github.com/ecairns22/mvnprep/internal/orchestrator"
	"github.com/ecairns22/mvnprep/internal/runner"
)

func prepareCmd(opts *globalOptions) *cobra.Command {
	var (
		version    string
		dir        string
		executable string
		verbose    bool
		noHistory  bool
	)

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Set the project version with the versions-maven-plugin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			// Flags override config
			if version != "" {
				cfg.Project.Version = version
			}
			if dir != "" {
				cfg.Project.BaseDir = dir
			}
			if executable != "" {
				cfg.Maven.Executable = executable
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Maven.Verbose = verbose
			}

			log := newLogger(cmd, cfg)
			r := &runner.OSRunner{Console: cmd.OutOrStdout()}
			versions := maven.New(r,
				maven.WithExecutable(cfg.Maven.Executable),
				maven.WithVerbose(cfg.Maven.Verbose),
				maven.WithDir(cfg.Project.BaseDir),
				maven.WithLogger(log),
			)

			var orc *orchestrator.Orchestrator
			if noHistory {
				orc = orchestrator.New(versions, nil, log)
			} else {
				store, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				orc = orchestrator.New(versions, store, log)
			}

			result, err := orc.Prepare(cmd.Context(), orchestrator.PrepareRequest{
				Version: cfg.Project.Version,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "✓ version set to %s\n", result.Version)
			fmt.Fprintf(w, "  Maven:    %s\n", result.Executable)
			fmt.Fprintf(w, "  Duration: %s\n", result.Duration.Round(time.Millisecond))
			if !noHistory {
				fmt.Fprintf(w, "  Run:      %s\n", result.RunID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&version, "new-version", "V", "", "Version to set (default: project.version from config)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Project base directory (default: project.basedir from config)")
	cmd.Flags().StringVar(&executable, "mvn", "", "Maven executable (default: mvn, or mvn.bat on Windows)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Echo Maven output to the console")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history database")

	return cmd
}
