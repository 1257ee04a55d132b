package commands

import (
	"github.com/spf13/cobra"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
}

// Root returns the root cobra command with all subcommands attached.
func Root() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:          "mvnprep",
		Short:        "Prepare a Maven project release",
		Long:         "mvnprep runs the release prepare step: it sets the project version through the versions-maven-plugin and records every attempt.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: $MVNPREP_CONFIG or ./mvnprep.toml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(prepareCmd(opts))
	cmd.AddCommand(historyCmd(opts))
	cmd.AddCommand(showCmd(opts))
	cmd.AddCommand(initCmd(opts))
	cmd.AddCommand(versionCmd())

	return cmd
}
