package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ecairns22/mvnprep/internal/state"
)

func showCmd(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Detailed view of a recorded prepare run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			if output != "text" && output != "yaml" {
				return fmt.Errorf("invalid --output %q: must be text or yaml", output)
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), id)
			if errors.Is(err, state.ErrNotFound) {
				return fmt.Errorf("run %q not found; run 'mvnprep history' to see recorded runs", id)
			}
			if err != nil {
				return err
			}

			if output == "yaml" {
				return writeRunYAML(cmd.OutOrStdout(), run)
			}
			writeRunText(cmd.OutOrStdout(), run)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or yaml")

	return cmd
}

func writeRunYAML(w io.Writer, run *state.Run) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(run); err != nil {
		return fmt.Errorf("encoding run %s: %w", run.ID, err)
	}
	return enc.Close()
}

func writeRunText(w io.Writer, run *state.Run) {
	fmt.Fprintf(w, "Run:         %s\n", run.ID)
	fmt.Fprintf(w, "Version:     %s\n", run.Version)
	fmt.Fprintf(w, "Directory:   %s\n", run.Dir)
	fmt.Fprintf(w, "Command:     %s %s\n", run.Executable, strings.Join(run.Args, " "))
	fmt.Fprintf(w, "Outcome:     %s\n", run.Outcome)
	if run.ExitCode != nil {
		fmt.Fprintf(w, "Exit code:   %d\n", *run.ExitCode)
	}
	fmt.Fprintf(w, "Started:     %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(w, "Finished:    %s (%s)\n", run.FinishedAt.Format("2006-01-02 15:04:05"), run.FinishedAt.Sub(run.StartedAt))
	}
	if run.Message != "" {
		fmt.Fprintf(w, "\n=== Failure ===\n%s\n", strings.TrimRight(run.Message, "\n"))
	}
	if run.Stdout != "" {
		fmt.Fprintf(w, "\n=== Stdout ===\n%s\n", strings.TrimRight(run.Stdout, "\n"))
	}
	if run.Stderr != "" {
		fmt.Fprintf(w, "\n=== Stderr ===\n%s\n", strings.TrimRight(run.Stderr, "\n"))
	}
}
