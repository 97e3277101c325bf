package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulsekit/pulsekit/internal/export"
	"github.com/pulsekit/pulsekit/internal/harness"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Fingerprint bool
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <scenario.yaml>",
		Short: "Print the flattened event trace of a scenario's program",
		Long: `Build a scenario's program and print its flattened event trace.

Text format prints one event per line in time order. JSON format prints
the canonical trace encoding, byte-identical for identical programs, the
same encoding golden files use.

Examples:
  pulsekit trace scenarios/ramsey.yaml
  pulsekit trace scenarios/ramsey.yaml --format json
  pulsekit trace scenarios/ramsey.yaml --fingerprint`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Fingerprint, "fingerprint", false, "print the program's content fingerprint instead of the trace")
	return cmd
}

func runTrace(opts *TraceOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		_ = formatter.Error("LOAD", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	result, err := harness.Run(scenario)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "scenario failed", err)
	}

	if opts.Fingerprint {
		fp, err := export.Fingerprint(result.Program)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to fingerprint program", err)
		}
		return formatter.Success(fp)
	}

	if opts.Format == "json" {
		canonical, err := export.MarshalProgram(result.Program)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to marshal trace", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(canonical))
		return nil
	}

	for _, ev := range result.Events {
		fmt.Fprintf(cmd.OutOrStdout(), "%8d  %-16s %-24s dur=%d\n",
			ev.Time, ev.Op, strings.Join(ev.Channels, ","), ev.Duration)
	}
	return nil
}
