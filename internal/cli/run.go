package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulsekit/pulsekit/internal/harness"
	"github.com/pulsekit/pulsekit/internal/sched"
)

// RunResult is the JSON payload of a successful run.
type RunResult struct {
	Scenario    string `json:"scenario"`
	Duration    int64  `json:"duration"`
	Events      int    `json:"events"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a scheduling scenario and check its assertions",
		Long: `Execute a scheduling scenario: build the program it describes against
its backend and check every assertion on the result.

Exit codes:
  0  scenario passed
  1  an assertion failed or the program could not be built
  2  the scenario file is missing or malformed

Examples:
  pulsekit run scenarios/ramsey.yaml
  pulsekit run scenarios/ramsey.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runRun(opts *RootOptions, path string, cmd *cobra.Command) error {
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
	formatter.VerboseLog("Loaded scenario %q (%d steps)", scenario.Name, len(scenario.Steps))

	result, err := harness.Run(scenario)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "scenario failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(RunResult{
			Scenario: scenario.Name,
			Duration: result.Program.Duration(),
			Events:   len(result.Events),
		})
	}
	return formatter.Success(fmt.Sprintf("ok: %s (duration=%d, events=%d)",
		scenario.Name, result.Program.Duration(), len(result.Events)))
}

// errorCode surfaces the scheduler's structured error code when there is
// one.
func errorCode(err error) string {
	var serr *sched.Error
	if errors.As(err, &serr) {
		return string(serr.Code)
	}
	return "RUN"
}
