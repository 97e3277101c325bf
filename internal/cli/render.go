package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulsekit/pulsekit/internal/export"
	"github.com/pulsekit/pulsekit/internal/harness"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Width int
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <scenario.yaml>",
		Short: "Draw a scenario's program as an ASCII timeline",
		Long: `Build a scenario's program and draw it as an ASCII timeline, one row
per channel. Long programs are scaled to the terminal width.

Examples:
  pulsekit render scenarios/ramsey.yaml
  pulsekit render scenarios/ramsey.yaml --width 120`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", 80, "timeline width in characters")
	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
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

	fmt.Fprint(cmd.OutOrStdout(), export.RenderTimeline(result.Program, opts.Width))
	return nil
}
