package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulsekit/pulsekit/internal/backend"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool     `json:"valid"`
	Error string   `json:"error,omitempty"`
	Gates []string `json:"gates,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <device.cue>",
		Short: "Validate a CUE device spec without running anything",
		Long: `Compile a CUE device spec and report problems with source positions.

Performs the full compilation - channel maps, measurement topology and
gate calibrations - without building any program. Faster feedback than
running a scenario against the device.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	bk, err := backend.LoadFile(path)
	if err != nil {
		var cerr *backend.CompileError
		code := "LOAD"
		if errors.As(err, &cerr) {
			code = "COMPILE"
		}
		if opts.Format == "json" {
			_ = formatter.Success(ValidationResult{Valid: false, Error: err.Error()})
		} else {
			_ = formatter.Error(code, err.Error(), nil)
		}
		return WrapExitError(ExitFailure, "device spec invalid", err)
	}

	formatter.VerboseLog("Compiled device %q (%d qubits)", bk.Name(), bk.NumQubits())
	if opts.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Gates: bk.InstMap().Gates()})
	}
	return formatter.Success(fmt.Sprintf("ok: %s (%d qubits, %d gates)",
		bk.Name(), bk.NumQubits(), len(bk.InstMap().Gates())))
}
