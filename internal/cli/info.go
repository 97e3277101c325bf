package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulsekit/pulsekit/internal/backend"
)

// DeviceInfo is the JSON payload of the info command.
type DeviceInfo struct {
	Name         string  `json:"name"`
	Qubits       int     `json:"qubits"`
	Dt           float64 `json:"dt"`
	MeasDuration int64   `json:"meas_duration"`
	MeasMap      [][]int `json:"meas_map"`
	Gates        []string `json:"gates"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <device.cue>",
		Short: "Show a compiled device spec's properties",
		Long: `Compile a CUE device spec and print its properties: qubit count,
cycle time, measurement topology, and the gates it calibrates.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runInfo(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	bk, err := backend.LoadFile(path)
	if err != nil {
		_ = formatter.Error("LOAD", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load device spec", err)
	}

	info := DeviceInfo{
		Name:         bk.Name(),
		Qubits:       bk.NumQubits(),
		Dt:           bk.Dt(),
		MeasDuration: bk.MeasDuration(),
		MeasMap:      bk.MeasMap(),
		Gates:        bk.InstMap().Gates(),
	}

	if opts.Format == "json" {
		return formatter.Success(info)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "name:           %s\n", info.Name)
	fmt.Fprintf(out, "qubits:         %d\n", info.Qubits)
	fmt.Fprintf(out, "dt:             %g s\n", info.Dt)
	fmt.Fprintf(out, "meas duration:  %d cycles\n", info.MeasDuration)
	fmt.Fprintf(out, "meas map:       %v\n", info.MeasMap)
	fmt.Fprintf(out, "gates:          %s\n", strings.Join(info.Gates, ", "))
	return nil
}
