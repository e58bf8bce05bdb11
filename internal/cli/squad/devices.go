package squad

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/squadready/squadready/internal/audiodev"
	"github.com/squadready/squadready/internal/cli/shared"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio output devices",
	Long: `List the audio output devices squadready can play to.

Set audio_output_device to one of the listed names to use it; the system
default is used when the configured device is missing.`,
	Example: "  squadready devices\n  squadready config set audio_output_device bluez_output.AA_BB_CC.1",
	Args:    shared.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, _, err := shared.LoadSettings(cmd)
		if err != nil {
			return err
		}
		devices, err := audiodev.List(cmd.Context())
		if err != nil {
			return err
		}
		printDevices(cmd.OutOrStdout(), devices, settings.AudioOutputDevice)
		return nil
	},
}

func init() {
	devicesCmd.GroupID = shared.GroupSquad
}

func printDevices(out io.Writer, devices []audiodev.Device, configured string) {
	if len(devices) == 0 {
		fmt.Fprintln(out, "No output devices found; the system default output is used.")
		return
	}

	active := audiodev.Resolve(configured, devices)
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		mark := ""
		if d.Name == active {
			mark = "*"
		}
		rows = append(rows, []string{mark, d.Index, d.Name, d.State})
	}
	fmt.Fprintln(out, shared.RenderTable(
		[]string{"", "Index", "Name", "State"},
		rows,
		[]shared.ColumnAlignment{shared.AlignLeft, shared.AlignRight},
	))
	if configured != "" && active == "" {
		fmt.Fprintf(out, "Configured device %q is not connected; using the system default.\n", configured)
	}
}
