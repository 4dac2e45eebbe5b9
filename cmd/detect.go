package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lumend/lumend/internal/backlight"
	"github.com/lumend/lumend/internal/logging"
	"github.com/spf13/cobra"
)

// CreateDetectCmd creates the detect command.
func CreateDetectCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Probe for an available brightness backend",
		Long: `Runs backend detection once and reports the result: sysfs when a ` +
			`backlight device and brightnessctl are present, ddc when ddcutil finds ` +
			`an external display, disabled otherwise.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			logging.Initialize(logging.Config{Level: "debug", Format: "text"})
			logger := logging.GetLogger("brightness")

			ctrl := backlight.New(backlight.Config{}, nil, logger)
			defer ctrl.Shutdown()

			backend := ctrl.Backend()
			if jsonOutput {
				out := map[string]any{
					"backend": backend.Kind.String(),
					"max_raw": ctrl.MaxRaw(),
				}
				if backend.Device != "" {
					out["device"] = backend.Device
				}
				if backend.Kind == backlight.KindDDC {
					out["bus"] = backend.Bus
				}
				_ = json.NewEncoder(os.Stdout).Encode(out)
				return
			}

			switch backend.Kind {
			case backlight.KindSysfs:
				fmt.Printf("sysfs device=%s max_raw=%d\n", backend.Device, ctrl.MaxRaw())
			case backlight.KindDDC:
				fmt.Printf("ddc bus=%d max_raw=%d\n", backend.Bus, ctrl.MaxRaw())
			default:
				fmt.Println("disabled")
			}
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")

	return cmd
}
