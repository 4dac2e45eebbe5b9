package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lumend/lumend/internal/backlight"
	"github.com/lumend/lumend/internal/logging"
	"github.com/spf13/cobra"
)

// CreateGetCmd creates the get command.
func CreateGetCmd() *cobra.Command {
	var backendOverride string
	var rawOutput bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the current brightness",
		Long: `Reads the current brightness once and prints it as a percentage. ` +
			`Detects the backend the same way the daemon does unless --backend is given.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			logging.Initialize(logging.Config{Level: "warn", Format: "text"})
			logger := logging.GetLogger("brightness")

			ctrl := backlight.New(backlight.Config{ForceBackend: backendOverride}, nil, logger)
			defer ctrl.Shutdown()

			if ctrl.Backend().Kind == backlight.KindDisabled {
				fmt.Fprintln(os.Stderr, "no brightness backend available")
				os.Exit(1)
			}

			switch {
			case jsonOutput:
				out := map[string]any{
					"percent": ctrl.GetPercent(),
					"raw":     ctrl.Get(),
					"max_raw": ctrl.MaxRaw(),
					"backend": ctrl.Backend().Kind.String(),
				}
				_ = json.NewEncoder(os.Stdout).Encode(out)
			case rawOutput:
				fmt.Println(ctrl.Get())
			default:
				fmt.Println(ctrl.GetPercent())
			}
		},
	}

	cmd.Flags().StringVar(&backendOverride, "backend", "", "Force backend: sysfs, ddc or disabled")
	cmd.Flags().BoolVar(&rawOutput, "raw", false, "Print the backend-native raw value")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full state as JSON")

	return cmd
}
