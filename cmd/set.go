package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lumend/lumend/internal/backlight"
	"github.com/lumend/lumend/internal/logging"
	"github.com/spf13/cobra"
)

// applyTimeout bounds how long the set command waits for the debounced
// write to be picked up before exiting anyway.
const applyTimeout = 2 * time.Second

// CreateSetCmd creates the set command.
func CreateSetCmd() *cobra.Command {
	var backendOverride string
	var rawInput bool

	cmd := &cobra.Command{
		Use:   "set <value>",
		Short: "Set the brightness",
		Long: `Sets the brightness to the given percentage (or raw value with --raw) ` +
			`and waits for the write to be applied. Changes below the significance ` +
			`threshold are ignored.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			logging.Initialize(logging.Config{Level: "warn", Format: "text"})
			logger := logging.GetLogger("brightness")

			value, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid value %q\n", args[0])
				os.Exit(1)
			}

			ctrl := backlight.New(backlight.Config{ForceBackend: backendOverride}, nil, logger)
			defer ctrl.Shutdown()

			if ctrl.Backend().Kind == backlight.KindDisabled {
				fmt.Fprintln(os.Stderr, "no brightness backend available")
				os.Exit(1)
			}

			raw := value
			if !rawInput {
				if value < 0 || value > 100 {
					fmt.Fprintln(os.Stderr, "percentage must be between 0 and 100")
					os.Exit(1)
				}
				raw = ctrl.MaxRaw() * value / 100
			}

			applied := make(chan int, 1)
			unsubscribe := ctrl.OnChange(func(percent int) {
				select {
				case applied <- percent:
				default:
				}
			})
			defer unsubscribe()

			ctrl.Set(raw)

			select {
			case percent := <-applied:
				fmt.Println(percent)
			case <-time.After(applyTimeout):
				// No callback means the change was below the significance
				// threshold or already current.
			}

			// Give the fire-and-forget hardware write a moment to spawn.
			time.Sleep(100 * time.Millisecond)
		},
	}

	cmd.Flags().StringVar(&backendOverride, "backend", "", "Force backend: sysfs, ddc or disabled")
	cmd.Flags().BoolVar(&rawInput, "raw", false, "Treat the value as backend-native raw units")

	return cmd
}
