package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/lumend/lumend/cmd"
	"github.com/lumend/lumend/internal/api"
	"github.com/lumend/lumend/internal/backlight"
	"github.com/lumend/lumend/internal/config"
	"github.com/lumend/lumend/internal/events"
	"github.com/lumend/lumend/internal/logging"
	"github.com/lumend/lumend/internal/metrics"
	"github.com/pelletier/go-toml/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8777" toml:"server.port" env:"SERVER_PORT"`

	// Brightness settings
	Backend string `help:"Force brightness backend (sysfs, ddc, disabled)" default:"" toml:"brightness.backend" env:"BRIGHTNESS_BACKEND"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel      string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat     string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingBrightness string `help:"Brightness logging level" default:"info" toml:"logging.brightness" env:"LOGGING_BRIGHTNESS"`
	LoggingAPI        string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP       string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
}

// loggingFromOptions builds the logging configuration from CLI options.
func loggingFromOptions(opts *Options) logging.Config {
	return logging.Config{
		Level:  opts.LoggingLevel,
		Format: opts.LoggingFormat,
		Modules: map[string]string{
			"brightness": opts.LoggingBrightness,
			"api":        opts.LoggingAPI,
			"http":       opts.LoggingHTTP,
		},
	}
}

// loadLoggingSection reads just the [logging] table from the config file,
// used by the watcher to hot-reload log levels.
func loadLoggingSection(path string) (logging.Config, error) {
	var doc struct {
		Logging logging.Config `toml:"logging"`
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return logging.Config{}, err
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return logging.Config{}, err
	}
	return doc.Logging, nil
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.Load(opts, cli.Root()); loadErr != nil {
			logging.GetLogger("main").Warn("Failed to load config", "error", loadErr)
		}

		baseLogging := loggingFromOptions(opts)
		logging.Initialize(baseLogging)

		logger := logging.GetLogger("main")

		// Create event bus for in-process event handling
		eventBus := events.New()

		// Feed log entries onto the bus for the SSE log stream
		logging.SetEntryCallback(func(entry logging.Entry) {
			eventBus.Publish(events.LogEntryEvent{
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		// Prometheus bridge subscribes before the controller publishes
		// its backend-selected event
		bridge := metrics.NewBridge(eventBus)

		controller := backlight.New(backlight.Config{
			ForceBackend: opts.Backend,
		}, eventBus, logging.GetLogger("brightness"))

		backend := controller.Backend()
		logger.Info("Brightness backend selected",
			"backend", backend.Kind.String(),
			"device", backend.Device,
			"bus", backend.Bus,
			"max_raw", controller.MaxRaw())

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Controller:        controller,
			EventBus:          eventBus,
			PrometheusHandler: promhttp.Handler(),
		})

		// Hot-reload log levels when the config file changes
		watcher := config.NewWatcher(opts.Config, loadLoggingSection, logger)
		watcher.OnReload(func(c logging.Config) {
			merged := baseLogging
			merged.Modules = make(map[string]string, len(baseLogging.Modules))
			for module, level := range baseLogging.Modules {
				merged.Modules[module] = level
			}
			if c.Level != "" {
				merged.Level = c.Level
			}
			if c.Format != "" {
				merged.Format = c.Format
			}
			for module, level := range c.Modules {
				merged.Modules[module] = level
			}
			logger.Info("Reloading logging configuration")
			logging.Initialize(merged)
		})

		hooks.OnStart(func() {
			if err := watcher.Start(); err != nil {
				logger.Warn("Failed to watch config file, hot-reload disabled", "error", err)
			}

			if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
				logger.Debug("systemd notify unavailable", "error", err)
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Error("Error stopping config watcher", "error", stopErr)
			}
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
			controller.Shutdown()
			bridge.Close()
		})
	})

	cli.Root().Use = "lumend"
	cli.Root().AddCommand(cmd.CreateGetCmd())
	cli.Root().AddCommand(cmd.CreateSetCmd())
	cli.Root().AddCommand(cmd.CreateDetectCmd())

	cli.Run()
}
