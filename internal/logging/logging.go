// Package logging provides structured slog-based logging with per-module
// levels. Output goes to stdout (text or json), to the systemd journal when
// running under journald, and to an in-memory ring buffer that backs the
// log history API and SSE log streaming.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

const bufferSize = 500

// Logger is the subset of *slog.Logger the rest of the codebase needs.
// Using the interface keeps packages decoupled from the concrete type.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config controls global and per-module log levels and the stdout format.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

var (
	mu          sync.RWMutex
	cfg         Config
	initialized bool
	loggers     = make(map[string]*slog.Logger)
	levelVars   = make(map[string]*slog.LevelVar)
	buffer      = NewRingBuffer(bufferSize)
	callback    EntryCallback
)

// Initialize applies the configuration. Safe to call again (e.g. from a
// config-file watcher): existing module loggers pick up the new levels.
func Initialize(c Config) {
	mu.Lock()
	defer mu.Unlock()

	cfg = c
	initialized = true

	for module, lv := range levelVars {
		lv.Set(moduleLevel(module))
		loggers[module] = slog.New(newHandler(cfg.Format, lv)).With("module", module)
	}

	global := &slog.LevelVar{}
	global.Set(moduleLevel(""))
	slog.SetDefault(slog.New(newHandler(cfg.Format, global)))
}

// GetLogger returns the logger for a module, creating it on first use.
func GetLogger(module string) *slog.Logger {
	mu.RLock()
	if l, ok := loggers[module]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[module]; ok {
		return l
	}

	lv := &slog.LevelVar{}
	lv.Set(moduleLevel(module))
	l := slog.New(newHandler(cfg.Format, lv)).With("module", module)
	loggers[module] = l
	levelVars[module] = lv
	return l
}

// GetBuffer returns the ring buffer holding recent log entries.
func GetBuffer() *RingBuffer {
	return buffer
}

// SetEntryCallback registers a callback invoked for every log entry, used
// to publish log events onto the event bus without an import cycle.
func SetEntryCallback(cb EntryCallback) {
	mu.Lock()
	callback = cb
	mu.Unlock()
}

// moduleLevel resolves the effective level for a module. Caller holds mu.
func moduleLevel(module string) slog.Level {
	level := slog.LevelInfo
	if l, ok := parseLevel(cfg.Level); ok {
		level = l
	}
	if s, ok := cfg.Modules[module]; ok {
		if l, ok := parseLevel(s); ok {
			level = l
		}
	}
	return level
}

// newHandler builds the output chain for one logger: stdout plus journal
// plus ring buffer, each gated on the shared LevelVar.
func newHandler(format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var stdout slog.Handler
	if format == "json" {
		stdout = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		stdout = slog.NewTextHandler(os.Stdout, opts)
	}

	handlers := []slog.Handler{stdout}
	if journalAvailable() {
		handlers = append(handlers, newJournalHandler(level))
	}
	handlers = append(handlers, newBufferHandler(level))

	if len(handlers) == 1 {
		return handlers[0]
	}
	return newFanout(handlers...)
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

func levelString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
