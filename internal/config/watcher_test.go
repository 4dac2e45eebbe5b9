package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type watchedConfig struct {
	Level string
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("level = \"info\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := func(p string) (watchedConfig, error) {
		data, err := os.ReadFile(p)
		if err != nil {
			return watchedConfig{}, err
		}
		return watchedConfig{Level: string(data)}, nil
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	w := NewWatcher(path, loader, logger, WithDebounce[watchedConfig](50*time.Millisecond))

	reloaded := make(chan watchedConfig, 1)
	w.OnReload(func(c watchedConfig) {
		select {
		case reloaded <- c:
		default:
		}
	})

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("level = \"debug\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-reloaded:
		if c.Level != "level = \"debug\"\n" {
			t.Errorf("reloaded config = %q", c.Level)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after file write")
	}
}

func TestWatcherUnsubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	w := NewWatcher(path, func(string) (watchedConfig, error) {
		return watchedConfig{}, nil
	}, logger, WithDebounce[watchedConfig](20*time.Millisecond))

	fired := make(chan struct{}, 1)
	unsub := w.OnReload(func(watchedConfig) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	unsub()

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
		t.Error("handler fired after unsubscribe")
	case <-time.After(300 * time.Millisecond):
	}
}
