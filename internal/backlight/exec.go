package backlight

import (
	"context"
	"os/exec"
	"time"
)

// commandTimeout bounds the synchronous tool invocations used during
// detection and reads. Writes are fire-and-forget and not bounded.
const commandTimeout = 2 * time.Second

// Runner executes the external brightness tools. Tests substitute a fake
// to simulate tool output without spawning processes.
type Runner interface {
	// LookPath reports whether the named tool is on PATH.
	LookPath(name string) (string, error)
	// Output runs the tool synchronously and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// Run runs the tool to completion and returns its combined output.
	// Used from the asynchronous write path.
	Run(name string, args ...string) ([]byte, error)
}

// execRunner is the production Runner backed by os/exec.
type execRunner struct{}

func (execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (execRunner) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}
