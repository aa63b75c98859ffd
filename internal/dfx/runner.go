// Package dfx wraps the external dfx CLI. All ledger transport and
// identity key custody live in dfx; this package only spawns it and
// parses what it prints.
package dfx

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes one dfx invocation and returns its stdout. The exec
// implementation is swapped for a fake in tests.
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// CallError is returned when dfx exits non-zero. It carries dfx's stderr,
// which contains the canister rejection or transport failure text.
type CallError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CallError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("dfx %s: %s", strings.Join(e.Args, " "), e.Stderr)
	}
	return fmt.Sprintf("dfx %s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// execRunner runs the real dfx binary.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "dfx", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &CallError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}
