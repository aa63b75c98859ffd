package dfx

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/icw-wallet/icw/internal/log"
)

// installCmd is the upstream dfx install one-liner.
const installCmd = `sh -ci "$(curl -fsSL https://internetcomputer.org/install.sh)"`

// Client invokes dfx against a fixed network.
type Client struct {
	runner  Runner
	network string
	logger  zerolog.Logger
}

// New creates a client that spawns the installed dfx binary.
func New(network string) *Client {
	return NewWithRunner(network, execRunner{})
}

// NewWithRunner creates a client with a custom runner (tests).
func NewWithRunner(network string, r Runner) *Client {
	return &Client{
		runner:  r,
		network: network,
		logger:  log.DFX,
	}
}

// Network returns the network this client talks to.
func (c *Client) Network() string {
	return c.network
}

// Call invokes a canister method and returns dfx's JSON output with
// candid field hashes replaced by their known names.
func (c *Client) Call(ctx context.Context, canister, method, arg string) (json.RawMessage, error) {
	c.logger.Debug().
		Str("canister", canister).
		Str("method", method).
		Str("network", c.network).
		Msg("canister call")

	out, err := c.runner.Run(ctx,
		"canister", "call", canister, method, arg,
		"--network", c.network, "--output", "json")
	if err != nil {
		return nil, err
	}
	return normalizeCandid(out), nil
}

// EnsureInstalled checks that dfx is on the PATH. On an interactive
// terminal it offers to run the upstream installer; otherwise it fails
// with instructions. Never installs silently.
func EnsureInstalled() error {
	if _, err := exec.LookPath("dfx"); err == nil {
		return nil
	}
	if runtime.GOOS == "windows" {
		return fmt.Errorf("dfx is not supported natively on Windows; use WSL")
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("dfx not found; install it with: %s", installCmd)
	}

	fmt.Fprint(os.Stderr, "dfx not found. Install now? [y/N] ")
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
	default:
		return fmt.Errorf("dfx not found; install it with: %s", installCmd)
	}

	cmd := exec.Command("sh", "-c", installCmd)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("dfx install failed: %w", err)
	}
	if _, err := exec.LookPath("dfx"); err != nil {
		return fmt.Errorf("dfx still not on PATH; add ~/.local/share/dfx/bin to PATH")
	}
	return nil
}
