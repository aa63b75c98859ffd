// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Token registry: well-known ledger canisters, immutable defaults
//   - Runtime settings: network, overrides, logging, varying per invocation
//
// The resolved Config is threaded explicitly through every component;
// nothing reads ambient global state.
package config

import (
	"math/big"
	"os"
	"path/filepath"
)

// Network names understood by dfx.
const (
	NetworkIC    = "ic"
	NetworkLocal = "local"
)

// Config holds per-invocation runtime configuration.
type Config struct {
	// Core
	Network string
	Token   string

	// Overrides (testing and local ledgers)
	Ledger  string            // ledger canister ID override, empty = registry default
	Ledgers map[string]string // per-token ledger overrides, keyed by registry key
	Fee     *big.Int          // transfer fee override in base units, nil = ledger default

	// Identity
	Identity string // dfx identity to switch to for the call, empty = current

	// Web UI
	UI UIConfig

	// Logging
	Log LogConfig
}

// UIConfig holds local web UI settings.
type UIConfig struct {
	Port        int
	OpenBrowser bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	JSON  bool
}

// Default returns the default runtime configuration.
func Default() *Config {
	return &Config{
		Network: NetworkIC,
		Token:   "ckbtc",
		UI: UIConfig{
			Port:        5555,
			OpenBrowser: true,
		},
		Log: LogConfig{
			Level: "warn",
			JSON:  false,
		},
	}
}

// DefaultConfigPath returns the user config file location.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".icw", "icw.conf")
}

// LedgerFor resolves the ledger canister ID for the configured token,
// applying the explicit override first and, on the local network, any
// auto-detected project canisters.
func (c *Config) LedgerFor(tok Token) string {
	if id := c.Ledgers[tok.Key]; id != "" {
		return id
	}
	if c.Ledger != "" {
		return c.Ledger
	}
	if c.Network == NetworkLocal {
		if detected := DetectLocalCanisters("."); detected[tok.Key] != "" {
			return detected[tok.Key]
		}
	}
	return tok.Ledger
}
