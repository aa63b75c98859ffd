package config

import "fmt"

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network == "" {
		return fmt.Errorf("network must not be empty")
	}
	if _, err := LookupToken(cfg.Token); err != nil {
		return err
	}
	if cfg.Fee != nil && cfg.Fee.Sign() < 0 {
		return fmt.Errorf("fee override must be non-negative")
	}
	if cfg.UI.Port < 0 || cfg.UI.Port > 65535 {
		return fmt.Errorf("ui.port must be in range [0, 65535]")
	}
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}
	return nil
}
