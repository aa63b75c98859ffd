package dfx

import (
	"context"
	"fmt"
	"strings"
)

// Identity is one entry from `dfx identity list`.
type Identity struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Whoami returns the name of the active dfx identity.
func (c *Client) Whoami(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx, "identity", "whoami")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Principal returns the principal of the active identity.
func (c *Client) Principal(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx, "identity", "get-principal")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ListIdentities returns all identities with the active one marked.
func (c *Client) ListIdentities(ctx context.Context) ([]Identity, string, error) {
	current, err := c.Whoami(ctx)
	if err != nil {
		return nil, "", err
	}

	out, err := c.runner.Run(ctx, "identity", "list")
	if err != nil {
		return nil, "", err
	}

	var ids []Identity
	for _, line := range strings.Split(string(out), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		ids = append(ids, Identity{Name: name, Active: name == current})
	}
	return ids, current, nil
}

// UseIdentity switches the active dfx identity.
func (c *Client) UseIdentity(ctx context.Context, name string) error {
	if _, err := c.runner.Run(ctx, "identity", "use", name); err != nil {
		return fmt.Errorf("switch identity %q: %w", name, err)
	}
	return nil
}

// NewIdentity creates a new dfx identity. Key material is generated and
// stored by dfx; we never see it.
func (c *Client) NewIdentity(ctx context.Context, name string) error {
	if _, err := c.runner.Run(ctx, "identity", "new", name); err != nil {
		return fmt.Errorf("create identity %q: %w", name, err)
	}
	return nil
}

// WithIdentity runs fn with the named identity active, restoring the
// previous identity afterwards. An empty name runs fn unchanged.
func (c *Client) WithIdentity(ctx context.Context, name string, fn func() error) error {
	if name == "" {
		return fn()
	}

	original, err := c.Whoami(ctx)
	if err != nil {
		return err
	}
	if original == name {
		return fn()
	}

	if err := c.UseIdentity(ctx, name); err != nil {
		return err
	}
	defer func() {
		if restoreErr := c.UseIdentity(ctx, original); restoreErr != nil {
			c.logger.Error().Err(restoreErr).Str("identity", original).Msg("could not restore identity")
		}
	}()

	return fn()
}
