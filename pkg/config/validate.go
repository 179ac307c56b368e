package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for consistency and returns an error
// describing the first problem found.
func (c *Config) Validate() error {
	if err := c.validateClient(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateLedger(); err != nil {
		return err
	}
	return c.validateMCP()
}

func (c *Config) validateClient() error {
	if c.Client.BaseURL == "" {
		return fmt.Errorf("client.base_url must not be empty")
	}
	u, err := url.Parse(c.Client.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("client.base_url %q is not a valid URL", c.Client.BaseURL)
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("client.timeout must not be negative")
	}
	return nil
}

func (c *Config) validateAuth() error {
	switch c.Auth.Type {
	case "apikey":
		// The key itself may arrive later via env or _file resolution;
		// its presence is checked when the token source is built.
	case "service_account":
		if c.Auth.KeyID == "" {
			return fmt.Errorf("auth.key_id is required for auth.type=service_account")
		}
		if c.Auth.Secret == "" && c.Auth.SecretFile == "" {
			return fmt.Errorf("auth.secret or auth.secret_file is required for auth.type=service_account")
		}
	default:
		return fmt.Errorf("unknown auth.type %q (must be \"apikey\" or \"service_account\")", c.Auth.Type)
	}
	if c.Auth.TokenTTL < 0 {
		return fmt.Errorf("auth.token_ttl must not be negative")
	}
	return nil
}

func (c *Config) validateLedger() error {
	switch c.Ledger.Type {
	case "memory":
		if c.Ledger.MaxSize <= 0 {
			return fmt.Errorf("ledger.max_size must be positive for ledger.type=memory")
		}
	case "postgres":
		if c.Ledger.Postgres.DSN == "" && c.Ledger.Postgres.DSNFile == "" {
			return fmt.Errorf("ledger.postgres.dsn or ledger.postgres.dsn_file is required for ledger.type=postgres")
		}
		if c.Ledger.Postgres.MaxConns <= 0 {
			return fmt.Errorf("ledger.postgres.max_conns must be positive")
		}
	default:
		return fmt.Errorf("unknown ledger.type %q (must be \"memory\" or \"postgres\")", c.Ledger.Type)
	}
	return nil
}

func (c *Config) validateMCP() error {
	seen := make(map[string]bool)
	for i, srv := range c.MCP.Servers {
		if srv.Name == "" {
			return fmt.Errorf("mcp.servers[%d].name must not be empty", i)
		}
		if seen[srv.Name] {
			return fmt.Errorf("mcp.servers[%d].name %q is duplicated", i, srv.Name)
		}
		seen[srv.Name] = true

		if srv.URL == "" {
			return fmt.Errorf("mcp.servers[%d] (%s): url must not be empty", i, srv.Name)
		}
		switch srv.Transport {
		case "", "sse", "streamable-http":
		default:
			return fmt.Errorf("mcp.servers[%d] (%s): unknown transport %q", i, srv.Name, srv.Transport)
		}
	}
	return nil
}
