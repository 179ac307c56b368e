// Package config provides unified configuration for the modelfan client.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (MODELFAN_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the modelfan client.
type Config struct {
	Client        ClientConfig        `yaml:"client"`
	Auth          AuthConfig          `yaml:"auth"`
	Ledger        LedgerConfig        `yaml:"ledger"`
	MCP           MCPConfig           `yaml:"mcp"`
	Observability ObservabilityConfig `yaml:"observability"`
	Debug         DebugConfig         `yaml:"debug"`
}

// ClientConfig holds platform endpoint settings.
type ClientConfig struct {
	BaseURL string        `yaml:"base_url"` // default: https://api.modelfan.ai
	Timeout time.Duration `yaml:"timeout"`  // default: 120s
}

// AuthConfig holds credential settings.
type AuthConfig struct {
	Type       string        `yaml:"type"`         // "apikey" or "service_account", default: "apikey"
	APIKey     string        `yaml:"api_key"`      // for type=apikey
	APIKeyFile string        `yaml:"api_key_file"` // _file variant for api_key
	KeyID      string        `yaml:"key_id"`       // for type=service_account
	Secret     string        `yaml:"secret"`       // for type=service_account
	SecretFile string        `yaml:"secret_file"`  // _file variant for secret
	TokenTTL   time.Duration `yaml:"token_ttl"`    // minted token lifetime, default: 5m
}

// LedgerConfig holds usage ledger settings.
type LedgerConfig struct {
	Type     string         `yaml:"type"`     // "memory" or "postgres", default: "memory"
	MaxSize  int            `yaml:"max_size"` // for memory ledger, default: 10000
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 25
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: false
}

// MCPConfig holds MCP (Model Context Protocol) server settings for tool
// call dispatch.
type MCPConfig struct {
	Servers []MCPServerConfig `yaml:"servers"`
}

// MCPServerConfig describes a single MCP server connection.
type MCPServerConfig struct {
	Name      string            `yaml:"name"`
	Transport string            `yaml:"transport"` // "sse" or "streamable-http"
	URL       string            `yaml:"url"`
	Headers   map[string]string `yaml:"headers"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// DebugConfig holds debug logging settings; environment variables take
// precedence (see pkg/debug).
type DebugConfig struct {
	Categories string `yaml:"categories"`
	Level      string `yaml:"level"`
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Client: ClientConfig{
			BaseURL: "https://api.modelfan.ai",
			Timeout: 120 * time.Second,
		},
		Auth: AuthConfig{
			Type:     "apikey",
			TokenTTL: 5 * time.Minute,
		},
		Ledger: LedgerConfig{
			Type:    "memory",
			MaxSize: 10000,
			Postgres: PostgresConfig{
				MaxConns: 25,
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
