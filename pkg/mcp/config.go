package mcp

import (
	"context"
	"fmt"

	"github.com/modelfan/modelfan-go/pkg/config"
)

// ServerConfig describes a single MCP server connection.
type ServerConfig struct {
	// Name identifies the server in logs and dispatch decisions.
	Name string

	// Transport selects the connection type: "sse" or "streamable-http"
	// (default).
	Transport string

	// URL is the server endpoint.
	URL string

	// Headers are static HTTP headers added to every request, e.g. for
	// bearer tokens.
	Headers map[string]string
}

// NewDispatcherFromConfig connects a client per configured server and
// returns a dispatcher over them. A connection failure closes the clients
// connected so far.
func NewDispatcherFromConfig(ctx context.Context, cfg config.MCPConfig) (*Dispatcher, error) {
	clients := make(map[string]*Client, len(cfg.Servers))
	for _, srv := range cfg.Servers {
		client := NewClient(ServerConfig{
			Name:      srv.Name,
			Transport: srv.Transport,
			URL:       srv.URL,
			Headers:   srv.Headers,
		})
		if err := client.Connect(ctx); err != nil {
			for _, connected := range clients {
				connected.Close()
			}
			return nil, fmt.Errorf("connecting MCP server %q: %w", srv.Name, err)
		}
		clients[srv.Name] = client
	}
	return NewDispatcher(clients), nil
}
