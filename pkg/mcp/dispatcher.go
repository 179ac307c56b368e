package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/modelfan/modelfan-go/pkg/api"
	"github.com/modelfan/modelfan-go/pkg/debug"
	"github.com/modelfan/modelfan-go/pkg/observability"
)

// Dispatcher routes tool calls to the MCP server that provides the named
// tool. It manages connections to multiple servers and discovers their
// tools lazily on first use.
type Dispatcher struct {
	mu sync.RWMutex

	// clients maps server name to Client.
	clients map[string]*Client

	// toolToServer maps tool name to the server name that provides it.
	toolToServer map[string]string

	// discovered tracks whether tools have been discovered.
	discovered bool
}

// NewDispatcher creates a Dispatcher over the given connected clients,
// keyed by server name.
func NewDispatcher(clients map[string]*Client) *Dispatcher {
	return &Dispatcher{
		clients:      clients,
		toolToServer: make(map[string]string),
	}
}

// CanDispatch returns true if any connected server provides the named tool.
// On the first call, it triggers lazy tool discovery.
func (d *Dispatcher) CanDispatch(toolName string) bool {
	d.ensureDiscovered()

	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.toolToServer[toolName]
	return ok
}

// Dispatch routes a tool call to the server that provides it. An unknown
// tool name yields an error result, not a Go error.
func (d *Dispatcher) Dispatch(ctx context.Context, call api.ToolCall) (*ToolResult, error) {
	d.ensureDiscovered()

	d.mu.RLock()
	serverName, ok := d.toolToServer[call.Function.Name]
	if !ok {
		d.mu.RUnlock()
		observability.ToolDispatchTotal.WithLabelValues(call.Function.Name, "unknown").Inc()
		return &ToolResult{
			CallID:  call.ID,
			Name:    call.Function.Name,
			Output:  fmt.Sprintf("no MCP server provides tool %q", call.Function.Name),
			IsError: true,
		}, nil
	}
	client := d.clients[serverName]
	d.mu.RUnlock()

	debug.Log("mcp", "dispatching tool call",
		"tool", call.Function.Name,
		"server", serverName,
	)

	result, err := client.CallTool(ctx, call)
	if err != nil {
		observability.ToolDispatchTotal.WithLabelValues(call.Function.Name, "error").Inc()
		return nil, err
	}

	status := "ok"
	if result.IsError {
		status = "error"
	}
	observability.ToolDispatchTotal.WithLabelValues(call.Function.Name, status).Inc()
	return result, nil
}

// DispatchAll dispatches every tool call in a parsed completion choice, in
// order, and returns the results. Dispatch continues past error results so
// each call is accounted for.
func (d *Dispatcher) DispatchAll(ctx context.Context, msg api.Message) ([]*ToolResult, error) {
	results := make([]*ToolResult, 0, len(msg.ToolCalls))
	for _, call := range msg.ToolCalls {
		result, err := d.Dispatch(ctx, call)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// DiscoveredTools returns all tools discovered from connected servers.
func (d *Dispatcher) DiscoveredTools() []ToolInfo {
	d.ensureDiscovered()

	d.mu.RLock()
	defer d.mu.RUnlock()

	var all []ToolInfo
	for _, client := range d.clients {
		client.mu.Lock()
		all = append(all, client.cachedTools...)
		client.mu.Unlock()
	}
	return all
}

// Close closes all client connections.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var lastErr error
	for name, client := range d.clients {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close MCP client", "server", name, "error", err)
			lastErr = err
		}
	}
	return lastErr
}

// ensureDiscovered triggers tool discovery if it hasn't been done yet.
func (d *Dispatcher) ensureDiscovered() {
	d.mu.RLock()
	if d.discovered {
		d.mu.RUnlock()
		return
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	// Double-check after acquiring write lock.
	if d.discovered {
		return
	}

	ctx := context.Background()
	for name, client := range d.clients {
		infos, err := client.DiscoverTools(ctx)
		if err != nil {
			slog.Error("failed to discover tools from MCP server",
				"server", name,
				"error", err,
			)
			continue
		}

		for _, info := range infos {
			if _, exists := d.toolToServer[info.Name]; exists {
				slog.Warn("duplicate MCP tool name, using first provider",
					"tool", info.Name,
					"server", name,
				)
				continue
			}
			d.toolToServer[info.Name] = name
		}

		slog.Info("discovered MCP tools",
			"server", name,
			"count", len(infos),
		)
	}

	d.discovered = true
}
