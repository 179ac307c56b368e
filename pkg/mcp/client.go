package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/modelfan/modelfan-go/pkg/api"
)

// ToolInfo describes a tool a server advertises.
type ToolInfo struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// ToolResult is the outcome of dispatching one tool call.
type ToolResult struct {
	CallID  string
	Name    string
	Output  string
	IsError bool
}

// Client wraps an MCP SDK Client and ClientSession for a single server
// connection. It handles connection lifecycle, tool discovery, and tool
// execution.
type Client struct {
	cfg     ServerConfig
	client  *mcp.Client
	session *mcp.ClientSession

	mu            sync.Mutex
	cachedTools   []ToolInfo
	toolsResolved bool
}

// NewClient creates a Client for the given server configuration.
// Call Connect to establish the connection.
func NewClient(cfg ServerConfig) *Client {
	return &Client{cfg: cfg}
}

// Connect establishes the MCP connection to the server, performing the
// protocol handshake.
func (c *Client) Connect(ctx context.Context) error {
	return c.ConnectWithTransport(ctx, nil)
}

// ConnectWithTransport establishes the MCP connection using the given
// transport. If transport is nil, a transport is created from the server
// configuration. Tests use this with in-memory transports.
func (c *Client) ConnectWithTransport(ctx context.Context, transport mcp.Transport) error {
	c.client = mcp.NewClient(
		&mcp.Implementation{
			Name:    "modelfan",
			Version: "1.0.0",
		},
		&mcp.ClientOptions{
			Capabilities: &mcp.ClientCapabilities{},
		},
	)

	if transport == nil {
		t, err := c.createTransport()
		if err != nil {
			return fmt.Errorf("creating transport for %q: %w", c.cfg.Name, err)
		}
		transport = t
	}

	session, err := c.client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("connecting to MCP server %q: %w", c.cfg.Name, err)
	}
	c.session = session
	return nil
}

// createTransport creates an MCP transport based on the server configuration.
func (c *Client) createTransport() (mcp.Transport, error) {
	httpClient := c.buildHTTPClient()

	switch c.cfg.Transport {
	case "sse":
		transport := &mcp.SSEClientTransport{
			Endpoint: c.cfg.URL,
		}
		if httpClient != nil {
			transport.HTTPClient = httpClient
		}
		return transport, nil

	case "streamable-http", "":
		transport := &mcp.StreamableClientTransport{
			Endpoint: c.cfg.URL,
		}
		if httpClient != nil {
			transport.HTTPClient = httpClient
		}
		return transport, nil

	default:
		return nil, fmt.Errorf("unsupported transport type %q", c.cfg.Transport)
	}
}

// buildHTTPClient returns an HTTP client that injects the configured static
// headers. Returns nil if no headers are configured.
func (c *Client) buildHTTPClient() *http.Client {
	if len(c.cfg.Headers) == 0 {
		return nil
	}
	return &http.Client{
		Transport: &headerTransport{
			base:    http.DefaultTransport,
			headers: c.cfg.Headers,
		},
	}
}

// headerTransport is an http.RoundTripper that adds custom headers to
// every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}

// DiscoverTools queries the server for available tools and caches the
// result. Subsequent calls return the cached tools.
func (c *Client) DiscoverTools(ctx context.Context) ([]ToolInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.toolsResolved {
		return c.cachedTools, nil
	}

	if c.session == nil {
		return nil, fmt.Errorf("MCP client %q not connected", c.cfg.Name)
	}

	var infos []ToolInfo
	for tool, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("listing tools from %q: %w", c.cfg.Name, err)
		}
		info, convErr := convertTool(tool)
		if convErr != nil {
			return nil, fmt.Errorf("converting tool %q from %q: %w", tool.Name, c.cfg.Name, convErr)
		}
		infos = append(infos, info)
	}

	c.cachedTools = infos
	c.toolsResolved = true
	return infos, nil
}

// CallTool executes a tool call on the server and returns the result.
// Argument decoding failures and server-side tool errors are reported in
// the result rather than as a Go error, so a batch of calls can proceed.
func (c *Client) CallTool(ctx context.Context, call api.ToolCall) (*ToolResult, error) {
	if c.session == nil {
		return nil, fmt.Errorf("MCP client %q not connected", c.cfg.Name)
	}

	args, err := toolArguments(call.Function.Arguments)
	if err != nil {
		return &ToolResult{
			CallID:  call.ID,
			Name:    call.Function.Name,
			Output:  fmt.Sprintf("invalid arguments: %v", err),
			IsError: true,
		}, nil
	}

	params := &mcp.CallToolParams{
		Name:      call.Function.Name,
		Arguments: args,
	}

	result, err := c.session.CallTool(ctx, params)
	if err != nil {
		return &ToolResult{
			CallID:  call.ID,
			Name:    call.Function.Name,
			Output:  fmt.Sprintf("MCP tool call error: %v", err),
			IsError: true,
		}, nil
	}

	return convertResult(call, result), nil
}

// Close closes the MCP session.
func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

// toolArguments converts extracted tool call arguments into the map shape
// MCP expects. Arguments arrive as decoded JSON (usually a map), but over
// the wire they may also be a JSON-encoded string.
func toolArguments(v any) (map[string]any, error) {
	switch args := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return args, nil
	case string:
		if args == "" {
			return nil, nil
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(args), &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("arguments must be a JSON object, got %T", v)
	}
}

// convertTool converts an MCP Tool to a ToolInfo.
func convertTool(t *mcp.Tool) (ToolInfo, error) {
	var schema json.RawMessage
	if t.InputSchema != nil {
		data, err := json.Marshal(t.InputSchema)
		if err != nil {
			return ToolInfo{}, fmt.Errorf("marshaling input schema: %w", err)
		}
		schema = data
	}

	return ToolInfo{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: schema,
	}, nil
}

// convertResult converts an MCP CallToolResult to a ToolResult, joining the
// text content parts.
func convertResult(call api.ToolCall, result *mcp.CallToolResult) *ToolResult {
	var output string
	for _, content := range result.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			if output != "" {
				output += "\n"
			}
			output += tc.Text
		}
	}

	return &ToolResult{
		CallID:  call.ID,
		Name:    call.Function.Name,
		Output:  output,
		IsError: result.IsError,
	}
}
