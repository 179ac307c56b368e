// Package mcp connects extracted tool calls to Model Context Protocol
// servers. A Dispatcher manages one client per configured server, discovers
// the tools each server provides, and routes api.ToolCall records produced
// by the parse pipeline to the server that owns the named tool.
package mcp
