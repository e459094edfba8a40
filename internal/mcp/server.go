package mcpserver

import (
	"encoding/json"
	"fmt"
	"log"

	"aura/internal/export"
	"aura/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for an aura editing session.
// It exposes tools, resources, and prompts so AI agents can build pages.
type Server struct {
	mcp     *server.MCPServer
	docs    *service.DocumentService
	exports *export.Guard
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Documents *service.DocumentService
	Exports   *export.Guard // shared with the session's other exporters; nil for a private one
	Version   string
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	version := deps.Version
	if version == "" {
		version = "1.0.0"
	}
	s := &Server{docs: deps.Documents, exports: deps.Exports}
	if s.exports == nil {
		s.exports = &export.Guard{}
	}

	s.mcp = server.NewMCPServer(
		"aura-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerBlockTools()
	s.registerHistoryTools()
	s.registerExportTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }
