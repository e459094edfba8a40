package mcpserver

import (
	"context"
	"fmt"

	"aura/internal/export"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerExportTools() {
	s.mcp.AddTool(mcp.NewTool("export_html",
		mcp.WithDescription("Render the canvas as a standalone HTML page. Returns the markup, or writes it to path when given."),
		mcp.WithString("path", mcp.Description("File to write (optional)")),
	), s.handleExportHTML)
}

func (s *Server) handleExportHTML(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := stringArg(req.GetArguments(), "path")
	if err != nil {
		return nil, err
	}
	doc := s.docs.Document()
	if path == "" {
		return textResult(export.HTML(doc)), nil
	}
	ran, err := s.exports.WriteFile(path, doc)
	if err != nil {
		return nil, err
	}
	if !ran {
		return textResult(fmt.Sprintf("Another export to %s is running; nothing written.", path)), nil
	}
	return textResult(fmt.Sprintf("Wrote %d block(s) to %s.", len(doc), path)), nil
}
