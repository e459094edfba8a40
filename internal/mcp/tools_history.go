package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerHistoryTools() {
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Step back to the previous document state"),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Step forward to the next document state, if an undo left one"),
	), s.handleRedo)

	s.mcp.AddTool(mcp.NewTool("history_status",
		mcp.WithDescription("Report block count, history position, and whether undo/redo are available"),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleHistoryStatus)
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.docs.Undo(ctx) {
		return textResult("Nothing to undo."), nil
	}
	return jsonResult(s.docs.Status())
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.docs.Redo(ctx) {
		return textResult("Nothing to redo."), nil
	}
	return jsonResult(s.docs.Status())
}

func (s *Server) handleHistoryStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.docs.Status())
}
