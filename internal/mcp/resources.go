package mcpserver

import (
	"context"

	"aura/internal/domain"
	"aura/internal/export"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	documentURI = "aura://document"
	exportURI   = "aura://export"
)

func (s *Server) registerResources() {
	// ── aura://document ────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		documentURI,
		"Canvas Document",
		mcp.WithResourceDescription("The live document in its persisted JSON form"),
		mcp.WithMIMEType("application/json"),
	), s.handleDocumentResource)

	// ── aura://export ──────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		exportURI,
		"Exported Page",
		mcp.WithResourceDescription("The canvas rendered as a standalone HTML page"),
		mcp.WithMIMEType("text/html"),
	), s.handleExportResource)
}

func (s *Server) handleDocumentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := domain.MarshalDocument(s.docs.Document())
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      documentURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleExportResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      exportURI,
			MIMEType: "text/html",
			Text:     export.HTML(s.docs.Document()),
		},
	}, nil
}
