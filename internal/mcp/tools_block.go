package mcpserver

import (
	"context"
	"fmt"

	"aura/internal/domain"
	"aura/internal/layout"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerBlockTools() {
	kinds := make([]string, len(domain.Kinds))
	for i, k := range domain.Kinds {
		kinds[i] = string(k)
	}

	// ── add_block ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_block",
		mcp.WithDescription("Add a block with default properties. Position is auto-calculated if not provided. The new block becomes the selection."),
		mcp.WithString("type",
			mcp.Description("Block type"),
			mcp.Enum(kinds...),
			mcp.Required(),
		),
		mcp.WithNumber("x", mcp.Description("X position in px (optional, snapped to the 8px grid)")),
		mcp.WithNumber("y", mcp.Description("Y position in px (optional, snapped to the 8px grid)")),
	), s.handleAddBlock)

	// ── update_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_block",
		mcp.WithDescription("Update a block. Each field given replaces the block's field as a whole, including the properties object."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position (optional)")),
		mcp.WithNumber("y", mcp.Description("New Y position (optional)")),
		mcp.WithNumber("zIndex", mcp.Description("New stack order (optional)")),
		mcp.WithString("properties",
			mcp.Description(`JSON object of properties for the block's type, e.g. {"content":"Hello","fontWeight":"700"} (optional)`),
		),
	), s.handleUpdateBlock)

	// ── delete_block (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_block",
		mcp.WithDescription("Delete a block. Undo restores it."),
		mcp.WithString("blockId", mcp.Description("Block ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteBlock)

	// ── select_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_block",
		mcp.WithDescription("Select a block for editing. Omit blockId to clear the selection."),
		mcp.WithString("blockId", mcp.Description("Block ID (optional)")),
	), s.handleSelectBlock)

	// ── list_blocks ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_blocks",
		mcp.WithDescription("List blocks in insertion order with their effective properties"),
		mcp.WithString("type", mcp.Description("Filter by block type (optional)"), mcp.Enum(kinds...)),
	), s.handleListBlocks)

	// ── reset_canvas (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("reset_canvas",
		mcp.WithDescription("Remove every block. Recorded like any other edit, so undo brings them back."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleResetCanvas)
}

// blockView is a block as reported to agents: stored fields plus the
// properties it actually renders with.
type blockView struct {
	ID         string            `json:"id"`
	Type       domain.BlockKind  `json:"type"`
	Position   domain.Position   `json:"position"`
	ZIndex     int               `json:"zIndex"`
	Properties domain.Properties `json:"properties"`
	Selected   bool              `json:"selected,omitempty"`
}

func viewBlock(b domain.Block, selected string) blockView {
	return blockView{
		ID:         b.ID,
		Type:       b.Kind,
		Position:   b.Position,
		ZIndex:     b.StackOrder,
		Properties: domain.ResolveBlock(b),
		Selected:   selected != "" && b.ID == selected,
	}
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleAddBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	typ, err := requiredString(args, "type")
	if err != nil {
		return nil, err
	}
	kind, err := domain.ParseBlockKind(typ)
	if err != nil {
		return nil, err
	}
	x, hasX, err := intArg(args, "x")
	if err != nil {
		return nil, err
	}
	y, hasY, err := intArg(args, "y")
	if err != nil {
		return nil, err
	}

	place := func(doc domain.Document) domain.Position {
		var pos domain.Position
		if !hasX || !hasY {
			pos = layout.NextPosition(doc, kind)
		}
		if hasX {
			pos.X = layout.Snap(x)
		}
		if hasY {
			pos.Y = layout.Snap(y)
		}
		return pos
	}

	b, err := s.docs.AddBlockAt(ctx, kind, place)
	if err != nil {
		return nil, err
	}
	return jsonResult(viewBlock(b, b.ID))
}

func (s *Server) handleUpdateBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requiredString(args, "blockId")
	if err != nil {
		return nil, err
	}
	x, hasX, err := intArg(args, "x")
	if err != nil {
		return nil, err
	}
	y, hasY, err := intArg(args, "y")
	if err != nil {
		return nil, err
	}
	z, hasZ, err := intArg(args, "zIndex")
	if err != nil {
		return nil, err
	}
	rawProps, err := stringArg(args, "properties")
	if err != nil {
		return nil, err
	}
	if !hasX && !hasY && !hasZ && rawProps == "" {
		return nil, fmt.Errorf("nothing to update: pass x, y, zIndex or properties")
	}

	build := func(current domain.Block) (domain.BlockPatch, error) {
		var patch domain.BlockPatch
		if hasX || hasY {
			pos := current.Position
			if hasX {
				pos.X = x
			}
			if hasY {
				pos.Y = y
			}
			patch.Position = &pos
		}
		if hasZ {
			patch.StackOrder = &z
		}
		if rawProps != "" {
			props, err := domain.DecodeProperties(current.Kind, []byte(rawProps))
			if err != nil {
				return patch, err
			}
			patch.Properties = props
		}
		return patch, nil
	}

	updated, found, err := s.docs.UpdateBlockFunc(ctx, id, build)
	if err != nil {
		return nil, err
	}
	if !found {
		return textResult(fmt.Sprintf("No block %s on the canvas; nothing changed.", id)), nil
	}
	sel, _ := s.docs.Selection()
	return jsonResult(viewBlock(updated, sel.ID))
}

func (s *Server) handleDeleteBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(req.GetArguments(), "blockId")
	if err != nil {
		return nil, err
	}
	doc, found := s.docs.DeleteBlock(ctx, id)
	if !found {
		return textResult(fmt.Sprintf("No block %s on the canvas; nothing changed.", id)), nil
	}
	return textResult(fmt.Sprintf("Deleted block %s. %d block(s) remain.", id, len(doc))), nil
}

func (s *Server) handleSelectBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := stringArg(req.GetArguments(), "blockId")
	if err != nil {
		return nil, err
	}
	if id == "" {
		s.docs.ClearSelection(ctx)
		return textResult("Selection cleared."), nil
	}
	if !s.docs.Select(ctx, id) {
		return textResult(fmt.Sprintf("No block %s on the canvas; selection unchanged.", id)), nil
	}
	b, _ := s.docs.Selection()
	return jsonResult(viewBlock(b, b.ID))
}

func (s *Server) handleListBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := stringArg(req.GetArguments(), "type")
	if err != nil {
		return nil, err
	}
	var filter domain.BlockKind
	if typ != "" {
		if filter, err = domain.ParseBlockKind(typ); err != nil {
			return nil, err
		}
	}

	sel, _ := s.docs.Selection()
	views := []blockView{}
	for _, b := range s.docs.Document() {
		if filter != "" && b.Kind != filter {
			continue
		}
		views = append(views, viewBlock(b, sel.ID))
	}
	return jsonResult(views)
}

func (s *Server) handleResetCanvas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := len(s.docs.Document())
	s.docs.Reset(ctx)
	return textResult(fmt.Sprintf("Cleared %d block(s). Use undo to restore them.", n)), nil
}
