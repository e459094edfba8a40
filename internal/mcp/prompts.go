package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("landing_page",
		mcp.WithPromptDescription("Guide through building a simple landing page on the canvas"),
		mcp.WithArgument("product",
			mcp.ArgumentDescription("Product or site name used for the headline"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("tagline",
			mcp.ArgumentDescription("One-line pitch shown under the headline"),
		),
	), s.handleLandingPagePrompt)
}

func (s *Server) handleLandingPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	product := req.Params.Arguments["product"]
	if product == "" {
		return nil, fmt.Errorf("product is required")
	}
	tagline := req.Params.Arguments["tagline"]
	if tagline == "" {
		tagline = "a short pitch of your choosing"
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a landing page for: %s", product),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a landing page for "%s" on the canvas. Follow these steps:

1. Call history_status to see what is already there. Use reset_canvas only if I ask for a fresh start.
2. add_block type "text" for the headline, then update_block with properties {"content":"%s","fontSize":40,"fontWeight":"700"}
3. add_block type "textarea" below it with %s as content, centered (textAlign "center")
4. add_block type "image" for a hero picture and set altText
5. add_block type "button" with a call to action, a url, and brand colors
6. Check the result with list_blocks, then export_html

Keep blocks on the 8px grid and leave room between them. If a step goes wrong, use undo rather than deleting by hand.`, product, product, tagline),
				},
			},
		},
	}, nil
}
