package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/deckhand/internal/tools"
)

// RegisterTools adds all deck assistant tools to the MCP server. Each
// handler closes over the toolkit; tool output is always a plain text
// result, never a protocol error.
func RegisterTools(s *server.MCPServer, kit *tools.Toolkit) {
	s.AddTool(viewDeckTool(), handleViewDeck(kit))
	s.AddTool(deckStatsTool(), handleDeckStats(kit))
	s.AddTool(modifyCardTool(), handleModifyCard(kit))
	s.AddTool(cardInfoTool(), handleCardInfo(kit))
	s.AddTool(refreshCardTool(), handleRefreshCard(kit))
	s.AddTool(manaCurveTool(), handleManaCurve(kit))
	s.AddTool(downloadImageTool(), handleDownloadImage(kit))
}

// --- Tool definitions ---

func viewDeckTool() mcp.Tool {
	return mcp.NewTool("view_deck",
		mcp.WithDescription("Show the current deck list with total card count and commander. "+
			"The last non-blank line of the deck file is always the commander."),
	)
}

func deckStatsTool() mcp.Tool {
	return mcp.NewTool("get_deck_stats",
		mcp.WithDescription("Get deck statistics: total cards, unique cards, commander, and any cards with multiple copies."),
	)
}

func modifyCardTool() mcp.Tool {
	return mcp.NewTool("modify_deck_card",
		mcp.WithDescription("Add or remove copies of a card in the deck. Positive quantity_change adds copies "+
			"(appending the card if absent), negative removes them; a quantity driven to zero removes the line. "+
			"The commander line can never be modified."),
		mcp.WithString("card_name", mcp.Required(), mcp.Description("Exact card name as written in the deck (case-insensitive)")),
		mcp.WithNumber("quantity_change", mcp.Required(), mcp.Description("Copies to add (positive) or remove (negative)")),
	)
}

func cardInfoTool() mcp.Tool {
	return mcp.NewTool("get_card_info",
		mcp.WithDescription("Look up a card on Scryfall by exact name: mana cost, type line, oracle text, power/toughness. "+
			"Results are cached on disk; unknown cards are re-checked on every call."),
		mcp.WithString("card_name", mcp.Required(), mcp.Description("Exact card name")),
	)
}

func refreshCardTool() mcp.Tool {
	return mcp.NewTool("refresh_card_cache",
		mcp.WithDescription("Discard the cached Scryfall record for a card and fetch it again."),
		mcp.WithString("card_name", mcp.Required(), mcp.Description("Exact card name")),
	)
}

func manaCurveTool() mcp.Tool {
	return mcp.NewTool("get_mana_curve",
		mcp.WithDescription("Compute the deck's mana curve: land/spell counts, average CMC, commander CMC, and a "+
			"bar-chart distribution by mana value. Results are cached per deck content."),
	)
}

func downloadImageTool() mcp.Tool {
	return mcp.NewTool("download_card_image",
		mcp.WithDescription("Download the card's image into the local image cache. Existing images are never overwritten."),
		mcp.WithString("card_name", mcp.Required(), mcp.Description("Exact card name")),
	)
}

// --- Tool handlers ---

func handleViewDeck(kit *tools.Toolkit) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(kit.ViewDeck()), nil
	}
}

func handleDeckStats(kit *tools.Toolkit) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(kit.DeckStats()), nil
	}
}

func handleModifyCard(kit *tools.Toolkit) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("card_name", "")
		if name == "" {
			return mcp.NewToolResultError("card_name is required"), nil
		}
		delta := request.GetInt("quantity_change", 0)
		return mcp.NewToolResultText(kit.ModifyCard(name, delta)), nil
	}
}

func handleCardInfo(kit *tools.Toolkit) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("card_name", "")
		if name == "" {
			return mcp.NewToolResultError("card_name is required"), nil
		}
		return mcp.NewToolResultText(kit.CardInfo(ctx, name)), nil
	}
}

func handleRefreshCard(kit *tools.Toolkit) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("card_name", "")
		if name == "" {
			return mcp.NewToolResultError("card_name is required"), nil
		}
		return mcp.NewToolResultText(kit.RefreshCard(ctx, name)), nil
	}
}

func handleManaCurve(kit *tools.Toolkit) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(kit.ManaCurve(ctx)), nil
	}
}

func handleDownloadImage(kit *tools.Toolkit) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("card_name", "")
		if name == "" {
			return mcp.NewToolResultError("card_name is required"), nil
		}
		return mcp.NewToolResultText(kit.DownloadImage(ctx, name)), nil
	}
}
