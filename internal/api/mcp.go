package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/redmango/storefront/internal/backend"
	"github.com/redmango/storefront/internal/feedback"
)

// MCPCatalog abstracts remote catalog reads for the MCP layer.
type MCPCatalog interface {
	GetItem(ctx context.Context, id string) (backend.CatalogItem, error)
	ListItems(ctx context.Context) ([]backend.CatalogItem, error)
}

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Catalog MCPCatalog
	Reviews *feedback.ReviewStore
	Ratings *feedback.RatingStore
}

// NewMCPServer creates an MCP server exposing the catalog and the
// client-local feedback stores as tools.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"mango",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("mango — RedMango storefront catalog access and client-local reviews and ratings."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("get_catalog_item",
			mcp.WithDescription("Fetch a single catalog item by id from the storefront backend."),
			mcp.WithString("id", mcp.Description("Catalog item id"), mcp.Required()),
		),
		mcpGetCatalogItem(deps),
	)

	s.AddTool(
		mcp.NewTool("list_catalog_items",
			mcp.WithDescription("List all catalog items from the storefront backend."),
		),
		mcpListCatalogItems(deps),
	)

	s.AddTool(
		mcp.NewTool("list_reviews",
			mcp.WithDescription("List this client's stored reviews for a catalog item, in submission order."),
			mcp.WithString("itemId", mcp.Description("Catalog item id"), mcp.Required()),
		),
		mcpListReviews(deps),
	)

	s.AddTool(
		mcp.NewTool("submit_review",
			mcp.WithDescription("Append a review for a catalog item to this client's local store. Blank reviews are ignored."),
			mcp.WithString("itemId", mcp.Description("Catalog item id"), mcp.Required()),
			mcp.WithString("text", mcp.Description("Review text"), mcp.Required()),
		),
		mcpSubmitReview(deps),
	)

	s.AddTool(
		mcp.NewTool("rate_item",
			mcp.WithDescription("Store a 1-5 star rating for a catalog item in this client's local store, overwriting any earlier rating."),
			mcp.WithString("itemId", mcp.Description("Catalog item id"), mcp.Required()),
			mcp.WithNumber("stars", mcp.Description("Star rating, 1 through 5"), mcp.Required()),
		),
		mcpRateItem(deps),
	)

	return s
}

func mcpGetCatalogItem(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		item, err := deps.Catalog.GetItem(ctx, id)
		if err != nil {
			return mcpError(fmt.Sprintf("fetching item: %v", err)), nil
		}

		b, err := json.Marshal(item)
		if err != nil {
			return mcpError(fmt.Sprintf("encoding item: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListCatalogItems(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, err := deps.Catalog.ListItems(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("listing items: %v", err)), nil
		}
		if len(items) == 0 {
			return mcpText("[]"), nil
		}

		b, err := json.Marshal(items)
		if err != nil {
			return mcpError(fmt.Sprintf("encoding items: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListReviews(deps MCPDeps) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		itemID, err := req.RequireString("itemId")
		if err != nil {
			return mcpError("itemId is required"), nil
		}

		reviews := deps.Reviews.For(itemID)
		if len(reviews) == 0 {
			return mcpText("[]"), nil
		}

		b, err := json.Marshal(reviews)
		if err != nil {
			return mcpError(fmt.Sprintf("encoding reviews: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSubmitReview(deps MCPDeps) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		itemID, err := req.RequireString("itemId")
		if err != nil {
			return mcpError("itemId is required"), nil
		}
		text, err := req.RequireString("text")
		if err != nil {
			return mcpError("text is required"), nil
		}

		if err := deps.Reviews.Submit(itemID, text); err != nil {
			return mcpError(fmt.Sprintf("submitting review: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Stored review for item %s", itemID)), nil
	}
}

func mcpRateItem(deps MCPDeps) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		itemID, err := req.RequireString("itemId")
		if err != nil {
			return mcpError("itemId is required"), nil
		}
		stars, err := req.RequireInt("stars")
		if err != nil {
			return mcpError("stars is required"), nil
		}

		if err := deps.Ratings.Submit(itemID, stars); err != nil {
			return mcpError(fmt.Sprintf("rating item: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Stored %d-star rating for item %s", stars, itemID)), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
