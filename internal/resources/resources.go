// Package resources implements MCP resource handlers for readme-mcp.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (readme://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/readme-mcp/internal/history"
)

// RecentURI addresses the recent-activity resource.
const RecentURI = "readme://history/recent"

// HistoryReader lists past pipeline runs.
type HistoryReader interface {
	Recent(ctx context.Context, repository string, limit int) ([]history.Entry, error)
}

// Handler manages readme-mcp resource endpoints.
type Handler struct {
	store HistoryReader
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store HistoryReader) *Handler {
	return &Handler{store: store}
}

// RecentResource returns the MCP resource definition for recent activity.
func (h *Handler) RecentResource() mcp.Resource {
	return mcp.NewResource(
		RecentURI,
		"Recent README Activity",
		mcp.WithResourceDescription("Most recent README generations and commits, newest first"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleRecent returns the most recent history entries as JSON.
func (h *Handler) HandleRecent(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries, err := h.store.Recent(ctx, "", history.DefaultLimit)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling history: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
