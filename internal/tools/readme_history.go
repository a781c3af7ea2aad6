package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/readme-mcp/internal/history"
	"github.com/HendryAvila/readme-mcp/internal/reference"
)

// HistoryTool handles the readme_history MCP tool.
type HistoryTool struct {
	store HistoryReader
}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool(store HistoryReader) *HistoryTool {
	return &HistoryTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("readme_history",
		mcp.WithDescription(
			"List recent README generations and commits made through this server, "+
				"newest first. Optionally filter by repository.",
		),
		mcp.WithString("repository_url",
			mcp.Description("Only show runs for this repository"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Max entries (default: %d, max: %d)", history.DefaultLimit, history.MaxLimit)),
		),
	)
}

// Handle processes the readme_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repository := ""
	if raw := req.GetString("repository_url", ""); raw != "" {
		ref, err := reference.Parse(raw)
		if err != nil {
			return mcp.NewToolResultError(userMessage(err)), nil
		}
		repository = ref.FullName()
	}
	limit := intArg(req, "limit", history.DefaultLimit)

	entries, err := t.store.Recent(ctx, repository, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No README activity recorded yet."), nil
	}

	var sb strings.Builder
	sb.WriteString("# README History\n\n")
	sb.WriteString("| # | Repository | Action | Commit | Sections | When |\n")
	sb.WriteString("|---|------------|--------|--------|----------|------|\n")
	for _, e := range entries {
		commit := "-"
		if e.CommitSHA != "" {
			commit = fmt.Sprintf("[`%s`](%s)", shortSHA(e.CommitSHA), e.CommitURL)
		}
		sections := "-"
		if len(e.Sections) > 0 {
			sections = strings.Join(e.Sections, ", ")
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | %s |\n",
			e.ID, e.Repository, e.Action, commit, sections, e.CreatedAt)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
