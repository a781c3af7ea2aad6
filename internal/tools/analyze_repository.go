package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// AnalyzeRepositoryTool handles the analyze_repository MCP tool.
// It returns the raw facts the README would be built from, so the agent
// can write its own prose on top of them.
type AnalyzeRepositoryTool struct {
	inspector Inspector
	log       logrus.FieldLogger
}

// NewAnalyzeRepositoryTool creates an AnalyzeRepositoryTool.
func NewAnalyzeRepositoryTool(in Inspector, log logrus.FieldLogger) *AnalyzeRepositoryTool {
	return &AnalyzeRepositoryTool{inspector: in, log: log}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzeRepositoryTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_repository",
		mcp.WithDescription(
			"Analyze a GitHub repository and return its facts as JSON: description, "+
				"language, stars, forks, topics, license, dependency manifests, top-level "+
				"directories, top contributors, and last update date.",
		),
		mcp.WithString("repository_url",
			mcp.Required(),
			mcp.Description("GitHub repository URL (e.g. https://github.com/user/repo)"),
		),
	)
}

// Handle processes the analyze_repository tool call.
func (t *AnalyzeRepositoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, errResult := parseRepositoryURL(req)
	if errResult != nil {
		return errResult, nil
	}

	facts, err := t.inspector.Inspect(ctx, ref)
	if err != nil {
		t.log.WithField("repository", ref.FullName()).WithError(err).Error("analyze_repository failed")
		return mcp.NewToolResultError(userMessage(err)), nil
	}

	data, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling facts: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
