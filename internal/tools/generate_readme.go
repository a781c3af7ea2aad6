package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/HendryAvila/readme-mcp/internal/composer"
	"github.com/HendryAvila/readme-mcp/internal/history"
)

// GenerateReadmeTool handles the generate_readme MCP tool.
// It runs parse → inspect → compose and returns the Markdown.
type GenerateReadmeTool struct {
	inspector Inspector
	log       logrus.FieldLogger
	history   recorder
}

// NewGenerateReadmeTool creates a GenerateReadmeTool.
func NewGenerateReadmeTool(in Inspector, log logrus.FieldLogger) *GenerateReadmeTool {
	return &GenerateReadmeTool{inspector: in, log: log, history: recorder{log: log}}
}

// SetRecorder enables history recording. Passing nil disables it.
func (t *GenerateReadmeTool) SetRecorder(r Recorder) {
	t.history.r = r
}

// Definition returns the MCP tool definition for registration.
func (t *GenerateReadmeTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_readme",
		mcp.WithDescription(
			"Analyze a GitHub repository and generate a README.md from its metadata "+
				"and file layout. Returns the Markdown text. Review it with the user, "+
				"then call save_readme_to_github to commit it.",
		),
		mcp.WithString("repository_url",
			mcp.Required(),
			mcp.Description("GitHub repository URL (e.g. https://github.com/user/repo)"),
		),
	)
}

// Handle processes the generate_readme tool call.
func (t *GenerateReadmeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, errResult := parseRepositoryURL(req)
	if errResult != nil {
		return errResult, nil
	}

	facts, err := t.inspector.Inspect(ctx, ref)
	if err != nil {
		t.log.WithField("repository", ref.FullName()).WithError(err).Error("generate_readme failed")
		return mcp.NewToolResultError(userMessage(err)), nil
	}

	doc := composer.Compose(facts)
	t.history.record(ctx, entryFor(ref, history.ActionGenerated, doc))

	return mcp.NewToolResultText(doc), nil
}
