package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/HendryAvila/readme-mcp/internal/writer"
)

// SaveReadmeTool handles the save_readme_to_github MCP tool.
// It creates or updates README.md in the target repository.
type SaveReadmeTool struct {
	writer         Writer
	defaultMessage string
	log            logrus.FieldLogger
	history        recorder
}

// NewSaveReadmeTool creates a SaveReadmeTool. An empty defaultMessage
// falls back to writer.DefaultCommitMessage.
func NewSaveReadmeTool(w Writer, defaultMessage string, log logrus.FieldLogger) *SaveReadmeTool {
	if defaultMessage == "" {
		defaultMessage = writer.DefaultCommitMessage
	}
	return &SaveReadmeTool{
		writer:         w,
		defaultMessage: defaultMessage,
		log:            log,
		history:        recorder{log: log},
	}
}

// SetRecorder enables history recording. Passing nil disables it.
func (t *SaveReadmeTool) SetRecorder(r Recorder) {
	t.history.r = r
}

// Definition returns the MCP tool definition for registration.
func (t *SaveReadmeTool) Definition() mcp.Tool {
	return mcp.NewTool("save_readme_to_github",
		mcp.WithDescription(
			"Commit README.md to a GitHub repository. Creates the file if it does not "+
				"exist, otherwise updates it. Requires a token with write access.",
		),
		mcp.WithString("repository_url",
			mcp.Required(),
			mcp.Description("GitHub repository URL (e.g. https://github.com/user/repo)"),
		),
		mcp.WithString("readme_content",
			mcp.Required(),
			mcp.Description("Full Markdown content of the README to commit"),
		),
		mcp.WithString("commit_message",
			mcp.Description(fmt.Sprintf("Commit message (default: %q)", t.defaultMessage)),
		),
	)
}

// Handle processes the save_readme_to_github tool call.
func (t *SaveReadmeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, errResult := parseRepositoryURL(req)
	if errResult != nil {
		return errResult, nil
	}

	content := req.GetString("readme_content", "")
	if strings.TrimSpace(content) == "" {
		return mcp.NewToolResultError("'readme_content' is required"), nil
	}

	message := strings.TrimSpace(req.GetString("commit_message", ""))
	if message == "" {
		message = t.defaultMessage
	}

	result, err := t.writer.Write(ctx, ref, content, message)
	if err != nil {
		t.log.WithField("repository", ref.FullName()).WithError(err).Error("save_readme_to_github failed")
		return mcp.NewToolResultError(userMessage(err)), nil
	}

	entry := entryFor(ref, result.Status, content)
	entry.CommitSHA = result.CommitSHA
	entry.CommitURL = result.CommitURL
	t.history.record(ctx, entry)

	return mcp.NewToolResultText(fmt.Sprintf(
		"README.md %s in %s\n\nstatus: %s\ncommit_url: %s\ncommit_sha: %s\n",
		result.Status, ref.FullName(), result.Status, result.CommitURL, result.CommitSHA,
	)), nil
}
