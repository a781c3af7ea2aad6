// Package tools implements the MCP tool handlers of readme-mcp.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes Definition() for registration and Handle() with
// mcp-go's CallToolRequest signature. Domain failures are returned as tool
// error results, never as Go errors, so the agent always gets text back.
package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/HendryAvila/readme-mcp/internal/composer"
	"github.com/HendryAvila/readme-mcp/internal/history"
	"github.com/HendryAvila/readme-mcp/internal/inspector"
	"github.com/HendryAvila/readme-mcp/internal/reference"
	"github.com/HendryAvila/readme-mcp/internal/writer"
)

// Inspector gathers repository facts.
type Inspector interface {
	Inspect(ctx context.Context, ref reference.Reference) (inspector.Facts, error)
}

// Writer commits README content.
type Writer interface {
	Write(ctx context.Context, ref reference.Reference, content, message string) (writer.CommitResult, error)
}

// Recorder appends pipeline runs to the history log.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (int64, error)
}

// HistoryReader lists past pipeline runs.
type HistoryReader interface {
	Recent(ctx context.Context, repository string, limit int) ([]history.Entry, error)
}

// recorder wraps an optional Recorder. A nil recorder is a no-op and a
// failing one only logs, so history never affects tool results.
type recorder struct {
	r   Recorder
	log logrus.FieldLogger
}

func (r recorder) record(ctx context.Context, e history.Entry) {
	if r.r == nil {
		return
	}
	if _, err := r.r.Record(ctx, e); err != nil {
		r.log.WithField("repository", e.Repository).WithError(err).Warn("history: record failed")
	}
}

// entryFor builds a history entry describing a rendered document.
func entryFor(ref reference.Reference, action, content string) history.Entry {
	return history.Entry{
		Repository: ref.FullName(),
		Action:     action,
		Bytes:      len(content),
		Sections:   composer.Sections(content),
	}
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// parseRepositoryURL reads and parses the repository_url argument. The
// returned result is non-nil when the caller should return it as-is.
func parseRepositoryURL(req mcp.CallToolRequest) (reference.Reference, *mcp.CallToolResult) {
	raw := req.GetString("repository_url", "")
	if raw == "" {
		return reference.Reference{}, mcp.NewToolResultError("'repository_url' is required")
	}
	ref, err := reference.Parse(raw)
	if err != nil {
		return reference.Reference{}, mcp.NewToolResultError(userMessage(err))
	}
	return ref, nil
}

// userMessage turns a pipeline error into the text shown to the agent.
func userMessage(err error) string {
	switch {
	case errors.Is(err, reference.ErrInvalidReference):
		return fmt.Sprintf("Error: %v. Expected a URL like https://github.com/owner/repo", err)
	case errors.Is(err, inspector.ErrRepositoryNotFound):
		return fmt.Sprintf("Error: repository not found or not accessible with the configured token (%v)", err)
	case errors.Is(err, inspector.ErrForgeAccess):
		return fmt.Sprintf("Error: could not read repository metadata from GitHub (%v)", err)
	case errors.Is(err, writer.ErrWriteConflict):
		return fmt.Sprintf("Error: README.md changed on GitHub while saving; regenerate and try again (%v)", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Error: request cancelled (%v)", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
