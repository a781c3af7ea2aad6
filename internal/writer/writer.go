// Package writer commits a README back to the repository.
//
// Each call re-fetches the current README descriptor so the update uses a
// fresh optimistic-concurrency token. Nothing is cached between calls.
package writer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/HendryAvila/readme-mcp/internal/forge"
	"github.com/HendryAvila/readme-mcp/internal/reference"
)

// ReadmePath is the file the writer creates or updates.
const ReadmePath = "README.md"

// DefaultCommitMessage is used when the caller supplies none.
const DefaultCommitMessage = "Update README.md via MCP"

// Commit statuses.
const (
	StatusCreated = "created"
	StatusUpdated = "updated"
)

// ErrWriteConflict means the README changed between fetch and update.
// It is surfaced to the caller and never retried.
var ErrWriteConflict = errors.New("README.md was modified concurrently")

// CommitResult describes the completed remote mutation.
type CommitResult struct {
	Status    string `json:"status"`
	CommitSHA string `json:"commit_sha"`
	CommitURL string `json:"commit_url"`
}

// Writer creates or updates README.md through a forge client.
type Writer struct {
	client forge.Client
	log    logrus.FieldLogger
}

// New creates a Writer.
func New(client forge.Client, log logrus.FieldLogger) *Writer {
	return &Writer{client: client, log: log}
}

// Write stores content as README.md in ref, performing exactly one remote
// write. A missing README is created; an existing one is updated.
func (w *Writer) Write(ctx context.Context, ref reference.Reference, content, message string) (CommitResult, error) {
	if message == "" {
		message = DefaultCommitMessage
	}
	change := forge.FileChange{Message: message, Content: content}

	status := StatusUpdated
	existing, err := w.client.GetFile(ctx, ref.Owner, ref.Name, ReadmePath)
	switch {
	case errors.Is(err, forge.ErrNotFound):
		// GitHub answers 404 for a missing file and a missing repository
		// alike. The create below fails with ErrNotFound in the latter case.
		status = StatusCreated
	case err != nil:
		return CommitResult{}, fmt.Errorf("fetching %s of %s: %w", ReadmePath, ref.FullName(), err)
	default:
		change.SHA = existing.SHA
	}

	var commit *forge.Commit
	if status == StatusCreated {
		commit, err = w.client.CreateFile(ctx, ref.Owner, ref.Name, ReadmePath, change)
	} else {
		commit, err = w.client.UpdateFile(ctx, ref.Owner, ref.Name, ReadmePath, change)
	}
	if err != nil {
		if errors.Is(err, forge.ErrConflict) {
			return CommitResult{}, fmt.Errorf("%w: %s: %w", ErrWriteConflict, ref.FullName(), err)
		}
		return CommitResult{}, fmt.Errorf("writing %s to %s: %w", ReadmePath, ref.FullName(), err)
	}

	w.log.WithFields(logrus.Fields{
		"repository": ref.FullName(),
		"status":     status,
		"commit":     commit.SHA,
	}).Info("README committed")

	return CommitResult{
		Status:    status,
		CommitSHA: commit.SHA,
		CommitURL: commit.URL,
	}, nil
}
