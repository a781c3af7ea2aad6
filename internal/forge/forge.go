// Package forge defines the boundary to the repository hosting service.
//
// The core (inspector, writer) depends only on the Client interface; the
// production implementation lives in forge/github and an in-memory fake
// for tests lives in forge/forgetest.
package forge

import (
	"context"
	"errors"
	"time"
)

// Classification sentinels. Adapters wrap the underlying transport error
// together with one of these so callers can branch with errors.Is.
var (
	// ErrNotFound means the repository or path does not exist (or is not
	// visible to the current credentials).
	ErrNotFound = errors.New("forge: not found")

	// ErrConflict means a write was rejected because the supplied
	// optimistic-concurrency token no longer matches.
	ErrConflict = errors.New("forge: conflict")
)

// EntryType values reported for directory listings.
const (
	EntryFile = "file"
	EntryDir  = "dir"
)

// Repository is the metadata returned by a "get repository" query.
type Repository struct {
	Name          string
	FullName      string
	Description   string
	Language      string
	Stars         int
	Forks         int
	Topics        []string
	License       string
	HTMLURL       string
	CloneURL      string
	DefaultBranch string
	UpdatedAt     time.Time
}

// Entry is a single item of a directory listing.
type Entry struct {
	Name string
	Path string
	Type string
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Type == EntryDir }

// File is the current descriptor of a file. SHA is the token required to
// update it.
type File struct {
	Path    string
	SHA     string
	Content string
}

// FileChange describes a create or update mutation.
type FileChange struct {
	Message string
	Content string
	// SHA must be set for updates and left empty for creates.
	SHA string
}

// Commit identifies the commit produced by a mutation.
type Commit struct {
	SHA string
	URL string
}

// Release is a published release of a repository.
type Release struct {
	Tag         string
	URL         string
	PublishedAt time.Time
}

// Client is the subset of forge operations the pipeline needs.
//
// Implementations must honor ctx cancellation on every call and must be
// safe for concurrent use.
type Client interface {
	GetRepository(ctx context.Context, owner, name string) (*Repository, error)
	ListRootContents(ctx context.Context, owner, name string) ([]Entry, error)
	ListContributors(ctx context.Context, owner, name string, limit int) ([]string, error)
	ListTopics(ctx context.Context, owner, name string) ([]string, error)
	GetFile(ctx context.Context, owner, name, path string) (*File, error)
	CreateFile(ctx context.Context, owner, name, path string, change FileChange) (*Commit, error)
	UpdateFile(ctx context.Context, owner, name, path string, change FileChange) (*Commit, error)
}
