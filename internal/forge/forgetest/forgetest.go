// Package forgetest provides an in-memory forge.Client for tests.
//
// A Forge holds any number of repositories and can be told to fail a
// specific operation, which is how the partial-failure paths of the
// inspector and writer are exercised.
package forgetest

import (
	"context"
	"crypto/sha1" //nolint:gosec // mirrors git blob ids, not security sensitive
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/HendryAvila/readme-mcp/internal/forge"
)

// Op names a forge.Client method for failure injection and call counting.
type Op string

const (
	OpGetRepository    Op = "GetRepository"
	OpListRootContents Op = "ListRootContents"
	OpListContributors Op = "ListContributors"
	OpListTopics       Op = "ListTopics"
	OpGetFile          Op = "GetFile"
	OpCreateFile       Op = "CreateFile"
	OpUpdateFile       Op = "UpdateFile"
)

// Repo is the state of a single fake repository.
type Repo struct {
	Meta         forge.Repository
	Entries      []forge.Entry
	Contributors []string
	Topics       []string
	Files        map[string]string
}

// Forge is a concurrency-safe in-memory forge.
type Forge struct {
	mu      sync.Mutex
	repos   map[string]*Repo
	fail    map[Op]error
	calls   map[Op]int
	commits int
}

// New creates an empty Forge.
func New() *Forge {
	return &Forge{
		repos: make(map[string]*Repo),
		fail:  make(map[Op]error),
		calls: make(map[Op]int),
	}
}

// AddRepo registers a repository under owner/name.
func (f *Forge) AddRepo(owner, name string, repo Repo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if repo.Files == nil {
		repo.Files = make(map[string]string)
	}
	f.repos[key(owner, name)] = &repo
}

// Fail makes every subsequent call of op return err.
func (f *Forge) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = err
}

// Calls returns how many times op was invoked.
func (f *Forge) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// FileContent returns the stored content of path, if any.
func (f *Forge) FileContent(owner, name, path string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	repo, ok := f.repos[key(owner, name)]
	if !ok {
		return "", false
	}
	content, ok := repo.Files[path]
	return content, ok
}

// BlobSHA returns the token the fake assigns to content.
func BlobSHA(content string) string {
	sum := sha1.Sum([]byte(content)) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}

func (f *Forge) GetRepository(ctx context.Context, owner, name string) (*forge.Repository, error) {
	repo, err := f.begin(ctx, OpGetRepository, owner, name)
	if err != nil {
		return nil, err
	}
	meta := repo.Meta
	return &meta, nil
}

func (f *Forge) ListRootContents(ctx context.Context, owner, name string) ([]forge.Entry, error) {
	repo, err := f.begin(ctx, OpListRootContents, owner, name)
	if err != nil {
		return nil, err
	}
	return append([]forge.Entry(nil), repo.Entries...), nil
}

func (f *Forge) ListContributors(ctx context.Context, owner, name string, limit int) ([]string, error) {
	repo, err := f.begin(ctx, OpListContributors, owner, name)
	if err != nil {
		return nil, err
	}
	logins := append([]string(nil), repo.Contributors...)
	if limit > 0 && len(logins) > limit {
		logins = logins[:limit]
	}
	return logins, nil
}

func (f *Forge) ListTopics(ctx context.Context, owner, name string) ([]string, error) {
	repo, err := f.begin(ctx, OpListTopics, owner, name)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), repo.Topics...), nil
}

func (f *Forge) GetFile(ctx context.Context, owner, name, path string) (*forge.File, error) {
	repo, err := f.begin(ctx, OpGetFile, owner, name)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := repo.Files[path]
	if !ok {
		return nil, fmt.Errorf("get file %s: %w", path, forge.ErrNotFound)
	}
	return &forge.File{Path: path, SHA: BlobSHA(content), Content: content}, nil
}

func (f *Forge) CreateFile(ctx context.Context, owner, name, path string, change forge.FileChange) (*forge.Commit, error) {
	repo, err := f.begin(ctx, OpCreateFile, owner, name)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := repo.Files[path]; exists {
		return nil, fmt.Errorf("create file %s: %w", path, forge.ErrConflict)
	}
	repo.Files[path] = change.Content
	return f.commit(owner, name), nil
}

func (f *Forge) UpdateFile(ctx context.Context, owner, name, path string, change forge.FileChange) (*forge.Commit, error) {
	repo, err := f.begin(ctx, OpUpdateFile, owner, name)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	current, exists := repo.Files[path]
	if !exists {
		return nil, fmt.Errorf("update file %s: %w", path, forge.ErrNotFound)
	}
	if BlobSHA(current) != change.SHA {
		return nil, fmt.Errorf("update file %s: %w", path, forge.ErrConflict)
	}
	repo.Files[path] = change.Content
	return f.commit(owner, name), nil
}

// begin records the call and resolves the repository, honoring ctx and
// injected failures.
func (f *Forge) begin(ctx context.Context, op Op, owner, name string) (*Repo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.fail[op]; err != nil {
		return nil, err
	}
	repo, ok := f.repos[key(owner, name)]
	if !ok {
		return nil, fmt.Errorf("%s %s/%s: %w", op, owner, name, forge.ErrNotFound)
	}
	return repo, nil
}

// commit must be called with f.mu held.
func (f *Forge) commit(owner, name string) *forge.Commit {
	f.commits++
	sha := BlobSHA(fmt.Sprintf("commit-%d", f.commits))
	return &forge.Commit{
		SHA: sha,
		URL: fmt.Sprintf("https://github.com/%s/%s/commit/%s", owner, name, sha),
	}
}

func key(owner, name string) string { return owner + "/" + name }

var _ forge.Client = (*Forge)(nil)
