// Package github implements forge.Client on top of go-github.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"

	"github.com/HendryAvila/readme-mcp/internal/forge"
)

const defaultTimeout = 30 * time.Second

// Client implements forge.Client for GitHub.
type Client struct {
	client *gh.Client
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

// WithBaseURL points the client at a different REST API root, e.g. a
// GitHub Enterprise instance or a test server.
func WithBaseURL(raw string) Option {
	return func(o *options) { o.baseURL = raw }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// New creates a GitHub client. An empty token yields an anonymous client
// subject to the public rate limits.
func New(token string, opts ...Option) (*Client, error) {
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	if o.baseURL != "" {
		base, err := url.Parse(o.baseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing api url %q: %w", o.baseURL, err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		client.BaseURL = base
	}

	if o.userAgent != "" {
		client.UserAgent = o.userAgent
	}

	return &Client{client: client}, nil
}

// GetRepository fetches repository metadata.
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*forge.Repository, error) {
	repo, _, err := c.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, classify("get repository", err, false)
	}

	return &forge.Repository{
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		Language:      repo.GetLanguage(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		Topics:        repo.Topics,
		License:       repo.GetLicense().GetName(),
		HTMLURL:       repo.GetHTMLURL(),
		CloneURL:      repo.GetCloneURL(),
		DefaultBranch: repo.GetDefaultBranch(),
		UpdatedAt:     repo.GetUpdatedAt().Time,
	}, nil
}

// ListRootContents lists the top-level entries of the default branch.
func (c *Client) ListRootContents(ctx context.Context, owner, name string) ([]forge.Entry, error) {
	_, dir, _, err := c.client.Repositories.GetContents(ctx, owner, name, "", nil)
	if err != nil {
		return nil, classify("list contents", err, false)
	}

	entries := make([]forge.Entry, 0, len(dir))
	for _, item := range dir {
		entries = append(entries, forge.Entry{
			Name: item.GetName(),
			Path: item.GetPath(),
			Type: item.GetType(),
		})
	}
	return entries, nil
}

// ListContributors returns up to limit contributor logins in the order
// GitHub reports them (by contribution count).
func (c *Client) ListContributors(ctx context.Context, owner, name string, limit int) ([]string, error) {
	opts := &gh.ListContributorsOptions{}
	if limit > 0 {
		opts.PerPage = limit
	}

	contributors, _, err := c.client.Repositories.ListContributors(ctx, owner, name, opts)
	if err != nil {
		return nil, classify("list contributors", err, false)
	}

	logins := make([]string, 0, len(contributors))
	for _, contributor := range contributors {
		logins = append(logins, contributor.GetLogin())
	}
	return logins, nil
}

// ListTopics returns the repository topics.
func (c *Client) ListTopics(ctx context.Context, owner, name string) ([]string, error) {
	topics, _, err := c.client.Repositories.ListAllTopics(ctx, owner, name)
	if err != nil {
		return nil, classify("list topics", err, false)
	}
	return topics, nil
}

// GetFile fetches a file descriptor on the default branch. Content is
// empty when GitHub does not inline the body.
func (c *Client) GetFile(ctx context.Context, owner, name, path string) (*forge.File, error) {
	file, _, _, err := c.client.Repositories.GetContents(ctx, owner, name, path, nil)
	if err != nil {
		return nil, classify("get file "+path, err, false)
	}
	if file == nil {
		return nil, fmt.Errorf("get file %s: path is a directory", path)
	}

	// Files over 1 MB come back with encoding "none" and no body; the
	// descriptor (and its SHA) is still valid.
	var content string
	if file.GetEncoding() != "none" {
		content, err = file.GetContent()
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	}

	return &forge.File{
		Path:    file.GetPath(),
		SHA:     file.GetSHA(),
		Content: content,
	}, nil
}

// CreateFile commits a new file on the default branch.
func (c *Client) CreateFile(ctx context.Context, owner, name, path string, change forge.FileChange) (*forge.Commit, error) {
	opts := &gh.RepositoryContentFileOptions{
		Message: &change.Message,
		Content: []byte(change.Content),
	}

	res, _, err := c.client.Repositories.CreateFile(ctx, owner, name, path, opts)
	if err != nil {
		return nil, classify("create file "+path, err, true)
	}
	return commitFrom(res), nil
}

// UpdateFile commits new content for an existing file. change.SHA must be
// the blob SHA the caller last observed.
func (c *Client) UpdateFile(ctx context.Context, owner, name, path string, change forge.FileChange) (*forge.Commit, error) {
	opts := &gh.RepositoryContentFileOptions{
		Message: &change.Message,
		Content: []byte(change.Content),
		SHA:     &change.SHA,
	}

	res, _, err := c.client.Repositories.UpdateFile(ctx, owner, name, path, opts)
	if err != nil {
		return nil, classify("update file "+path, err, true)
	}
	return commitFrom(res), nil
}

func commitFrom(res *gh.RepositoryContentResponse) *forge.Commit {
	if res == nil {
		return &forge.Commit{}
	}
	return &forge.Commit{
		SHA: res.Commit.GetSHA(),
		URL: res.Commit.GetHTMLURL(),
	}
}

// LatestRelease returns the newest non-draft, non-prerelease release.
func (c *Client) LatestRelease(ctx context.Context, owner, name string) (*forge.Release, error) {
	rel, _, err := c.client.Repositories.GetLatestRelease(ctx, owner, name)
	if err != nil {
		return nil, classify("get latest release", err, false)
	}
	return &forge.Release{
		Tag:         rel.GetTagName(),
		URL:         rel.GetHTMLURL(),
		PublishedAt: rel.GetPublishedAt().Time,
	}, nil
}

// classify maps GitHub status codes onto the forge sentinels. GitHub
// answers a stale SHA with 409 and a create racing another create with
// 422, so both count as conflicts for writes.
func classify(op string, err error, write bool) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch code := ghErr.Response.StatusCode; {
		case code == http.StatusNotFound:
			return fmt.Errorf("%s: %w: %w", op, forge.ErrNotFound, err)
		case code == http.StatusConflict,
			write && code == http.StatusUnprocessableEntity:
			return fmt.Errorf("%s: %w: %w", op, forge.ErrConflict, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ forge.Client = (*Client)(nil)
