// Package inspector gathers the facts a README is composed from.
//
// One "get repository" query is mandatory; the contents, contributors,
// and topics queries are best-effort and degrade to defaults when they
// fail. All four run concurrently under the caller's context.
package inspector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/HendryAvila/readme-mcp/internal/forge"
	"github.com/HendryAvila/readme-mcp/internal/reference"
)

var (
	// ErrRepositoryNotFound means the repository does not exist or the
	// credentials cannot see it.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrForgeAccess means the metadata query failed for any other reason.
	ErrForgeAccess = errors.New("forge access failed")
)

// Query names used in warnings and log fields.
const (
	queryContents     = "list contents"
	queryContributors = "list contributors"
	queryTopics       = "list topics"
)

// Inspector builds Facts from forge queries.
type Inspector struct {
	client forge.Client
	log    logrus.FieldLogger
}

// New creates an Inspector.
func New(client forge.Client, log logrus.FieldLogger) *Inspector {
	return &Inspector{client: client, log: log}
}

// Inspect queries the forge for ref and assembles its Facts. Only a
// failing "get repository" query fails the inspection.
func (in *Inspector) Inspect(ctx context.Context, ref reference.Reference) (Facts, error) {
	var (
		repo         *forge.Repository
		contents     outcome[[]forge.Entry]
		contributors outcome[[]string]
		topics       outcome[[]string]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := in.client.GetRepository(gctx, ref.Owner, ref.Name)
		if err != nil {
			return classify(ref, err)
		}
		repo = r
		return nil
	})
	// Best-effort queries never return an error so they cannot cancel
	// their siblings.
	g.Go(func() error {
		contents = settle(in.client.ListRootContents(gctx, ref.Owner, ref.Name))
		return nil
	})
	g.Go(func() error {
		contributors = settle(in.client.ListContributors(gctx, ref.Owner, ref.Name, MaxContributors))
		return nil
	})
	g.Go(func() error {
		topics = settle(in.client.ListTopics(gctx, ref.Owner, ref.Name))
		return nil
	})
	if err := g.Wait(); err != nil {
		return Facts{}, err
	}

	warn := func(query string, err error) {
		w := PartialInspectionWarning{Repository: ref.FullName(), Query: query, Err: err}
		in.log.WithFields(logrus.Fields{
			"repository": w.Repository,
			"query":      w.Query,
		}).WithError(w).Warn("partial inspection: continuing with defaults")
	}

	facts := Facts{
		Name:        repo.Name,
		Description: repo.Description,
		Owner:       ref.Owner,
		Language:    repo.Language,
		Stars:       repo.Stars,
		Forks:       repo.Forks,
		License:     repo.License,
		URL:         repo.HTMLURL,
		CloneURL:    repo.CloneURL,
	}
	if facts.Name == "" {
		facts.Name = ref.Name
	}
	if !repo.UpdatedAt.IsZero() {
		facts.LastUpdated = repo.UpdatedAt.UTC().Format("2006-01-02")
	}

	facts.Topics = nonNil(topics.orDefault(repo.Topics, warn, queryTopics))

	entries := contents.orDefault(nil, warn, queryContents)
	facts.HasReadme, facts.DependencyFiles, facts.MainDirectories = summarize(entries)

	logins := contributors.orDefault(nil, warn, queryContributors)
	if len(logins) > MaxContributors {
		logins = logins[:MaxContributors]
	}
	facts.TopContributors = nonNil(logins)

	in.log.WithFields(logrus.Fields{
		"repository":       ref.FullName(),
		"dependency_files": len(facts.DependencyFiles),
		"directories":      len(facts.MainDirectories),
		"contributors":     len(facts.TopContributors),
	}).Debug("repository inspected")

	return facts, nil
}

// summarize derives the structural fields from a top-level listing,
// preserving listing order.
func summarize(entries []forge.Entry) (hasReadme bool, deps, dirs []string) {
	deps = []string{}
	dirs = []string{}
	for _, e := range entries {
		if strings.HasPrefix(strings.ToLower(e.Name), "readme") {
			hasReadme = true
		}
		if isDependencyManifest(e.Name) {
			deps = append(deps, e.Name)
		}
		if e.IsDir() {
			dirs = append(dirs, e.Name)
		}
	}
	return hasReadme, deps, dirs
}

func classify(ref reference.Reference, err error) error {
	if errors.Is(err, forge.ErrNotFound) {
		return fmt.Errorf("%w: %s: %w", ErrRepositoryNotFound, ref.FullName(), err)
	}
	return fmt.Errorf("%w: %s: %w", ErrForgeAccess, ref.FullName(), err)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
