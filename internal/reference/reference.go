// Package reference normalizes free-form GitHub repository URLs into an
// owner/name pair.
//
// Parsing is pure: no network access, deterministic, and idempotent.
// Parse(ref.URL()) always yields ref again.
package reference

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidReference is returned when a URL does not contain an
// owner/name path after the github.com host marker.
var ErrInvalidReference = errors.New("invalid GitHub repository URL")

// repoPattern captures the two path segments following the host marker.
var repoPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// Reference identifies a repository on the forge.
type Reference struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// Parse extracts the owner and repository name from a URL such as
// https://github.com/acme/widget.git?tab=readme.
//
// Anything after the name segment (/tree/main, query strings, fragments)
// is ignored and an exact ".git" suffix is removed from the name.
func Parse(url string) (Reference, error) {
	cleaned := strings.TrimRight(strings.TrimSpace(url), "/")

	match := repoPattern.FindStringSubmatch(cleaned)
	if match == nil {
		return Reference{}, fmt.Errorf("%w: %s", ErrInvalidReference, cleaned)
	}

	owner := match[1]
	name := match[2]

	// Query and fragment go first so "widget.git?tab=readme" still
	// loses its suffix.
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSuffix(name, ".git")

	if owner == "" || name == "" || strings.ContainsAny(owner, "?#") {
		return Reference{}, fmt.Errorf("%w: %s", ErrInvalidReference, cleaned)
	}

	return Reference{Owner: owner, Name: name}, nil
}

// FullName returns "owner/name".
func (r Reference) FullName() string {
	return r.Owner + "/" + r.Name
}

// URL returns the canonical web address of the repository.
func (r Reference) URL() string {
	return "https://github.com/" + r.FullName()
}

func (r Reference) String() string {
	return r.FullName()
}
