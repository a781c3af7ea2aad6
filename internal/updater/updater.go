// Package updater checks whether a newer readme-mcp release is published.
//
// The check is best-effort: it runs in the background during "serve" and
// on "version --check", and network failures never surface as errors.
// Installing the new binary is left to the user's package manager.
package updater

import (
	"context"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/HendryAvila/readme-mcp/internal/forge"
)

const (
	// Owner and Repo locate readme-mcp's own releases.
	Owner = "HendryAvila"
	Repo  = "readme-mcp"

	// checkTimeout is how long we wait for the release lookup.
	checkTimeout = 10 * time.Second
)

// ReleaseSource looks up the latest published release of a repository.
type ReleaseSource interface {
	LatestRelease(ctx context.Context, owner, name string) (*forge.Release, error)
}

// UpdateResult is returned by CheckVersion to communicate the outcome.
type UpdateResult struct {
	// CurrentVersion is the running version (e.g. "0.2.0").
	CurrentVersion string
	// LatestVersion is the newest release (e.g. "0.3.0"). Empty if the
	// lookup failed.
	LatestVersion string
	// UpdateAvailable is true when latest > current.
	UpdateAvailable bool
	// ReleaseURL is the GitHub page for the release.
	ReleaseURL string
}

// CheckVersion queries the latest release and compares it against the
// current version. It never returns an error.
func CheckVersion(ctx context.Context, src ReleaseSource, currentVersion string) *UpdateResult {
	result := &UpdateResult{
		CurrentVersion: normalizeVersion(currentVersion),
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	release, err := src.LatestRelease(ctx, Owner, Repo)
	if err != nil || release == nil {
		return result
	}

	result.LatestVersion = normalizeVersion(release.Tag)
	result.ReleaseURL = release.URL
	result.UpdateAvailable = isNewer(result.CurrentVersion, result.LatestVersion)

	return result
}

// normalizeVersion strips the leading "v" from version strings.
func normalizeVersion(v string) string {
	return strings.TrimPrefix(v, "v")
}

// isNewer reports whether latest is a higher semantic version than
// current. Non-semver input (including "dev" builds) is never newer.
func isNewer(current, latest string) bool {
	c, l := "v"+current, "v"+latest
	if !semver.IsValid(c) || !semver.IsValid(l) {
		return false
	}
	return semver.Compare(l, c) > 0
}
