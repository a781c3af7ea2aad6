package inspector

// DependencyManifests is the recognized set of top-level dependency
// manifest names, matched exactly and case-sensitively.
var DependencyManifests = []string{
	"package.json",
	"requirements.txt",
	"Cargo.toml",
	"go.mod",
	"pom.xml",
	"build.gradle",
	"Gemfile",
}

// MaxContributors bounds Facts.TopContributors.
const MaxContributors = 3

// Facts is a snapshot of one repository, built once per inspection and
// consumed by value. Empty strings mean "absent".
type Facts struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Owner           string   `json:"owner"`
	Language        string   `json:"language,omitempty"`
	Stars           int      `json:"stars"`
	Forks           int      `json:"forks"`
	Topics          []string `json:"topics"`
	License         string   `json:"license,omitempty"`
	URL             string   `json:"url,omitempty"`
	CloneURL        string   `json:"clone_url,omitempty"`
	HasReadme       bool     `json:"has_readme"`
	DependencyFiles []string `json:"dependency_files"`
	MainDirectories []string `json:"main_directories"`
	TopContributors []string `json:"top_contributors"`
	LastUpdated     string   `json:"last_updated,omitempty"`
}

// HasDependencyFile reports whether name was detected at the top level.
func (f Facts) HasDependencyFile(name string) bool {
	for _, dep := range f.DependencyFiles {
		if dep == name {
			return true
		}
	}
	return false
}

func isDependencyManifest(name string) bool {
	for _, m := range DependencyManifests {
		if m == name {
			return true
		}
	}
	return false
}
