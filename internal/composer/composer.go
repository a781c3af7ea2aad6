// Package composer renders repository facts as a README.
//
// Compose is a pure, total function: identical facts always produce
// byte-identical Markdown, and absent facts simply drop their section.
package composer

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/readme-mcp/internal/inspector"
)

// MaxStructureEntries caps the Project Structure listing. Extra
// directories are dropped without an overflow marker.
const MaxStructureEntries = 5

// installSnippet is a dependency-specific install block, emitted when its
// trigger manifest was detected.
type installSnippet struct {
	trigger string
	intro   string
	command string
}

// installSnippets is ordered; the output follows this order regardless of
// how the manifests were listed.
var installSnippets = []installSnippet{
	{"package.json", "Install dependencies with npm:", "npm install"},
	{"requirements.txt", "Install Python dependencies:", "pip install -r requirements.txt"},
	{"Cargo.toml", "Build with Cargo:", "cargo build"},
	{"go.mod", "Install Go dependencies:", "go mod download"},
	{"pom.xml", "Build with Maven:", "mvn install"},
	{"build.gradle", "Build with Gradle:", "gradle build"},
	{"Gemfile", "Install Ruby dependencies:", "bundle install"},
}

// Compose renders facts as Markdown. Blocks are separated by exactly one
// blank line and the document ends with a single newline.
func Compose(facts inspector.Facts) string {
	var blocks []string
	add := func(block string) {
		if block != "" {
			blocks = append(blocks, block)
		}
	}

	add("# " + facts.Name)
	add(facts.Description)
	add(badges(facts))
	if facts.Language != "" {
		add("**Language:** " + facts.Language)
	}
	add(topics(facts.Topics))
	add(installation(facts))
	add(structure(facts.MainDirectories))
	add(contributors(facts.TopContributors))
	if facts.LastUpdated != "" {
		add("**Last Updated:** " + facts.LastUpdated)
	}
	if facts.URL != "" {
		add("---")
		add(fmt.Sprintf("[View on GitHub](%s)", facts.URL))
	}

	return strings.Join(blocks, "\n\n") + "\n"
}

// badges renders the stars/forks/license badge line. Zero counts are
// treated as absent.
func badges(facts inspector.Facts) string {
	var b []string
	if facts.Stars != 0 {
		b = append(b, fmt.Sprintf("![Stars](https://img.shields.io/badge/stars-%d-yellow)", facts.Stars))
	}
	if facts.Forks != 0 {
		b = append(b, fmt.Sprintf("![Forks](https://img.shields.io/badge/forks-%d-blue)", facts.Forks))
	}
	if facts.License != "" {
		b = append(b, fmt.Sprintf("![License](https://img.shields.io/badge/license-%s-green)", shieldsEscape(facts.License)))
	}
	return strings.Join(b, " ")
}

// shieldsEscape encodes a badge label for shields.io static badges, where
// "-" and "_" are separators and spaces must be percent-encoded.
func shieldsEscape(s string) string {
	r := strings.NewReplacer("-", "--", "_", "__", " ", "%20")
	return r.Replace(s)
}

func topics(list []string) string {
	if len(list) == 0 {
		return ""
	}
	quoted := make([]string, len(list))
	for i, t := range list {
		quoted[i] = "`" + t + "`"
	}
	return "**Topics:** " + strings.Join(quoted, ", ")
}

func installation(facts inspector.Facts) string {
	var parts []string
	if facts.CloneURL != "" {
		parts = append(parts, bashBlock("git clone "+facts.CloneURL, "cd "+facts.Name))
	}
	for _, s := range installSnippets {
		if facts.HasDependencyFile(s.trigger) {
			parts = append(parts, s.intro+"\n"+bashBlock(s.command))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "## Installation\n\n" + strings.Join(parts, "\n\n")
}

func structure(dirs []string) string {
	if len(dirs) == 0 {
		return ""
	}
	if len(dirs) > MaxStructureEntries {
		dirs = dirs[:MaxStructureEntries]
	}

	var sb strings.Builder
	sb.WriteString("## Project Structure\n\n```\n")
	for _, d := range dirs {
		fmt.Fprintf(&sb, "├── %s/\n", d)
	}
	sb.WriteString("```")
	return sb.String()
}

func contributors(logins []string) string {
	if len(logins) == 0 {
		return ""
	}
	lines := make([]string, len(logins))
	for i, login := range logins {
		lines[i] = fmt.Sprintf("- [@%s](https://github.com/%s)", login, login)
	}
	return "## Contributors\n\n" + strings.Join(lines, "\n")
}

func bashBlock(lines ...string) string {
	return "```bash\n" + strings.Join(lines, "\n") + "\n```"
}
