package composer

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one heading of a parsed Markdown document.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Outline parses a Markdown document and returns its headings in
// document order. Fenced code is not mistaken for headings.
func Outline(markdown string) []Heading {
	src := []byte(markdown)
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var headings []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}

		var sb strings.Builder
		lines := h.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(src))
		}
		headings = append(headings, Heading{Level: h.Level, Text: strings.TrimSpace(sb.String())})
		return gmast.WalkSkipChildren, nil
	})
	return headings
}

// Sections returns the second-level heading titles of a document.
func Sections(markdown string) []string {
	var out []string
	for _, h := range Outline(markdown) {
		if h.Level == 2 {
			out = append(out, h.Text)
		}
	}
	return out
}
