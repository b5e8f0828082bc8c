// Package frontmatter extracts YAML frontmatter from note content,
// isolating the external parsing dependency.
package frontmatter

import (
	"strings"

	fm "github.com/adrg/frontmatter"
)

// Matter holds the frontmatter fields the converter surfaces.
type Matter struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
}

// Extract splits content into frontmatter fields and body. Content without
// a frontmatter fence passes through unchanged. Malformed frontmatter is
// not an error: the whole content is treated as body.
func Extract(content string) (Matter, string) {
	var matter Matter
	rest, err := fm.Parse(strings.NewReader(content), &matter)
	if err != nil {
		return Matter{}, content
	}
	return matter, string(rest)
}
