package md2notion

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// blockParser abstracts the generic markdown parser. The converter treats it
// as a black box that yields a node tree over the source bytes.
type blockParser interface {
	Parse(source []byte) ast.Node
}

// goldmarkParser parses markdown using goldmark (pure Go).
type goldmarkParser struct {
	md goldmark.Markdown
}

// newGoldmarkParser creates a goldmarkParser with GFM extensions.
func newGoldmarkParser() *goldmarkParser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
		),
	)
	return &goldmarkParser{md: md}
}

// Parse parses markdown source and returns the AST root.
func (p *goldmarkParser) Parse(source []byte) ast.Node {
	return p.md.Parser().Parse(text.NewReader(source))
}
