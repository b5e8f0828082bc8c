package md2notion

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// highlightDelimiter marks highlighted spans: ==text==.
const highlightDelimiter = "=="

// wikiLinkPattern matches [[target]] and [[target|label]] spans.
var wikiLinkPattern = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|([^\[\]]*))?\]\]`)

// inlineState is the annotation set and link target inherited from ancestor
// inline nodes. It is passed by value so sibling branches never leak
// annotations into each other.
type inlineState struct {
	ann  Annotations
	href string
}

// inlinePart is one emitted fragment: either a text run or a highlight
// delimiter candidate. Delimiters are paired after the walk because the
// parser splits a ==span== across inline nodes whenever it contains
// emphasis or links.
type inlinePart struct {
	run      RichText
	delim    bool
	consumed bool
}

// inlineBuilder converts a sequence of inline markdown nodes into an ordered
// run list. One builder is used per rich text field and discarded.
type inlineBuilder struct {
	source    []byte
	highlight Color
	parts     []inlinePart

	// markOpen tracks unpaired literal <mark> tags that survived
	// preprocessing; while open, emitted runs are forced to the
	// highlight color.
	markOpen bool
}

func newInlineBuilder(source []byte, highlight Color) *inlineBuilder {
	return &inlineBuilder{source: source, highlight: highlight}
}

// buildInlineRuns converts the inline children of parent into runs.
// An empty result is substituted with a single empty-text run because the
// consuming schema forbids empty rich text arrays.
func buildInlineRuns(parent ast.Node, source []byte, highlight Color) []RichText {
	b := newInlineBuilder(source, highlight)
	b.walkChildren(parent, inlineState{ann: DefaultAnnotations()})
	return b.finish()
}

// finish pairs highlight delimiters left-to-right, forces the highlight
// color onto runs between each pair, reverts unpaired delimiters to literal
// text, and coalesces adjacent runs with identical formatting.
func (b *inlineBuilder) finish() []RichText {
	open := -1
	for i := range b.parts {
		if !b.parts[i].delim {
			continue
		}
		if open < 0 {
			open = i
			continue
		}
		for j := open + 1; j < i; j++ {
			// Highlight wins over any inherited color.
			b.parts[j].run.Annotations.Color = b.highlight
		}
		b.parts[open].consumed = true
		b.parts[i].consumed = true
		open = -1
	}

	var runs []RichText
	for _, p := range b.parts {
		if p.delim && p.consumed {
			continue
		}
		// An unpaired delimiter keeps its literal == text.
		runs = appendCoalesced(runs, p.run)
	}
	if len(runs) == 0 {
		return emptyRichText()
	}
	return runs
}

// appendCoalesced appends a run, merging with the previous run when the
// annotation set and link target are identical.
func appendCoalesced(runs []RichText, rt RichText) []RichText {
	if rt.Text.Content == "" {
		return runs
	}
	if n := len(runs); n > 0 {
		last := &runs[n-1]
		if last.Annotations == rt.Annotations && linkURL(last.Text.Link) == linkURL(rt.Text.Link) {
			last.Text.Content += rt.Text.Content
			return runs
		}
	}
	return append(runs, rt)
}

func linkURL(l *TextLink) string {
	if l == nil {
		return ""
	}
	return l.URL
}

func (b *inlineBuilder) walkChildren(parent ast.Node, st inlineState) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		b.walk(child, st)
	}
}

func (b *inlineBuilder) walk(n ast.Node, st inlineState) {
	switch n := n.(type) {
	case *ast.Text:
		b.emitText(string(n.Segment.Value(b.source)), st)
		if n.HardLineBreak() {
			b.appendRun("\n", st)
		} else if n.SoftLineBreak() {
			b.appendRun(" ", st)
		}

	case *ast.String:
		b.emitText(string(n.Value), st)

	case *ast.CodeSpan:
		// Inline code terminates recursion: literal text, no convention
		// scanning inside the span.
		st.ann.Code = true
		b.appendRun(literalText(n, b.source), st)

	case *ast.Emphasis:
		if n.Level >= 2 {
			st.ann.Bold = true
		} else {
			st.ann.Italic = true
		}
		b.walkChildren(n, st)

	case *east.Strikethrough:
		st.ann.Strikethrough = true
		b.walkChildren(n, st)

	case *ast.Link:
		st.href = string(n.Destination)
		b.walkChildren(n, st)

	case *ast.AutoLink:
		url := string(n.URL(b.source))
		st.href = url
		b.appendRun(string(n.Label(b.source)), st)

	case *ast.Image:
		// Images are lifted to their own blocks by the dispatcher and
		// contribute no inline text.

	case *east.TaskCheckBox:
		// Consumed by list item dispatch; renders no text.

	case *ast.RawHTML:
		b.rawHTML(n, st)

	default:
		if n.Type() == ast.TypeInline {
			b.walkChildren(n, st)
		} else {
			b.emitText(nodePlainText(n, b.source), st)
		}
	}
}

// rawHTML scans inline literal HTML for the private highlight convention;
// anything else is kept as literal text.
func (b *inlineBuilder) rawHTML(n *ast.RawHTML, st inlineState) {
	raw := segmentsValue(n.Segments, b.source)
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "<mark>":
		b.markOpen = true
	case "</mark>":
		b.markOpen = false
	case "<br>", "<br/>", "<br />":
		b.appendRun("\n", st)
	default:
		b.emitText(raw, st)
	}
}

// emitText applies the private text conventions (wiki links, ==highlight==
// delimiters) and appends the resulting fragments. Wiki links are normally
// rewritten during preprocessing; the rewrite here covers synthesized text
// that never passed through the preprocessor.
func (b *inlineBuilder) emitText(content string, st inlineState) {
	if content == "" {
		return
	}
	content = rewriteWikiLinks(content)
	for {
		idx := strings.Index(content, highlightDelimiter)
		if idx < 0 {
			break
		}
		b.appendRun(content[:idx], st)
		b.appendDelimiter(st)
		content = content[idx+len(highlightDelimiter):]
	}
	b.appendRun(content, st)
}

// appendRun appends a literal text part.
func (b *inlineBuilder) appendRun(content string, st inlineState) {
	if content == "" {
		return
	}
	if b.markOpen {
		st.ann.Color = b.highlight
	}
	b.parts = append(b.parts, inlinePart{run: makeRun(content, st)})
}

// appendDelimiter appends a highlight delimiter candidate; its run text is
// used verbatim if the delimiter ends up unpaired.
func (b *inlineBuilder) appendDelimiter(st inlineState) {
	b.parts = append(b.parts, inlinePart{run: makeRun(highlightDelimiter, st), delim: true})
}

func makeRun(content string, st inlineState) RichText {
	rt := RichText{
		Type:        "text",
		Text:        TextContent{Content: content},
		Annotations: st.ann,
	}
	if st.href != "" {
		rt.Text.Link = &TextLink{URL: st.href}
	}
	return rt
}

// rewriteWikiLinks renders [[target]] as its target and [[target|label]] as
// its label.
func rewriteWikiLinks(content string) string {
	return wikiLinkPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := wikiLinkPattern.FindStringSubmatch(match)
		if groups[2] != "" {
			return groups[2]
		}
		return groups[1]
	})
}

// literalText concatenates the raw segment text of a node's children,
// without any convention scanning. Used for inline code spans.
func literalText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(source))
		case *ast.String:
			sb.Write(c.Value)
		}
	}
	return sb.String()
}

// segmentsValue concatenates the source text covered by a segment list.
func segmentsValue(segments *text.Segments, source []byte) string {
	if segments == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

// nodePlainText flattens a subtree to its literal text, separating block
// children with newlines. Used for callout classification and for the
// paragraph fallback on unrecognized nodes.
func nodePlainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	collectPlainText(n, source, &sb)
	return sb.String()
}

func collectPlainText(n ast.Node, source []byte, sb *strings.Builder) {
	switch t := n.(type) {
	case *ast.Text:
		sb.Write(t.Segment.Value(source))
		if t.SoftLineBreak() || t.HardLineBreak() {
			sb.WriteByte('\n')
		}
	case *ast.String:
		sb.Write(t.Value)
	default:
		if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
			// Leaf blocks (code fences, HTML blocks) keep their raw lines.
			sb.WriteString(segmentsValue(n.Lines(), source))
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if c.Type() == ast.TypeBlock && c != n.FirstChild() {
				sb.WriteByte('\n')
			}
			collectPlainText(c, source, sb)
		}
	}
}
