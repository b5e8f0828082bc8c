package md2notion

import (
	"testing"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// parseInlineParent parses markdown and returns the first top-level node,
// whose inline children feed the builder under test.
func parseInlineParent(t *testing.T, src string) (ast.Node, []byte) {
	t.Helper()

	source := []byte(src)
	doc := newGoldmarkParser().Parse(source)
	n := doc.FirstChild()
	if n == nil {
		t.Fatalf("Parse(%q) produced no top-level node", src)
	}
	return n, source
}

func runsOf(t *testing.T, src string) []RichText {
	t.Helper()

	n, source := parseInlineParent(t, src)
	return buildInlineRuns(n, source, DefaultHighlightColor)
}

func TestBuildInlineRuns_Formatting(t *testing.T) {
	t.Parallel()

	bold := DefaultAnnotations()
	bold.Bold = true
	italic := DefaultAnnotations()
	italic.Italic = true
	strike := DefaultAnnotations()
	strike.Strikethrough = true
	code := DefaultAnnotations()
	code.Code = true
	boldItalic := DefaultAnnotations()
	boldItalic.Bold = true
	boldItalic.Italic = true

	tests := []struct {
		name     string
		markdown string
		want     []RichText
	}{
		{
			name:     "plain text single run",
			markdown: "hello world",
			want:     []RichText{NewRichText("hello world")},
		},
		{
			name:     "bold and italic",
			markdown: "**bold** and *italic*",
			want: []RichText{
				{Type: "text", Text: TextContent{Content: "bold"}, Annotations: bold},
				NewRichText(" and "),
				{Type: "text", Text: TextContent{Content: "italic"}, Annotations: italic},
			},
		},
		{
			name:     "nested bold italic",
			markdown: "***both***",
			want: []RichText{
				{Type: "text", Text: TextContent{Content: "both"}, Annotations: boldItalic},
			},
		},
		{
			name:     "strikethrough",
			markdown: "~~gone~~",
			want: []RichText{
				{Type: "text", Text: TextContent{Content: "gone"}, Annotations: strike},
			},
		},
		{
			name:     "inline code",
			markdown: "run `go vet` now",
			want: []RichText{
				NewRichText("run "),
				{Type: "text", Text: TextContent{Content: "go vet"}, Annotations: code},
				NewRichText(" now"),
			},
		},
		{
			name:     "code span keeps highlight delimiters literal",
			markdown: "`a ==b== c`",
			want: []RichText{
				{Type: "text", Text: TextContent{Content: "a ==b== c"}, Annotations: code},
			},
		},
		{
			name:     "link",
			markdown: "[docs](https://example.com/docs)",
			want: []RichText{
				NewLinkedRichText("docs", "https://example.com/docs"),
			},
		},
		{
			name:     "bold inside link keeps both",
			markdown: "[**docs**](https://example.com)",
			want: []RichText{
				{
					Type:        "text",
					Text:        TextContent{Content: "docs", Link: &TextLink{URL: "https://example.com"}},
					Annotations: bold,
				},
			},
		},
		{
			name:     "autolink",
			markdown: "<https://example.com>",
			want: []RichText{
				NewLinkedRichText("https://example.com", "https://example.com"),
			},
		},
		{
			name:     "soft line break becomes space",
			markdown: "line1\nline2",
			want:     []RichText{NewRichText("line1 line2")},
		},
		{
			name:     "hard line break becomes newline",
			markdown: "line1  \nline2",
			want:     []RichText{NewRichText("line1\nline2")},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := runsOf(t, tt.markdown)
			assertRuns(t, got, tt.want)
		})
	}
}

func TestBuildInlineRuns_Highlights(t *testing.T) {
	t.Parallel()

	highlighted := DefaultAnnotations()
	highlighted.Color = DefaultHighlightColor
	boldHighlighted := highlighted
	boldHighlighted.Bold = true

	tests := []struct {
		name     string
		markdown string
		want     []RichText
	}{
		{
			name:     "simple highlight",
			markdown: "==hi==",
			want: []RichText{
				{Type: "text", Text: TextContent{Content: "hi"}, Annotations: highlighted},
			},
		},
		{
			name:     "highlight inside sentence",
			markdown: "a ==b== c",
			want: []RichText{
				NewRichText("a "),
				{Type: "text", Text: TextContent{Content: "b"}, Annotations: highlighted},
				NewRichText(" c"),
			},
		},
		{
			name:     "emphasis nested in highlight keeps both",
			markdown: "==**bold** text==",
			want: []RichText{
				{Type: "text", Text: TextContent{Content: "bold"}, Annotations: boldHighlighted},
				{Type: "text", Text: TextContent{Content: " text"}, Annotations: highlighted},
			},
		},
		{
			name:     "unpaired delimiter stays literal",
			markdown: "==unclosed",
			want:     []RichText{NewRichText("==unclosed")},
		},
		{
			name:     "triple equals pairs greedily from the left",
			markdown: "===x===",
			want: []RichText{
				{Type: "text", Text: TextContent{Content: "=x"}, Annotations: highlighted},
				NewRichText("="),
			},
		},
		{
			name:     "two separate highlights",
			markdown: "==a== mid ==b==",
			want: []RichText{
				{Type: "text", Text: TextContent{Content: "a"}, Annotations: highlighted},
				NewRichText(" mid "),
				{Type: "text", Text: TextContent{Content: "b"}, Annotations: highlighted},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := runsOf(t, tt.markdown)
			assertRuns(t, got, tt.want)
		})
	}
}

func TestBuildInlineRuns_CustomHighlightColor(t *testing.T) {
	t.Parallel()

	n, source := parseInlineParent(t, "==hi==")
	got := buildInlineRuns(n, source, ColorPinkBackground)

	if len(got) != 1 {
		t.Fatalf("got %d runs, want 1", len(got))
	}
	if got[0].Annotations.Color != ColorPinkBackground {
		t.Errorf("Color = %q, want %q", got[0].Annotations.Color, ColorPinkBackground)
	}
}

func TestBuildInlineRuns_EmptyParent(t *testing.T) {
	t.Parallel()

	b := newInlineBuilder(nil, DefaultHighlightColor)
	got := b.finish()

	if len(got) != 1 {
		t.Fatalf("got %d runs, want 1", len(got))
	}
	if got[0].Text.Content != "" {
		t.Errorf("Content = %q, want empty", got[0].Text.Content)
	}
	if got[0].Annotations != DefaultAnnotations() {
		t.Errorf("Annotations = %+v, want defaults", got[0].Annotations)
	}
}

func TestBuildInlineRuns_BreakTagCoalesces(t *testing.T) {
	t.Parallel()

	// The <br> splits the paragraph into three inline nodes with identical
	// formatting; the builder merges them back into one run.
	got := runsOf(t, "one<br>two")

	want := []RichText{NewRichText("one\ntwo")}
	assertRuns(t, got, want)
}

func TestBuildInlineRuns_UnpairedMarkTagForcesHighlight(t *testing.T) {
	t.Parallel()

	// Paired <mark> tags are rewritten during preprocessing; a stray open
	// tag that reaches the parser still highlights the following text.
	highlighted := DefaultAnnotations()
	highlighted.Color = DefaultHighlightColor

	got := runsOf(t, "before <mark>lit")
	want := []RichText{
		NewRichText("before "),
		{Type: "text", Text: TextContent{Content: "lit"}, Annotations: highlighted},
	}
	assertRuns(t, got, want)
}

func TestSegmentsValue(t *testing.T) {
	t.Parallel()

	source := []byte("hello world")

	segs := text.NewSegments()
	segs.Append(text.NewSegment(0, 5))
	segs.Append(text.NewSegment(6, 11))

	if got, want := segmentsValue(segs, source), "helloworld"; got != want {
		t.Errorf("segmentsValue = %q, want %q", got, want)
	}
	if got := segmentsValue(nil, source); got != "" {
		t.Errorf("segmentsValue(nil) = %q, want empty", got)
	}
}

func TestRewriteWikiLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare target",
			input: "see [[Target Page]]",
			want:  "see Target Page",
		},
		{
			name:  "aliased",
			input: "see [[Pages/Target|the target]]",
			want:  "see the target",
		},
		{
			name:  "empty alias falls back to target",
			input: "[[Target|]]",
			want:  "Target",
		},
		{
			name:  "multiple links",
			input: "[[A]] and [[B|bee]]",
			want:  "A and bee",
		},
		{
			name:  "no wiki links",
			input: "plain [link](url)",
			want:  "plain [link](url)",
		},
		{
			name:  "unclosed left alone",
			input: "[[not closed",
			want:  "[[not closed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := rewriteWikiLinks(tt.input)
			if got != tt.want {
				t.Errorf("rewriteWikiLinks(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// assertRuns compares run lists field by field for readable failures.
func assertRuns(t *testing.T, got, want []RichText) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d runs %+v, want %d runs %+v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i].Text.Content != want[i].Text.Content {
			t.Errorf("run %d Content = %q, want %q", i, got[i].Text.Content, want[i].Text.Content)
		}
		if got[i].Annotations != want[i].Annotations {
			t.Errorf("run %d Annotations = %+v, want %+v", i, got[i].Annotations, want[i].Annotations)
		}
		if linkURL(got[i].Text.Link) != linkURL(want[i].Text.Link) {
			t.Errorf("run %d Link = %q, want %q", i, linkURL(got[i].Text.Link), linkURL(want[i].Text.Link))
		}
	}
}
