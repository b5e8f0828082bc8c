package md2notion

import (
	"context"
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Literal <mark> spans, rewritten to the ==highlight== delimiter so the
	// inline builder only has to recognize one convention
	markTagPattern = regexp.MustCompile(`<mark>(.*?)</mark>`)
)

// markdownPreprocessor defines the contract for markdown preprocessing.
type markdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// commonMarkPreprocessor applies transformations before parsing.
//
// Blank lines are deliberately left alone: the table recovery engine re-reads
// the preprocessed source by line number, so line-preserving rewrites only.
type commonMarkPreprocessor struct{}

// PreprocessMarkdown applies all transformations to prepare Markdown for
// parsing. Order matters: normalize line endings first, then syntax rewrites.
func (p *commonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = convertMarkTags(content)
	content = convertWikiLinks(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// convertMarkTags transforms <mark>text</mark> to ==text==. Code regions keep
// their literal text.
func convertMarkTags(content string) string {
	return rewriteOutsideCode(content, func(s string) string {
		return markTagPattern.ReplaceAllString(s, "==$1==")
	})
}

// convertWikiLinks rewrites [[target]] to its target and [[target|label]] to
// its label. This must run before parsing: the parser fragments the bracket
// pairs across text nodes, and the recovery engine reads raw source lines.
// Code regions keep their literal text.
func convertWikiLinks(content string) string {
	return rewriteOutsideCode(content, rewriteWikiLinks)
}

// rewriteOutsideCode applies fn to the parts of content that are not code:
// fenced blocks are passed through whole, and backtick code spans are passed
// through within each remaining line. The rewrite is line-preserving.
func rewriteOutsideCode(content string, fn func(string) string) string {
	lines := strings.Split(content, "\n")
	inFence := false
	var fenceChar byte
	fenceLen := 0
	for i, line := range lines {
		marker, run, rest := fenceMarker(line)
		if inFence {
			if marker == fenceChar && run >= fenceLen && rest == "" {
				inFence = false
			}
			continue
		}
		if run > 0 {
			inFence = true
			fenceChar = marker
			fenceLen = run
			continue
		}
		lines[i] = rewriteOutsideSpans(line, fn)
	}
	return strings.Join(lines, "\n")
}

// fenceMarker reports the fence character, run length, and trailing info
// string when line is a code fence after at most three spaces of indentation.
// A zero run length means the line is not a fence.
func fenceMarker(line string) (byte, int, string) {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" || len(line)-len(trimmed) > 3 {
		return 0, 0, ""
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return 0, 0, ""
	}
	run := 0
	for run < len(trimmed) && trimmed[run] == c {
		run++
	}
	if run < 3 {
		return 0, 0, ""
	}
	return c, run, strings.TrimSpace(trimmed[run:])
}

// rewriteOutsideSpans applies fn to the stretches of line outside backtick
// code spans. A span opens with a backtick run and closes at the next run of
// the same length; an unmatched run is literal text.
func rewriteOutsideSpans(line string, fn func(string) string) string {
	if !strings.Contains(line, "`") {
		return fn(line)
	}
	var sb strings.Builder
	rest := line
	for {
		open := strings.IndexByte(rest, '`')
		if open < 0 {
			sb.WriteString(fn(rest))
			return sb.String()
		}
		run := 1
		for open+run < len(rest) && rest[open+run] == '`' {
			run++
		}
		closer := findBacktickRun(rest[open+run:], run)
		if closer < 0 {
			sb.WriteString(fn(rest))
			return sb.String()
		}
		sb.WriteString(fn(rest[:open]))
		end := open + run + closer + run
		sb.WriteString(rest[open:end])
		rest = rest[end:]
	}
}

// findBacktickRun returns the offset in s of the first backtick run of
// exactly length n, or -1.
func findBacktickRun(s string, n int) int {
	for i := 0; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		run := 1
		for i+run < len(s) && s[i+run] == '`' {
			run++
		}
		if run == n {
			return i
		}
		i += run
	}
	return -1
}
