package md2notion

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// separatorScanWindow bounds how far below the header line a separator line
// is searched for.
const separatorScanWindow = 10

var (
	// Strict separator: pipe-delimited dash/colon groups,
	// e.g. "| --- | :--: |" or "---|---".
	strictSeparatorPattern = regexp.MustCompile(`^\s*\|?(\s*:?-+:?\s*\|)*\s*:?-+:?\s*\|?\s*$`)

	// Loose separator heuristic: a run of 3+ dashes.
	looseSeparatorDashes = regexp.MustCompile(`-{3,}`)
)

// tableScanState names the phases of the line-oriented fallback grammar.
type tableScanState int

const (
	scanSeekingHeader tableScanState = iota
	scanSeekingSeparator
	scanCollectingRows
)

// recoverTable re-derives table rows from the raw source when the primary
// parse dropped the data rows. It returns replacement row blocks only when
// recovery yields more than one row total; otherwise the primary result
// stands.
func (c *converter) recoverTable(n ast.Node, width int) ([]Block, bool) {
	startLine, ok := nodeStartLine(n, c.source)
	if !ok {
		return nil, false
	}
	raw := recoverTableRows(c.source, startLine, width)
	if len(raw) <= 1 {
		return nil, false
	}

	rows := make([]Block, 0, len(raw))
	for _, cells := range raw {
		// Recovered cells are literal single runs: recovery trades
		// formatting fidelity for row completeness.
		runs := make([][]RichText, 0, len(cells))
		for _, cellText := range cells {
			if cellText == "" {
				runs = append(runs, emptyRichText())
				continue
			}
			runs = append(runs, []RichText{NewRichText(cellText)})
		}
		rows = append(rows, tableRowBlockOf(runs))
	}
	return rows, true
}

// recoverTableRows scans source lines from startLine with three named
// states: seeking-header, seeking-separator, collecting-rows. It returns the
// header row plus every contiguous data row, each reconciled to width cells,
// or nil when no separator is found (recovery not applicable).
func recoverTableRows(source []byte, startLine, width int) [][]string {
	lines := strings.Split(string(source), "\n")
	if startLine < 0 || startLine >= len(lines) {
		return nil
	}

	state := scanSeekingHeader
	headerIdx := -1
	separatorIdx := -1

scan:
	for i := startLine; i < len(lines); i++ {
		line := lines[i]
		switch state {
		case scanSeekingHeader:
			if !strings.Contains(line, "|") {
				continue
			}
			headerIdx = i
			state = scanSeekingSeparator

		case scanSeekingSeparator:
			if i > headerIdx+separatorScanWindow {
				return nil
			}
			if !strings.Contains(line, "|") {
				// A pipe-less line before any separator aborts recovery.
				return nil
			}
			if isSeparatorLine(line) {
				separatorIdx = i
				state = scanCollectingRows
				break scan
			}
		}
	}
	if state != scanCollectingRows {
		return nil
	}

	rows := [][]string{reconcileRawCells(splitTableCells(lines[headerIdx]), width)}
	for i := separatorIdx + 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" || !strings.Contains(line, "|") {
			break
		}
		rows = append(rows, reconcileRawCells(splitTableCells(line), width))
	}
	return rows
}

// isSeparatorLine matches the strict pipe-delimited dash/colon pattern or
// the looser pipe-plus-dashes heuristic.
func isSeparatorLine(line string) bool {
	if strictSeparatorPattern.MatchString(line) {
		return true
	}
	return strings.Contains(line, "|") && looseSeparatorDashes.MatchString(line)
}

// splitTableCells splits a source line on unescaped pipe characters. A pipe
// does not split when escaped by a backslash, inside a backtick code span,
// or inside a [[wiki link]] span. Outer pipes produce leading/trailing empty
// cells, which are trimmed away.
func splitTableCells(line string) []string {
	var cells []string
	var cur strings.Builder
	inCode := false
	wikiDepth := 0

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '\\' && i+1 < len(line) && line[i+1] == '|':
			cur.WriteByte('|')
			i++
		case ch == '`':
			inCode = !inCode
			cur.WriteByte(ch)
		case ch == '[' && !inCode && i+1 < len(line) && line[i+1] == '[':
			wikiDepth++
			cur.WriteString("[[")
			i++
		case ch == ']' && wikiDepth > 0 && i+1 < len(line) && line[i+1] == ']':
			wikiDepth--
			cur.WriteString("]]")
			i++
		case ch == '|' && !inCode && wikiDepth == 0:
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	cells = append(cells, strings.TrimSpace(cur.String()))

	// Trim empty outer cells produced by leading/trailing pipes.
	if len(cells) > 1 && cells[0] == "" {
		cells = cells[1:]
	}
	if len(cells) > 1 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// reconcileRawCells pads or truncates raw cells to the expected width.
func reconcileRawCells(cells []string, width int) []string {
	if width < 1 {
		return cells
	}
	for len(cells) < width {
		cells = append(cells, "")
	}
	return cells[:width]
}

// nodeStartLine derives the node's starting line from its first recorded
// source segment. Nodes without position information cannot be recovered.
func nodeStartLine(n ast.Node, source []byte) (int, bool) {
	seg, ok := firstSegment(n)
	if !ok || seg.Start > len(source) {
		return 0, false
	}
	return bytes.Count(source[:seg.Start], []byte("\n")), true
}

func firstSegment(n ast.Node) (text.Segment, bool) {
	if t, ok := n.(*ast.Text); ok && t.Segment.Len() > 0 {
		return t.Segment, true
	}
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(0), true
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if seg, ok := firstSegment(c); ok {
			return seg, true
		}
	}
	return text.Segment{}, false
}
