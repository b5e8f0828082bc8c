package md2notion

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// maxHeadingDepth is the deepest heading variant the consuming API supports;
// deeper source headings clamp to it.
const maxHeadingDepth = 3

// listFrame is the in-progress state for one level of list nesting.
type listFrame struct {
	ordered bool
	items   []Block
}

// converter holds the per-conversion state: the preprocessed source, the
// list-frame stack and the output block list. A converter is created fresh
// per call and never shared.
type converter struct {
	source    []byte
	resolver  AssetResolver
	highlight Color
	frames    []listFrame
	out       []Block
}

func newConverter(source []byte, resolver AssetResolver, highlight Color) *converter {
	return &converter{source: source, resolver: resolver, highlight: highlight}
}

// convertDocument walks the document's top-level nodes in order and returns
// the accumulated block list.
func (c *converter) convertDocument(ctx context.Context, doc ast.Node) ([]Block, error) {
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if err := c.dispatch(ctx, n); err != nil {
			return nil, err
		}
	}
	c.flushOpenLists()
	if c.out == nil {
		c.out = []Block{}
	}
	return c.out, nil
}

// dispatch maps one top-level or container node to zero or more blocks.
// Unrecognized node kinds degrade to a paragraph carrying the subtree's
// plain text; nothing here fails except asset resolution.
func (c *converter) dispatch(ctx context.Context, n ast.Node) error {
	switch n := n.(type) {
	case *ast.Heading:
		c.flushOpenLists()
		c.emit(c.headingBlock(n))

	case *ast.Paragraph:
		c.flushOpenLists()
		return c.dispatchParagraph(ctx, n)

	case *ast.List:
		return c.dispatchList(ctx, n)

	case *ast.Blockquote:
		c.flushOpenLists()
		c.emit(c.classifyBlockquote(n))

	case *ast.FencedCodeBlock:
		c.flushOpenLists()
		c.emit(c.codeBlock(n))

	case *ast.CodeBlock:
		c.flushOpenLists()
		c.emit(c.codeBlock(n))

	case *ast.ThematicBreak:
		c.flushOpenLists()
		c.emit(Block{Object: BlockObject, Type: BlockTypeDivider, Divider: &DividerPayload{}})

	case *east.Table:
		c.flushOpenLists()
		c.emit(c.tableBlock(n))

	default:
		// Links and images only occur inline; the paragraph path lifts
		// images to their own blocks. Everything else (HTML blocks,
		// footnote definitions, ...) falls back to a paragraph and is
		// dropped when its plain text is empty.
		c.flushOpenLists()
		text := strings.TrimSpace(nodePlainText(n, c.source))
		if text == "" {
			return nil
		}
		c.emit(paragraphBlock([]RichText{NewRichText(text)}))
	}
	return nil
}

// emit appends a block to the output list.
func (c *converter) emit(b Block) {
	c.out = append(c.out, b)
}

// --- list nesting -----------------------------------------------------------

func (c *converter) pushFrame(ordered bool) {
	c.frames = append(c.frames, listFrame{ordered: ordered})
}

// popFrame flushes the innermost frame: its items append to the parent frame
// when one is open, otherwise to the output. This yields the depth-first
// interleave where a sublist's items follow directly under their parent item.
func (c *converter) popFrame() {
	if len(c.frames) == 0 {
		return
	}
	fr := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	if len(c.frames) > 0 {
		top := &c.frames[len(c.frames)-1]
		top.items = append(top.items, fr.items...)
		return
	}
	c.out = append(c.out, fr.items...)
}

// flushOpenLists pops every open frame. Called whenever a non-list sibling
// or the end of the document is reached.
func (c *converter) flushOpenLists() {
	for len(c.frames) > 0 {
		c.popFrame()
	}
}

func (c *converter) currentFrame() *listFrame {
	if len(c.frames) == 0 {
		return nil
	}
	return &c.frames[len(c.frames)-1]
}

// appendItem adds a produced list item block to the innermost frame.
func (c *converter) appendItem(b Block) {
	if fr := c.currentFrame(); fr != nil {
		fr.items = append(fr.items, b)
		return
	}
	c.emit(b)
}

func (c *converter) dispatchList(ctx context.Context, n *ast.List) error {
	c.pushFrame(n.IsOrdered())
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		if err := c.dispatchListItem(ctx, item); err != nil {
			return err
		}
	}
	c.popFrame()
	return nil
}

// dispatchListItem builds the item's block from its non-list children, then
// dispatches any nested list depth-first so its items interleave directly
// under this item.
func (c *converter) dispatchListItem(ctx context.Context, item ast.Node) error {
	var nested []*ast.List
	b := newInlineBuilder(c.source, c.highlight)
	st := inlineState{ann: DefaultAnnotations()}
	first := true
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		if list, ok := child.(*ast.List); ok {
			nested = append(nested, list)
			continue
		}
		if !first {
			b.emitText(" ", st)
		}
		b.walkChildren(child, st)
		first = false
	}
	runs := b.finish()

	var blk Block
	checked, isTask := taskCheckboxState(item)
	frame := c.currentFrame()
	switch {
	case isTask:
		runs = trimRunsLeft(runs)
		blk = Block{
			Object: BlockObject,
			Type:   BlockTypeToDo,
			ToDo:   &ToDoPayload{RichText: runs, Checked: checked, Color: ColorDefault},
		}
	case frame != nil && frame.ordered:
		blk = Block{
			Object:           BlockObject,
			Type:             BlockTypeNumberedListItem,
			NumberedListItem: &RichTextPayload{RichText: runs, Color: ColorDefault},
		}
	default:
		blk = Block{
			Object:           BlockObject,
			Type:             BlockTypeBulletedListItem,
			BulletedListItem: &RichTextPayload{RichText: runs, Color: ColorDefault},
		}
	}
	c.appendItem(blk)

	for _, list := range nested {
		if err := c.dispatchList(ctx, list); err != nil {
			return err
		}
	}
	return nil
}

// trimRunsLeft strips the leading whitespace the checkbox marker leaves in
// front of the item text, dropping runs emptied by the trim.
func trimRunsLeft(runs []RichText) []RichText {
	for len(runs) > 0 {
		runs[0].Text.Content = strings.TrimLeft(runs[0].Text.Content, " \t")
		if runs[0].Text.Content != "" {
			break
		}
		runs = runs[1:]
	}
	if len(runs) == 0 {
		return emptyRichText()
	}
	return runs
}

// taskCheckboxState reports whether the item carries an explicit
// checked/unchecked marker as the first inline node of its first text block.
func taskCheckboxState(item ast.Node) (checked, ok bool) {
	first := item.FirstChild()
	if first == nil {
		return false, false
	}
	if box, isBox := first.FirstChild().(*east.TaskCheckBox); isBox {
		return box.IsChecked, true
	}
	return false, false
}

// --- leaf builders ----------------------------------------------------------

func paragraphBlock(runs []RichText) Block {
	return Block{
		Object:    BlockObject,
		Type:      BlockTypeParagraph,
		Paragraph: &RichTextPayload{RichText: runs, Color: ColorDefault},
	}
}

func (c *converter) headingBlock(n *ast.Heading) Block {
	runs := buildInlineRuns(n, c.source, c.highlight)
	payload := &RichTextPayload{RichText: runs, Color: ColorDefault}
	depth := n.Level
	if depth > maxHeadingDepth {
		depth = maxHeadingDepth
	}
	blk := Block{Object: BlockObject}
	switch depth {
	case 1:
		blk.Type = BlockTypeHeading1
		blk.Heading1 = payload
	case 2:
		blk.Type = BlockTypeHeading2
		blk.Heading2 = payload
	default:
		blk.Type = BlockTypeHeading3
		blk.Heading3 = payload
	}
	return blk
}

// dispatchParagraph emits a paragraph block (dropped when its rendered plain
// text is empty) and lifts any contained images to their own blocks.
func (c *converter) dispatchParagraph(ctx context.Context, n *ast.Paragraph) error {
	runs := buildInlineRuns(n, c.source, c.highlight)
	if strings.TrimSpace(plainTextOf(runs)) != "" {
		c.emit(paragraphBlock(runs))
	}
	for _, img := range collectImages(n) {
		blk, err := c.imageBlock(ctx, img)
		if err != nil {
			return err
		}
		c.emit(blk)
	}
	return nil
}

// collectImages gathers image nodes anywhere in the subtree, in source order.
func collectImages(n ast.Node) []*ast.Image {
	var images []*ast.Image
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if img, ok := child.(*ast.Image); ok {
			images = append(images, img)
			continue
		}
		images = append(images, collectImages(child)...)
	}
	return images
}

func (c *converter) codeBlock(n ast.Node) Block {
	var lang string
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		lang = string(fenced.Language(c.source))
	}
	content := strings.TrimSuffix(segmentsValue(n.Lines(), c.source), "\n")
	runs := emptyRichText()
	if content != "" {
		runs = []RichText{NewRichText(content)}
	}
	return Block{
		Object: BlockObject,
		Type:   BlockTypeCode,
		Code: &CodePayload{
			RichText: runs,
			Caption:  []RichText{},
			Language: normalizeLanguage(lang),
		},
	}
}

// imageBlock builds an external-URL image block, or an uploaded-handle
// image/file block when the injected resolver maps the local path. Resolver
// failures are the only errors that propagate out of a conversion.
func (c *converter) imageBlock(ctx context.Context, img *ast.Image) (Block, error) {
	dest := string(img.Destination)
	alt := strings.TrimSpace(nodePlainText(img, c.source))

	caption := []RichText{}
	if alt != "" {
		// The caption stays external-URL-annotated text even when the
		// block itself is rewritten to an uploaded handle.
		caption = []RichText{NewLinkedRichText(alt, dest)}
	}

	if isRemoteURL(dest) || c.resolver == nil {
		return externalFileBlock(BlockTypeImage, dest, caption), nil
	}

	res, err := c.resolver.ResolveLocalAsset(ctx, dest)
	if err != nil {
		return Block{}, fmt.Errorf("%w: %q: %w", ErrAssetResolve, dest, err)
	}
	if res == nil {
		return externalFileBlock(BlockTypeImage, dest, caption), nil
	}

	if res.Caption != "" {
		caption = []RichText{NewRichText(res.Caption)}
	}
	payload := &FilePayload{
		Type:       FileRefFileUpload,
		FileUpload: &UploadRef{ID: res.UploadID},
		Caption:    caption,
	}
	blk := Block{Object: BlockObject}
	if res.Kind == AssetKindFile {
		blk.Type = BlockTypeFile
		blk.File = payload
	} else {
		blk.Type = BlockTypeImage
		blk.Image = payload
	}
	return blk, nil
}

func externalFileBlock(t BlockType, url string, caption []RichText) Block {
	payload := &FilePayload{
		Type:     FileRefExternal,
		External: &ExternalRef{URL: url},
		Caption:  caption,
	}
	blk := Block{Object: BlockObject, Type: t}
	if t == BlockTypeFile {
		blk.File = payload
	} else {
		blk.Image = payload
	}
	return blk
}

// isRemoteURL reports whether src is an absolute http(s) URL.
func isRemoteURL(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// --- tables -----------------------------------------------------------------

// tableBlock builds the primary table from the parser's row nodes, then runs
// the recovery engine as a repair step when the primary parse looks
// truncated.
func (c *converter) tableBlock(n *east.Table) Block {
	width := len(n.Alignments)
	var rows []Block
	dataRows := 0
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.Kind() {
		case east.KindTableHeader:
			rows = append(rows, c.tableRowBlock(child, width))
		case east.KindTableRow:
			rows = append(rows, c.tableRowBlock(child, width))
			dataRows++
		}
	}
	if width < 1 {
		width = 1
	}

	// Narrow failure signature: the parser dropped the data rows. A table
	// the parser handled completely is never overridden.
	if dataRows <= 1 {
		if recovered, ok := c.recoverTable(n, width); ok {
			rows = recovered
		}
	}

	return Block{
		Object: BlockObject,
		Type:   BlockTypeTable,
		Table: &TablePayload{
			TableWidth:      width,
			HasColumnHeader: true,
			HasRowHeader:    false,
			Children:        rows,
		},
	}
}

func (c *converter) tableRowBlock(row ast.Node, width int) Block {
	cells := make([][]RichText, 0, width)
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		cells = append(cells, buildInlineRuns(cell, c.source, c.highlight))
	}
	return tableRowBlockOf(reconcileCells(cells, width))
}

func tableRowBlockOf(cells [][]RichText) Block {
	return Block{
		Object:   BlockObject,
		Type:     BlockTypeTableRow,
		TableRow: &TableRowPayload{Cells: cells},
	}
}

// reconcileCells pads or truncates a row to the table's expected width.
func reconcileCells(cells [][]RichText, width int) [][]RichText {
	if width < 1 {
		return cells
	}
	for len(cells) < width {
		cells = append(cells, emptyRichText())
	}
	return cells[:width]
}
