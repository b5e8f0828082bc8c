package md2notion

// normalizeBlocks is the final pass over a block list. It guarantees every
// block satisfies the consuming schema's required-field shape: discriminant
// and object marker set, exactly the payload matching the type present,
// array fields never nil, scalar fields defaulted. The pass is idempotent.
func normalizeBlocks(blocks []Block) []Block {
	if blocks == nil {
		return []Block{}
	}
	for i := range blocks {
		normalizeBlock(&blocks[i])
	}
	return blocks
}

func normalizeBlock(b *Block) {
	b.Object = BlockObject
	if b.Type == "" {
		b.Type = BlockTypeParagraph
	}
	clearMismatchedPayloads(b)

	switch b.Type {
	case BlockTypeParagraph:
		normalizeRichTextPayload(&b.Paragraph)
	case BlockTypeHeading1:
		normalizeRichTextPayload(&b.Heading1)
	case BlockTypeHeading2:
		normalizeRichTextPayload(&b.Heading2)
	case BlockTypeHeading3:
		normalizeRichTextPayload(&b.Heading3)
	case BlockTypeBulletedListItem:
		normalizeRichTextPayload(&b.BulletedListItem)
	case BlockTypeNumberedListItem:
		normalizeRichTextPayload(&b.NumberedListItem)
	case BlockTypeQuote:
		normalizeRichTextPayload(&b.Quote)

	case BlockTypeToDo:
		if b.ToDo == nil {
			b.ToDo = &ToDoPayload{}
		}
		b.ToDo.RichText = normalizeRuns(b.ToDo.RichText)
		b.ToDo.Color = normalizeColor(b.ToDo.Color)

	case BlockTypeCallout:
		if b.Callout == nil {
			b.Callout = &CalloutPayload{}
		}
		b.Callout.RichText = normalizeRuns(b.Callout.RichText)
		b.Callout.Color = normalizeColor(b.Callout.Color)

	case BlockTypeCode:
		if b.Code == nil {
			b.Code = &CodePayload{}
		}
		b.Code.RichText = normalizeRuns(b.Code.RichText)
		if b.Code.Caption == nil {
			b.Code.Caption = []RichText{}
		}
		if b.Code.Language == "" {
			b.Code.Language = DefaultLanguage
		}

	case BlockTypeDivider:
		if b.Divider == nil {
			b.Divider = &DividerPayload{}
		}

	case BlockTypeTable:
		normalizeTable(b)

	case BlockTypeTableRow:
		if b.TableRow == nil {
			b.TableRow = &TableRowPayload{}
		}
		normalizeCells(b.TableRow, 0)

	case BlockTypeImage:
		normalizeFilePayload(&b.Image)
	case BlockTypeFile:
		normalizeFilePayload(&b.File)
	}
}

// clearMismatchedPayloads removes any payload key not matching the type tag,
// the analog of stripping stray nesting keys before API submission.
func clearMismatchedPayloads(b *Block) {
	keep := *b
	b.Paragraph, b.Heading1, b.Heading2, b.Heading3 = nil, nil, nil, nil
	b.BulletedListItem, b.NumberedListItem, b.ToDo, b.Quote = nil, nil, nil, nil
	b.Callout, b.Code, b.Divider, b.Table = nil, nil, nil, nil
	b.TableRow, b.Image, b.File = nil, nil, nil

	switch b.Type {
	case BlockTypeParagraph:
		b.Paragraph = keep.Paragraph
	case BlockTypeHeading1:
		b.Heading1 = keep.Heading1
	case BlockTypeHeading2:
		b.Heading2 = keep.Heading2
	case BlockTypeHeading3:
		b.Heading3 = keep.Heading3
	case BlockTypeBulletedListItem:
		b.BulletedListItem = keep.BulletedListItem
	case BlockTypeNumberedListItem:
		b.NumberedListItem = keep.NumberedListItem
	case BlockTypeToDo:
		b.ToDo = keep.ToDo
	case BlockTypeQuote:
		b.Quote = keep.Quote
	case BlockTypeCallout:
		b.Callout = keep.Callout
	case BlockTypeCode:
		b.Code = keep.Code
	case BlockTypeDivider:
		b.Divider = keep.Divider
	case BlockTypeTable:
		b.Table = keep.Table
	case BlockTypeTableRow:
		b.TableRow = keep.TableRow
	case BlockTypeImage:
		b.Image = keep.Image
	case BlockTypeFile:
		b.File = keep.File
	}
}

func normalizeRichTextPayload(p **RichTextPayload) {
	if *p == nil {
		*p = &RichTextPayload{}
	}
	(*p).RichText = normalizeRuns((*p).RichText)
	(*p).Color = normalizeColor((*p).Color)
}

func normalizeFilePayload(p **FilePayload) {
	if *p == nil {
		*p = &FilePayload{}
	}
	fp := *p
	if fp.Caption == nil {
		fp.Caption = []RichText{}
	}
	if fp.Type == "" {
		if fp.FileUpload != nil {
			fp.Type = FileRefFileUpload
		} else {
			fp.Type = FileRefExternal
		}
	}
	if fp.Type == FileRefExternal && fp.External == nil {
		fp.External = &ExternalRef{}
	}
	fp.Caption = normalizeRunAnnotations(fp.Caption)
}

// normalizeTable enforces the table shape invariants: width >= 1 and every
// row reconciled to exactly width cells, recursively normalizing each row.
func normalizeTable(b *Block) {
	if b.Table == nil {
		b.Table = &TablePayload{}
	}
	t := b.Table
	if t.Children == nil {
		t.Children = []Block{}
	}
	if t.TableWidth < 1 {
		t.TableWidth = 1
		for _, row := range t.Children {
			if row.TableRow != nil && len(row.TableRow.Cells) > t.TableWidth {
				t.TableWidth = len(row.TableRow.Cells)
			}
		}
	}
	for i := range t.Children {
		row := &t.Children[i]
		row.Object = BlockObject
		row.Type = BlockTypeTableRow
		clearMismatchedPayloads(row)
		if row.TableRow == nil {
			row.TableRow = &TableRowPayload{}
		}
		normalizeCells(row.TableRow, t.TableWidth)
	}
}

// normalizeCells guarantees the cells array exists and, when width > 0, pads
// with empty runs or truncates so the cell count equals width.
func normalizeCells(row *TableRowPayload, width int) {
	if row.Cells == nil {
		row.Cells = [][]RichText{}
	}
	for i := range row.Cells {
		row.Cells[i] = normalizeRuns(row.Cells[i])
	}
	if width < 1 {
		return
	}
	for len(row.Cells) < width {
		row.Cells = append(row.Cells, emptyRichText())
	}
	row.Cells = row.Cells[:width]
}

// normalizeRuns guarantees a non-empty run array with fully populated
// annotations on every run.
func normalizeRuns(runs []RichText) []RichText {
	if len(runs) == 0 {
		return emptyRichText()
	}
	return normalizeRunAnnotations(runs)
}

func normalizeRunAnnotations(runs []RichText) []RichText {
	for i := range runs {
		if runs[i].Type == "" {
			runs[i].Type = "text"
		}
		runs[i].Annotations.Color = normalizeColor(runs[i].Annotations.Color)
	}
	return runs
}

func normalizeColor(c Color) Color {
	if c == "" {
		return ColorDefault
	}
	return c
}
