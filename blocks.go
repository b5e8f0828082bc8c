package md2notion

// BlockObject is the object-kind marker required on every block by the
// consuming API's validation layer.
const BlockObject = "block"

// BlockType discriminates the block union.
type BlockType string

// Block type constants, matching the consuming API's type tags.
const (
	BlockTypeParagraph        BlockType = "paragraph"
	BlockTypeHeading1         BlockType = "heading_1"
	BlockTypeHeading2         BlockType = "heading_2"
	BlockTypeHeading3         BlockType = "heading_3"
	BlockTypeBulletedListItem BlockType = "bulleted_list_item"
	BlockTypeNumberedListItem BlockType = "numbered_list_item"
	BlockTypeToDo             BlockType = "to_do"
	BlockTypeQuote            BlockType = "quote"
	BlockTypeCallout          BlockType = "callout"
	BlockTypeCode             BlockType = "code"
	BlockTypeDivider          BlockType = "divider"
	BlockTypeTable            BlockType = "table"
	BlockTypeTableRow         BlockType = "table_row"
	BlockTypeImage            BlockType = "image"
	BlockTypeFile             BlockType = "file"
)

// Color is a rich text or block color tag.
type Color string

// Color constants. Background variants mark highlighted spans and callouts.
const (
	ColorDefault          Color = "default"
	ColorGrayBackground   Color = "gray_background"
	ColorBrownBackground  Color = "brown_background"
	ColorOrangeBackground Color = "orange_background"
	ColorYellowBackground Color = "yellow_background"
	ColorGreenBackground  Color = "green_background"
	ColorBlueBackground   Color = "blue_background"
	ColorPurpleBackground Color = "purple_background"
	ColorPinkBackground   Color = "pink_background"
	ColorRedBackground    Color = "red_background"
)

// DefaultHighlightColor is applied to ==highlighted== spans unless overridden
// via WithHighlightColor.
const DefaultHighlightColor = ColorYellowBackground

// Block is a tagged union over the block variants the converter emits.
// Exactly one payload field (matching Type) is set on a normalized block.
type Block struct {
	Object string    `json:"object"`
	Type   BlockType `json:"type"`

	Paragraph        *RichTextPayload `json:"paragraph,omitempty"`
	Heading1         *RichTextPayload `json:"heading_1,omitempty"`
	Heading2         *RichTextPayload `json:"heading_2,omitempty"`
	Heading3         *RichTextPayload `json:"heading_3,omitempty"`
	BulletedListItem *RichTextPayload `json:"bulleted_list_item,omitempty"`
	NumberedListItem *RichTextPayload `json:"numbered_list_item,omitempty"`
	ToDo             *ToDoPayload     `json:"to_do,omitempty"`
	Quote            *RichTextPayload `json:"quote,omitempty"`
	Callout          *CalloutPayload  `json:"callout,omitempty"`
	Code             *CodePayload     `json:"code,omitempty"`
	Divider          *DividerPayload  `json:"divider,omitempty"`
	Table            *TablePayload    `json:"table,omitempty"`
	TableRow         *TableRowPayload `json:"table_row,omitempty"`
	Image            *FilePayload     `json:"image,omitempty"`
	File             *FilePayload     `json:"file,omitempty"`
}

// RichTextPayload is the payload shared by paragraphs, headings, list items
// and quotes.
type RichTextPayload struct {
	RichText []RichText `json:"rich_text"`
	Color    Color      `json:"color"`
}

// ToDoPayload is the to_do payload.
type ToDoPayload struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Color    Color      `json:"color"`
}

// CalloutPayload is the callout payload: an icon, a background color and the
// callout text.
type CalloutPayload struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
	Color    Color      `json:"color"`
}

// Icon is an emoji icon reference.
type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

// NewEmojiIcon creates an emoji icon.
func NewEmojiIcon(emoji string) *Icon {
	return &Icon{Type: "emoji", Emoji: emoji}
}

// CodePayload is the code block payload.
type CodePayload struct {
	RichText []RichText `json:"rich_text"`
	Caption  []RichText `json:"caption"`
	Language string     `json:"language"`
}

// DividerPayload is intentionally empty; the API requires the key to exist.
type DividerPayload struct{}

// TablePayload holds the table shape and its ordered row children.
type TablePayload struct {
	TableWidth      int     `json:"table_width"`
	HasColumnHeader bool    `json:"has_column_header"`
	HasRowHeader    bool    `json:"has_row_header"`
	Children        []Block `json:"children"`
}

// TableRowPayload is an ordered array of cell rich text arrays.
type TableRowPayload struct {
	Cells [][]RichText `json:"cells"`
}

// File reference type constants.
const (
	FileRefExternal   = "external"
	FileRefFileUpload = "file_upload"
)

// FilePayload is the image/file payload: either an external URL or an
// uploaded-file handle, plus an optional caption.
type FilePayload struct {
	Type       string       `json:"type"`
	External   *ExternalRef `json:"external,omitempty"`
	FileUpload *UploadRef   `json:"file_upload,omitempty"`
	Caption    []RichText   `json:"caption"`
}

// ExternalRef points at an externally hosted resource.
type ExternalRef struct {
	URL string `json:"url"`
}

// UploadRef points at a previously uploaded file handle.
type UploadRef struct {
	ID string `json:"id"`
}

// RichText is a contiguous span of text sharing one annotation set.
type RichText struct {
	Type        string      `json:"type"`
	Text        TextContent `json:"text"`
	Annotations Annotations `json:"annotations"`
}

// TextContent holds the literal text and an optional link target.
type TextContent struct {
	Content string    `json:"content"`
	Link    *TextLink `json:"link,omitempty"`
}

// TextLink is a link target attached to a text span.
type TextLink struct {
	URL string `json:"url"`
}

// Annotations is always fully populated; absent styling is explicit false,
// absent color is ColorDefault.
type Annotations struct {
	Bold          bool  `json:"bold"`
	Italic        bool  `json:"italic"`
	Strikethrough bool  `json:"strikethrough"`
	Underline     bool  `json:"underline"`
	Code          bool  `json:"code"`
	Color         Color `json:"color"`
}

// DefaultAnnotations returns the all-off annotation set.
func DefaultAnnotations() Annotations {
	return Annotations{Color: ColorDefault}
}

// NewRichText creates a plain text run with default annotations.
func NewRichText(content string) RichText {
	return RichText{
		Type:        "text",
		Text:        TextContent{Content: content},
		Annotations: DefaultAnnotations(),
	}
}

// NewLinkedRichText creates a text run carrying a link target.
func NewLinkedRichText(content, url string) RichText {
	rt := NewRichText(content)
	rt.Text.Link = &TextLink{URL: url}
	return rt
}

// emptyRichText returns the single empty run substituted when a required
// rich text field would otherwise be an empty array.
func emptyRichText() []RichText {
	return []RichText{NewRichText("")}
}

// plainTextOf concatenates the literal text of a run list.
func plainTextOf(runs []RichText) string {
	var out string
	for _, r := range runs {
		out += r.Text.Content
	}
	return out
}
