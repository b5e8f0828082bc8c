package md2notion

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// calloutPattern matches the blockquote-as-callout convention on the first
// line: [!TYPE] optional-title, with an optional fold modifier (+/-).
var calloutPattern = regexp.MustCompile(`^\[!([A-Za-z]+)\]([+-]?)[ \t]*(.*)$`)

// calloutStyle pairs the icon glyph and background color for a callout type.
type calloutStyle struct {
	emoji string
	color Color
}

// genericCalloutStyle is the fallback for unrecognized type keywords.
var genericCalloutStyle = calloutStyle{emoji: "📝", color: ColorBlueBackground}

// calloutStyles maps lower-cased type keywords to their styles. Keywords
// follow the common note-taking convention, including aliases.
var calloutStyles = map[string]calloutStyle{
	"note":      {emoji: "📝", color: ColorBlueBackground},
	"abstract":  {emoji: "📋", color: ColorBlueBackground},
	"summary":   {emoji: "📋", color: ColorBlueBackground},
	"tldr":      {emoji: "📋", color: ColorBlueBackground},
	"info":      {emoji: "ℹ️", color: ColorBlueBackground},
	"todo":      {emoji: "☑️", color: ColorBlueBackground},
	"tip":       {emoji: "💡", color: ColorGreenBackground},
	"hint":      {emoji: "💡", color: ColorGreenBackground},
	"important": {emoji: "💡", color: ColorGreenBackground},
	"success":   {emoji: "✅", color: ColorGreenBackground},
	"check":     {emoji: "✅", color: ColorGreenBackground},
	"done":      {emoji: "✅", color: ColorGreenBackground},
	"question":  {emoji: "❓", color: ColorPurpleBackground},
	"help":      {emoji: "❓", color: ColorPurpleBackground},
	"faq":       {emoji: "❓", color: ColorPurpleBackground},
	"warning":   {emoji: "⚠️", color: ColorYellowBackground},
	"caution":   {emoji: "⚠️", color: ColorYellowBackground},
	"attention": {emoji: "⚠️", color: ColorYellowBackground},
	"failure":   {emoji: "❌", color: ColorRedBackground},
	"fail":      {emoji: "❌", color: ColorRedBackground},
	"missing":   {emoji: "❌", color: ColorRedBackground},
	"danger":    {emoji: "🚫", color: ColorRedBackground},
	"error":     {emoji: "🚫", color: ColorRedBackground},
	"bug":       {emoji: "🐛", color: ColorRedBackground},
	"example":   {emoji: "🔎", color: ColorPurpleBackground},
	"quote":     {emoji: "💬", color: ColorGrayBackground},
	"cite":      {emoji: "💬", color: ColorGrayBackground},
}

// styleForCalloutType resolves a type keyword case-insensitively, falling
// back to the generic note style.
func styleForCalloutType(keyword string) calloutStyle {
	if style, ok := calloutStyles[strings.ToLower(keyword)]; ok {
		return style
	}
	return genericCalloutStyle
}

// classifyBlockquote maps a blockquote node to either a callout block (when
// the first line matches the callout convention) or a plain quote block with
// full inline formatting.
func (c *converter) classifyBlockquote(n ast.Node) Block {
	flat := nodePlainText(n, c.source)
	firstLine, body, _ := strings.Cut(flat, "\n")

	groups := calloutPattern.FindStringSubmatch(strings.TrimSpace(firstLine))
	if groups == nil {
		return c.quoteBlock(n)
	}

	style := styleForCalloutType(groups[1])
	title := strings.TrimSpace(groups[3])
	body = strings.TrimSpace(strings.ReplaceAll(body, "\n", " "))

	var parts []string
	if title != "" {
		parts = append(parts, title)
	}
	if body != "" {
		parts = append(parts, body)
	}

	runs := emptyRichText()
	if len(parts) > 0 {
		runs = []RichText{NewRichText(strings.Join(parts, " "))}
	}

	return Block{
		Object: BlockObject,
		Type:   BlockTypeCallout,
		Callout: &CalloutPayload{
			RichText: runs,
			Icon:     NewEmojiIcon(style.emoji),
			Color:    style.color,
		},
	}
}

// quoteBlock builds a quote with inline-formatted content from every block
// child, joined by newline runs.
func (c *converter) quoteBlock(n ast.Node) Block {
	b := newInlineBuilder(c.source, c.highlight)
	st := inlineState{ann: DefaultAnnotations()}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if child != n.FirstChild() {
			b.emitText("\n", st)
		}
		b.walkChildren(child, st)
	}
	return Block{
		Object: BlockObject,
		Type:   BlockTypeQuote,
		Quote: &RichTextPayload{
			RichText: b.finish(),
			Color:    ColorDefault,
		},
	}
}
