package md2notion

import (
	"context"

	"github.com/alnah/go-md2notion/internal/frontmatter"
)

// Compile-time interface implementation checks.
var (
	_ markdownPreprocessor = (*commonMarkPreprocessor)(nil)
	_ blockParser          = (*goldmarkParser)(nil)
)

// Service orchestrates the markdown-to-blocks pipeline. A Service is
// stateless across calls; each conversion operates on its own list-frame
// stack and output list, so a Service may be reused sequentially and pooled
// for batches.
type Service struct {
	cfg          serviceConfig
	preprocessor markdownPreprocessor
	parser       blockParser
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithHighlightColor).
func New(opts ...Option) *Service {
	s := &Service{
		cfg:          serviceConfig{highlight: DefaultHighlightColor},
		preprocessor: &commonMarkPreprocessor{},
		parser:       newGoldmarkParser(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Convert runs the full pipeline and returns the normalized block list.
//
// Malformed or unusual markdown never fails: unrecognized constructs degrade
// to paragraphs, unmatched callout syntax becomes a quote, and failed table
// recovery keeps the primary table. The only propagated failures are
// resolver errors and context cancellation.
func (s *Service) Convert(ctx context.Context, input Input) ([]Block, error) {
	doc, err := s.convert(ctx, input)
	if err != nil {
		return nil, err
	}
	return doc.Blocks, nil
}

// ConvertDocument runs the full pipeline and additionally surfaces the
// document's YAML frontmatter fields.
func (s *Service) ConvertDocument(ctx context.Context, input Input) (*Document, error) {
	return s.convert(ctx, input)
}

func (s *Service) convert(ctx context.Context, input Input) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := input.Markdown
	doc := &Document{}
	if !s.cfg.keepFrontmatter {
		matter, body := frontmatter.Extract(content)
		content = body
		doc.Title = matter.Title
		doc.Tags = matter.Tags
	}

	content = s.preprocessor.PreprocessMarkdown(ctx, content)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := []byte(content)
	root := s.parser.Parse(source)

	conv := newConverter(source, input.Resolver, s.cfg.highlight)
	blocks, err := conv.convertDocument(ctx, root)
	if err != nil {
		return nil, err
	}

	doc.Blocks = normalizeBlocks(blocks)
	return doc, nil
}
