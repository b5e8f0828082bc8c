package md2notion

import "context"

// AssetKind discriminates asset resolutions.
type AssetKind string

// Asset kind constants.
const (
	AssetKindImage AssetKind = "image"
	AssetKindFile  AssetKind = "file"
)

// AssetResolution is the result of resolving a local asset reference to an
// uploaded-file handle. A nil resolution means "leave as an external link."
type AssetResolution struct {
	Kind     AssetKind // image or file
	UploadID string    // uploaded-file handle
	Caption  string    // optional caption override
}

// AssetResolver maps a local asset reference to an uploaded-file handle.
// It is a capability passed per conversion, not process-wide state: the
// converter treats it as a pure function from path to resolution and never
// assumes it memoizes. Implementations must tolerate repeated calls.
//
// Resolver errors propagate to the Convert caller unchanged (wrapped with
// ErrAssetResolve); they are the only conversion-time failures.
type AssetResolver interface {
	ResolveLocalAsset(ctx context.Context, src string) (*AssetResolution, error)
}

// Input contains conversion parameters.
type Input struct {
	Markdown string        // Markdown content
	Resolver AssetResolver // Optional; nil leaves local assets as external links
}

// Document is the result of ConvertDocument: frontmatter fields plus the
// normalized block list.
type Document struct {
	Title  string
	Tags   []string
	Blocks []Block
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	highlight       Color
	keepFrontmatter bool
}

// WithHighlightColor overrides the color applied to ==highlighted== spans.
// Panics on the empty color (programmer error).
func WithHighlightColor(c Color) Option {
	if c == "" {
		panic("md2notion: WithHighlightColor color must not be empty")
	}
	return func(s *Service) {
		s.cfg.highlight = c
	}
}

// WithKeepFrontmatter disables YAML frontmatter stripping, converting the
// frontmatter fence as markdown content instead.
func WithKeepFrontmatter() Option {
	return func(s *Service) {
		s.cfg.keepFrontmatter = true
	}
}
