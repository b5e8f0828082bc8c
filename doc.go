// Package md2notion converts Markdown documents into ordered, schema-valid
// block lists for block-based document APIs.
//
// # Quick Start
//
// Create a service and convert markdown:
//
//	svc := md2notion.New()
//	blocks, err := svc.Convert(ctx, md2notion.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	payload, _ := json.Marshal(blocks)
//
// Every returned block carries its discriminant tag, the object-kind marker
// and fully populated payload fields, ready for direct submission without
// further transformation.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. YAML frontmatter extraction (disable with WithKeepFrontmatter)
//  2. Markdown preprocessing (line normalization, <mark> to ==highlight==)
//  3. Parsing via Goldmark (GFM: tables, strikethrough, task lists)
//  4. Block dispatch: headings, paragraphs, nested lists, blockquotes and
//     callouts, code fences, dividers, pipe tables, images
//  5. Table recovery: a line-oriented fallback that re-derives rows the
//     primary parser dropped on malformed pipe tables
//  6. Schema normalization guaranteeing the consuming API's required-field
//     invariants
//
// Malformed markdown never fails a conversion; unrecognized constructs
// degrade to paragraphs. The only propagated errors are context
// cancellation and failures from an injected asset resolver.
//
// # Local Assets
//
// Images referencing local paths are resolved through an optional
// AssetResolver capability:
//
//	blocks, err := svc.Convert(ctx, md2notion.Input{
//	    Markdown: content,
//	    Resolver: myUploader, // maps local paths to uploaded-file handles
//	})
//
// A nil resolver (or a nil resolution) leaves the image as an external-URL
// block referencing the literal path.
//
// # Parallel Processing
//
// For batch conversion, use ServicePool:
//
//	pool := md2notion.NewServicePool(4)
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//
// Conversions share no mutable state, so pooled services are safe to use
// concurrently.
package md2notion
