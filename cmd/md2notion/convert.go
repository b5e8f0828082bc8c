package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	md2notion "github.com/alnah/go-md2notion"
	"github.com/alnah/go-md2notion/internal/config"
	"github.com/alnah/go-md2notion/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrManifestNoAssets   = errors.New("manifest requires an asset directory")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// outputExtension is appended to the input stem for block JSON output.
const outputExtension = ".blocks.json"

// fileToConvert represents a single file to process.
type fileToConvert struct {
	inputPath  string
	outputPath string
}

// conversionResult holds the outcome of a single conversion.
type conversionResult struct {
	inputPath  string
	outputPath string
	err        error
	duration   time.Duration
}

// run orchestrates the conversion process.
func run(ctx context.Context, args []string, flags *convertFlags, poolSize int) error {
	if flags.workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, flags.workers)
	}

	cfg := config.DefaultConfig()
	if flags.config != "" {
		loaded, err := config.LoadConfig(flags.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	mergeFlags(flags, cfg)

	// A manifest is only produced by the asset resolver; without an asset
	// directory it would be silently skipped.
	if cfg.Assets.Manifest != "" && cfg.Assets.Dir == "" {
		return fmt.Errorf("%w: set --asset-dir (or assets.dir) alongside --manifest", ErrManifestNoAssets)
	}

	inputPath, err := resolveInputPath(args, cfg)
	if err != nil {
		return err
	}

	files, err := discoverFiles(inputPath, cfg.Output.DefaultDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no markdown files found in %s", inputPath)
	}

	var resolver *directoryResolver
	if cfg.Assets.Dir != "" {
		resolver = newDirectoryResolver(cfg.Assets.Dir)
	}

	opts := serviceOptions(cfg)
	pool := md2notion.NewServicePool(poolSize, opts...)

	results := convertBatch(ctx, files, flags, pool, resolver)

	var failed int
	for _, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", res.inputPath, res.err)
			continue
		}
		if !flags.quiet {
			fmt.Printf("%s -> %s (%s)\n", res.inputPath, res.outputPath, res.duration.Round(time.Millisecond))
		}
	}

	if resolver != nil && cfg.Assets.Manifest != "" {
		if err := writeManifest(cfg.Assets.Manifest, resolver.Manifest(), flags.pretty); err != nil {
			return err
		}
	}

	if failed > 0 {
		// Surface the first failure so the exit code reflects its class.
		for _, res := range results {
			if res.err != nil {
				return fmt.Errorf("%d of %d conversions failed: %w", failed, len(results), res.err)
			}
		}
	}
	return nil
}

// mergeFlags overlays CLI flags onto the config (CLI wins).
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}
	if flags.assetDir != "" {
		cfg.Assets.Dir = flags.assetDir
	}
	if flags.manifest != "" {
		cfg.Assets.Manifest = flags.manifest
	}
	if flags.pretty {
		cfg.Output.Pretty = true
	}
	if flags.keepFM {
		cfg.Convert.KeepFrontmatter = true
	}
}

// serviceOptions maps config to library options.
func serviceOptions(cfg *config.Config) []md2notion.Option {
	var opts []md2notion.Option
	if cfg.Convert.HighlightColor != "" {
		opts = append(opts, md2notion.WithHighlightColor(md2notion.Color(cfg.Convert.HighlightColor)))
	}
	if cfg.Convert.KeepFrontmatter {
		opts = append(opts, md2notion.WithKeepFrontmatter())
	}
	return opts
}

// resolveInputPath picks the input from positional args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// discoverFiles expands a file or directory path into the conversion list.
// Directories are walked recursively for markdown files, in sorted order.
func discoverFiles(inputPath, outputDir string) ([]fileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.IsMarkdownFile(inputPath) {
			return nil, fmt.Errorf("%s: not a markdown file", inputPath)
		}
		return []fileToConvert{{
			inputPath:  inputPath,
			outputPath: fileutil.DeriveOutputPath(inputPath, outputDir, outputExtension),
		}}, nil
	}

	var files []fileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !fileutil.IsMarkdownFile(path) {
			return nil
		}
		files = append(files, fileToConvert{
			inputPath:  path,
			outputPath: fileutil.DeriveOutputPath(path, outputDir, outputExtension),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].inputPath < files[j].inputPath })
	return files, nil
}

// convertBatch fans files out over the service pool and collects results in
// input order.
func convertBatch(ctx context.Context, files []fileToConvert, flags *convertFlags, pool *md2notion.ServicePool, resolver *directoryResolver) []conversionResult {
	results := make([]conversionResult, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < pool.Size(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				svc := pool.Acquire()
				results[i] = convertFile(ctx, files[i], flags, svc, resolver)
				pool.Release(svc)
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// convertFile converts a single markdown file to block JSON on disk.
func convertFile(ctx context.Context, file fileToConvert, flags *convertFlags, svc *md2notion.Service, resolver *directoryResolver) conversionResult {
	start := time.Now()
	res := conversionResult{inputPath: file.inputPath, outputPath: file.outputPath}

	content, err := os.ReadFile(file.inputPath) // #nosec G304 -- path comes from CLI input by design
	if err != nil {
		res.err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		return res
	}

	input := md2notion.Input{Markdown: string(content)}
	if resolver != nil {
		input.Resolver = resolver
	}

	blocks, err := svc.Convert(ctx, input)
	if err != nil {
		res.err = fmt.Errorf("converting %s: %w", file.inputPath, err)
		return res
	}

	if flags.validate {
		if err := md2notion.ValidateBlocks(blocks); err != nil {
			res.err = fmt.Errorf("validating %s: %w", file.inputPath, err)
			return res
		}
	}

	if err := writeJSON(file.outputPath, blocks, flags.pretty); err != nil {
		res.err = err
		return res
	}

	res.duration = time.Since(start)
	return res
}

// writeManifest writes the upload manifest JSON.
func writeManifest(path string, entries []ManifestEntry, pretty bool) error {
	if entries == nil {
		entries = []ManifestEntry{}
	}
	return writeJSON(path, entries, pretty)
}

// writeJSON marshals v and writes it to path, creating parent directories.
func writeJSON(path string, v any, pretty bool) error {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
