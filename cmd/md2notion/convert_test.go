package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-md2notion/internal/config"
)

func writeMarkdown(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		cfg     *config.Config
		want    string
		wantErr error
	}{
		{
			name: "positional arg wins",
			args: []string{"notes"},
			cfg:  &config.Config{Input: config.InputConfig{DefaultDir: "other"}},
			want: "notes",
		},
		{
			name: "config default used",
			args: nil,
			cfg:  &config.Config{Input: config.InputConfig{DefaultDir: "fallback"}},
			want: "fallback",
		},
		{
			name:    "nothing specified",
			args:    nil,
			cfg:     &config.Config{},
			wantErr: ErrNoInput,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveInputPath(tt.args, tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveInputPath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Output.DefaultDir = "from-config"

	flags := &convertFlags{output: "from-flag", pretty: true, keepFM: true}
	mergeFlags(flags, cfg)

	if cfg.Output.DefaultDir != "from-flag" {
		t.Errorf("Output.DefaultDir = %q, want flag to win", cfg.Output.DefaultDir)
	}
	if !cfg.Output.Pretty {
		t.Error("Output.Pretty = false, want true")
	}
	if !cfg.Convert.KeepFrontmatter {
		t.Error("Convert.KeepFrontmatter = false, want true")
	}
}

func TestMergeFlags_EmptyFlagsKeepConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Output.DefaultDir = "from-config"
	cfg.Assets.Dir = "assets"

	mergeFlags(&convertFlags{}, cfg)

	if cfg.Output.DefaultDir != "from-config" {
		t.Errorf("Output.DefaultDir = %q, want config preserved", cfg.Output.DefaultDir)
	}
	if cfg.Assets.Dir != "assets" {
		t.Errorf("Assets.Dir = %q, want config preserved", cfg.Assets.Dir)
	}
}

func TestServiceOptions(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	if got := serviceOptions(cfg); len(got) != 0 {
		t.Errorf("got %d options for zero config, want 0", len(got))
	}

	cfg.Convert.HighlightColor = "pink_background"
	cfg.Convert.KeepFrontmatter = true
	if got := serviceOptions(cfg); len(got) != 2 {
		t.Errorf("got %d options, want 2", len(got))
	}
}

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeMarkdown(t, dir, "b.md", "# b")
	writeMarkdown(t, dir, "a.md", "# a")
	writeMarkdown(t, dir, filepath.Join("nested", "c.markdown"), "# c")
	writeMarkdown(t, dir, "skip.txt", "not markdown")

	files, err := discoverFiles(dir, "")
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files %v, want 3", len(files), files)
	}

	// Sorted by input path; output derived alongside the input.
	if filepath.Base(files[0].inputPath) != "a.md" {
		t.Errorf("first file = %q, want a.md", files[0].inputPath)
	}
	if !strings.HasSuffix(files[0].outputPath, "a.blocks.json") {
		t.Errorf("outputPath = %q, want a.blocks.json suffix", files[0].outputPath)
	}
}

func TestDiscoverFiles_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeMarkdown(t, dir, "note.md", "# note")

	files, err := discoverFiles(input, "out")
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if files[0].outputPath != filepath.Join("out", "note.blocks.json") {
		t.Errorf("outputPath = %q, want out/note.blocks.json", files[0].outputPath)
	}
}

func TestDiscoverFiles_NonMarkdownFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeMarkdown(t, dir, "data.txt", "x")

	if _, err := discoverFiles(input, ""); err == nil {
		t.Error("discoverFiles() error = nil, want error for non-markdown file")
	}
}

func TestDiscoverFiles_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := discoverFiles(filepath.Join(t.TempDir(), "missing"), "")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("discoverFiles() error = %v, want os.ErrNotExist", err)
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "deep", "out.json")

	if err := writeJSON(path, map[string]int{"a": 1}, false); err != nil {
		t.Fatalf("writeJSON() error = %v", err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- test-owned temp path
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got := string(data); got != "{\"a\":1}\n" {
		t.Errorf("output = %q, want compact JSON with trailing newline", got)
	}
}

func TestWriteJSON_Pretty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json")
	if err := writeJSON(path, map[string]int{"a": 1}, true); err != nil {
		t.Fatalf("writeJSON() error = %v", err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- test-owned temp path
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Errorf("output = %q, want indented JSON", data)
	}
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeMarkdown(t, inputDir, "note.md", "# Hello\n\nworld with ==mark==\n")
	writeMarkdown(t, inputDir, "other.md", "- a\n- b\n")

	flags := &convertFlags{output: outputDir, quiet: true, validate: true}
	if err := run(context.Background(), []string{inputDir}, flags, 2); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outputDir, "note.blocks.json")) // #nosec G304 -- test-owned temp path
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	var blocks []map[string]any
	if err := json.Unmarshal(data, &blocks); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0]["type"] != "heading_1" {
		t.Errorf("first block type = %v, want heading_1", blocks[0]["type"])
	}
}

func TestRun_WithAssetsAndManifest(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	assetDir := t.TempDir()
	writeAsset(t, assetDir, "pic.png")
	writeMarkdown(t, inputDir, "note.md", "![pic](pic.png)\n")
	manifestPath := filepath.Join(outputDir, "manifest.json")

	flags := &convertFlags{
		output:   outputDir,
		assetDir: assetDir,
		manifest: manifestPath,
		quiet:    true,
	}
	if err := run(context.Background(), []string{inputDir}, flags, 1); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	data, err := os.ReadFile(manifestPath) // #nosec G304 -- test-owned temp path
	if err != nil {
		t.Fatalf("ReadFile(manifest) error = %v", err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("Unmarshal(manifest) error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("manifest has %d entries, want 1", len(entries))
	}
	if entries[0].Kind != "image" {
		t.Errorf("manifest Kind = %q, want image", entries[0].Kind)
	}
}

func TestRun_NegativeWorkers(t *testing.T) {
	t.Parallel()

	flags := &convertFlags{workers: -1}
	err := run(context.Background(), []string{"in"}, flags, 1)
	if !errors.Is(err, ErrInvalidWorkerCount) {
		t.Errorf("run() error = %v, want ErrInvalidWorkerCount", err)
	}
}

func TestRun_ManifestWithoutAssetDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeMarkdown(t, dir, "note.md", "# note")

	flags := &convertFlags{manifest: filepath.Join(dir, "manifest.json")}
	err := run(context.Background(), []string{input}, flags, 1)
	if !errors.Is(err, ErrManifestNoAssets) {
		t.Errorf("run() error = %v, want ErrManifestNoAssets", err)
	}
}

func TestRun_NoInput(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), nil, &convertFlags{}, 1)
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("run() error = %v, want ErrNoInput", err)
	}
}

func TestRun_MissingConfig(t *testing.T) {
	t.Parallel()

	flags := &convertFlags{config: filepath.Join(t.TempDir(), "missing.yaml")}
	err := run(context.Background(), []string{"in"}, flags, 1)
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("run() error = %v, want ErrConfigNotFound", err)
	}
}

func TestRun_EmptyDirectory(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), []string{t.TempDir()}, &convertFlags{quiet: true}, 1)
	if err == nil {
		t.Error("run() error = nil, want error for directory without markdown")
	}
}
