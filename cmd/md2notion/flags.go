package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// convertFlags holds all CLI flags.
type convertFlags struct {
	config   string
	output   string
	assetDir string
	manifest string
	workers  int
	pretty   bool
	validate bool
	keepFM   bool
	quiet    bool
	verbose  bool
	version  bool
}

// parseFlags parses CLI arguments, returning flags and positional args.
func parseFlags(args []string) (*convertFlags, []string, error) {
	flags := &convertFlags{}

	fs := flag.NewFlagSet("md2notion", flag.ContinueOnError)
	fs.StringVarP(&flags.config, "config", "c", "", "YAML config file")
	fs.StringVarP(&flags.output, "out", "o", "", "output directory (default: alongside input)")
	fs.StringVar(&flags.assetDir, "asset-dir", "", "root directory for resolving local asset paths")
	fs.StringVar(&flags.manifest, "manifest", "", "write an upload manifest for resolved assets")
	fs.IntVarP(&flags.workers, "workers", "w", 0, "parallel conversions (0 = auto)")
	fs.BoolVar(&flags.pretty, "pretty", false, "indent JSON output")
	fs.BoolVar(&flags.validate, "validate", false, "validate output against the block schema")
	fs.BoolVar(&flags.keepFM, "keep-frontmatter", false, "convert YAML frontmatter as content")
	fs.BoolVarP(&flags.quiet, "quiet", "q", false, "suppress per-file output")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output to stderr")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `md2notion converts markdown files to block-document JSON.

Usage:
  md2notion [flags] <file-or-directory>

Flags:
%s`, fs.FlagUsages())
	}

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return flags, fs.Args(), nil
}
