package main

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	md2notion "github.com/alnah/go-md2notion"
	"github.com/alnah/go-md2notion/internal/fileutil"
)

// ManifestEntry records one local asset that needs uploading before the
// block payload is submitted.
type ManifestEntry struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// directoryResolver resolves local asset references against a root
// directory, assigning each distinct asset a stable upload handle and
// recording it in the manifest. Safe for concurrent use across workers.
type directoryResolver struct {
	root string

	mu      sync.Mutex
	ids     map[string]string
	entries []ManifestEntry
}

var _ md2notion.AssetResolver = (*directoryResolver)(nil)

func newDirectoryResolver(root string) *directoryResolver {
	return &directoryResolver{root: root, ids: make(map[string]string)}
}

// ResolveLocalAsset maps src to an upload handle when the file exists under
// the root. Missing files resolve to nil so the converter keeps the literal
// external link.
func (r *directoryResolver) ResolveLocalAsset(ctx context.Context, src string) (*md2notion.AssetResolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned := filepath.Clean(strings.TrimPrefix(src, "./"))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return nil, nil
	}

	full := filepath.Join(r.root, cleaned)
	if !fileutil.FileExists(full) {
		return nil, nil
	}

	kind := md2notion.AssetKindFile
	if fileutil.IsImageFile(full) {
		kind = md2notion.AssetKindImage
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.ids[cleaned]
	if !ok {
		id = uuid.NewString()
		r.ids[cleaned] = id
		r.entries = append(r.entries, ManifestEntry{ID: id, Path: full, Kind: string(kind)})
	}

	return &md2notion.AssetResolution{Kind: kind, UploadID: id}, nil
}

// Manifest returns the recorded entries in resolution order.
func (r *directoryResolver) Manifest() []ManifestEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ManifestEntry, len(r.entries))
	copy(out, r.entries)
	return out
}
