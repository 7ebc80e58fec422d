// Package content embeds the authored lesson catalog.
package content

import (
	"context"
	"embed"
	"io/fs"

	"github.com/p-n-ai/duocode/internal/catalog"
)

//go:embed lessons/*.yaml
var files embed.FS

// FS returns the embedded lesson documents. They live under lessons/.
func FS() fs.FS {
	return files
}

// Source returns a catalog source over the embedded documents.
func Source() catalog.Source {
	return catalog.FSSource{FS: files}
}

// Load builds the catalog from the embedded documents.
func Load(ctx context.Context) (*catalog.Catalog, error) {
	return catalog.Load(ctx, Source())
}
