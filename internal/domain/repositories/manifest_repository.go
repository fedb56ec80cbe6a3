package repositories

import (
	"context"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

// ManifestRepository records what a staging run produced.
type ManifestRepository interface {
	// Digest returns a content hash of every file under dir.
	Digest(ctx context.Context, dir string) (string, error)
	// Write stores the manifest at path, replacing any previous one.
	Write(ctx context.Context, path string, manifest entities.BuildManifest) error
}
