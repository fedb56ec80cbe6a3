package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/sumdb/dirhash"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
	"github.com/rios0rios0/vendorpatch/internal/domain/repositories"
)

const digestPrefix = "vendor"

// ManifestRepository stores build manifests as YAML and hashes trees the way Go
// module checksums do.
type ManifestRepository struct{}

var _ repositories.ManifestRepository = (*ManifestRepository)(nil)

// NewManifestRepository creates a new ManifestRepository.
func NewManifestRepository() *ManifestRepository {
	return &ManifestRepository{}
}

// Digest returns the "h1:" hash of every file under dir.
func (it *ManifestRepository) Digest(_ context.Context, dir string) (string, error) {
	digest, err := dirhash.HashDir(dir, digestPrefix, dirhash.Hash1)
	if err != nil {
		return "", fmt.Errorf("failed to hash %q: %w", dir, err)
	}
	return digest, nil
}

// Write marshals the manifest to path, creating its directory.
func (it *ManifestRepository) Write(_ context.Context, path string, manifest entities.BuildManifest) error {
	data, err := yaml.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755); mkdirErr != nil {
		return fmt.Errorf("failed to create manifest directory: %w", mkdirErr)
	}
	if writeErr := os.WriteFile(path, data, 0o644); writeErr != nil {
		return fmt.Errorf("failed to write manifest %q: %w", path, writeErr)
	}
	logger.Infof("Wrote build manifest %s", path)
	return nil
}
