//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
	"github.com/rios0rios0/vendorpatch/internal/domain/repositories"
)

// StubManifestRepository returns a fixed digest and keeps written manifests in memory.
type StubManifestRepository struct {
	DigestValue string
	DigestErr   error
	WriteErr    error
	DigestDirs  []string
	Written     map[string]entities.BuildManifest
}

var _ repositories.ManifestRepository = (*StubManifestRepository)(nil)

func (s *StubManifestRepository) Digest(_ context.Context, dir string) (string, error) {
	s.DigestDirs = append(s.DigestDirs, dir)
	if s.DigestErr != nil {
		return "", s.DigestErr
	}
	return s.DigestValue, nil
}

func (s *StubManifestRepository) Write(_ context.Context, path string, manifest entities.BuildManifest) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	if s.Written == nil {
		s.Written = make(map[string]entities.BuildManifest)
	}
	s.Written[path] = manifest
	return nil
}
