//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
	"github.com/rios0rios0/vendorpatch/internal/domain/repositories"
)

// SpyPatcherRepository implements repositories.PatcherRepository as a configurable spy.
type SpyPatcherRepository struct {
	ApplyCallCount   int
	ApplyReport      *entities.PatchReport
	ApplyErr         error
	LastPatchRoot    string
	LastTargetRoot   string
	LastHiddenPrefix string
}

var _ repositories.PatcherRepository = (*SpyPatcherRepository)(nil)

func (s *SpyPatcherRepository) ApplyPatches(
	_ context.Context,
	patchRoot, targetRoot, hiddenPrefix string,
	_ repositories.SignalRepository,
) (*entities.PatchReport, error) {
	s.ApplyCallCount++
	s.LastPatchRoot = patchRoot
	s.LastTargetRoot = targetRoot
	s.LastHiddenPrefix = hiddenPrefix
	if s.ApplyErr != nil {
		return nil, s.ApplyErr
	}
	if s.ApplyReport != nil {
		return s.ApplyReport, nil
	}
	return &entities.PatchReport{}, nil
}
