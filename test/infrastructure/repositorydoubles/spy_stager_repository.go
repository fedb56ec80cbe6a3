//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
	"github.com/rios0rios0/vendorpatch/internal/domain/repositories"
)

// SpyStagerRepository implements repositories.StagerRepository as a configurable spy.
type SpyStagerRepository struct {
	StageCallCount int
	StageReport    *entities.StageReport
	StageErr       error
	LastRequest    repositories.StageRequest
	// SignalPaths are emitted through the signal sink on every call.
	SignalPaths []string
}

var _ repositories.StagerRepository = (*SpyStagerRepository)(nil)

func (s *SpyStagerRepository) Stage(
	_ context.Context,
	request repositories.StageRequest,
	signals repositories.SignalRepository,
) (*entities.StageReport, error) {
	s.StageCallCount++
	s.LastRequest = request
	if s.StageErr != nil {
		return nil, s.StageErr
	}
	for _, path := range s.SignalPaths {
		if err := signals.RerunIfChanged(path); err != nil {
			return nil, err
		}
	}
	if s.StageReport != nil {
		return s.StageReport, nil
	}
	return &entities.StageReport{Directories: 1}, nil
}
