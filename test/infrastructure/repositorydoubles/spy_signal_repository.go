//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
	"github.com/rios0rios0/vendorpatch/internal/domain/repositories"
)

// SpySignalRepository records every signal in memory.
type SpySignalRepository struct {
	OpenCallCount  int
	CloseCallCount int
	OpenErr        error
	SignalErr      error
	CloseErr       error
	LastTarget     entities.SignalTarget
	Paths          []string
}

var _ repositories.SignalRepository = (*SpySignalRepository)(nil)

func (s *SpySignalRepository) Open(target entities.SignalTarget) error {
	s.OpenCallCount++
	s.LastTarget = target
	return s.OpenErr
}

func (s *SpySignalRepository) RerunIfChanged(path string) error {
	if s.SignalErr != nil {
		return s.SignalErr
	}
	s.Paths = append(s.Paths, path)
	return nil
}

func (s *SpySignalRepository) Close() error {
	s.CloseCallCount++
	return s.CloseErr
}
