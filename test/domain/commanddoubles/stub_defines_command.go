//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/vendorpatch/internal/domain/commands"
	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

// StubDefinesCommand is a stub implementation of commands.Defines.
type StubDefinesCommand struct {
	ExecuteCallCount int
	ExecuteProfile   *entities.BuildProfile
	ExecuteErr       error
	LastSettings     *entities.Settings
}

var _ commands.Defines = (*StubDefinesCommand)(nil)

func (s *StubDefinesCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
) (*entities.BuildProfile, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	return s.ExecuteProfile, nil
}
