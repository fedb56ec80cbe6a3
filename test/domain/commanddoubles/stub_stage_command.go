//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/vendorpatch/internal/domain/commands"
	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

// StubStageCommand is a stub implementation of commands.Stage.
type StubStageCommand struct {
	ExecuteCallCount int
	ExecuteResult    *commands.StageResult
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.StageOptions
}

var _ commands.Stage = (*StubStageCommand)(nil)

func (s *StubStageCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.StageOptions,
) (*commands.StageResult, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	if s.ExecuteResult != nil {
		return s.ExecuteResult, nil
	}
	return &commands.StageResult{
		Profile: &entities.BuildProfile{},
		Stage:   &entities.StageReport{},
		Patch:   &entities.PatchReport{},
	}, nil
}
