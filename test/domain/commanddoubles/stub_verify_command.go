//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/vendorpatch/internal/domain/commands"
	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

// StubVerifyCommand is a stub implementation of commands.Verify.
type StubVerifyCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.VerifyOptions
}

var _ commands.Verify = (*StubVerifyCommand)(nil)

func (s *StubVerifyCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.VerifyOptions,
) (*commands.VerifyResult, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	return &commands.VerifyResult{
		Profile: &entities.BuildProfile{PageSize: entities.PageSize8K},
		Stage:   &entities.StageReport{Files: 3},
		Patch:   &entities.PatchReport{Files: 1, Patches: 2},
	}, nil
}
