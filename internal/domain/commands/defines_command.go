package commands

import (
	"context"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

// Defines is the interface for the defines command.
type Defines interface {
	Execute(ctx context.Context, settings *entities.Settings) (*entities.BuildProfile, error)
}

// DefinesCommand resolves the compiler defines selected by the settings.
type DefinesCommand struct{}

// NewDefinesCommand creates a new DefinesCommand.
func NewDefinesCommand() *DefinesCommand {
	return &DefinesCommand{}
}

// Execute returns the build profile, failing unless exactly one page size is enabled.
func (it *DefinesCommand) Execute(_ context.Context, settings *entities.Settings) (*entities.BuildProfile, error) {
	return settings.Profile()
}
