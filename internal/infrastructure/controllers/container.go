package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewStageController); err != nil {
		return err
	}
	if err := container.Provide(NewVerifyController); err != nil {
		return err
	}
	if err := container.Provide(NewDefinesController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	stageController *StageController,
	verifyController *VerifyController,
	definesController *DefinesController,
) *[]entities.Controller {
	return &[]entities.Controller{
		stageController,
		verifyController,
		definesController,
	}
}
