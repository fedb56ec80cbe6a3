package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
	"github.com/rios0rios0/vendorpatch/internal/domain/repositories"
)

const verifyTempPattern = "vendorpatch-verify-"

// Verify is the interface for the verify command.
type Verify interface {
	Execute(ctx context.Context, settings *entities.Settings, opts VerifyOptions) (*VerifyResult, error)
}

// VerifyOptions holds runtime options for a verification run.
type VerifyOptions struct {
	Verbose bool
	TempDir string // parent of the scratch tree, os.TempDir() when empty
}

// VerifyResult summarizes a successful verification.
type VerifyResult struct {
	Profile *entities.BuildProfile
	Stage   *entities.StageReport
	Patch   *entities.PatchReport
}

// VerifyCommand checks that every patch applies cleanly by running the pipeline in a
// scratch directory that is always removed afterwards.
type VerifyCommand struct {
	stager  repositories.StagerRepository
	patcher repositories.PatcherRepository
	signals repositories.SignalRepository
}

// NewVerifyCommand creates a new VerifyCommand with the given repositories.
func NewVerifyCommand(
	stager repositories.StagerRepository,
	patcher repositories.PatcherRepository,
	signals repositories.SignalRepository,
) *VerifyCommand {
	return &VerifyCommand{
		stager:  stager,
		patcher: patcher,
		signals: signals,
	}
}

// Execute stages and patches into a scratch tree without emitting signals.
func (it *VerifyCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts VerifyOptions,
) (result *VerifyResult, err error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	if validateErr := settings.Validate(false); validateErr != nil {
		return nil, fmt.Errorf("invalid settings: %w", validateErr)
	}
	profile, err := settings.Profile()
	if err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp(opts.TempDir, verifyTempPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer func() {
		if removeErr := os.RemoveAll(scratch); removeErr != nil {
			logger.Warnf("Failed to remove scratch directory %s: %v", scratch, removeErr)
		}
	}()
	logger.Debugf("Verifying in scratch directory %s", scratch)

	if openErr := it.signals.Open(entities.SignalTarget{Disabled: true}); openErr != nil {
		return nil, openErr
	}
	defer func() {
		err = errors.Join(err, it.signals.Close())
		if err != nil {
			result = nil
		}
	}()

	tree := filepath.Join(scratch, "tree")
	stageReport, err := it.stager.Stage(ctx, repositories.StageRequest{
		Source:       settings.Source,
		Destination:  tree,
		HiddenPrefix: settings.Hidden(),
		Exclude:      settings.Exclude,
	}, it.signals)
	if err != nil {
		return nil, err
	}

	patchReport, err := it.patcher.ApplyPatches(ctx, settings.Patches, tree, settings.Hidden(), it.signals)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{Profile: profile, Stage: stageReport, Patch: patchReport}, nil
}
