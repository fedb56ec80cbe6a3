package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
	"github.com/rios0rios0/vendorpatch/internal/domain/repositories"
)

// Stage is the interface for the stage command.
type Stage interface {
	Execute(ctx context.Context, settings *entities.Settings, opts StageOptions) (*StageResult, error)
}

// StageOptions holds runtime options for a staging run.
type StageOptions struct {
	Clean   bool // remove the output tree before staging
	Verbose bool
}

// StageResult summarizes a successful staging run.
type StageResult struct {
	Profile      *entities.BuildProfile
	Stage        *entities.StageReport
	Patch        *entities.PatchReport
	Manifest     entities.BuildManifest
	ManifestPath string
}

// StageCommand runs the full pipeline:
// resolve profile -> stage source tree -> apply patches -> write manifest.
type StageCommand struct {
	stager    repositories.StagerRepository
	patcher   repositories.PatcherRepository
	signals   repositories.SignalRepository
	manifests repositories.ManifestRepository
}

// NewStageCommand creates a new StageCommand with the given repositories.
func NewStageCommand(
	stager repositories.StagerRepository,
	patcher repositories.PatcherRepository,
	signals repositories.SignalRepository,
	manifests repositories.ManifestRepository,
) *StageCommand {
	return &StageCommand{
		stager:    stager,
		patcher:   patcher,
		signals:   signals,
		manifests: manifests,
	}
}

// Execute stages and patches the tree described by settings. Any error is fatal and
// leaves the partial output in place for the caller to discard.
func (it *StageCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts StageOptions,
) (result *StageResult, err error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	if validateErr := settings.Validate(true); validateErr != nil {
		return nil, fmt.Errorf("invalid settings: %w", validateErr)
	}
	profile, err := settings.Profile()
	if err != nil {
		return nil, err
	}
	logger.Infof("Build profile: page size %s, %d defines", profile.PageSize, len(profile.Defines))

	if opts.Clean {
		logger.Infof("Removing previous output %s", settings.Output)
		if removeErr := os.RemoveAll(settings.Output); removeErr != nil {
			return nil, &entities.StagingIOError{Op: "clean", Path: settings.Output, Err: removeErr}
		}
	}

	if openErr := it.signals.Open(settings.SignalTarget()); openErr != nil {
		return nil, openErr
	}
	defer func() {
		err = errors.Join(err, it.signals.Close())
		if err != nil {
			result = nil
		}
	}()

	stageReport, err := it.stager.Stage(ctx, repositories.StageRequest{
		Source:       settings.Source,
		Destination:  settings.Output,
		HiddenPrefix: settings.Hidden(),
		Exclude:      settings.Exclude,
	}, it.signals)
	if err != nil {
		return nil, err
	}

	patchReport, err := it.patcher.ApplyPatches(ctx, settings.Patches, settings.Output, settings.Hidden(), it.signals)
	if err != nil {
		return nil, err
	}

	digest, err := it.manifests.Digest(ctx, settings.Output)
	if err != nil {
		return nil, err
	}

	manifest := newManifest(settings, profile, stageReport, patchReport, digest)
	manifestPath := settings.ManifestPath()
	if writeErr := it.manifests.Write(ctx, manifestPath, manifest); writeErr != nil {
		return nil, writeErr
	}

	logger.Infof(
		"Staged %s: %d files, %d patches applied, digest %s",
		settings.Output, stageReport.Files, patchReport.Patches, digest,
	)
	return &StageResult{
		Profile:      profile,
		Stage:        stageReport,
		Patch:        patchReport,
		Manifest:     manifest,
		ManifestPath: manifestPath,
	}, nil
}

func newManifest(
	settings *entities.Settings,
	profile *entities.BuildProfile,
	stageReport *entities.StageReport,
	patchReport *entities.PatchReport,
	digest string,
) entities.BuildManifest {
	return entities.BuildManifest{
		Source:       settings.Source,
		Patches:      settings.Patches,
		Output:       settings.Output,
		PageSize:     profile.PageSize.String(),
		Features:     profile.Features,
		Defines:      profile.Defines,
		ExtraSources: profile.ExtraSources,
		Digest:       digest,
		Files:        stageReport.Files,
		PatchFiles:   patchReport.Files,
		Created:      patchReport.Created,
		Modified:     patchReport.Modified,
		Deleted:      patchReport.Deleted,
	}
}
