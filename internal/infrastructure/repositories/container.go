package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/vendorpatch/internal/domain/repositories"
	"github.com/rios0rios0/vendorpatch/internal/infrastructure/repositories/filesystem"
	"github.com/rios0rios0/vendorpatch/internal/infrastructure/repositories/manifest"
	"github.com/rios0rios0/vendorpatch/internal/infrastructure/repositories/signals"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register repository constructors
	if err := container.Provide(filesystem.NewStagerRepository); err != nil {
		return err
	}
	if err := container.Provide(filesystem.NewPatcherRepository); err != nil {
		return err
	}
	if err := container.Provide(signals.NewSignalRepository); err != nil {
		return err
	}
	if err := container.Provide(manifest.NewManifestRepository); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *filesystem.StagerRepository) domainRepos.StagerRepository {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *filesystem.PatcherRepository) domainRepos.PatcherRepository {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *signals.SignalRepository) domainRepos.SignalRepository {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *manifest.ManifestRepository) domainRepos.ManifestRepository {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
