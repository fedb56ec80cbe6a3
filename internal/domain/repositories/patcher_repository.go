package repositories

import (
	"context"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

// PatcherRepository applies a directory of unified-diff files on top of a staged tree.
type PatcherRepository interface {
	// ApplyPatches walks patchRoot and applies every patch it finds to the file with the
	// same relative location under targetRoot. The first failure stops the run.
	ApplyPatches(
		ctx context.Context,
		patchRoot, targetRoot, hiddenPrefix string,
		signals SignalRepository,
	) (*entities.PatchReport, error)
}
