package repositories

import (
	"context"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

// StageRequest describes one staging of a source tree.
type StageRequest struct {
	Source       string
	Destination  string
	HiddenPrefix string   // entries starting with it are skipped with their subtree
	Exclude      []string // extra gitignore-style patterns, relative to Source
}

// StagerRepository mirrors a pristine source tree into a writable destination tree.
type StagerRepository interface {
	// Stage copies every directory and regular file under the source into the destination.
	// Any other entry kind aborts the run.
	Stage(ctx context.Context, request StageRequest, signals SignalRepository) (*entities.StageReport, error)
}
