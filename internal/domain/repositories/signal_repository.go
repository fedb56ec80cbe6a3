package repositories

import "github.com/rios0rios0/vendorpatch/internal/domain/entities"

// SignalRepository emits "rerun if this path changes" signals for the surrounding build.
type SignalRepository interface {
	Open(target entities.SignalTarget) error
	RerunIfChanged(path string) error
	Close() error
}
