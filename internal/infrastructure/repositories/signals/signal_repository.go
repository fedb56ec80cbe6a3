package signals

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
	"github.com/rios0rios0/vendorpatch/internal/domain/repositories"
)

// ErrNotOpen is returned when a signal is emitted before Open.
var ErrNotOpen = errors.New("signal sink is not open")

// SignalRepository writes one "<prefix><path>" line per signal to standard output,
// a file, or nowhere.
type SignalRepository struct {
	stdout io.Writer
	writer io.Writer
	file   *os.File
	prefix string
}

var _ repositories.SignalRepository = (*SignalRepository)(nil)

// NewSignalRepository creates a SignalRepository whose default destination is os.Stdout.
func NewSignalRepository() *SignalRepository {
	return NewSignalRepositoryWithWriter(os.Stdout)
}

// NewSignalRepositoryWithWriter creates a SignalRepository whose default destination is stdout.
func NewSignalRepositoryWithWriter(stdout io.Writer) *SignalRepository {
	return &SignalRepository{stdout: stdout}
}

// Open selects the destination of the following signals, closing any previous file.
func (it *SignalRepository) Open(target entities.SignalTarget) error {
	if err := it.Close(); err != nil {
		return err
	}

	it.prefix = target.Prefix
	if it.prefix == "" {
		it.prefix = entities.DefaultSignalPrefix
	}

	switch {
	case target.Disabled:
		it.writer = io.Discard
	case target.File != "":
		if err := os.MkdirAll(filepath.Dir(target.File), 0o755); err != nil {
			return fmt.Errorf("failed to create signal file directory: %w", err)
		}
		file, err := os.Create(target.File)
		if err != nil {
			return fmt.Errorf("failed to create signal file %q: %w", target.File, err)
		}
		it.file = file
		it.writer = file
	default:
		it.writer = it.stdout
	}
	return nil
}

// RerunIfChanged emits a signal for path.
func (it *SignalRepository) RerunIfChanged(path string) error {
	if it.writer == nil {
		return ErrNotOpen
	}
	_, err := fmt.Fprintf(it.writer, "%s%s\n", it.prefix, path)
	return err
}

// Close releases the signal file, if any. Signals are rejected until the next Open.
func (it *SignalRepository) Close() error {
	it.writer = nil
	if it.file == nil {
		return nil
	}
	err := it.file.Close()
	it.file = nil
	return err
}
