package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
	"github.com/rios0rios0/vendorpatch/internal/domain/repositories"
)

const (
	dirPerm       fs.FileMode = 0o755
	ownerWritable fs.FileMode = 0o200
)

// StagerRepository mirrors a source tree on the local filesystem.
type StagerRepository struct{}

var _ repositories.StagerRepository = (*StagerRepository)(nil)

// NewStagerRepository creates a new StagerRepository.
func NewStagerRepository() *StagerRepository {
	return &StagerRepository{}
}

// stagingRun carries the state of a single Stage call.
type stagingRun struct {
	request repositories.StageRequest
	signals repositories.SignalRepository
	exclude gitignore.Matcher
	report  *entities.StageReport
}

// Stage copies the source tree into the destination using an explicit depth-first stack.
func (it *StagerRepository) Stage(
	ctx context.Context,
	request repositories.StageRequest,
	signals repositories.SignalRepository,
) (*entities.StageReport, error) {
	info, err := os.Stat(request.Source)
	if err != nil {
		return nil, &entities.StagingIOError{Op: "stat", Path: request.Source, Err: err}
	}
	if !info.IsDir() {
		return nil, &entities.StagingIOError{Op: "stat", Path: request.Source, Err: errors.New("not a directory")}
	}
	if mkdirErr := EnsureDir(request.Destination); mkdirErr != nil {
		return nil, &entities.StagingIOError{Op: "mkdir", Path: request.Destination, Err: mkdirErr}
	}

	run := &stagingRun{
		request: request,
		signals: signals,
		exclude: newExcludeMatcher(request.Exclude),
		report:  &entities.StageReport{Directories: 1},
	}
	logger.Infof("Staging %s into %s", request.Source, request.Destination)

	stack := []string{""}
	for len(stack) > 0 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		relDir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		subdirs, dirErr := run.stageDirectory(relDir)
		if dirErr != nil {
			return nil, dirErr
		}
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	logger.Infof(
		"Staged %d files in %d directories (%d entries skipped)",
		run.report.Files, run.report.Directories, run.report.Skipped,
	)
	return run.report, nil
}

// stageDirectory copies the files of one directory and returns its subdirectories
// in lexical order.
func (r *stagingRun) stageDirectory(relDir string) ([]string, error) {
	sourceDir := filepath.Join(r.request.Source, relDir)
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, &entities.StagingIOError{Op: "read dir", Path: sourceDir, Err: err}
	}

	var subdirs []string
	for _, entry := range entries {
		current := entities.DirectoryEntry{
			Kind:    entities.KindOf(entry.Type()),
			RelPath: filepath.Join(relDir, entry.Name()),
		}
		if r.skip(entry.Name(), current) {
			r.report.Skipped++
			logger.Debugf("Skipping %s", current.RelPath)
			continue
		}

		sourcePath := filepath.Join(r.request.Source, current.RelPath)
		destinationPath := filepath.Join(r.request.Destination, current.RelPath)
		switch current.Kind {
		case entities.EntryDirectory:
			if mkdirErr := EnsureDir(destinationPath); mkdirErr != nil {
				return nil, &entities.StagingIOError{Op: "mkdir", Path: destinationPath, Err: mkdirErr}
			}
			r.report.Directories++
			subdirs = append(subdirs, current.RelPath)
		case entities.EntryFile:
			if copyErr := r.copyFile(sourcePath, destinationPath); copyErr != nil {
				return nil, copyErr
			}
		default:
			return nil, &entities.StagingIOError{
				Op:   "stage",
				Path: sourcePath,
				Err:  fmt.Errorf("unsupported entry kind (mode %s)", entry.Type()),
			}
		}
	}
	return subdirs, nil
}

func (r *stagingRun) skip(name string, entry entities.DirectoryEntry) bool {
	if entities.IsHidden(name, r.request.HiddenPrefix) {
		return true
	}
	if r.exclude == nil {
		return false
	}
	return r.exclude.Match(splitRelPath(entry.RelPath), entry.Kind == entities.EntryDirectory)
}

// copyFile copies bytes verbatim and leaves the copy owner-writable.
func (r *stagingRun) copyFile(sourcePath, destinationPath string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return &entities.StagingIOError{Op: "open", Path: sourcePath, Err: err}
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return &entities.StagingIOError{Op: "stat", Path: sourcePath, Err: err}
	}
	if _, statErr := os.Lstat(destinationPath); statErr == nil {
		if removeErr := os.RemoveAll(destinationPath); removeErr != nil {
			return &entities.StagingIOError{Op: "remove", Path: destinationPath, Err: removeErr}
		}
	}

	mode := info.Mode().Perm() | ownerWritable
	destination, err := os.OpenFile(destinationPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return &entities.StagingIOError{Op: "create", Path: destinationPath, Err: err}
	}
	written, copyErr := io.Copy(destination, source)
	closeErr := destination.Close()
	if copyErr != nil {
		return &entities.StagingIOError{Op: "copy", Path: sourcePath, Err: copyErr}
	}
	if closeErr != nil {
		return &entities.StagingIOError{Op: "close", Path: destinationPath, Err: closeErr}
	}
	// the create mode is filtered by the umask
	if chmodErr := os.Chmod(destinationPath, mode); chmodErr != nil {
		return &entities.StagingIOError{Op: "chmod", Path: destinationPath, Err: chmodErr}
	}

	r.report.Files++
	r.report.Bytes += written
	if signalErr := r.signals.RerunIfChanged(sourcePath); signalErr != nil {
		return &entities.StagingIOError{Op: "signal", Path: sourcePath, Err: signalErr}
	}
	return nil
}

// EnsureDir creates path as a directory. An existing directory is kept; any other
// node occupying the path is removed first.
func EnsureDir(path string) error {
	info, err := os.Lstat(path)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		if removeErr := os.Remove(path); removeErr != nil {
			return removeErr
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	return os.MkdirAll(path, dirPerm)
}

func newExcludeMatcher(patterns []string) gitignore.Matcher {
	if len(patterns) == 0 {
		return nil
	}
	parsed := make([]gitignore.Pattern, 0, len(patterns))
	for _, pattern := range patterns {
		parsed = append(parsed, gitignore.ParsePattern(pattern, nil))
	}
	return gitignore.NewMatcher(parsed)
}

func splitRelPath(relPath string) []string {
	return strings.Split(filepath.ToSlash(relPath), "/")
}
