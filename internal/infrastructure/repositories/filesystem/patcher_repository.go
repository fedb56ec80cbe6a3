package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
	"github.com/rios0rios0/vendorpatch/internal/domain/repositories"
	"github.com/rios0rios0/vendorpatch/internal/unidiff"
)

const filePerm os.FileMode = 0o644

// PatcherRepository applies unified diffs to a staged tree on the local filesystem.
type PatcherRepository struct{}

var _ repositories.PatcherRepository = (*PatcherRepository)(nil)

// NewPatcherRepository creates a new PatcherRepository.
func NewPatcherRepository() *PatcherRepository {
	return &PatcherRepository{}
}

// ApplyPatches walks patchRoot in lexical order. Patch paths are resolved against the
// directory of targetRoot that mirrors the patch file's directory.
func (it *PatcherRepository) ApplyPatches(
	ctx context.Context,
	patchRoot, targetRoot, hiddenPrefix string,
	signals repositories.SignalRepository,
) (*entities.PatchReport, error) {
	info, err := os.Stat(patchRoot)
	if err != nil {
		return nil, &entities.PatchPathError{Patch: patchRoot, Path: patchRoot, Err: err}
	}
	if !info.IsDir() {
		return nil, &entities.PatchPathError{Patch: patchRoot, Path: patchRoot, Err: errors.New("not a directory")}
	}

	report := &entities.PatchReport{}
	stack := []string{""}
	for len(stack) > 0 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		relDir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		dir := filepath.Join(patchRoot, relDir)
		entries, readErr := os.ReadDir(dir)
		if readErr != nil {
			return nil, &entities.PatchPathError{Patch: dir, Path: dir, Err: readErr}
		}

		var subdirs []string
		for _, entry := range entries {
			if entities.IsHidden(entry.Name(), hiddenPrefix) {
				continue
			}
			relPath := filepath.Join(relDir, entry.Name())
			switch entities.KindOf(entry.Type()) {
			case entities.EntryDirectory:
				subdirs = append(subdirs, relPath)
			case entities.EntryFile:
				patchFile := filepath.Join(patchRoot, relPath)
				if applyErr := applyPatchFile(patchFile, filepath.Join(targetRoot, relDir), signals, report); applyErr != nil {
					return nil, applyErr
				}
			default:
				path := filepath.Join(patchRoot, relPath)
				return nil, &entities.PatchPathError{
					Patch: path,
					Path:  path,
					Err:   fmt.Errorf("unsupported entry kind (mode %s)", entry.Type()),
				}
			}
		}
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	logger.Infof(
		"Applied %d patches from %d files (%d created, %d modified, %d deleted)",
		report.Patches, report.Files, report.Created, report.Modified, report.Deleted,
	)
	return report, nil
}

// applyPatchFile parses one patch file and applies its patches in file order.
func applyPatchFile(
	patchFile, baseDir string,
	signals repositories.SignalRepository,
	report *entities.PatchReport,
) error {
	if signalErr := signals.RerunIfChanged(patchFile); signalErr != nil {
		return &entities.PatchPathError{Patch: patchFile, Path: patchFile, Err: signalErr}
	}
	data, err := os.ReadFile(patchFile)
	if err != nil {
		return &entities.PatchPathError{Patch: patchFile, Path: patchFile, Err: err}
	}
	set, err := unidiff.Parse(patchFile, string(data))
	if err != nil {
		return err
	}

	logger.Infof("Applying %s (%d patches)", patchFile, len(set.Patches))
	report.Files++
	for _, patch := range set.Patches {
		if applyErr := applyPatch(patchFile, baseDir, patch); applyErr != nil {
			return applyErr
		}
		report.Record(patch.Operation())
	}
	return nil
}

// applyPatch reads, transforms and writes one file. Nothing is written when a hunk fails.
func applyPatch(patchFile, baseDir string, patch entities.Patch) error {
	op := patch.Operation()
	original := ""
	var sourceFile string

	if source := patch.SourcePath(); source != "" {
		resolved, err := resolve(baseDir, source)
		if err != nil {
			return &entities.PatchPathError{Patch: patchFile, Path: source, Err: err}
		}
		data, err := os.ReadFile(resolved)
		if err != nil {
			return &entities.PatchPathError{Patch: patchFile, Path: resolved, Err: err}
		}
		if !utf8.Valid(data) {
			return &entities.PatchPathError{Patch: patchFile, Path: resolved, Err: entities.ErrInvalidEncoding}
		}
		sourceFile = resolved
		original = string(data)
	}

	if op == entities.OperationDelete {
		if err := os.Remove(sourceFile); err != nil {
			return &entities.PatchWriteError{Patch: patchFile, Path: sourceFile, Err: err}
		}
		logger.Debugf("  deleted %s", sourceFile)
		return nil
	}

	content, err := patch.Apply(original)
	if err != nil {
		return annotate(err, patchFile, patch.DisplayPath())
	}

	target := patch.TargetPath()
	targetFile, err := resolve(baseDir, target)
	if err != nil {
		return &entities.PatchPathError{Patch: patchFile, Path: target, Err: err}
	}
	if op == entities.OperationCreate {
		if mkdirErr := os.MkdirAll(filepath.Dir(targetFile), dirPerm); mkdirErr != nil {
			return &entities.PatchWriteError{Patch: patchFile, Path: targetFile, Err: mkdirErr}
		}
	}
	if writeErr := os.WriteFile(targetFile, []byte(content), filePerm); writeErr != nil {
		return &entities.PatchWriteError{Patch: patchFile, Path: targetFile, Err: writeErr}
	}
	logger.Debugf("  %s %s", op, targetFile)
	return nil
}

// resolve joins a slash-separated diff path onto baseDir, refusing paths that leave it.
func resolve(baseDir, diffPath string) (string, error) {
	local := filepath.FromSlash(diffPath)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("path %q escapes the target directory", diffPath)
	}
	return filepath.Join(baseDir, local), nil
}

// annotate fills in which patch and file a hunk error belongs to.
func annotate(err error, patchFile, path string) error {
	var mismatch *entities.PatchMismatchError
	if errors.As(err, &mismatch) {
		mismatch.Patch = patchFile
		mismatch.Path = path
		return mismatch
	}
	var order *entities.HunkOrderError
	if errors.As(err, &order) {
		order.Patch = patchFile
		order.Path = path
		return order
	}
	return err
}
