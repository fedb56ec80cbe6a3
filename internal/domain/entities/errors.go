package entities

import (
	"errors"
	"fmt"
)

// ErrInvalidEncoding is wrapped when a patch or a target file is not valid UTF-8.
var ErrInvalidEncoding = errors.New("content is not valid UTF-8")

// StagingIOError reports a failure while mirroring the source tree.
type StagingIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *StagingIOError) Error() string {
	return fmt.Sprintf("staging: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StagingIOError) Unwrap() error { return e.Err }

// PatchParseError reports malformed unified-diff text.
// Line is 1-based and zero when the error is not tied to a line.
type PatchParseError struct {
	File string
	Line int
	Msg  string
	Err  error
}

func (e *PatchParseError) Error() string {
	location := e.File
	if e.Line > 0 {
		location = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("parse patch %s: %s: %v", location, e.Msg, e.Err)
	}
	return fmt.Sprintf("parse patch %s: %s", location, e.Msg)
}

func (e *PatchParseError) Unwrap() error { return e.Err }

// PatchPathError reports a path referenced by a patch that cannot be resolved or read.
type PatchPathError struct {
	Patch string
	Path  string
	Err   error
}

func (e *PatchPathError) Error() string {
	return fmt.Sprintf("patch %s: resolve %s: %v", e.Patch, e.Path, e.Err)
}

func (e *PatchPathError) Unwrap() error { return e.Err }

// PatchMismatchError reports a context or removed line that does not match the original.
// Offset is the 0-based line index of the read cursor. EOF is set when the original
// ran out of lines before the hunk did.
type PatchMismatchError struct {
	Patch    string
	Path     string
	Offset   int
	Expected string
	Actual   string
	EOF      bool
}

func (e *PatchMismatchError) Error() string {
	prefix := "hunk mismatch"
	if e.Path != "" {
		prefix = fmt.Sprintf("patch %s: hunk mismatch in %s", e.Patch, e.Path)
	}
	if e.EOF {
		return fmt.Sprintf("%s at line %d: expected %q, found end of file", prefix, e.Offset+1, e.Expected)
	}
	return fmt.Sprintf("%s at line %d: expected %q, found %q", prefix, e.Offset+1, e.Expected, e.Actual)
}

// PatchWriteError reports an output path that cannot be created, written or removed.
type PatchWriteError struct {
	Patch string
	Path  string
	Err   error
}

func (e *PatchWriteError) Error() string {
	return fmt.Sprintf("patch %s: write %s: %v", e.Patch, e.Path, e.Err)
}

func (e *PatchWriteError) Unwrap() error { return e.Err }

// HunkOrderError reports a hunk that starts before the previous one ended.
type HunkOrderError struct {
	Patch    string
	Path     string
	Hunk     int
	OldStart int
	Cursor   int
}

func (e *HunkOrderError) Error() string {
	return fmt.Sprintf(
		"patch %s: hunk #%d of %s starts at line %d but line %d was already consumed",
		e.Patch, e.Hunk+1, e.Path, e.OldStart, e.Cursor,
	)
}

// ProfileError reports an invalid feature selection.
type ProfileError struct {
	Msg string
}

func (e *ProfileError) Error() string { return "build profile: " + e.Msg }
