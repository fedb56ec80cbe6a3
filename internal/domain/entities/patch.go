package entities

import (
	"strings"
)

const (
	// DevNull is the conventional unified-diff marker for a missing side.
	DevNull = "/dev/null"

	oldPathPrefix = "a/"
	newPathPrefix = "b/"
)

// LineKind tags a hunk line.
type LineKind int

const (
	LineContext LineKind = iota
	LineRemove
	LineAdd
)

// String returns the unified-diff prefix of the line kind.
func (k LineKind) String() string {
	switch k {
	case LineContext:
		return " "
	case LineRemove:
		return "-"
	case LineAdd:
		return "+"
	default:
		return "?"
	}
}

// Line is a single hunk line without its prefix.
type Line struct {
	Kind LineKind
	Text string
}

// Context builds a context line.
func Context(text string) Line { return Line{Kind: LineContext, Text: text} }

// Remove builds a removed line.
func Remove(text string) Line { return Line{Kind: LineRemove, Text: text} }

// Add builds an added line.
func Add(text string) Line { return Line{Kind: LineAdd, Text: text} }

// Hunk is one contiguous change region of a patch.
// OldLines, NewStart and NewLines mirror the "@@" header and are only used for validation.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// Consumed returns how many original lines the hunk reads.
func (h Hunk) Consumed() int {
	count := 0
	for _, line := range h.Lines {
		if line.Kind != LineAdd {
			count++
		}
	}
	return count
}

// Operation is the filesystem effect of a patch.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationModify Operation = "modify"
	OperationDelete Operation = "delete"
)

// Patch is one diff against one logical file.
type Patch struct {
	OldPath    string
	NewPath    string
	Hunks      []Hunk
	EndNewline bool
}

// PatchSet is the decoded content of one patch file.
type PatchSet struct {
	Name    string
	Patches []Patch
}

// IsAbsentPath reports whether a diff path denotes a missing file.
func IsAbsentPath(path string) bool {
	return path == "" || path == DevNull
}

// StripPathPrefix removes the conventional "a/" or "b/" prefix of a diff path.
func StripPathPrefix(path string) string {
	if strings.HasPrefix(path, oldPathPrefix) {
		return path[len(oldPathPrefix):]
	}
	if strings.HasPrefix(path, newPathPrefix) {
		return path[len(newPathPrefix):]
	}
	return path
}

// Operation classifies the patch. A patch with both paths absent is reported as a deletion;
// the parser never produces one.
func (p Patch) Operation() Operation {
	switch {
	case IsAbsentPath(p.OldPath):
		return OperationCreate
	case IsAbsentPath(p.NewPath):
		return OperationDelete
	default:
		return OperationModify
	}
}

// SourcePath returns the stripped old path, or "" for creations.
func (p Patch) SourcePath() string {
	if IsAbsentPath(p.OldPath) {
		return ""
	}
	return StripPathPrefix(p.OldPath)
}

// TargetPath returns the stripped new path, or "" for deletions.
func (p Patch) TargetPath() string {
	if IsAbsentPath(p.NewPath) {
		return ""
	}
	return StripPathPrefix(p.NewPath)
}

// DisplayPath names the file the patch is about, for messages.
func (p Patch) DisplayPath() string {
	if target := p.TargetPath(); target != "" {
		return target
	}
	return p.SourcePath()
}

// Apply computes the new content of a file from its original content.
//
// Unchanged lines before each hunk and after the last one are copied verbatim.
// Context and removed lines must match the original at the read cursor exactly.
// The result ends with a line break when the patch says so or when the original did.
func (p Patch) Apply(original string) (string, error) {
	lines, endsWithNewline := SplitLines(original)
	output := make([]string, 0, len(lines))
	cursor := 0

	for index, hunk := range p.Hunks {
		start := hunk.OldStart - 1
		if start < 0 {
			start = 0
		}
		if start < cursor {
			return "", &HunkOrderError{Hunk: index, OldStart: hunk.OldStart, Cursor: cursor}
		}
		if start > len(lines) {
			return "", &PatchMismatchError{
				Offset:   len(lines),
				Expected: hunkFirstOriginalLine(hunk),
				EOF:      true,
			}
		}
		output = append(output, lines[cursor:start]...)
		cursor = start

		for _, line := range hunk.Lines {
			if line.Kind == LineAdd {
				output = append(output, line.Text)
				continue
			}
			if cursor >= len(lines) {
				return "", &PatchMismatchError{Offset: cursor, Expected: line.Text, EOF: true}
			}
			if lines[cursor] != line.Text {
				return "", &PatchMismatchError{Offset: cursor, Expected: line.Text, Actual: lines[cursor]}
			}
			cursor++
			if line.Kind == LineContext {
				output = append(output, line.Text)
			}
		}
	}
	output = append(output, lines[cursor:]...)

	return JoinLines(output, p.EndNewline || endsWithNewline), nil
}

func hunkFirstOriginalLine(hunk Hunk) string {
	for _, line := range hunk.Lines {
		if line.Kind != LineAdd {
			return line.Text
		}
	}
	return ""
}

// SplitLines splits text on "\n" and reports whether it ended with one.
// The empty document has no lines.
func SplitLines(text string) ([]string, bool) {
	if text == "" {
		return nil, false
	}
	endsWithNewline := strings.HasSuffix(text, "\n")
	if endsWithNewline {
		text = text[:len(text)-1]
	}
	return strings.Split(text, "\n"), endsWithNewline
}

// JoinLines is the inverse of SplitLines. No lines serialize to the empty document.
func JoinLines(lines []string, trailingNewline bool) string {
	if len(lines) == 0 {
		return ""
	}
	joined := strings.Join(lines, "\n")
	if trailingNewline {
		joined += "\n"
	}
	return joined
}
