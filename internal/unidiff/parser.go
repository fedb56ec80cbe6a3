package unidiff

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

const (
	oldHeaderPrefix = "--- "
	newHeaderPrefix = "+++ "
	hunkPrefix      = "@@"
	markerPrefix    = `\`
	gitPrefix       = "diff --git "
	signatureLine   = "-- "
)

// hunkHeaderPattern matches "@@ -start[,count] +start[,count] @@" with an optional section name.
var hunkHeaderPattern = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// parser walks the lines of one patch file.
type parser struct {
	name  string
	lines []string
	pos   int
}

// gitStanza tracks the extended header of the current "diff --git" section.
type gitStanza struct {
	oldPath   string
	newPath   string
	operation entities.Operation
	hasHunks  bool
}

// hunkEnding records which sides of a hunk end without a line break.
type hunkEnding struct {
	oldMissing bool
	newMissing bool
}

// Parse decodes the text of one patch file into a PatchSet.
// Anything before the first "---"/"+++" pair and between patches is treated as preamble,
// except git extended headers: empty file creations and deletions become patches and
// renames or copies are rejected.
func Parse(name, text string) (*entities.PatchSet, error) {
	if !utf8.ValidString(text) {
		return nil, &entities.PatchParseError{File: name, Msg: "invalid text", Err: entities.ErrInvalidEncoding}
	}

	p := &parser{name: name, lines: splitPatchLines(text)}
	set := &entities.PatchSet{Name: name}
	var stanza *gitStanza

	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		switch {
		case p.atFileHeader():
			patch, err := p.parsePatch()
			if err != nil {
				return nil, err
			}
			set.Patches = append(set.Patches, *patch)
			if stanza != nil {
				stanza.hasHunks = true
			}
		case strings.HasPrefix(line, gitPrefix):
			set.Patches = appendEmptyFilePatch(set.Patches, stanza)
			next, err := p.parseGitHeader(line)
			if err != nil {
				return nil, err
			}
			stanza = next
			p.pos++
		case stanza != nil && (strings.HasPrefix(line, "rename from ") || strings.HasPrefix(line, "copy from ")):
			return nil, p.errorf("renames and copies are not supported: %q", trimCR(line))
		case stanza != nil && strings.HasPrefix(line, "new file mode "):
			stanza.operation = entities.OperationCreate
			p.pos++
		case stanza != nil && strings.HasPrefix(line, "deleted file mode "):
			stanza.operation = entities.OperationDelete
			p.pos++
		case strings.HasPrefix(line, "GIT binary patch"),
			strings.HasPrefix(line, "Binary files ") && strings.HasSuffix(trimCR(line), " differ"):
			return nil, p.errorf("binary patches are not supported")
		case strings.HasPrefix(line, oldHeaderPrefix) && p.nextStartsWith(hunkPrefix):
			return nil, p.errorf("file header %q is not followed by a +++ line", trimCR(line))
		case strings.HasPrefix(line, hunkPrefix):
			return nil, p.errorf("hunk header without a preceding file header")
		default:
			p.pos++
		}
	}

	set.Patches = appendEmptyFilePatch(set.Patches, stanza)

	if len(set.Patches) == 0 {
		return nil, &entities.PatchParseError{File: name, Msg: "no patches found"}
	}
	return set, nil
}

// parseGitHeader reads the paths of a "diff --git a/x b/x" line.
func (p *parser) parseGitHeader(line string) (*gitStanza, error) {
	oldPath, newPath, err := gitHeaderPaths(trimCR(line)[len(gitPrefix):])
	if err != nil {
		return nil, p.errorf("malformed git header: %v", err)
	}
	return &gitStanza{oldPath: oldPath, newPath: newPath, operation: entities.OperationModify}, nil
}

// gitHeaderPaths splits the two paths of a git header. Unquoted paths are assumed to
// name the same file, which holds for every stanza other than renames and copies.
func gitHeaderPaths(raw string) (string, string, error) {
	if strings.HasPrefix(raw, `"`) {
		end := closingQuote(raw)
		if end < 0 {
			return "", "", fmt.Errorf("unterminated quoted path %s", raw)
		}
		oldPath, err := strconv.Unquote(raw[:end+1])
		if err != nil {
			return "", "", err
		}
		newPath, err := headerPath(strings.TrimLeft(raw[end+1:], " "))
		return oldPath, newPath, err
	}

	if len(raw)%2 == 1 {
		half := len(raw) / 2
		oldPath, newPath := raw[:half], raw[half+1:]
		if raw[half] == ' ' && entities.StripPathPrefix(oldPath) == entities.StripPathPrefix(newPath) {
			return oldPath, newPath, nil
		}
	}
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return "", "", fmt.Errorf("can not split paths of %q", raw)
	}
	return fields[0], fields[1], nil
}

// appendEmptyFilePatch turns a git stanza that creates or deletes a file without any
// hunk into a patch, so empty files are not lost.
func appendEmptyFilePatch(patches []entities.Patch, stanza *gitStanza) []entities.Patch {
	if stanza == nil || stanza.hasHunks {
		return patches
	}
	switch stanza.operation {
	case entities.OperationCreate:
		return append(patches, entities.Patch{OldPath: entities.DevNull, NewPath: stanza.newPath})
	case entities.OperationDelete:
		return append(patches, entities.Patch{OldPath: stanza.oldPath, NewPath: entities.DevNull})
	default:
		return patches
	}
}

// splitPatchLines splits text into lines, dropping the empty element after a final break.
func splitPatchLines(text string) []string {
	lines, _ := entities.SplitLines(text)
	return lines
}

func trimCR(line string) string {
	return strings.TrimSuffix(line, "\r")
}

func (p *parser) errorf(format string, args ...any) *entities.PatchParseError {
	return &entities.PatchParseError{File: p.name, Line: p.pos + 1, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) atFileHeader() bool {
	return p.pos+1 < len(p.lines) &&
		strings.HasPrefix(p.lines[p.pos], oldHeaderPrefix) &&
		strings.HasPrefix(p.lines[p.pos+1], newHeaderPrefix)
}

// parsePatch reads a "---"/"+++" header and the hunks that follow it.
func (p *parser) parsePatch() (*entities.Patch, error) {
	headerPos := p.pos
	oldPath, err := headerPath(p.lines[p.pos][len(oldHeaderPrefix):])
	if err != nil {
		return nil, p.errorf("malformed old path: %v", err)
	}
	p.pos++
	newPath, err := headerPath(p.lines[p.pos][len(newHeaderPrefix):])
	if err != nil {
		return nil, p.errorf("malformed new path: %v", err)
	}
	p.pos++

	patch := &entities.Patch{OldPath: oldPath, NewPath: newPath}
	if entities.IsAbsentPath(oldPath) && entities.IsAbsentPath(newPath) {
		p.pos = headerPos
		return nil, p.errorf("both old and new paths are absent")
	}

	var ending hunkEnding
	for p.pos < len(p.lines) && strings.HasPrefix(p.lines[p.pos], hunkPrefix) {
		hunk, hunkEnd, hunkErr := p.parseHunk()
		if hunkErr != nil {
			return nil, hunkErr
		}
		patch.Hunks = append(patch.Hunks, *hunk)
		ending = hunkEnd
	}

	op := patch.Operation()
	if len(patch.Hunks) == 0 && op == entities.OperationModify {
		p.pos = headerPos
		return nil, p.errorf("patch for %s has no hunks", patch.DisplayPath())
	}
	if validateErr := p.validateHunks(headerPos, patch); validateErr != nil {
		return nil, validateErr
	}

	switch {
	case op == entities.OperationCreate:
		patch.EndNewline = !ending.newMissing
	case ending.newMissing:
		patch.EndNewline = false
	case ending.oldMissing:
		patch.EndNewline = true
	}
	return patch, nil
}

// headerPath extracts the path of a "---"/"+++" line, dropping any tab-separated timestamp.
func headerPath(raw string) (string, error) {
	raw = trimCR(raw)
	if strings.HasPrefix(raw, `"`) {
		end := closingQuote(raw)
		if end < 0 {
			return "", fmt.Errorf("unterminated quoted path %s", raw)
		}
		return strconv.Unquote(raw[:end+1])
	}
	if idx := strings.IndexByte(raw, '\t'); idx >= 0 {
		raw = raw[:idx]
	}
	path := strings.TrimRight(raw, " ")
	if path == "" {
		return "", errors.New("empty path")
	}
	return path, nil
}

func closingQuote(raw string) int {
	for i := 1; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// parseHunk reads one "@@" header and exactly as many body lines as its counts announce.
func (p *parser) parseHunk() (*entities.Hunk, hunkEnding, error) {
	var ending hunkEnding
	header := trimCR(p.lines[p.pos])
	match := hunkHeaderPattern.FindStringSubmatch(header)
	if match == nil {
		return nil, ending, p.errorf("malformed hunk header %q", header)
	}

	var counts [4]int
	for i, fallback := range [4]int{0, 1, 0, 1} {
		value, err := atoi(match[i+1], fallback)
		if err != nil {
			return nil, ending, p.errorf("malformed hunk header %q: %v", header, err)
		}
		counts[i] = value
	}
	hunk := &entities.Hunk{
		OldStart: counts[0],
		OldLines: counts[1],
		NewStart: counts[2],
		NewLines: counts[3],
	}
	p.pos++

	oldLeft, newLeft := hunk.OldLines, hunk.NewLines
	lastKind := entities.LineKind(-1)
	for oldLeft > 0 || newLeft > 0 || p.atMarker() {
		if p.pos >= len(p.lines) {
			return nil, ending, p.errorf(
				"truncated hunk: %d old and %d new lines missing", oldLeft, newLeft,
			)
		}

		line := p.lines[p.pos]
		if strings.HasPrefix(line, markerPrefix) {
			if lastKind < 0 {
				return nil, ending, p.errorf("no-newline marker before any hunk line")
			}
			ending.oldMissing = ending.oldMissing || lastKind != entities.LineAdd
			ending.newMissing = ending.newMissing || lastKind != entities.LineRemove
			p.pos++
			continue
		}

		kind, text, ok := classify(line)
		if !ok {
			return nil, ending, p.errorf("unexpected line in hunk body %q", line)
		}
		if kind != entities.LineAdd {
			oldLeft--
		}
		if kind != entities.LineRemove {
			newLeft--
		}
		if oldLeft < 0 || newLeft < 0 {
			return nil, ending, p.errorf("hunk body is longer than its header %q", header)
		}

		hunk.Lines = append(hunk.Lines, entities.Line{Kind: kind, Text: text})
		lastKind = kind
		p.pos++
	}

	if p.overflowsHunk() {
		return nil, ending, p.errorf("hunk body is longer than its header %q", header)
	}

	// "@@ -5,0" inserts after line 5, so the first untouched line is 6.
	if hunk.OldLines == 0 && hunk.OldStart > 0 {
		hunk.OldStart++
	}
	return hunk, ending, nil
}

// overflowsHunk reports whether the line after a complete hunk still looks like hunk
// body. File headers, hunk headers, blank lines and the mail signature separator end it.
func (p *parser) overflowsHunk() bool {
	if p.pos >= len(p.lines) || p.atFileHeader() {
		return false
	}
	line := trimCR(p.lines[p.pos])
	if line == "" || line == signatureLine {
		return false
	}
	if strings.HasPrefix(line, oldHeaderPrefix) && p.nextStartsWith(hunkPrefix) {
		return false
	}
	switch line[0] {
	case ' ', '+', '-':
		return true
	default:
		return false
	}
}

func (p *parser) nextStartsWith(prefix string) bool {
	return p.pos+1 < len(p.lines) && strings.HasPrefix(p.lines[p.pos+1], prefix)
}

func (p *parser) atMarker() bool {
	return p.pos < len(p.lines) && strings.HasPrefix(p.lines[p.pos], markerPrefix)
}

// classify splits a hunk body line into its kind and text. An empty line is empty context.
func classify(line string) (entities.LineKind, string, bool) {
	if line == "" {
		return entities.LineContext, "", true
	}
	switch line[0] {
	case ' ':
		return entities.LineContext, line[1:], true
	case '-':
		return entities.LineRemove, line[1:], true
	case '+':
		return entities.LineAdd, line[1:], true
	default:
		return 0, "", false
	}
}

// atoi parses an optional header number; the regex guarantees digits, so only
// overflow fails.
func atoi(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// validateHunks rejects creation hunks that read the original and hunks that are
// descending or overlapping.
func (p *parser) validateHunks(headerPos int, patch *entities.Patch) error {
	creation := patch.Operation() == entities.OperationCreate
	end := 0
	for index, hunk := range patch.Hunks {
		if creation && hunk.OldLines > 0 {
			return &entities.PatchParseError{
				File: p.name, Line: headerPos + 1,
				Msg: fmt.Sprintf("hunk #%d of new file %s reads %d original lines", index+1, patch.DisplayPath(), hunk.OldLines),
			}
		}
		start := max(hunk.OldStart-1, 0)
		if index > 0 && start < end {
			return &entities.PatchParseError{
				File: p.name, Line: headerPos + 1,
				Msg: fmt.Sprintf("hunk #%d of %s overlaps or precedes the previous hunk", index+1, patch.DisplayPath()),
			}
		}
		end = start + hunk.OldLines
	}
	return nil
}
