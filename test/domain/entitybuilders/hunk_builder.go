//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"slices"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

// HunkBuilder helps create test hunks with a fluent interface.
// Header counts are derived from the lines unless set explicitly.
type HunkBuilder struct {
	*testkit.BaseBuilder
	oldStart int
	newStart int
	oldLines *int
	newLines *int
	lines    []entities.Line
}

// NewHunkBuilder creates a new hunk builder starting at line 1.
func NewHunkBuilder() *HunkBuilder {
	return &HunkBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		oldStart:    1,
		newStart:    1,
	}
}

// At sets the old and new start lines.
func (b *HunkBuilder) At(oldStart, newStart int) *HunkBuilder {
	b.oldStart = oldStart
	b.newStart = newStart
	return b
}

// WithCounts overrides the header counts.
func (b *HunkBuilder) WithCounts(oldLines, newLines int) *HunkBuilder {
	b.oldLines = &oldLines
	b.newLines = &newLines
	return b
}

// Context appends context lines.
func (b *HunkBuilder) Context(texts ...string) *HunkBuilder {
	for _, text := range texts {
		b.lines = append(b.lines, entities.Context(text))
	}
	return b
}

// Remove appends removed lines.
func (b *HunkBuilder) Remove(texts ...string) *HunkBuilder {
	for _, text := range texts {
		b.lines = append(b.lines, entities.Remove(text))
	}
	return b
}

// Add appends added lines.
func (b *HunkBuilder) Add(texts ...string) *HunkBuilder {
	for _, text := range texts {
		b.lines = append(b.lines, entities.Add(text))
	}
	return b
}

// Build creates the hunk (satisfies testkit.Builder interface).
func (b *HunkBuilder) Build() interface{} {
	return b.BuildHunk()
}

// BuildHunk creates the hunk with a concrete return type.
func (b *HunkBuilder) BuildHunk() entities.Hunk {
	hunk := entities.Hunk{
		OldStart: b.oldStart,
		NewStart: b.newStart,
		Lines:    slices.Clone(b.lines),
	}
	for _, line := range b.lines {
		if line.Kind != entities.LineAdd {
			hunk.OldLines++
		}
		if line.Kind != entities.LineRemove {
			hunk.NewLines++
		}
	}
	if b.oldLines != nil {
		hunk.OldLines = *b.oldLines
	}
	if b.newLines != nil {
		hunk.NewLines = *b.newLines
	}
	return hunk
}

// Reset clears the builder state, allowing it to be reused.
func (b *HunkBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.oldStart = 1
	b.newStart = 1
	b.oldLines = nil
	b.newLines = nil
	b.lines = nil
	return b
}

// Clone creates a deep copy of the HunkBuilder.
func (b *HunkBuilder) Clone() testkit.Builder {
	return &HunkBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		oldStart:    b.oldStart,
		newStart:    b.newStart,
		oldLines:    b.oldLines,
		newLines:    b.newLines,
		lines:       slices.Clone(b.lines),
	}
}
