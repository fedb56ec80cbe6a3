//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"slices"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

// PatchBuilder helps create test patches with a fluent interface.
type PatchBuilder struct {
	*testkit.BaseBuilder
	oldPath    string
	newPath    string
	hunks      []entities.Hunk
	endNewline bool
}

// NewPatchBuilder creates a new builder for a modification of "a/file.c".
func NewPatchBuilder() *PatchBuilder {
	return &PatchBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		oldPath:     "a/file.c",
		newPath:     "b/file.c",
	}
}

// Modifying sets both paths of a modification.
func (b *PatchBuilder) Modifying(path string) *PatchBuilder {
	b.oldPath = "a/" + path
	b.newPath = "b/" + path
	return b
}

// Creating turns the patch into a creation of path.
func (b *PatchBuilder) Creating(path string) *PatchBuilder {
	b.oldPath = entities.DevNull
	b.newPath = "b/" + path
	return b
}

// Deleting turns the patch into a deletion of path.
func (b *PatchBuilder) Deleting(path string) *PatchBuilder {
	b.oldPath = "a/" + path
	b.newPath = entities.DevNull
	return b
}

// WithHunk appends a hunk.
func (b *PatchBuilder) WithHunk(hunk entities.Hunk) *PatchBuilder {
	b.hunks = append(b.hunks, hunk)
	return b
}

// WithEndNewline sets whether the result must end with a line break.
func (b *PatchBuilder) WithEndNewline(endNewline bool) *PatchBuilder {
	b.endNewline = endNewline
	return b
}

// Build creates the patch (satisfies testkit.Builder interface).
func (b *PatchBuilder) Build() interface{} {
	return b.BuildPatch()
}

// BuildPatch creates the patch with a concrete return type.
func (b *PatchBuilder) BuildPatch() entities.Patch {
	return entities.Patch{
		OldPath:    b.oldPath,
		NewPath:    b.newPath,
		Hunks:      slices.Clone(b.hunks),
		EndNewline: b.endNewline,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *PatchBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.oldPath = "a/file.c"
	b.newPath = "b/file.c"
	b.hunks = nil
	b.endNewline = false
	return b
}

// Clone creates a deep copy of the PatchBuilder.
func (b *PatchBuilder) Clone() testkit.Builder {
	return &PatchBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		oldPath:     b.oldPath,
		newPath:     b.newPath,
		hunks:       slices.Clone(b.hunks),
		endNewline:  b.endNewline,
	}
}
