//go:build unit

package unidiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
	"github.com/rios0rios0/vendorpatch/internal/unidiff"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("should parse a git-style patch with preamble and several hunks", func(t *testing.T) {
		t.Parallel()
		// given
		text := `From 1234 Mon Sep 17 00:00:00 2001
Subject: [PATCH] fix page map

diff --git a/tcmalloc/pagemap.h b/tcmalloc/pagemap.h
index 1111111..2222222 100644
--- a/tcmalloc/pagemap.h
+++ b/tcmalloc/pagemap.h
@@ -1,3 +1,3 @@ namespace tcmalloc {
 #include <stddef.h>
-#include <old.h>
+#include <new.h>
 
@@ -10,2 +10,3 @@
 int a;
+int b;
 int c;
-- 
2.40.0
`

		// when
		set, err := unidiff.Parse("fix.patch", text)

		// then
		require.NoError(t, err)
		require.Len(t, set.Patches, 1)
		patch := set.Patches[0]
		assert.Equal(t, "tcmalloc/pagemap.h", patch.TargetPath())
		assert.Equal(t, entities.OperationModify, patch.Operation())
		require.Len(t, patch.Hunks, 2)
		assert.Equal(t, []entities.Line{
			entities.Context("#include <stddef.h>"),
			entities.Remove("#include <old.h>"),
			entities.Add("#include <new.h>"),
			entities.Context(""),
		}, patch.Hunks[0].Lines)
		assert.Equal(t, 10, patch.Hunks[1].OldStart)
		assert.Equal(t, 2, patch.Hunks[1].OldLines)
		assert.Equal(t, 3, patch.Hunks[1].NewLines)
	})

	t.Run("should parse several files in one patch", func(t *testing.T) {
		t.Parallel()
		// given
		text := "--- a/one.c\n+++ b/one.c\n@@ -1 +1 @@\n-a\n+b\n" +
			"--- a/two.c\t2024-01-01 10:00:00\n+++ b/two.c\t2024-01-02 10:00:00\n@@ -2,0 +3 @@\n+x\n"

		// when
		set, err := unidiff.Parse("multi.patch", text)

		// then
		require.NoError(t, err)
		require.Len(t, set.Patches, 2)
		assert.Equal(t, "one.c", set.Patches[0].TargetPath())
		assert.Equal(t, "two.c", set.Patches[1].TargetPath())
		assert.Equal(t, 1, set.Patches[0].Hunks[0].OldLines)
		assert.Equal(t, 3, set.Patches[1].Hunks[0].OldStart, "an insertion after line 2 starts reading at line 3")
	})

	t.Run("should parse a file creation", func(t *testing.T) {
		t.Parallel()
		// given
		text := "--- /dev/null\n+++ b/src/new.c\n@@ -0,0 +1,2 @@\n+int x;\n+int y;\n"

		// when
		set, err := unidiff.Parse("new.patch", text)

		// then
		require.NoError(t, err)
		patch := set.Patches[0]
		assert.Equal(t, entities.OperationCreate, patch.Operation())
		assert.True(t, patch.EndNewline)
		content, applyErr := patch.Apply("")
		require.NoError(t, applyErr)
		assert.Equal(t, "int x;\nint y;\n", content)
	})

	t.Run("should parse a file deletion", func(t *testing.T) {
		t.Parallel()
		// given
		text := "--- a/old.c\n+++ /dev/null\n@@ -1,2 +0,0 @@\n-int x;\n-int y;\n"

		// when
		set, err := unidiff.Parse("rm.patch", text)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.OperationDelete, set.Patches[0].Operation())
		assert.Equal(t, "old.c", set.Patches[0].SourcePath())
	})

	t.Run("should record a missing newline at the end of the new file", func(t *testing.T) {
		t.Parallel()
		// given
		text := "--- a/f\n+++ b/f\n@@ -1 +1 @@\n-a\n+b\n\\ No newline at end of file\n"

		// when
		set, err := unidiff.Parse("f.patch", text)

		// then
		require.NoError(t, err)
		patch := set.Patches[0]
		assert.False(t, patch.EndNewline)
		content, applyErr := patch.Apply("a")
		require.NoError(t, applyErr)
		assert.Equal(t, "b", content)
	})

	t.Run("should add the newline the original was missing", func(t *testing.T) {
		t.Parallel()
		// given
		text := "--- a/f\n+++ b/f\n@@ -1 +1 @@\n-a\n\\ No newline at end of file\n+b\n"

		// when
		set, err := unidiff.Parse("f.patch", text)

		// then
		require.NoError(t, err)
		patch := set.Patches[0]
		assert.True(t, patch.EndNewline)
		content, applyErr := patch.Apply("a")
		require.NoError(t, applyErr)
		assert.Equal(t, "b\n", content)
	})

	t.Run("should create a file without a trailing newline", func(t *testing.T) {
		t.Parallel()
		// given
		text := "--- /dev/null\n+++ b/f\n@@ -0,0 +1 @@\n+only\n\\ No newline at end of file\n"

		// when
		set, err := unidiff.Parse("f.patch", text)

		// then
		require.NoError(t, err)
		assert.False(t, set.Patches[0].EndNewline)
	})

	t.Run("should unquote quoted paths", func(t *testing.T) {
		t.Parallel()
		// given
		text := "--- \"a/with space.c\"\n+++ \"b/with space.c\"\n@@ -1 +1 @@\n-a\n+b\n"

		// when
		set, err := unidiff.Parse("q.patch", text)

		// then
		require.NoError(t, err)
		assert.Equal(t, "with space.c", set.Patches[0].TargetPath())
	})
}

func TestParseGitExtendedHeaders(t *testing.T) {
	t.Parallel()

	t.Run("should create an empty file announced only by its git header", func(t *testing.T) {
		t.Parallel()
		// given
		text := "diff --git a/include/empty.h b/include/empty.h\n" +
			"new file mode 100644\n" +
			"index 0000000..e69de29\n" +
			"diff --git a/x.c b/x.c\n" +
			"index 1111111..2222222 100644\n" +
			"--- a/x.c\n+++ b/x.c\n@@ -1 +1 @@\n-a\n+b\n"

		// when
		set, err := unidiff.Parse("empty.patch", text)

		// then
		require.NoError(t, err)
		require.Len(t, set.Patches, 2)
		assert.Equal(t, entities.OperationCreate, set.Patches[0].Operation())
		assert.Equal(t, "include/empty.h", set.Patches[0].TargetPath())
		assert.Empty(t, set.Patches[0].Hunks)
		assert.Equal(t, "x.c", set.Patches[1].TargetPath())
	})

	t.Run("should delete an empty file announced only by its git header", func(t *testing.T) {
		t.Parallel()
		// given
		text := "diff --git a/gone.h b/gone.h\ndeleted file mode 100644\nindex e69de29..0000000\n"

		// when
		set, err := unidiff.Parse("rm.patch", text)

		// then
		require.NoError(t, err)
		require.Len(t, set.Patches, 1)
		assert.Equal(t, entities.OperationDelete, set.Patches[0].Operation())
		assert.Equal(t, "gone.h", set.Patches[0].SourcePath())
	})

	t.Run("should not duplicate a git creation that carries content", func(t *testing.T) {
		t.Parallel()
		// given
		text := "diff --git a/n.c b/n.c\nnew file mode 100644\nindex 0000000..1111111\n" +
			"--- /dev/null\n+++ b/n.c\n@@ -0,0 +1 @@\n+x\n"

		// when
		set, err := unidiff.Parse("new.patch", text)

		// then
		require.NoError(t, err)
		require.Len(t, set.Patches, 1)
		require.Len(t, set.Patches[0].Hunks, 1)
	})

	t.Run("should ignore mode-only changes", func(t *testing.T) {
		t.Parallel()
		// given
		text := "diff --git a/run.sh b/run.sh\nold mode 100644\nnew mode 100755\n" +
			"diff --git a/x.c b/x.c\n--- a/x.c\n+++ b/x.c\n@@ -1 +1 @@\n-a\n+b\n"

		// when
		set, err := unidiff.Parse("mode.patch", text)

		// then
		require.NoError(t, err)
		require.Len(t, set.Patches, 1)
		assert.Equal(t, "x.c", set.Patches[0].TargetPath())
	})
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		line    int
		message string
	}{
		{
			name:    "should reject text without patches",
			text:    "just a commit message\n",
			message: "no patches found",
		},
		{
			name:    "should reject a truncated hunk",
			text:    "--- a/f\n+++ b/f\n@@ -1,3 +1,3 @@\n a\n",
			line:    5,
			message: "truncated hunk",
		},
		{
			name:    "should reject a hunk body line with an unknown prefix",
			text:    "--- a/f\n+++ b/f\n@@ -1,2 +1,2 @@\n a\n*b\n",
			line:    5,
			message: "unexpected line in hunk body",
		},
		{
			name:    "should reject a malformed hunk header",
			text:    "--- a/f\n+++ b/f\n@@ -x +1 @@\n a\n",
			line:    3,
			message: "malformed hunk header",
		},
		{
			name:    "should reject a hunk header outside a patch",
			text:    "@@ -1 +1 @@\n-a\n+b\n",
			line:    1,
			message: "hunk header without a preceding file header",
		},
		{
			name:    "should reject an old file header without a new one",
			text:    "--- a/f\n@@ -1 +1 @@\n-a\n+b\n",
			line:    1,
			message: "is not followed by a +++ line",
		},
		{
			name:    "should reject hunk lines beyond the header counts",
			text:    "--- a/x.c\n+++ b/x.c\n@@ -1,1 +1,1 @@\n-a\n+b\n+c\n+d\n",
			line:    6,
			message: "hunk body is longer than its header",
		},
		{
			name:    "should reject a hunk header number that overflows",
			text:    "--- a/f\n+++ b/f\n@@ -99999999999999999999999 +1 @@\n-a\n+b\n",
			line:    3,
			message: "malformed hunk header",
		},
		{
			name:    "should reject a git rename",
			text:    "diff --git a/old.c b/new.c\nsimilarity index 100%\nrename from old.c\nrename to new.c\n",
			line:    3,
			message: "renames and copies are not supported",
		},
		{
			name:    "should reject a git copy",
			text:    "diff --git a/a.c b/b.c\nsimilarity index 100%\ncopy from a.c\ncopy to b.c\n",
			line:    3,
			message: "renames and copies are not supported",
		},
		{
			name:    "should reject binary patches",
			text:    "diff --git a/x.bin b/x.bin\nBinary files a/x.bin and b/x.bin differ\n",
			line:    2,
			message: "binary patches are not supported",
		},
		{
			name:    "should reject a modification without hunks",
			text:    "--- a/f\n+++ b/f\n",
			line:    1,
			message: "has no hunks",
		},
		{
			name:    "should reject a patch whose sides are both absent",
			text:    "--- /dev/null\n+++ /dev/null\n@@ -0,0 +0,0 @@\n",
			line:    1,
			message: "both old and new paths are absent",
		},
		{
			name:    "should reject a creation that reads original lines",
			text:    "--- /dev/null\n+++ b/f\n@@ -1 +1 @@\n-a\n+b\n",
			line:    1,
			message: "reads 1 original lines",
		},
		{
			name:    "should reject overlapping hunks",
			text:    "--- a/f\n+++ b/f\n@@ -1,2 +1,2 @@\n a\n b\n@@ -2 +2 @@\n-b\n+c\n",
			line:    1,
			message: "overlaps or precedes the previous hunk",
		},
		{
			name:    "should reject a no-newline marker before any hunk line",
			text:    "--- a/f\n+++ b/f\n@@ -1 +1 @@\n\\ No newline at end of file\n-a\n+b\n",
			line:    4,
			message: "no-newline marker before any hunk line",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			// when
			set, err := unidiff.Parse("bad.patch", tt.text)

			// then
			var parseErr *entities.PatchParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Nil(t, set)
			assert.Equal(t, "bad.patch", parseErr.File)
			assert.Equal(t, tt.line, parseErr.Line)
			assert.Contains(t, parseErr.Msg, tt.message)
		})
	}

	t.Run("should reject text that is not UTF-8", func(t *testing.T) {
		t.Parallel()
		// when
		_, err := unidiff.Parse("bad.patch", "--- a/f\n+++ b/f\n@@ -1 +1 @@\n-\xff\n+b\n")

		// then
		require.ErrorIs(t, err, entities.ErrInvalidEncoding)
	})
}
