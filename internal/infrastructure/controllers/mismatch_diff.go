package controllers

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// mismatchDiff renders the difference between the line a hunk expected and the line
// found in the file, coloring deletions and insertions.
func mismatchDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)
	return dmp.DiffPrettyText(dmp.DiffCleanupSemantic(diffs))
}
