package controllers

// MismatchDiff exports mismatchDiff for testing.
var MismatchDiff = mismatchDiff //nolint:gochecknoglobals // test export
