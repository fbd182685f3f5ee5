package book

import "errors"

var (
	// ErrInvalidImport reports a backup whose shape is not recognized.
	ErrInvalidImport = errors.New("invalid import")

	// ErrPreconditionFailed reports an operation refused with the document
	// left unchanged, e.g. deleting the last category.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrStaleReference reports an event targeting a category, entry or page
	// that no longer exists. Callers drop these silently.
	ErrStaleReference = errors.New("stale reference")

	// ErrUnrecognizedShape reports a persisted blob that matches none of the
	// known legacy shapes.
	ErrUnrecognizedShape = errors.New("unrecognized settings shape")
)
