// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import "errors"

// Sentinel errors. Callers match them with errors.Is; returned errors wrap
// them with the offending path.
var (
	// ErrNotFound reports a missing source file.
	ErrNotFound = errors.New("not found")

	// ErrInvalidFormat reports a source that is not a PDF.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrNotADirectory reports a destination that is missing or not a
	// directory.
	ErrNotADirectory = errors.New("not a directory")

	// ErrEngine reports a failure inside the PDF engine while opening,
	// rendering, or reading metadata.
	ErrEngine = errors.New("pdf engine failure")
)
