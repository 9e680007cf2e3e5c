package parser

import "errors"

// Failure conditions reported by the locator and the control record decoder.
// Callers match them with errors.Is.
var (
	// ErrIOFailure means the file could not be opened or read.
	ErrIOFailure = errors.New("io failure")
	// ErrRecordNotFound means no line starts with the control record marker.
	ErrRecordNotFound = errors.New("file control record not found")
	// ErrMalformedRecord means a numeric field is missing or not a number.
	ErrMalformedRecord = errors.New("malformed file control record")
)
