// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// The three failure kinds surfaced to the user. Each is caught at the
// boundary where it occurs and reported once; none is retried automatically.
var (
	// ErrInvalidInput marks a rejected upload, e.g. a non-image file.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRecognition marks an OCR engine failure. No partial text
	// accompanies it.
	ErrRecognition = errors.New("recognition failed")

	// ErrEncoding marks a PDF, DOCX, or text generation failure.
	ErrEncoding = errors.New("encoding failed")
)

// ErrorKind returns a short machine-readable label for err, or "internal"
// when err matches none of the known kinds.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrRecognition):
		return "recognition_failure"
	case errors.Is(err, ErrEncoding):
		return "encoding_failure"
	default:
		return "internal"
	}
}
