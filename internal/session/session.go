// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session implements the finite-state controller that sequences a
// conversion: upload, conversion-type selection, processing, optional edit,
// and reset. A Session holds at most one in-flight image and one conversion
// type; all transient fields are cleared together by Reset.
package session

import (
	"fmt"
	"strings"

	"github.com/mvasko/notescan/pkg/types"
)

// Stage identifies a state of the conversion workflow.
type Stage string

const (
	StageUpload           Stage = "upload"
	StageSelectConversion Stage = "select-conversion"
	StageDirectProcessing Stage = "direct-processing"
	StageOCRProcessing    Stage = "ocr-processing"
	StageEditing          Stage = "editing"
)

// ErrTransition reports an operation invoked in a stage that does not
// permit it. The session is left unchanged.
var ErrTransition = fmt.Errorf("transition not permitted")

// Session is the mutable state of one conversion. It is not safe for
// concurrent use; callers run one session per workflow.
type Session struct {
	stage      Stage
	image      []byte
	mime       string
	convType   types.ConversionType
	extracted  string
	processing bool
}

// New returns a session in the upload stage.
func New() *Session {
	return &Session{stage: StageUpload}
}

// Stage returns the current stage.
func (s *Session) Stage() Stage { return s.stage }

// Image returns the uploaded image bytes and detected MIME type. The slice
// is nil before upload and after reset.
func (s *Session) Image() ([]byte, string) { return s.image, s.mime }

// ConversionType returns the selected type, or "" before selection.
func (s *Session) ConversionType() types.ConversionType { return s.convType }

// ExtractedText returns the recognized text, empty until OCR completes.
func (s *Session) ExtractedText() string { return s.extracted }

// Processing reports whether a recognition or render is in flight.
func (s *Session) Processing() bool { return s.processing }

// AttachImage accepts an uploaded image and advances to select-conversion.
// Non-image input is rejected with ErrInvalidInput and the stage remains
// upload, re-prompting the user.
func (s *Session) AttachImage(data []byte, mime string) error {
	if s.stage != StageUpload {
		return fmt.Errorf("%w: attach image in stage %s", ErrTransition, s.stage)
	}
	if len(data) == 0 || !strings.HasPrefix(mime, "image/") {
		return fmt.Errorf("%w: expected an image upload, got %q", types.ErrInvalidInput, mime)
	}
	s.image = data
	s.mime = mime
	s.stage = StageSelectConversion
	return nil
}

// SelectConversion records the chosen type and enters the matching
// processing stage: direct-processing for image-to-pdf, ocr-processing for
// everything else.
func (s *Session) SelectConversion(t types.ConversionType) error {
	if s.stage != StageSelectConversion {
		return fmt.Errorf("%w: select conversion in stage %s", ErrTransition, s.stage)
	}
	if !t.Valid() {
		return fmt.Errorf("%w: unknown conversion type %q", types.ErrInvalidInput, t)
	}
	s.convType = t
	s.processing = true
	if t.UsesOCR() {
		s.stage = StageOCRProcessing
	} else {
		s.stage = StageDirectProcessing
	}
	return nil
}

// CompleteDirect finishes the direct image-to-PDF render and resets the
// session for the next upload.
func (s *Session) CompleteDirect() error {
	if s.stage != StageDirectProcessing {
		return fmt.Errorf("%w: complete direct render in stage %s", ErrTransition, s.stage)
	}
	s.Reset()
	return nil
}

// CompleteOCR records the recognized text. For image-to-ocr the session
// enters editing; auto-export types stay in ocr-processing until the
// caller exports and calls FinishExport.
func (s *Session) CompleteOCR(text string) error {
	if s.stage != StageOCRProcessing {
		return fmt.Errorf("%w: complete OCR in stage %s", ErrTransition, s.stage)
	}
	s.extracted = text
	s.processing = false
	if s.convType == types.ConvertImageToOCR {
		s.stage = StageEditing
	}
	return nil
}

// FinishExport ends an auto-export or editing session and resets for the
// next upload.
func (s *Session) FinishExport() error {
	if s.stage != StageOCRProcessing && s.stage != StageEditing {
		return fmt.Errorf("%w: finish export in stage %s", ErrTransition, s.stage)
	}
	s.Reset()
	return nil
}

// Back returns to select-conversion, clearing the chosen type. It is
// reachable from direct-processing and editing only; a running OCR cannot
// be backed out of.
func (s *Session) Back() error {
	if s.stage != StageDirectProcessing && s.stage != StageEditing {
		return fmt.Errorf("%w: back in stage %s", ErrTransition, s.stage)
	}
	s.convType = ""
	s.extracted = ""
	s.processing = false
	s.stage = StageSelectConversion
	return nil
}

// Fail marks the in-flight processing as finished without leaving the
// current stage, so the user can re-trigger the failed step.
func (s *Session) Fail() {
	s.processing = false
}

// Reset clears every transient field in one operation: image, conversion
// type, extracted text, and the processing flag. No stale data survives
// into the next session.
func (s *Session) Reset() {
	s.stage = StageUpload
	s.image = nil
	s.mime = ""
	s.convType = ""
	s.extracted = ""
	s.processing = false
}
