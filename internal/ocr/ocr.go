// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ocr wraps a text-recognition engine behind a narrow interface
// with progress reporting and a bounded timeout. The Tesseract-backed
// production engine lives in the tesseract subpackage so that the core
// carries no cgo dependency.
package ocr

import (
	"context"
	"fmt"
	"time"

	"github.com/mvasko/notescan/pkg/types"
)

// Input is a single image submitted for recognition.
type Input struct {
	// Image is the encoded image payload (PNG, JPEG, TIFF, ...).
	Image []byte

	// Language is the trained-data language code, e.g. "eng".
	Language string
}

// Result is the recognition output for one input.
type Result struct {
	// Text is the full extracted text. Empty on failure.
	Text string
}

// Progress is an incremental status report during recognition.
type Progress struct {
	// Fraction is completion in [0, 1], non-decreasing across reports.
	Fraction float64

	// Status is the engine's textual label for the current step.
	Status string
}

// ProgressFunc receives progress reports. Implementations must be cheap;
// they run on the recognition path.
type ProgressFunc func(Progress)

// Engine is the recognition provider contract: one image in, one result
// out. Engines report progress through the supplied callback, which may
// be nil.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input, report ProgressFunc) (Result, error)
}

const (
	defaultLanguage = "eng"
	defaultTimeout  = 2 * time.Minute
)

// Adapter drives an Engine with the configured language and timeout and
// normalizes its failures into recognition errors.
type Adapter struct {
	engine   Engine
	language string
	timeout  time.Duration
}

// NewAdapter wraps engine with cfg, applying defaults for unset fields.
func NewAdapter(engine Engine, cfg types.OCRConfig) *Adapter {
	lang := cfg.Language
	if lang == "" {
		lang = defaultLanguage
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Adapter{engine: engine, language: lang, timeout: timeout}
}

// Recognize extracts text from image. Progress reports are clamped to
// [0, 1] and forced monotonically non-decreasing before reaching report.
// Engine errors and timeout expiry surface as a single recognition
// failure; no partial text is returned.
func (a *Adapter) Recognize(ctx context.Context, image []byte, report ProgressFunc) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	in := Input{Image: image, Language: a.language}

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)

	// The engine may not observe ctx between C-library calls; run it on
	// its own goroutine so the timeout fires regardless. On expiry the
	// goroutine finishes in the background and its result is discarded.
	go func() {
		res, err := a.engine.Recognize(ctx, in, monotonic(report))
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %s: %v", types.ErrRecognition, a.engine.Name(), ctx.Err())
	case out := <-done:
		if out.err != nil {
			return "", fmt.Errorf("%w: %s: %v", types.ErrRecognition, a.engine.Name(), out.err)
		}
		return out.res.Text, nil
	}
}

// monotonic wraps report so fractions never decrease and stay in [0, 1].
// A nil report yields a no-op.
func monotonic(report ProgressFunc) ProgressFunc {
	if report == nil {
		return func(Progress) {}
	}
	var high float64
	return func(p Progress) {
		if p.Fraction < 0 {
			p.Fraction = 0
		}
		if p.Fraction > 1 {
			p.Fraction = 1
		}
		if p.Fraction < high {
			p.Fraction = high
		}
		high = p.Fraction
		report(p)
	}
}
