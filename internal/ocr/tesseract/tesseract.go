// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tesseract provides the gosseract-backed production OCR engine.
// Recognition runs entirely on the local machine.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/mvasko/notescan/internal/ocr"
)

// Engine implements ocr.Engine using the Tesseract C library through
// gosseract. A fresh client is created per recognition; clients are not
// safe to share.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// NewEngine constructs a Tesseract-backed engine.
func NewEngine() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs Tesseract over the input image. Progress checkpoints are
// coarse: Tesseract does not stream completion, so fractions are emitted
// at the steps the engine actually reaches.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input, report ocr.ProgressFunc) (ocr.Result, error) {
	if report == nil {
		report = func(ocr.Progress) {}
	}

	report(ocr.Progress{Fraction: 0, Status: "loading image"})

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	report(ocr.Progress{Fraction: 0.25, Status: "initializing tesseract"})

	if in.Language != "" {
		if err := c.SetLanguage(in.Language); err != nil {
			return ocr.Result{}, fmt.Errorf("set language %q: %w", in.Language, err)
		}
	}

	select {
	case <-ctx.Done():
		return ocr.Result{}, ctx.Err()
	default:
	}

	report(ocr.Progress{Fraction: 0.45, Status: "recognizing text"})
	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}

	report(ocr.Progress{Fraction: 0.9, Status: "finalizing"})
	res := ocr.Result{Text: strings.TrimSpace(text)}
	report(ocr.Progress{Fraction: 1, Status: "done"})
	return res, nil
}
