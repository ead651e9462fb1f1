// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the conversion stages together: it drives a
// session through upload, type selection, recognition or direct render,
// and export, reporting per-step status to an injected writer. One
// session is in flight at a time; a new conversion starts from a fresh
// session.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mvasko/notescan/internal/export"
	"github.com/mvasko/notescan/internal/ocr"
	"github.com/mvasko/notescan/internal/preprocess"
	"github.com/mvasko/notescan/internal/session"
	"github.com/mvasko/notescan/internal/store"
	"github.com/mvasko/notescan/pkg/types"
)

// Runner executes conversions against a fixed engine, store, and output
// directory.
type Runner struct {
	adapter *ocr.Adapter
	store   store.Store
	outDir  string
	enhance bool
	phases  []ocr.Phase
	out     io.Writer
}

// NewRunner builds a Runner. The store may be nil when saving is not
// needed (e.g. one-shot direct conversions).
func NewRunner(engine ocr.Engine, st store.Store, cfg types.Config, out io.Writer) *Runner {
	outDir := cfg.Export.OutputDir
	if outDir == "" {
		outDir = "output"
	}
	return &Runner{
		adapter: ocr.NewAdapter(engine, cfg.OCR),
		store:   st,
		outDir:  outDir,
		enhance: cfg.OCR.Enhance,
		phases:  ocr.DefaultPhases,
		out:     out,
	}
}

// Options selects what a single Run produces.
type Options struct {
	// Type is the conversion type; it must be one of the four supported
	// values.
	Type types.ConversionType

	// Title names the output document. Empty means a timestamp-derived
	// default.
	Title string

	// Formats lists additional exports for the image-to-ocr path, applied
	// after recognition completes.
	Formats []export.Format

	// Save stores the extracted text as a document record (image-to-ocr
	// path only).
	Save bool

	// ImagePath is the source path recorded on saved documents,
	// best-effort.
	ImagePath string
}

// Outcome reports what a Run produced.
type Outcome struct {
	Type        types.ConversionType
	Text        string
	OutputPaths []string
	Saved       *types.DocumentRecord
}

// DefaultTitle is the display title used when the caller provides none.
func DefaultTitle(now time.Time) string {
	return "Handwritten Notes - " + now.Format("2006-01-02")
}

// Run converts one image. The image is validated, routed through the
// direct render or recognition depending on the type, and the results
// are exported and optionally saved. Failures are reported once and
// never retried; the caller re-runs to retry.
func (r *Runner) Run(ctx context.Context, image []byte, opts Options) (Outcome, error) {
	outcome := Outcome{Type: opts.Type}

	sess := session.New()
	if err := sess.AttachImage(image, preprocess.DetectMIME(image)); err != nil {
		return outcome, err
	}
	if err := sess.SelectConversion(opts.Type); err != nil {
		return outcome, err
	}

	if sess.Stage() == session.StageDirectProcessing {
		path, err := export.WriteImagePDF(r.outDir, image, time.Now())
		if err != nil {
			sess.Fail()
			return outcome, err
		}
		fmt.Fprintf(r.out, "rendered: %s\n", path)
		outcome.OutputPaths = append(outcome.OutputPaths, path)
		return outcome, sess.CompleteDirect()
	}

	// Recognition path.
	input := image
	if r.enhance {
		enhanced, err := preprocess.Enhance(image)
		if err != nil {
			fmt.Fprintf(r.out, "warning: enhancement skipped: %v\n", err)
		} else {
			input = enhanced
		}
	}

	text, err := r.adapter.Recognize(ctx, input, r.reportProgress())
	if err != nil {
		sess.Fail()
		return outcome, err
	}
	if err := sess.CompleteOCR(text); err != nil {
		return outcome, err
	}
	outcome.Text = text

	title := opts.Title
	if title == "" {
		title = DefaultTitle(time.Now())
	}
	doc := export.TextDocument{Title: title, Text: text, Created: time.Now()}

	if opts.Type.AutoExports() {
		format := export.FormatTXT
		if opts.Type == types.ConvertImageToDoc {
			format = export.FormatDOCX
		}
		path, err := export.WriteDocument(r.outDir, doc, format)
		if err != nil {
			sess.Fail()
			return outcome, err
		}
		fmt.Fprintf(r.out, "exported: %s\n", path)
		outcome.OutputPaths = append(outcome.OutputPaths, path)
		return outcome, sess.FinishExport()
	}

	// image-to-ocr: the editing stage. Apply any requested exports and
	// the optional save, then reset for the next upload.
	for _, format := range opts.Formats {
		path, err := export.WriteDocument(r.outDir, doc, format)
		if err != nil {
			sess.Fail()
			return outcome, err
		}
		fmt.Fprintf(r.out, "exported: %s\n", path)
		outcome.OutputPaths = append(outcome.OutputPaths, path)
	}

	if opts.Save {
		if r.store == nil {
			sess.Fail()
			return outcome, fmt.Errorf("no store configured for save")
		}
		rec, err := r.store.Save(ctx, types.Draft{
			Title:     title,
			Text:      text,
			ImagePath: opts.ImagePath,
		})
		if err != nil {
			sess.Fail()
			return outcome, fmt.Errorf("saving document: %w", err)
		}
		fmt.Fprintf(r.out, "saved: %s (%d words)\n", rec.ID, rec.WordCount)
		outcome.Saved = &rec
	}

	return outcome, sess.FinishExport()
}

// RunFile reads an image from disk and converts it, recording the path on
// any saved document.
func (r *Runner) RunFile(ctx context.Context, path string, opts Options) (Outcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Outcome{Type: opts.Type}, fmt.Errorf("reading image %s: %w", path, err)
	}
	if opts.ImagePath == "" {
		opts.ImagePath = path
	}
	return r.Run(ctx, data, opts)
}

// reportProgress prints a line whenever the recognition fraction crosses
// into a new display phase.
func (r *Runner) reportProgress() ocr.ProgressFunc {
	var last string
	return func(p ocr.Progress) {
		label := ocr.PhaseFor(r.phases, p.Fraction)
		if label == last {
			return
		}
		last = label
		fmt.Fprintf(r.out, "  %3.0f%%  %s\n", p.Fraction*100, label)
	}
}
