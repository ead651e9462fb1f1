// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/mvasko/notescan/internal/export"
	"github.com/mvasko/notescan/internal/ocr"
	"github.com/mvasko/notescan/internal/store"
	"github.com/mvasko/notescan/pkg/types"
)

// fakeEngine returns canned text and counts invocations.
type fakeEngine struct {
	text  string
	err   error
	calls int
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Recognize(ctx context.Context, in ocr.Input, report ocr.ProgressFunc) (ocr.Result, error) {
	e.calls++
	if report != nil {
		report(ocr.Progress{Fraction: 0.1})
		report(ocr.Progress{Fraction: 0.5})
		report(ocr.Progress{Fraction: 1})
	}
	if e.err != nil {
		return ocr.Result{}, e.err
	}
	return ocr.Result{Text: e.text}, nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestRunner(t *testing.T, engine ocr.Engine, out *bytes.Buffer) (*Runner, string, store.Store) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.New(types.StoreConfig{Backend: types.StoreJSON, Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := types.Config{
		Export: types.ExportConfig{OutputDir: dir},
	}
	return NewRunner(engine, st, cfg, out), dir, st
}

func TestRunDirectPDF(t *testing.T) {
	engine := &fakeEngine{text: "never used"}
	var out bytes.Buffer
	r, dir, _ := newTestRunner(t, engine, &out)

	outcome, err := r.Run(context.Background(), testPNG(t), Options{Type: types.ConvertImageToPDF})
	if err != nil {
		t.Fatal(err)
	}
	if engine.calls != 0 {
		t.Errorf("direct conversion invoked the engine %d times", engine.calls)
	}
	if len(outcome.OutputPaths) != 1 {
		t.Fatalf("output paths = %v, want one", outcome.OutputPaths)
	}
	name := filepath.Base(outcome.OutputPaths[0])
	if !strings.HasPrefix(name, "handwritten-notes-") || !strings.HasSuffix(name, ".pdf") {
		t.Errorf("file name = %q", name)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
	if !strings.Contains(out.String(), "rendered: ") {
		t.Errorf("status output = %q", out.String())
	}
}

func TestRunAutoExport(t *testing.T) {
	tests := []struct {
		convType types.ConversionType
		ext      string
	}{
		{types.ConvertImageToTxt, ".txt"},
		{types.ConvertImageToDoc, ".docx"},
	}
	for _, tt := range tests {
		t.Run(string(tt.convType), func(t *testing.T) {
			engine := &fakeEngine{text: "Meeting notes\nSecond line"}
			var out bytes.Buffer
			r, _, _ := newTestRunner(t, engine, &out)

			outcome, err := r.Run(context.Background(), testPNG(t), Options{
				Type:  tt.convType,
				Title: "Standup",
			})
			if err != nil {
				t.Fatal(err)
			}
			if engine.calls != 1 {
				t.Errorf("engine called %d times, want 1", engine.calls)
			}
			if outcome.Text != "Meeting notes\nSecond line" {
				t.Errorf("text = %q", outcome.Text)
			}
			if len(outcome.OutputPaths) != 1 {
				t.Fatalf("output paths = %v", outcome.OutputPaths)
			}
			if !strings.HasSuffix(outcome.OutputPaths[0], tt.ext) {
				t.Errorf("path %q, want %s suffix", outcome.OutputPaths[0], tt.ext)
			}
			if _, err := os.Stat(outcome.OutputPaths[0]); err != nil {
				t.Errorf("exported file missing: %v", err)
			}
			if !strings.Contains(out.String(), "exported: ") {
				t.Errorf("status output = %q", out.String())
			}
		})
	}
}

func TestRunOCRWithExportAndSave(t *testing.T) {
	engine := &fakeEngine{text: "hello from the page"}
	var out bytes.Buffer
	r, _, st := newTestRunner(t, engine, &out)

	outcome, err := r.Run(context.Background(), testPNG(t), Options{
		Type:    types.ConvertImageToOCR,
		Title:   "Field Notes",
		Formats: []export.Format{export.FormatTXT, export.FormatPDF},
		Save:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(outcome.OutputPaths) != 2 {
		t.Fatalf("output paths = %v, want two", outcome.OutputPaths)
	}
	if outcome.Saved == nil {
		t.Fatal("expected a saved record")
	}
	if outcome.Saved.WordCount != 4 {
		t.Errorf("word count = %d, want 4", outcome.Saved.WordCount)
	}

	records, err := st.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Title != "Field Notes" {
		t.Errorf("stored records = %+v", records)
	}

	// Progress reaches the terminal phase label exactly once.
	if got := strings.Count(out.String(), "Finalizing Results"); got != 1 {
		t.Errorf("terminal phase printed %d times:\n%s", got, out.String())
	}
}

func TestRunOCRDefaultTitle(t *testing.T) {
	engine := &fakeEngine{text: "text"}
	var out bytes.Buffer
	r, _, st := newTestRunner(t, engine, &out)

	_, err := r.Run(context.Background(), testPNG(t), Options{
		Type: types.ConvertImageToOCR,
		Save: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	records, err := st.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || !strings.HasPrefix(records[0].Title, "Handwritten Notes - ") {
		t.Errorf("records = %+v", records)
	}
}

func TestRunAcceptsTIFFUpload(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: 80, G: 90, B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}

	engine := &fakeEngine{text: "scanned text"}
	var out bytes.Buffer
	r, _, _ := newTestRunner(t, engine, &out)

	// TIFF sniffs as octet-stream in the stdlib table; the upload boundary
	// must still admit it via the magic fallback.
	outcome, err := r.Run(context.Background(), buf.Bytes(), Options{Type: types.ConvertImageToTxt})
	if err != nil {
		t.Fatal(err)
	}
	if engine.calls != 1 {
		t.Errorf("engine called %d times, want 1", engine.calls)
	}
	if len(outcome.OutputPaths) != 1 {
		t.Errorf("output paths = %v, want one", outcome.OutputPaths)
	}
}

func TestRunRejectsNonImage(t *testing.T) {
	engine := &fakeEngine{}
	var out bytes.Buffer
	r, _, _ := newTestRunner(t, engine, &out)

	_, err := r.Run(context.Background(), []byte("plain text, not an image"), Options{
		Type: types.ConvertImageToOCR,
	})
	if !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("err = %v, want invalid input", err)
	}
	if engine.calls != 0 {
		t.Errorf("engine called %d times on rejected upload", engine.calls)
	}
}

func TestRunEngineFailure(t *testing.T) {
	engine := &fakeEngine{err: errors.New("no text regions")}
	var out bytes.Buffer
	r, dir, _ := newTestRunner(t, engine, &out)

	outcome, err := r.Run(context.Background(), testPNG(t), Options{Type: types.ConvertImageToTxt})
	if !errors.Is(err, types.ErrRecognition) {
		t.Errorf("err = %v, want recognition failure", err)
	}
	if len(outcome.OutputPaths) != 0 {
		t.Errorf("failed run produced outputs: %v", outcome.OutputPaths)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".txt") {
			t.Errorf("failed run left export %s on disk", e.Name())
		}
	}
}

func TestRunManifest(t *testing.T) {
	engine := &fakeEngine{text: "batch text"}
	var out bytes.Buffer
	r, dir, _ := newTestRunner(t, engine, &out)

	good := filepath.Join(dir, "page1.png")
	if err := os.WriteFile(good, testPNG(t), 0o644); err != nil {
		t.Fatal(err)
	}

	m := &Manifest{Jobs: []Job{
		{Image: good, Type: types.ConvertImageToTxt},
		{Image: filepath.Join(dir, "missing.png"), Type: types.ConvertImageToTxt},
	}}

	result := r.RunManifest(context.Background(), m)
	if result.Converted != 1 || result.Failed != 1 {
		t.Errorf("result = %+v", result)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}
	status := out.String()
	if !strings.Contains(status, "converted: "+good) {
		t.Errorf("missing converted line:\n%s", status)
	}
	if !strings.Contains(status, "failed: ") {
		t.Errorf("missing failed line:\n%s", status)
	}
	if !strings.Contains(status, "Batch summary: 1 converted, 1 failed (total: 2)") {
		t.Errorf("missing summary:\n%s", status)
	}
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	path := write("good.yaml", `jobs:
  - image: notes.png
    type: image-to-txt
  - image: page2.jpg
    type: image-to-ocr
    title: Page Two
    formats: [txt, pdf]
    save: true
`)
	m, err := ReadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Jobs) != 2 {
		t.Fatalf("jobs = %+v", m.Jobs)
	}
	if m.Jobs[1].Title != "Page Two" || !m.Jobs[1].Save || len(m.Jobs[1].Formats) != 2 {
		t.Errorf("job = %+v", m.Jobs[1])
	}

	bad := []struct {
		name    string
		content string
	}{
		{"empty.yaml", "jobs: []\n"},
		{"noimage.yaml", "jobs:\n  - type: image-to-txt\n"},
		{"badtype.yaml", "jobs:\n  - image: a.png\n    type: image-to-html\n"},
		{"badformat.yaml", "jobs:\n  - image: a.png\n    type: image-to-ocr\n    formats: [epub]\n"},
	}
	for _, tt := range bad {
		if _, err := ReadManifest(write(tt.name, tt.content)); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}
