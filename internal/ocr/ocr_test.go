// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mvasko/notescan/pkg/types"
)

// fakeEngine implements Engine for testing. It emits the configured
// progress reports, then returns canned text or an error.
type fakeEngine struct {
	text     string
	err      error
	reports  []Progress
	delay    time.Duration
	gotInput Input
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(ctx context.Context, in Input, report ProgressFunc) (Result, error) {
	f.gotInput = in
	for _, p := range f.reports {
		report(p)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	if f.err != nil {
		return Result{}, f.err
	}
	return Result{Text: f.text}, nil
}

func TestAdapterRecognize(t *testing.T) {
	eng := &fakeEngine{text: "extracted text"}
	a := NewAdapter(eng, types.OCRConfig{})

	text, err := a.Recognize(context.Background(), []byte("img"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if text != "extracted text" {
		t.Errorf("text = %q", text)
	}
	if eng.gotInput.Language != "eng" {
		t.Errorf("language = %q, want default eng", eng.gotInput.Language)
	}
}

func TestAdapterRecognize_EngineFailure(t *testing.T) {
	eng := &fakeEngine{err: errors.New("trained data missing")}
	a := NewAdapter(eng, types.OCRConfig{Language: "deu"})

	text, err := a.Recognize(context.Background(), []byte("img"), nil)
	if !errors.Is(err, types.ErrRecognition) {
		t.Fatalf("error = %v, want ErrRecognition", err)
	}
	if text != "" {
		t.Errorf("no partial text expected on failure, got %q", text)
	}
}

func TestAdapterRecognize_Timeout(t *testing.T) {
	eng := &fakeEngine{text: "late", delay: 200 * time.Millisecond}
	a := NewAdapter(eng, types.OCRConfig{Timeout: 10 * time.Millisecond})

	_, err := a.Recognize(context.Background(), []byte("img"), nil)
	if !errors.Is(err, types.ErrRecognition) {
		t.Fatalf("error = %v, want ErrRecognition on timeout", err)
	}
}

func TestAdapterRecognize_ProgressMonotonic(t *testing.T) {
	eng := &fakeEngine{
		text: "ok",
		reports: []Progress{
			{Fraction: 0.1, Status: "a"},
			{Fraction: 0.5, Status: "b"},
			{Fraction: 0.3, Status: "c"}, // engine regression, must be flattened
			{Fraction: 1.7, Status: "d"}, // out of range, must be clamped
		},
	}
	a := NewAdapter(eng, types.OCRConfig{})

	var got []float64
	_, err := a.Recognize(context.Background(), []byte("img"), func(p Progress) {
		got = append(got, p.Fraction)
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0.1, 0.5, 0.5, 1}
	if len(got) != len(want) {
		t.Fatalf("got %d reports, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("report %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPhaseFor(t *testing.T) {
	tests := []struct {
		fraction float64
		want     string
	}{
		{-0.5, "Loading Image"},
		{0, "Loading Image"},
		{0.19, "Loading Image"},
		{0.2, "Initializing OCR Engine"},
		{0.45, "Analyzing Handwriting"},
		{0.6, "Extracting Text"},
		{0.84, "Extracting Text"},
		{0.85, "Finalizing Results"},
		{1, "Finalizing Results"},
		{2.5, "Finalizing Results"},
	}

	for _, tt := range tests {
		if got := PhaseFor(DefaultPhases, tt.fraction); got != tt.want {
			t.Errorf("PhaseFor(%v) = %q, want %q", tt.fraction, got, tt.want)
		}
	}

	if got := PhaseFor(nil, 0.5); got != "" {
		t.Errorf("empty table should map to %q, got %q", "", got)
	}
}
