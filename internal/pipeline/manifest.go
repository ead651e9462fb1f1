// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/mvasko/notescan/internal/export"
	"github.com/mvasko/notescan/pkg/types"
)

// Manifest is a YAML batch description: a list of images to convert in
// order.
type Manifest struct {
	Jobs []Job `yaml:"jobs"`
}

// Job is one conversion in a manifest.
type Job struct {
	Image   string               `yaml:"image"`
	Type    types.ConversionType `yaml:"type"`
	Title   string               `yaml:"title,omitempty"`
	Formats []string             `yaml:"formats,omitempty"`
	Save    bool                 `yaml:"save,omitempty"`
}

// ReadManifest loads and validates a manifest file.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(m.Jobs) == 0 {
		return nil, fmt.Errorf("manifest %s has no jobs", path)
	}
	for i, job := range m.Jobs {
		if job.Image == "" {
			return nil, fmt.Errorf("manifest job %d has no image", i)
		}
		if !job.Type.Valid() {
			return nil, fmt.Errorf("manifest job %d has invalid type %q", i, job.Type)
		}
		for _, f := range job.Formats {
			if !export.Format(f).Valid() {
				return nil, fmt.Errorf("manifest job %d has invalid format %q", i, f)
			}
		}
	}
	return &m, nil
}

// BatchResult summarizes a manifest run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the number of jobs attempted.
func (r BatchResult) Total() int { return r.Converted + r.Failed }

// HasFailures reports whether any job failed.
func (r BatchResult) HasFailures() bool { return r.Failed > 0 }

// RunManifest converts every job in order. A failing job is reported and
// counted; the batch continues. Each job gets its own session.
func (r *Runner) RunManifest(ctx context.Context, m *Manifest) BatchResult {
	var result BatchResult
	for _, job := range m.Jobs {
		opts := Options{
			Type:  job.Type,
			Title: job.Title,
			Save:  job.Save,
		}
		for _, f := range job.Formats {
			opts.Formats = append(opts.Formats, export.Format(f))
		}

		if _, err := r.RunFile(ctx, job.Image, opts); err != nil {
			fmt.Fprintf(r.out, "failed: %s (%v)\n", job.Image, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(r.out, "converted: %s\n", job.Image)
		result.Converted++
	}

	fmt.Fprintf(r.out, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}
