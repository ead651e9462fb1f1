// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvasko/notescan/internal/export"
	"github.com/mvasko/notescan/internal/ocr/tesseract"
	"github.com/mvasko/notescan/internal/pipeline"
	"github.com/mvasko/notescan/internal/store"
	"github.com/mvasko/notescan/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [image]",
	Short: "Convert a handwritten-notes image into a document",
	Long: `Convert processes one image, or a YAML manifest of images with --batch.

Types:
  image-to-pdf   render the image directly into a PDF, no recognition
  image-to-ocr   recognize text, then export and/or save it
  image-to-doc   recognize text and export a DOCX
  image-to-txt   recognize text and export a TXT

For image-to-ocr, --format selects exports (repeatable) and --save keeps
the extracted text in the document gallery.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	manifestPath, _ := cmd.Flags().GetString("batch")
	if manifestPath == "" && len(args) != 1 {
		return fmt.Errorf("an image path or --batch manifest is required")
	}

	cfg := loadConfig()
	applyOCRFlags(cmd, &cfg)
	if cmd.Flags().Changed("output-dir") {
		cfg.Export.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}

	st, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := pipeline.NewRunner(tesseract.NewEngine(), st, cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if manifestPath != "" {
		m, err := pipeline.ReadManifest(manifestPath)
		if err != nil {
			return err
		}
		result := runner.RunManifest(ctx, m)
		if result.HasFailures() {
			return fmt.Errorf("%d conversion(s) failed", result.Failed)
		}
		return nil
	}

	opts, err := convertOptions(cmd)
	if err != nil {
		return err
	}
	_, err = runner.RunFile(ctx, args[0], opts)
	return err
}

// convertOptions builds the single-image options from flags.
func convertOptions(cmd *cobra.Command) (pipeline.Options, error) {
	convType, _ := cmd.Flags().GetString("type")
	title, _ := cmd.Flags().GetString("title")
	save, _ := cmd.Flags().GetBool("save")
	formats, _ := cmd.Flags().GetStringSlice("format")

	opts := pipeline.Options{
		Type:  types.ConversionType(convType),
		Title: title,
		Save:  save,
	}
	if !opts.Type.Valid() {
		return opts, fmt.Errorf("unknown conversion type %q: use image-to-pdf, image-to-ocr, image-to-doc, or image-to-txt", convType)
	}
	for _, f := range formats {
		format := export.Format(f)
		if !format.Valid() {
			return opts, fmt.Errorf("unknown export format %q: use pdf, docx, or txt", f)
		}
		opts.Formats = append(opts.Formats, format)
	}
	return opts, nil
}

// applyOCRFlags overrides recognition settings from command flags.
func applyOCRFlags(cmd *cobra.Command, cfg *types.Config) {
	if cmd.Flags().Changed("language") {
		cfg.OCR.Language, _ = cmd.Flags().GetString("language")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.OCR.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("enhance") {
		cfg.OCR.Enhance, _ = cmd.Flags().GetBool("enhance")
	}
}

func init() {
	convertCmd.Flags().String("type", "image-to-ocr", "conversion type: image-to-pdf, image-to-ocr, image-to-doc, or image-to-txt")
	convertCmd.Flags().String("title", "", "document title (default: timestamp-derived)")
	convertCmd.Flags().StringSlice("format", nil, "export format for image-to-ocr: pdf, docx, or txt (repeatable)")
	convertCmd.Flags().Bool("save", false, "save the extracted text to the document gallery")
	convertCmd.Flags().String("batch", "", "YAML manifest of conversions to run in order")
	convertCmd.Flags().String("output-dir", "", "directory for exported files")
	convertCmd.Flags().String("language", "", "recognition language code, e.g. eng")
	convertCmd.Flags().Duration("timeout", 0, "recognition timeout per image")
	convertCmd.Flags().Bool("enhance", false, "pre-process the image before recognition")

	rootCmd.AddCommand(convertCmd)
}
