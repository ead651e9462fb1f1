// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	// Direct rendering accepts whatever the camera or scanner produced.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/mvasko/notescan/pkg/types"
)

// imagePDFMargin is the page margin for the direct render, in mm.
const imagePDFMargin = 10.0

// ImagePDF renders the source image onto a single A4 page, scaled to fit
// within the margins on whichever axis is constrained and centered on the
// other, preserving aspect ratio. No text extraction is involved.
func ImagePDF(data []byte, now time.Time) (pdfBytes []byte, filename string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: decoding image: %v", types.ErrInvalidInput, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: image has no dimensions", types.ErrInvalidInput)
	}

	// fpdf embeds JPEG, PNG, and GIF natively; everything else is
	// re-encoded to PNG first.
	imageType, payload, err := embeddable(format, data)
	if err != nil {
		return nil, "", err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	imgRatio := float64(cfg.Width) / float64(cfg.Height)
	pageRatio := pageW / pageH

	var w, h, x, y float64
	if imgRatio > pageRatio {
		// Wider than the page: width is the constrained axis.
		w = pageW - 2*imagePDFMargin
		h = w / imgRatio
		x = imagePDFMargin
		y = (pageH - h) / 2
	} else {
		// Taller than the page: height is the constrained axis.
		h = pageH - 2*imagePDFMargin
		w = h * imgRatio
		x = (pageW - w) / 2
		y = imagePDFMargin
	}

	opts := fpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader("source", opts, bytes.NewReader(payload))
	pdf.ImageOptions("source", x, y, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("%w: rendering image PDF: %v", types.ErrEncoding, err)
	}
	if err := validatePDF(buf.Bytes()); err != nil {
		return nil, "", err
	}

	filename = fmt.Sprintf("handwritten-notes-%d.pdf", now.UnixMilli())
	return buf.Bytes(), filename, nil
}

// WriteImagePDF renders data and writes the result into dir, returning
// the written path.
func WriteImagePDF(dir string, data []byte, now time.Time) (string, error) {
	pdfBytes, name, err := ImagePDF(data, now)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func embeddable(format string, data []byte) (imageType string, payload []byte, err error) {
	switch format {
	case "jpeg":
		return "JPEG", data, nil
	case "png":
		return "PNG", data, nil
	case "gif":
		return "GIF", data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("%w: decoding %s image: %v", types.ErrInvalidInput, format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", nil, fmt.Errorf("%w: converting %s image: %v", types.ErrEncoding, format, err)
	}
	return "PNG", buf.Bytes(), nil
}
