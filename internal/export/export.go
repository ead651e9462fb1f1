// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export turns extracted text (or the source image itself) into
// downloadable files: PDF, DOCX, and plain text. Encoders are pure with
// respect to their inputs; a failure is reported as a typed encoding
// error, never as a silently corrupt file.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// Format identifies an output file format for text exports.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

// Valid reports whether f is a supported text export format.
func (f Format) Valid() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatTXT:
		return true
	}
	return false
}

// TextDocument is the input to every text encoder.
type TextDocument struct {
	Title   string
	Text    string
	Created time.Time
}

// dateFmt renders the creation date in headers and date lines.
const dateFmt = "2006-01-02"

// Encoder produces the bytes of one output format.
type Encoder interface {
	Format() Format
	Encode(doc TextDocument) ([]byte, error)
}

// EncoderFor returns the encoder for format.
func EncoderFor(format Format) (Encoder, error) {
	switch format {
	case FormatPDF:
		return PDFEncoder{}, nil
	case FormatDOCX:
		return DocxEncoder{}, nil
	case FormatTXT:
		return TxtEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q: use pdf, docx, or txt", format)
	}
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeTitle replaces every non-alphanumeric character with an
// underscore, yielding a filesystem-safe file stem.
func SanitizeTitle(title string) string {
	return nonAlphanumeric.ReplaceAllString(title, "_")
}

// FileName builds the output file name from a sanitized title.
func FileName(title string, format Format) string {
	return SanitizeTitle(title) + "." + string(format)
}

// WriteDocument encodes doc in the given format and writes it into dir,
// creating the directory if needed. It returns the written path.
func WriteDocument(dir string, doc TextDocument, format Format) (string, error) {
	enc, err := EncoderFor(format)
	if err != nil {
		return "", err
	}
	data, err := enc.Encode(doc)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, FileName(doc.Title, format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
