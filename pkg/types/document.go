// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// ConversionType selects the output a conversion session produces.
type ConversionType string

const (
	// ConvertImageToPDF renders the source image onto a PDF page directly,
	// without text recognition.
	ConvertImageToPDF ConversionType = "image-to-pdf"

	// ConvertImageToOCR extracts editable text and hands it to the caller
	// for review before any export.
	ConvertImageToOCR ConversionType = "image-to-ocr"

	// ConvertImageToDoc extracts text and immediately writes a DOCX file.
	ConvertImageToDoc ConversionType = "image-to-doc"

	// ConvertImageToTxt extracts text and immediately writes a plain-text file.
	ConvertImageToTxt ConversionType = "image-to-txt"
)

// Valid reports whether t is one of the four supported conversion types.
func (t ConversionType) Valid() bool {
	switch t {
	case ConvertImageToPDF, ConvertImageToOCR, ConvertImageToDoc, ConvertImageToTxt:
		return true
	}
	return false
}

// UsesOCR reports whether the type routes through text recognition.
// Only the direct image-to-pdf render skips it.
func (t ConversionType) UsesOCR() bool {
	return t != ConvertImageToPDF
}

// AutoExports reports whether the type writes its output immediately after
// recognition, without an editing stage.
func (t ConversionType) AutoExports() bool {
	return t == ConvertImageToDoc || t == ConvertImageToTxt
}

// DocumentRecord is a saved unit of converted text and its metadata.
type DocumentRecord struct {
	// ID is an opaque unique identifier assigned at save time.
	ID string `json:"id" yaml:"id"`

	// Title is the display name, user- or timestamp-derived.
	Title string `json:"title" yaml:"title"`

	// Text is the editable body content. May contain newlines.
	Text string `json:"text" yaml:"text"`

	// CreatedAt is set once at creation and never mutated.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// WordCount is a snapshot of the whitespace-delimited token count of
	// Text at save time. It is not recomputed if Text changes elsewhere.
	WordCount int `json:"word_count" yaml:"word_count"`

	// ImagePath optionally references the source image. Best-effort only;
	// the file may no longer exist.
	ImagePath string `json:"image_path,omitempty" yaml:"image_path,omitempty"`
}

// Draft is the caller-supplied part of a DocumentRecord. The store assigns
// ID, CreatedAt, and WordCount on save.
type Draft struct {
	Title     string `json:"title"`
	Text      string `json:"text"`
	ImagePath string `json:"image_path,omitempty"`
}

// CountWords returns the number of whitespace-delimited tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
