// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preprocess enhances a scanned image before recognition.
// Handwriting on paper photographs badly: low contrast, uneven lighting,
// soft focus. The enhancement chain normalizes that before Tesseract
// sees the pixels.
package preprocess

import (
	"bytes"
	"fmt"
	"image"
	"net/http"

	"github.com/disintegration/imaging"

	// Decoders beyond the stdlib set, for phone and scanner output.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/mvasko/notescan/pkg/types"
)

// Enhance applies the document-enhancement chain: grayscale, contrast,
// sharpen, brightness, gamma. The result is re-encoded as PNG.
func Enhance(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %v", types.ErrInvalidInput, err)
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)
	img = imaging.AdjustBrightness(img, 10)
	img = imaging.AdjustGamma(img, 1.2)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding enhanced image: %w", err)
	}
	return buf.Bytes(), nil
}

// DetectMIME sniffs the content type of data. It is the upload boundary
// check: anything that does not sniff as image/* is rejected upstream.
// The WHATWG sniff table behind http.DetectContentType carries no TIFF
// signature, so scanner output gets its own magic check.
func DetectMIME(data []byte) string {
	mime := http.DetectContentType(data)
	if mime == "application/octet-stream" && isTIFF(data) {
		return "image/tiff"
	}
	return mime
}

// isTIFF matches the little-endian (II*\0) and big-endian (MM\0*) TIFF
// headers.
func isTIFF(data []byte) bool {
	return len(data) >= 4 &&
		(bytes.Equal(data[:4], []byte("II*\x00")) || bytes.Equal(data[:4], []byte("MM\x00*")))
}

// Dimensions returns the pixel width and height of an encoded image
// without decoding the full pixel data.
func Dimensions(data []byte) (w, h int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: reading image dimensions: %v", types.ErrInvalidInput, err)
	}
	return cfg.Width, cfg.Height, nil
}
