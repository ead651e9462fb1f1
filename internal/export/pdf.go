// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/mvasko/notescan/pkg/types"
)

// Text-PDF layout, in millimeters on an A4 portrait page.
const (
	pdfMargin     = 20.0
	pdfTitleY     = 20.0
	pdfDateY      = 30.0
	pdfBodyTop    = 45.0
	pdfLineHeight = 7.0
	pdfTitleSize  = 16.0
	pdfDateSize   = 10.0
	pdfBodySize   = 12.0
)

// PDFEncoder lays out a title header, a creation-date line, and the
// word-wrapped body. Overflowing lines continue on additional pages; no
// line is ever dropped.
type PDFEncoder struct{}

func (PDFEncoder) Format() Format { return FormatPDF }

func (PDFEncoder) Encode(doc TextDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "B", pdfTitleSize)
	pdf.Text(pdfMargin, pdfTitleY, tr(doc.Title))

	pdf.SetFont("Helvetica", "", pdfDateSize)
	pdf.Text(pdfMargin, pdfDateY, "Created: "+doc.Created.Format(dateFmt))

	pdf.SetFont("Helvetica", "", pdfBodySize)
	maxLineWidth := pageW - 2*pdfMargin
	lines := pdf.SplitText(tr(doc.Text), maxLineWidth)

	y := pdfBodyTop
	for _, line := range lines {
		if y > pageH-pdfMargin {
			pdf.AddPage()
			y = pdfTitleY
		}
		pdf.Text(pdfMargin, y, line)
		y += pdfLineHeight
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: rendering PDF: %v", types.ErrEncoding, err)
	}
	if err := validatePDF(buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// validatePDF runs the encoded bytes through pdfcpu. Catching a malformed
// document here keeps the corrupt-file failure mode out of user downloads.
func validatePDF(data []byte) error {
	conf := model.NewDefaultConfiguration()
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return fmt.Errorf("%w: validating PDF output: %v", types.ErrEncoding, err)
	}
	return nil
}
