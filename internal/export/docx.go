// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/mvasko/notescan/pkg/types"
)

// DOCX run sizes are half-points: 28 = 14pt title, 20 = 10pt date,
// 24 = 12pt body. The date paragraph uses a muted gray.
const (
	docxTitleSize = "28"
	docxDateSize  = "20"
	docxBodySize  = "24"
	docxDateColor = "666666"
)

// DocxEncoder produces a structured word-processor document: a bold title
// paragraph, a muted date paragraph, a blank separator, then one paragraph
// per newline-delimited line of the body.
type DocxEncoder struct{}

func (DocxEncoder) Format() Format { return FormatDOCX }

func (DocxEncoder) Encode(doc TextDocument) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	w.AddParagraph().AddText(doc.Title).Size(docxTitleSize).Bold()
	w.AddParagraph().AddText("Created: " + doc.Created.Format(dateFmt)).
		Size(docxDateSize).Color(docxDateColor)
	w.AddParagraph().AddText("")

	for _, line := range BodyLines(doc.Text) {
		w.AddParagraph().AddText(line).Size(docxBodySize)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: rendering DOCX: %v", types.ErrEncoding, err)
	}
	return buf.Bytes(), nil
}

// BodyLines splits text into its newline-delimited lines, each of which
// becomes one body paragraph. Empty lines are kept: they are deliberate
// paragraph breaks in the source.
func BodyLines(text string) []string {
	return strings.Split(text, "\n")
}
