// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

// TxtEncoder writes the simplest rendition: title, a "Created:" line, a
// blank line, then the raw body.
type TxtEncoder struct{}

func (TxtEncoder) Format() Format { return FormatTXT }

func (TxtEncoder) Encode(doc TextDocument) ([]byte, error) {
	content := doc.Title + "\nCreated: " + doc.Created.Format(dateFmt) + "\n\n" + doc.Text
	return []byte(content), nil
}
