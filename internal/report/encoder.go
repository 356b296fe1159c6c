package report

import (
	"context"
	"fmt"
	"time"
)

// Encoder serializes a Tabular into one of the supported formats.
type Encoder struct {
	pdf *PDFRenderer
}

func NewEncoder(pdf *PDFRenderer) *Encoder {
	if pdf == nil {
		pdf = NewPDFRenderer(DefaultTheme(), nil, nil)
	}
	return &Encoder{pdf: pdf}
}

// Encode validates t and returns its serialized bytes. generatedAt is
// stamped into pdf output only.
func (e *Encoder) Encode(ctx context.Context, t *Tabular, format Format, generatedAt time.Time) ([]byte, error) {
	switch format {
	case FormatCSV:
		return EncodeCSV(t)
	case FormatJSON:
		return EncodeJSON(t)
	case FormatPDF:
		return e.pdf.Render(ctx, t, generatedAt)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
