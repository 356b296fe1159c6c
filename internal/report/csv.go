package report

import (
	"bytes"
	"strings"
)

// EncodeCSV writes the header line unquoted, then every cell wrapped in
// double quotes with inner quotes doubled. Lines are joined by "\n" with no
// trailing newline.
func EncodeCSV(t *Tabular) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteString(strings.Join(t.Headers, ","))
	for _, row := range t.Rows {
		b.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(FormatCell(cell), `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.Bytes(), nil
}
