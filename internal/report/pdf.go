package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin      = 15.0
	pdfFontFamily  = "Helvetica"
	pdfBodySize    = 9.0
	pdfCellPadding = 2.0
	pdfLineHeight  = 4.2
	pdfFooterSpace = 10.0
	logoHeight     = 12.0
)

type RGB struct {
	R, G, B int
}

// ParseHexColor accepts "#RRGGBB" or "RRGGBB".
func ParseHexColor(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Theme holds the brand styling of pdf output.
type Theme struct {
	ShortName  string
	Primary    RGB // header text
	Secondary  RGB // header fill and title text
	StripeFill RGB
}

func DefaultTheme() Theme {
	return Theme{
		ShortName:  "CW",
		Primary:    RGB{250, 204, 21},
		Secondary:  RGB{11, 37, 69},
		StripeFill: RGB{240, 244, 248},
	}
}

// ThemeFromHex builds a theme from configured hex colors, keeping the
// default for any color that does not parse.
func ThemeFromHex(shortName, primary, secondary string) Theme {
	theme := DefaultTheme()
	if shortName != "" {
		theme.ShortName = shortName
	}
	if c, err := ParseHexColor(primary); err == nil {
		theme.Primary = c
	}
	if c, err := ParseHexColor(secondary); err == nil {
		theme.Secondary = c
	}
	return theme
}

// LogoProvider returns the brand logo, or nil when none is available.
type LogoProvider interface {
	Load(ctx context.Context) *Logo
}

// PDFRenderer draws a Tabular as a paginated A4 table.
type PDFRenderer struct {
	theme Theme
	logo  LogoProvider
	loc   *time.Location
}

func NewPDFRenderer(theme Theme, logo LogoProvider, loc *time.Location) *PDFRenderer {
	if loc == nil {
		loc = time.Local
	}
	return &PDFRenderer{theme: theme, logo: logo, loc: loc}
}

// Render produces the pdf document. A missing or broken logo is never fatal.
func (r *PDFRenderer) Render(ctx context.Context, t *Tabular, generatedAt time.Time) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	var logo *Logo
	if r.logo != nil {
		logo = r.logo.Load(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(t.Title, true)
	pdf.SetCreator(r.theme.ShortName, true)
	pdf.SetCreationDate(generatedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	const logoName = "brand-logo"
	logoWidth := 0.0
	if logo != nil {
		pdf.RegisterImageOptionsReader(logoName, fpdf.ImageOptions{ImageType: logo.Type}, bytes.NewReader(logo.Data))
		if pdf.Err() {
			pdf.ClearError()
			logo = nil
		} else {
			logoWidth = logoHeight * float64(logo.Width) / float64(logo.Height)
		}
	}

	pageW, pageH := pdf.GetPageSize()
	generated := "Generated: " + generatedAt.In(r.loc).Format(TimestampLayout)
	tableTop := pdfMargin + 30

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(pdfFontFamily, "B", 16)
		pdf.SetTextColor(r.theme.Secondary.R, r.theme.Secondary.G, r.theme.Secondary.B)
		if logo != nil {
			pdf.ImageOptions(logoName, pdfMargin, pdfMargin, logoWidth, logoHeight, false,
				fpdf.ImageOptions{ImageType: logo.Type}, 0, "")
			pdf.Text(pdfMargin+logoWidth+5, pdfMargin+8, tr(t.Title))
		} else {
			pdf.Text(pdfMargin, pdfMargin+6, tr(r.theme.ShortName))
			pdf.Text(pdfMargin, pdfMargin+14, tr(t.Title))
		}
		pdf.SetFont(pdfFontFamily, "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.Text(pdfMargin, pdfMargin+22, tr(generated))
	})
	pdf.SetFooterFunc(func() {
		pdf.SetFont(pdfFontFamily, "", 8)
		pdf.SetTextColor(150, 150, 150)
		label := fmt.Sprintf("Page %d", pdf.PageNo())
		pdf.Text(pageW-pdfMargin-pdf.GetStringWidth(label), pageH-pdfMargin+5, label)
	})

	widths := r.columnWidths(pdf, tr, t, pageW-2*pdfMargin)

	pdf.AddPage()
	pdf.SetY(tableTop)
	r.drawHeaderRow(pdf, tr, t.Headers, widths)

	bottom := pageH - pdfMargin - pdfFooterSpace
	for i, row := range t.Rows {
		pdf.SetFont(pdfFontFamily, "", pdfBodySize)
		cells := make([][]string, len(row))
		lines := 1
		for j, cell := range row {
			cells[j] = wrapText(pdf.GetStringWidth, tr(FormatCell(cell)), widths[j]-2*pdfCellPadding)
			if len(cells[j]) > lines {
				lines = len(cells[j])
			}
		}
		height := float64(lines)*pdfLineHeight + 2*pdfCellPadding

		if pdf.GetY()+height > bottom {
			pdf.AddPage()
			pdf.SetY(tableTop)
			r.drawHeaderRow(pdf, tr, t.Headers, widths)
			pdf.SetFont(pdfFontFamily, "", pdfBodySize)
		}

		pdf.SetTextColor(40, 40, 40)
		var fill *RGB
		if i%2 == 0 {
			fill = &r.theme.StripeFill
		}
		drawRow(pdf, cells, widths, height, fill)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) drawHeaderRow(pdf *fpdf.Fpdf, tr func(string) string, headers []string, widths []float64) {
	pdf.SetFont(pdfFontFamily, "B", pdfBodySize)
	cells := make([][]string, len(headers))
	lines := 1
	for i, h := range headers {
		cells[i] = wrapText(pdf.GetStringWidth, tr(h), widths[i]-2*pdfCellPadding)
		if len(cells[i]) > lines {
			lines = len(cells[i])
		}
	}
	pdf.SetTextColor(r.theme.Primary.R, r.theme.Primary.G, r.theme.Primary.B)
	drawRow(pdf, cells, widths, float64(lines)*pdfLineHeight+2*pdfCellPadding, &r.theme.Secondary)
}

func drawRow(pdf *fpdf.Fpdf, cells [][]string, widths []float64, height float64, fill *RGB) {
	x, y := pdfMargin, pdf.GetY()
	if fill != nil {
		total := 0.0
		for _, w := range widths {
			total += w
		}
		pdf.SetFillColor(fill.R, fill.G, fill.B)
		pdf.Rect(x, y, total, height, "F")
	}
	for j, lines := range cells {
		for k, line := range lines {
			pdf.SetXY(x+pdfCellPadding, y+pdfCellPadding+float64(k)*pdfLineHeight)
			pdf.CellFormat(widths[j]-2*pdfCellPadding, pdfLineHeight, line, "", 0, "L", false, 0, "")
		}
		x += widths[j]
	}
	pdf.SetXY(pdfMargin, y+height)
}

// columnWidths measures the natural width of every column and fits the
// result to the printable page width.
func (r *PDFRenderer) columnWidths(pdf *fpdf.Fpdf, tr func(string) string, t *Tabular, avail float64) []float64 {
	natural := make([]float64, len(t.Headers))
	pdf.SetFont(pdfFontFamily, "B", pdfBodySize)
	for i, h := range t.Headers {
		natural[i] = pdf.GetStringWidth(tr(h))
	}
	pdf.SetFont(pdfFontFamily, "", pdfBodySize)
	for _, row := range t.Rows {
		for i, cell := range row {
			if w := pdf.GetStringWidth(tr(FormatCell(cell))); w > natural[i] {
				natural[i] = w
			}
		}
	}
	for i := range natural {
		natural[i] += 2*pdfCellPadding + 2
	}
	return fitColumns(natural, avail)
}

// fitColumns scales natural widths so they sum to avail. When the table is
// too wide, columns narrower than an even share keep their width and the
// rest shrink proportionally.
func fitColumns(natural []float64, avail float64) []float64 {
	n := len(natural)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	sum := 0.0
	for _, w := range natural {
		sum += w
	}
	if sum <= avail {
		for i, w := range natural {
			out[i] = w * avail / sum
		}
		return out
	}

	fixed := make([]bool, n)
	remaining, flexible := avail, n
	for changed := true; changed && flexible > 0; {
		changed = false
		share := remaining / float64(flexible)
		for i, w := range natural {
			if !fixed[i] && w <= share {
				fixed[i] = true
				out[i] = w
				remaining -= w
				flexible--
				changed = true
			}
		}
	}

	flexSum := 0.0
	for i, w := range natural {
		if !fixed[i] {
			flexSum += w
		}
	}
	for i, w := range natural {
		if !fixed[i] {
			out[i] = w * remaining / flexSum
		}
	}
	return out
}

// wrapText breaks text into lines no wider than width, splitting on spaces
// and hard-breaking words that do not fit on a line of their own.
func wrapText(measure func(string) float64, text string, width float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if measure(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			line = ""
			for measure(word) > width && len(word) > 1 {
				cut := len(word) - 1
				for cut > 1 && measure(word[:cut]) > width {
					cut--
				}
				lines = append(lines, word[:cut])
				word = word[cut:]
			}
			line = word
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
