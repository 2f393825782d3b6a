package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	assessment "hydropower-calc/internal/assessment/domain"
)

// ErrUnknownFormat is returned for export formats the package cannot render.
var ErrUnknownFormat = errors.New("report: unknown format")

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatJSON, FormatText, FormatPDF, FormatXLSX}

// ParseFormat accepts a format name or file extension, case-insensitively.
func ParseFormat(value string) (Format, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(value)), ".")
	if key == "text" {
		key = string(FormatText)
	}
	for _, f := range Formats {
		if string(f) == key {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, value)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// FileName builds the download name for an assessment export.
func FileName(a assessment.Assessment, f Format) string {
	stem := "hydropower_assessment"
	if f == FormatText {
		stem = "hydropower_summary"
	}
	return fmt.Sprintf("%s_%s.%s", stem, a.GeneratedAt.UTC().Format("20060102_150405"), f)
}

// Render encodes a in format f.
func Render(f Format, a assessment.Assessment) ([]byte, error) {
	switch f {
	case FormatCSV:
		return BuildCSV(a)
	case FormatJSON:
		return EncodeJSON(a)
	case FormatText:
		return BuildSummary(a)
	case FormatPDF:
		return BuildPDF(a)
	case FormatXLSX:
		return BuildXLSX(a)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// grouped rounds v to places and inserts thousands separators.
func grouped(v float64, places int32) string {
	d := decimal.NewFromFloat(v).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	text := d.StringFixed(places)
	whole, frac, hasFrac := strings.Cut(text, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}

func usd(v float64) string {
	text := grouped(v, 0)
	if strings.HasPrefix(text, "-") {
		return "-$" + text[1:]
	}
	return "$" + text
}

func paybackText(p assessment.Payback, places int32) string {
	years, ok := p.Years()
	if !ok {
		return "never"
	}
	return fixed(years, places)
}
