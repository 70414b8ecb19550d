/*
Package report renders a projection result as a downloadable document.

FORMATS:
  pdf:  Summary block plus the monthly table (jung-kurt/gofpdf)
  xlsx: "summary", "monthly" and "daily" sheets (xuri/excelize)

Both formats are built from the same summary rows, so a figure shown in
the PDF is the figure in the workbook.

SEE ALSO:
  - projection/run.go: The Result being rendered
  - api/handlers.go: POST /api/projections/export
*/
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/projection"
)

// Format is an export file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "pdf" or "xlsx", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// Filename builds a download name from the report title.
func (f Format) Filename(title string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '-'
	}, strings.TrimSpace(title))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "projection"
	}
	return slug + "." + string(f)
}

// Meta describes the scenario behind a result.
type Meta struct {
	Title       string
	Region      string
	Profile     string
	GeneratedAt time.Time
}

func (m Meta) title() string {
	if m.Title == "" {
		return "Revenue Projection"
	}
	return m.Title
}

func (m Meta) generatedAt() time.Time {
	if m.GeneratedAt.IsZero() {
		return time.Now()
	}
	return m.GeneratedAt
}

// Build renders the result in the requested format.
func Build(format Format, meta Meta, res *projection.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("report: nil projection result")
	}
	switch format {
	case FormatPDF:
		return BuildProjectionPDF(meta, res)
	case FormatXLSX:
		return BuildProjectionXLSX(meta, res)
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

type summaryRow struct {
	Label string
	Value string
}

func summaryRows(meta Meta, res *projection.Result) []summaryRow {
	region := meta.Region
	if region == "" {
		region = "none"
	}
	trigger := "Not reached"
	if res.Trigger.Reached {
		trigger = fmt.Sprintf("Day %d (%s)", res.Trigger.Day, res.Trigger.Mode)
	}
	final := decimal.Zero
	if !res.Series.IsEmpty() {
		final = res.Series.Last().Y
	}

	rows := []summaryRow{
		{"Region", region},
		{"Horizon (days)", fmt.Sprintf("%d", res.Series.Len())},
		{"Crews", fmt.Sprintf("%d", res.Input.FinalCrews())},
		{"Break-even", res.BreakEven.String()},
		{"Monthly run-rate", money(res.RunRate.Monthly)},
		{"Yearly run-rate", money(res.RunRate.Yearly)},
		{"Cumulative at horizon", money(final)},
		{"Next crew", trigger},
	}
	if meta.Profile != "" {
		rows = append(rows, summaryRow{"Scaling profile", meta.Profile})
	}
	return rows
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
