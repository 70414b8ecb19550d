package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/warp/roi-engine/projection"
)

// BuildProjectionPDF renders the summary and monthly table.
func BuildProjectionPDF(meta Meta, res *projection.Result) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, meta.title())
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", meta.generatedAt().Format(time.RFC3339)))
	pdf.Ln(8)

	for _, row := range summaryRows(meta, res) {
		pdf.CellFormat(60, 6, row.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row.Value, "", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Month", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Profit", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Cumulative", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, bar := range res.MonthlyBars {
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", bar.Month), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, money(bar.Profit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, money(bar.Closing), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if len(res.BookingTargets) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Booking targets")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, t := range res.BookingTargets {
			status := "not reached"
			if t.Reached {
				status = fmt.Sprintf("month %s", t.X.StringFixed(1))
			}
			pdf.Cell(0, 6, fmt.Sprintf("%s: %s jobs booked, %s", t.Label, t.Threshold.StringFixed(1), status))
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
