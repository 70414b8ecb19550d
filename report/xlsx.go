package report

import (
	"bytes"
	"fmt"

	"github.com/warp/roi-engine/projection"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "summary"
	monthlySheet = "monthly"
	dailySheet   = "daily"
)

// BuildProjectionXLSX renders summary, monthly and daily trace sheets.
func BuildProjectionXLSX(meta Meta, res *projection.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	for _, name := range []string{monthlySheet, dailySheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	_ = f.SetCellValue(summarySheet, "A1", meta.title())
	_ = f.SetCellValue(summarySheet, "A2", "Generated")
	_ = f.SetCellValue(summarySheet, "B2", meta.generatedAt())
	for i, row := range summaryRows(meta, res) {
		r := i + 4
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", r), row.Label)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", r), row.Value)
	}

	_ = f.SetCellValue(monthlySheet, "A1", "Month")
	_ = f.SetCellValue(monthlySheet, "B1", "Profit")
	_ = f.SetCellValue(monthlySheet, "C1", "Cumulative")
	_ = f.SetCellValue(monthlySheet, "D1", "Backlog (jobs)")
	for i, bar := range res.MonthlyBars {
		row := i + 2
		_ = f.SetCellValue(monthlySheet, fmt.Sprintf("A%d", row), bar.Month)
		_ = f.SetCellValue(monthlySheet, fmt.Sprintf("B%d", row), bar.Profit.InexactFloat64())
		_ = f.SetCellValue(monthlySheet, fmt.Sprintf("C%d", row), bar.Closing.InexactFloat64())
		if i < res.Backlog.Len() {
			_ = f.SetCellValue(monthlySheet, fmt.Sprintf("D%d", row), res.Backlog.At(i).Y.InexactFloat64())
		}
	}

	headers := []string{"Day", "Month", "Crews", "Ad spend", "Leads", "Bookings", "Jobs done", "Deposits", "Final payments", "Profit", "Cumulative"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(dailySheet, cell, h)
	}
	for i, d := range res.Days {
		values := []any{
			d.Day,
			d.MonthIndex + 1,
			d.Crews,
			d.AdSpend.InexactFloat64(),
			d.Leads.InexactFloat64(),
			d.Bookings.InexactFloat64(),
			d.JobsDone.InexactFloat64(),
			d.DepositRevenue.InexactFloat64(),
			d.FinalPaymentRevenue.InexactFloat64(),
			d.Profit.InexactFloat64(),
			d.Cumulative.InexactFloat64(),
		}
		if err := f.SetSheetRow(dailySheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
