package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildExcel renders the report as an .xlsx workbook with four sheets:
// Summary, Category Breakdown, Daily Trends and Transactions.
func BuildExcel(d *Data) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, d); err != nil {
		return nil, err
	}
	if err := writeCategorySheet(f, d); err != nil {
		return nil, err
	}
	if err := writeTrendSheet(f, d); err != nil {
		return nil, err
	}
	if err := writeTransactionSheet(f, d); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

func writeSummarySheet(f *excelize.File, d *Data) error {
	const sheet = "Summary"
	// rename the default sheet instead of leaving an empty Sheet1 behind
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	rows := [][]any{
		{"Spending Report", ""},
		{"Period", d.PeriodLabel()},
		{"", ""},
		{"Total Spending", d.TotalSpending.StringFixed(2)},
		{"Transaction Count", d.TransactionCount},
		{"Average Daily Spending", d.AverageDaily.StringFixed(2)},
		{"Average Transaction Amount", d.AverageTransaction.StringFixed(2)},
	}
	return writeRows(f, sheet, rows)
}

func writeCategorySheet(f *excelize.File, d *Data) error {
	const sheet = "Category Breakdown"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]any{{"Category", "Amount", "Percentage"}}
	for _, c := range d.Categories {
		rows = append(rows, []any{
			c.Name, c.Amount.StringFixed(2), d.CategoryPercentage(c.Amount).StringFixed(2),
		})
	}
	return writeRows(f, sheet, rows)
}

func writeTrendSheet(f *excelize.File, d *Data) error {
	const sheet = "Daily Trends"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]any{{"Date", "Amount"}}
	for _, p := range d.DailyTrend {
		rows = append(rows, []any{p.Date.Format("2006-01-02"), p.Amount.StringFixed(2)})
	}
	return writeRows(f, sheet, rows)
}

func writeTransactionSheet(f *excelize.File, d *Data) error {
	const sheet = "Transactions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]any{{"Date", "Category", "Merchant", "Amount", "Notes"}}
	for _, t := range d.Transactions {
		rows = append(rows, []any{
			t.Date.Format("2006-01-02"),
			strOrDash(t.CategoryName),
			strOrDash(t.Merchant),
			t.Amount.StringFixed(2),
			strOrEmpty(t.Notes),
		})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
