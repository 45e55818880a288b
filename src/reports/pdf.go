package reports

import (
	"bytes"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// BuildPDF renders the report as a single-column PDF: summary figures, the
// top categories with their share of spending, and the largest expenses.
func BuildPDF(d *Data) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Spending Report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, d.PeriodLabel())
	pdf.Ln(12)

	writeSummarySection(pdf, d)
	writeCategorySection(pdf, d)
	writeLargestSection(pdf, d)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
}

func writeSummarySection(pdf *gofpdf.Fpdf, d *Data) {
	sectionTitle(pdf, "Summary")
	rows := [][2]string{
		{"Total Spending", d.TotalSpending.StringFixed(2)},
		{"Transaction Count", strconv.Itoa(d.TransactionCount)},
		{"Average Daily Spending", d.AverageDaily.StringFixed(2)},
		{"Average Transaction Amount", d.AverageTransaction.StringFixed(2)},
	}
	for _, r := range rows {
		pdf.Cell(70, 6, r[0])
		pdf.Cell(0, 6, r[1])
		pdf.Ln(6)
	}
	pdf.Ln(6)
}

func writeCategorySection(pdf *gofpdf.Fpdf, d *Data) {
	sectionTitle(pdf, "Top Categories")
	categories := d.Categories
	if len(categories) > 10 {
		categories = categories[:10]
	}
	if len(categories) == 0 {
		pdf.Cell(0, 6, "No categorized spending in this period")
		pdf.Ln(12)
		return
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(70, 6, "Category")
	pdf.Cell(40, 6, "Amount")
	pdf.Cell(0, 6, "Share")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	for _, c := range categories {
		pdf.Cell(70, 6, c.Name)
		pdf.Cell(40, 6, c.Amount.StringFixed(2))
		pdf.Cell(0, 6, d.CategoryPercentage(c.Amount).StringFixed(2)+"%")
		pdf.Ln(6)
	}
	pdf.Ln(6)
}

func writeLargestSection(pdf *gofpdf.Fpdf, d *Data) {
	sectionTitle(pdf, "Largest Expenses")
	if len(d.Largest) == 0 {
		pdf.Cell(0, 6, "No expenses in this period")
		pdf.Ln(6)
		return
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(30, 6, "Date")
	pdf.Cell(60, 6, "Merchant")
	pdf.Cell(50, 6, "Category")
	pdf.Cell(0, 6, "Amount")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	for _, t := range d.Largest {
		pdf.Cell(30, 6, t.Date.Format("2006-01-02"))
		pdf.Cell(60, 6, strOrDash(t.Merchant))
		pdf.Cell(50, 6, strOrDash(t.CategoryName))
		pdf.Cell(0, 6, t.Amount.StringFixed(2))
		pdf.Ln(6)
	}
}
