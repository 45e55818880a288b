package reports

import (
	"bytes"
	"testing"
	"time"

	"fintrack-server/src/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func sampleData() *Data {
	merchant := "Corner Cafe"
	category := "Dining"
	return &Data{
		Start:              time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:                time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		TotalSpending:      decimal.RequireFromString("400"),
		TransactionCount:   2,
		AverageDaily:       decimal.RequireFromString("12.90"),
		AverageTransaction: decimal.RequireFromString("200"),
		Categories: []models.CategoryAmount{
			{Name: "Dining", Amount: decimal.RequireFromString("300")},
			{Name: "Transport", Amount: decimal.RequireFromString("100")},
		},
		DailyTrend: []models.TrendPoint{
			{Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("300")},
		},
		Transactions: []models.Transaction{
			{Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Merchant: &merchant, CategoryName: &category, Amount: decimal.RequireFromString("300")},
		},
		Largest: []models.Transaction{
			{Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Merchant: &merchant, CategoryName: &category, Amount: decimal.RequireFromString("300")},
		},
	}
}

func TestCategoryPercentage(t *testing.T) {
	d := sampleData()
	got := d.CategoryPercentage(decimal.RequireFromString("300"))
	if !got.Equal(decimal.RequireFromString("75")) {
		t.Errorf("expected 75, got %s", got)
	}

	empty := &Data{TotalSpending: decimal.Zero}
	if !empty.CategoryPercentage(decimal.RequireFromString("50")).IsZero() {
		t.Error("expected zero percentage when total spending is zero")
	}
}

func TestBuildExcelSheets(t *testing.T) {
	buf, err := BuildExcel(sampleData())
	if err != nil {
		t.Fatalf("BuildExcel: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	want := []string{"Summary", "Category Breakdown", "Daily Trends", "Transactions"}
	sheets := f.GetSheetList()
	if len(sheets) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, sheets)
	}
	for i, name := range want {
		if sheets[i] != name {
			t.Errorf("sheet %d: expected %q, got %q", i, name, sheets[i])
		}
	}

	total, err := f.GetCellValue("Summary", "B4")
	if err != nil {
		t.Fatalf("read total: %v", err)
	}
	if total != "400.00" {
		t.Errorf("expected total 400.00, got %q", total)
	}

	category, err := f.GetCellValue("Category Breakdown", "A2")
	if err != nil {
		t.Fatalf("read category: %v", err)
	}
	if category != "Dining" {
		t.Errorf("expected top category Dining, got %q", category)
	}
	share, err := f.GetCellValue("Category Breakdown", "C2")
	if err != nil {
		t.Fatalf("read share: %v", err)
	}
	if share != "75.00" {
		t.Errorf("expected share 75.00, got %q", share)
	}
}

func TestBuildPDFProducesDocument(t *testing.T) {
	buf, err := BuildPDF(sampleData())
	if err != nil {
		t.Fatalf("BuildPDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty PDF output")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with PDF header: %q", buf.Bytes()[:8])
	}
}

func TestBuildPDFEmptyPeriod(t *testing.T) {
	d := &Data{
		Start:         time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		TotalSpending: decimal.Zero,
	}
	buf, err := BuildPDF(d)
	if err != nil {
		t.Fatalf("BuildPDF on empty data: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty PDF output")
	}
}
