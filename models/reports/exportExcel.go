package reports

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	dailySheet   = "Daily"
	monthlySheet = "Monthly"
)

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for i, v := range values {
		if err := f.SetCellValue(sheet, cell(i+1, row), v); err != nil {
			return err
		}
	}
	return nil
}

// WriteDailyExcel writes r as a single-sheet workbook.
func WriteDailyExcel(w io.Writer, r *DailyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dailySheet); err != nil {
		return err
	}
	if err := setRow(f, dailySheet, 1, "Time", "Type", "Name", "Quantity", "Unit", "Unit Price", "Amount", "Remark"); err != nil {
		return err
	}
	row := 2
	for _, line := range r.Rows {
		if err := setRow(f, dailySheet, row,
			line.Time.Format("2006-01-02 15:04"), string(line.Type), line.Name, line.Quantity, line.Unit,
			money(line.UnitPrice), money(line.Amount), line.Remark); err != nil {
			return err
		}
		row++
	}
	row++
	totals := []struct {
		label string
		value decimal.Decimal
	}{
		{"Total Sales", r.TotalSales},
		{"Total Cost", r.TotalCost},
		{"Net Profit", r.NetProfit},
	}
	for _, t := range totals {
		if err := setRow(f, dailySheet, row, t.label, money(t.value)); err != nil {
			return err
		}
		row++
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write daily workbook: %w", err)
	}
	return nil
}

// WriteMonthlyExcel writes the month summary followed by the per-day table.
func WriteMonthlyExcel(w io.Writer, r *MonthlyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", monthlySheet); err != nil {
		return err
	}
	summary := []struct {
		label string
		value decimal.Decimal
	}{
		{"Income", r.Summary.Income},
		{"Purchase Cost", r.Summary.PurchaseCost},
		{"Damage Cost", r.Summary.DamageCost},
		{"Other Expense", r.Summary.OtherExpense},
		{"Total Expense", r.Summary.Expense},
		{"Profit", r.Summary.Profit},
	}
	if err := setRow(f, monthlySheet, 1, "Month", r.Month); err != nil {
		return err
	}
	row := 2
	for _, s := range summary {
		if err := setRow(f, monthlySheet, row, s.label, money(s.value)); err != nil {
			return err
		}
		row++
	}

	row++
	if err := setRow(f, monthlySheet, row, "Date", "Income", "Purchase Cost", "Damage Cost", "Other Expense", "Profit"); err != nil {
		return err
	}
	row++
	for _, d := range r.Days {
		if err := setRow(f, monthlySheet, row, d.Date, money(d.Income), money(d.PurchaseCost),
			money(d.DamageCost), money(d.OtherExpense), money(d.Profit)); err != nil {
			return err
		}
		row++
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write monthly workbook: %w", err)
	}
	return nil
}
