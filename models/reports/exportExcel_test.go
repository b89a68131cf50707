package reports

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func cellValue(t *testing.T, f *excelize.File, sheet, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, axis)
	require.NoError(t, err)
	return v
}

func TestWriteDailyExcel(t *testing.T) {
	fx := newFixture(t)
	r, err := Daily(fx.l, day("2024-05-02"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDailyExcel(&buf, r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{dailySheet}, f.GetSheetList())
	require.Equal(t, "Time", cellValue(t, f, dailySheet, "A1"))
	require.Equal(t, "Rice", cellValue(t, f, dailySheet, "C2"))
	require.Equal(t, "32", cellValue(t, f, dailySheet, "G2"))
	require.Equal(t, "expense", cellValue(t, f, dailySheet, "B5"))
	require.Equal(t, "Total Sales", cellValue(t, f, dailySheet, "A7"))
	require.Equal(t, "62", cellValue(t, f, dailySheet, "B7"))
	require.Equal(t, "12", cellValue(t, f, dailySheet, "B9"))
}

func TestWriteMonthlyExcel(t *testing.T) {
	fx := newFixture(t)
	r, err := Monthly(fx.l, day("2024-05-02"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMonthlyExcel(&buf, r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, "2024-05", cellValue(t, f, monthlySheet, "B1"))
	require.Equal(t, "Profit", cellValue(t, f, monthlySheet, "A7"))
	require.Equal(t, "-183", cellValue(t, f, monthlySheet, "B7"))
	require.Equal(t, "Date", cellValue(t, f, monthlySheet, "A9"))
	require.Equal(t, "2024-05-01", cellValue(t, f, monthlySheet, "A10"))
	require.Equal(t, "270", cellValue(t, f, monthlySheet, "C10"))
	require.Equal(t, "2024-05-31", cellValue(t, f, monthlySheet, "A40"))
}
