package scheduleimport

import (
	"bytes"
	"strings"
	"testing"

	"shiftnote-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecimalHourToClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"9", "09:00", true},
		{"17.5", "17:30", true},
		{" 8.25 ", "08:15", true},
		{"9.999", "10:00", true},
		{"0", "00:00", true},
		{"24", "00:00", true},
		{"24.5", "", false},
		{"-1", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := DecimalHourToClock(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseRange(t *testing.T) {
	start, end, ok := ParseRange("9~17.5")
	require.True(t, ok)
	assert.Equal(t, "09:00", start)
	assert.Equal(t, "17:30", end)

	_, _, ok = ParseRange("9-17")
	assert.False(t, ok)
	_, _, ok = ParseRange("9~x")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	rows := [][]string{
		{"이름", "3월 1일", "3월 2일", "메모", "2월 30일"},
		{"kim", "9~17.5", "", "ignore", "9~18"},
		{"lee", "", "13~22", "", ""},
		{"", "9~18"},
		{"park", "off", "10~19"},
	}
	res, err := Parse(rows, 2025, models.StoreOne)
	require.NoError(t, err)
	require.Len(t, res.Schedules, 3)
	assert.Equal(t, 1, res.Skipped)

	assert.Equal(t, models.Schedule{Name: "kim", Date: "2025-03-01", StartTime: "09:00", EndTime: "17:30", StoreID: models.StoreOne}, res.Schedules[0])
	assert.Equal(t, "lee", res.Schedules[1].Name)
	assert.Equal(t, "2025-03-02", res.Schedules[1].Date)
	assert.Equal(t, "park", res.Schedules[2].Name)
}

func TestParseHeaderWithoutSpace(t *testing.T) {
	rows := [][]string{
		{"name", "12월25일"},
		{"kim", "10~14"},
	}
	res, err := Parse(rows, 2024, models.StoreTwo)
	require.NoError(t, err)
	require.Len(t, res.Schedules, 1)
	assert.Equal(t, "2024-12-25", res.Schedules[0].Date)
	assert.Equal(t, models.StoreTwo, res.Schedules[0].StoreID)
}

func TestParseDuplicateRowKeepsFirst(t *testing.T) {
	rows := [][]string{
		{"name", "3월 1일"},
		{"kim", "9~18"},
		{"kim", "10~19"},
	}
	res, err := Parse(rows, 2025, models.StoreOne)
	require.NoError(t, err)
	require.Len(t, res.Schedules, 1)
	assert.Equal(t, "09:00", res.Schedules[0].StartTime)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([][]string{{"name", "3월 1일"}}, 2025, models.StoreOne)
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = Parse([][]string{{"name", "monday"}, {"kim", "9~18"}}, 2025, models.StoreOne)
	assert.ErrorIs(t, err, ErrNoDateColumns)
}

func TestReadRowsCSVWithBOM(t *testing.T) {
	data := "\ufeff이름,3월 1일,3월 2일\nkim,9~18,\nlee,,13~22\n"
	rows, err := ReadRows(strings.NewReader(data), "week.CSV")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "이름", rows[0][0])
	assert.Equal(t, "9~18", rows[1][1])
}

func TestReadRowsXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"이름", "3월 1일"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"kim", "9~18"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	rows, err := ReadRows(&buf, "week.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	res, err := Parse(rows, 2025, models.StoreOne)
	require.NoError(t, err)
	require.Len(t, res.Schedules, 1)
	assert.Equal(t, "18:00", res.Schedules[0].EndTime)
}

func TestReadRowsUnsupported(t *testing.T) {
	_, err := ReadRows(strings.NewReader("x"), "week.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadRowsEmptyCSV(t *testing.T) {
	_, err := ReadRows(strings.NewReader(""), "week.csv")
	assert.ErrorIs(t, err, ErrEmptySheet)
}
