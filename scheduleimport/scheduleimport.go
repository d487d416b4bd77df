// Package scheduleimport reads the weekly schedule spreadsheets stores upload.
//
// Row 1 holds "<m>월 <d>일" headers, column 1 holds employee names and every other cell
// is empty or a "start~end" range in decimal hours such as "9~17.5".
package scheduleimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"shiftnote-backend/models"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const maxXLSRows = 100000

var (
	ErrUnsupportedFormat = errors.New("file must be .csv, .xlsx or .xls")
	ErrEmptySheet        = errors.New("worksheet is empty")
	ErrNoDateColumns     = errors.New("no \"<month>월 <day>일\" header found")
)

var headerPattern = regexp.MustCompile(`(\d+)월\s*(\d+)일`)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadRows returns the cells of the first sheet. The format is picked from the file extension.
func ReadRows(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(data)
	case ".xlsx":
		rows, err = readXLSX(data)
	case ".xls":
		rows, err = readXLS(data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("no worksheet found")
	}
	return file.GetRows(sheetName)
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, errors.New("no worksheet found")
	}
	return workbook.ReadAllCells(maxXLSRows), nil
}

// Result is the outcome of parsing one sheet.
type Result struct {
	Schedules []models.Schedule
	// Skipped counts non-empty cells under a date header that could not be read.
	Skipped int
}

// Parse maps rows to schedules for storeID, dating headers in year. Headers that are not
// real calendar dates are ignored. Only the first cell per (name, date) is kept.
func Parse(rows [][]string, year int, storeID string) (*Result, error) {
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	dates := make(map[int]string)
	for idx, col := range rows[0] {
		if idx == 0 {
			continue
		}
		if date, ok := headerDate(col, year); ok {
			dates[idx] = date
		}
	}
	if len(dates) == 0 {
		return nil, ErrNoDateColumns
	}

	result := &Result{}
	seen := make(map[string]bool)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}

		for colIdx := 1; colIdx < len(row); colIdx++ {
			date, ok := dates[colIdx]
			if !ok {
				continue
			}
			cell := strings.TrimSpace(row[colIdx])
			if cell == "" {
				continue
			}

			start, end, ok := ParseRange(cell)
			if !ok {
				result.Skipped++
				continue
			}

			key := name + "|" + date
			if seen[key] {
				continue
			}
			seen[key] = true

			result.Schedules = append(result.Schedules, models.Schedule{
				Name:      name,
				Date:      date,
				StartTime: start,
				EndTime:   end,
				StoreID:   storeID,
			})
		}
	}
	return result, nil
}

func headerDate(col string, year int) (string, bool) {
	m := headerPattern.FindStringSubmatch(col)
	if m == nil {
		return "", false
	}
	month, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return "", false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises 2월 30일 into March
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// ParseRange reads "9~17.5" into ("09:00", "17:30").
func ParseRange(cell string) (string, string, bool) {
	parts := strings.Split(cell, "~")
	if len(parts) != 2 {
		return "", "", false
	}
	start, ok := DecimalHourToClock(parts[0])
	if !ok {
		return "", "", false
	}
	end, ok := DecimalHourToClock(parts[1])
	if !ok {
		return "", "", false
	}
	return start, end, true
}

// DecimalHourToClock converts a decimal hour in [0, 24] to HH:MM, rounding to the minute.
// 24 maps to 00:00 so the shift reads as ending at midnight.
func DecimalHourToClock(v string) (string, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > 24 {
		return "", false
	}

	hours := int(math.Floor(f))
	minutes := int(math.Round((f - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", hours%24, minutes), true
}
