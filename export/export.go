// Package export renders work logs for payroll hand-off.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"shiftnote-backend/models"
	"shiftnote-backend/payroll"

	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
	FormatCSVXZ = "csv.xz"
)

const sheetName = "근무일지"

// Header is the fixed column row of every export.
var Header = []string{"날짜", "이름", "시작시간", "종료시간", "휴게시간(분)"}

var ErrUnknownFormat = errors.New("format must be csv, xlsx or csv.xz")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ContentType returns the MIME type served for format.
func ContentType(format string) (string, error) {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8", nil
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	case FormatCSVXZ:
		return "application/x-xz", nil
	}
	return "", ErrUnknownFormat
}

// Filename is the attachment name for a date range export.
func Filename(start, end, format string) string {
	return fmt.Sprintf("근무일지_%s_%s.%s", start, end, format)
}

// Write renders logs in format to w. Logs are written in the order given.
func Write(w io.Writer, format string, logs []models.WorkLog) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, logs)
	case FormatXLSX:
		return WriteXLSX(w, logs)
	case FormatCSVXZ:
		return WriteCSVXZ(w, logs)
	}
	return ErrUnknownFormat
}

func row(l models.WorkLog) []string {
	return []string{
		l.Date,
		l.UserName,
		l.StartTime,
		l.EndTime,
		strconv.Itoa(payroll.BreakMinutes(l.Break, l.BreakDuration)),
	}
}

// WriteCSV writes UTF-8 CSV prefixed with a byte-order mark so spreadsheet apps detect the encoding.
func WriteCSV(w io.Writer, logs []models.WorkLog) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, l := range logs {
		if err := cw.Write(row(l)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteCSVXZ(w io.Writer, logs []models.WorkLog) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("xz writer: %w", err)
	}
	if err := WriteCSV(xw, logs); err != nil {
		_ = xw.Close()
		return err
	}
	return xw.Close()
}

func WriteXLSX(w io.Writer, logs []models.WorkLog) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	for i, l := range logs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{l.Date, l.UserName, l.StartTime, l.EndTime, payroll.BreakMinutes(l.Break, l.BreakDuration)}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
