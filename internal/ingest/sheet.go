// Package ingest reads installation request spreadsheets and turns them into
// a dated batch of team assignments ready for the dossier store.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ftthdesk/internal/logging"
	"ftthdesk/internal/record"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("ingest: unsupported spreadsheet format")
	ErrNoRows            = errors.New("ingest: spreadsheet has no data rows")
)

// Sheet is a header line plus data rows.
type Sheet struct {
	Headers []string
	Rows    []record.Row
}

// ReadFile loads a .csv or .xlsx export. Only the first worksheet of a
// workbook is read.
func ReadFile(path string) (Sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return Sheet{}, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return readXLSX(path)
	default:
		return Sheet{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ReadCSV parses comma or semicolon separated text. The separator is taken
// from the header line; French spreadsheet exports use semicolons.
func ReadCSV(r io.Reader) (Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Sheet{}, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectSeparator(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	lines, err := cr.ReadAll()
	if err != nil {
		return Sheet{}, fmt.Errorf("parse csv: %w", err)
	}
	return fromLines(lines)
}

func detectSeparator(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}

func readXLSX(path string) (Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Sheet{}, ErrNoRows
	}
	lines, err := f.GetRows(sheets[0])
	if err != nil {
		return Sheet{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	// Formatted text of a datetime cell depends on the workbook's number
	// format ("3/2/25 08:15"), so the timestamp column is re-read raw.
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	restoreTimestamps(lines, raw, date1904)
	return fromLines(lines)
}

// excelTimestampLayout is how serial datetimes are handed to the batch
// planner; it is one of timestampLayouts.
const excelTimestampLayout = "2006-01-02 15:04:05"

// restoreTimestamps replaces formatted timestamp cells with the datetime
// their raw serial encodes. Cells holding text are left alone.
func restoreTimestamps(lines, raw [][]string, date1904 bool) {
	if len(lines) == 0 {
		return
	}
	col := -1
	for i, h := range lines[0] {
		if strings.TrimSpace(h) == record.ColTimestamp {
			col = i
			break
		}
	}
	if col < 0 {
		return
	}
	for i := 1; i < len(lines) && i < len(raw); i++ {
		if col >= len(lines[i]) || col >= len(raw[i]) {
			continue
		}
		serial, err := strconv.ParseFloat(strings.TrimSpace(raw[i][col]), 64)
		if err != nil {
			continue
		}
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			logging.IngestDebug("Timestamp serial %v on line %d is out of range: %v", serial, i+1, err)
			continue
		}
		lines[i][col] = t.Format(excelTimestampLayout)
	}
}

func fromLines(lines [][]string) (Sheet, error) {
	if len(lines) < 2 {
		return Sheet{}, ErrNoRows
	}
	headers := make([]string, len(lines[0]))
	for i, h := range lines[0] {
		headers[i] = strings.TrimSpace(h)
	}
	sheet := Sheet{Headers: headers}
	for _, line := range lines[1:] {
		if blank(line) {
			continue
		}
		sheet.Rows = append(sheet.Rows, record.NewRow(headers, line))
	}
	if len(sheet.Rows) == 0 {
		return Sheet{}, ErrNoRows
	}
	logging.Ingest("Read %d rows with %d columns", len(sheet.Rows), len(headers))
	return sheet, nil
}

func blank(line []string) bool {
	for _, v := range line {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
