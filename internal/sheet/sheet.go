// Package sheet converts uploaded spreadsheets into documents and
// documents into CSV.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// ErrUnsupportedFormat is returned for extensions other than .csv and .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file type: upload a .csv or .xlsx file")

// Table is a parsed spreadsheet. Records hold one document per non-empty
// data row, keyed by header.
type Table struct {
	Headers []string
	Records []bson.M
}

// Supported reports whether filename has an extension Read accepts.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// Read parses r according to the extension of filename. The first row is
// the header row.
func Read(filename string, r io.Reader) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(r)
	case ".xlsx":
		rows, err = readXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("file has no header row")
	}

	t := &Table{Headers: headers(rows[0]), Records: []bson.M{}}
	for _, row := range rows[1:] {
		rec := bson.M{}
		for i, cell := range row {
			if i >= len(t.Headers) {
				break
			}
			if v, ok := Infer(cell); ok {
				rec[t.Headers[i]] = v
			}
		}
		if len(rec) > 0 {
			t.Records = append(t.Records, rec)
		}
	}
	return t, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// headers names blank columns column_N and suffixes repeats with .1, .2...
func headers(row []string) []string {
	out := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, h := range row {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n+1)
		} else {
			seen[h] = 0
		}
		out[i] = h
	}
	return out
}

// Infer types a cell as int64, float64, bool or string, in that order.
// ok is false for an empty cell.
func Infer(cell string) (v any, ok bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f, true
	}
	switch {
	case strings.EqualFold(s, "true"):
		return true, true
	case strings.EqualFold(s, "false"):
		return false, true
	}
	return cell, true
}
