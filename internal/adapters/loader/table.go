package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// table is a header plus raw string cells. Rows may be shorter than the header.
// renamed lists the header names dedupeHeader assigned.
type table struct {
	header  []string
	rows    [][]string
	renamed []string
}

// column returns the index of name in the header, or -1.
func (t table) column(name string) int {
	for i, h := range t.header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// readTable reads a .csv or .xlsx file. For workbooks the first sheet is used.
func readTable(path string) (table, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx", ".xlsm":
		records, err = readXLSX(path)
	default:
		return table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return table{}, err
	}
	if len(records) == 0 {
		return table{}, ErrNoRows
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	header, renamed := dedupeHeader(header)
	return table{header: header, rows: records[1:], renamed: renamed}, nil
}

// dedupeHeader renames repeated non-blank names to name.1, name.2, ... in
// column order, skipping any suffix another column already uses. The first
// occurrence keeps its name.
func dedupeHeader(header []string) ([]string, []string) {
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[h] = true
	}
	seen := make(map[string]bool, len(header))
	out := make([]string, len(header))
	var renamed []string
	for i, h := range header {
		if h == "" || !seen[h] {
			seen[h] = true
			out[i] = h
			continue
		}
		name := h
		for n := 1; taken[name]; n++ {
			name = h + "." + strconv.Itoa(n)
		}
		taken[name] = true
		seen[name] = true
		out[i] = name
		renamed = append(renamed, name)
	}
	return out, renamed
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
