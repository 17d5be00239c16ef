package sampledata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for output paths that are neither .csv nor .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// File permission constants.
const (
	filePermission = 0o644
	sheetName      = "Sheet1"
)

// WriteFiles writes the player table to playersPath and the lookup to
// lookupPath. The extension of each path selects CSV or XLSX.
func (ds Dataset) WriteFiles(playersPath, lookupPath string) error {
	if err := writeTable(playersPath, ds.Header, ds.Rows); err != nil {
		return fmt.Errorf("write players: %w", err)
	}
	if err := writeTable(lookupPath, ds.LookupHeader, ds.Lookup); err != nil {
		return fmt.Errorf("write lookup: %w", err)
	}
	return nil
}

func writeTable(path string, header []string, rows [][]string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeCSV(path, header, rows)
	case ".xlsx":
		return writeXLSX(path, header, rows)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func writeCSV(path string, header []string, rows [][]string) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

// writeXLSX stores finite numeric cells as numbers; everything else is text.
func writeXLSX(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func setRow(f *excelize.File, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		if v, err := strconv.ParseFloat(c, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			values[i] = v
		} else {
			values[i] = c
		}
	}
	return f.SetSheetRow(sheetName, cell, &values)
}
