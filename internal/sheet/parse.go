package sheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrSheetNotFound reports that the workbook has no worksheet with the
	// requested name.
	ErrSheetNotFound = errors.New("sheet not found in workbook")
	// ErrEmptyTable reports a worksheet without any data rows.
	ErrEmptyTable = errors.New("worksheet has no data rows")
)

// Record is one worksheet row keyed by column header. Missing cells are nil;
// all other values keep their scalar type (int64, float64, bool or string).
type Record map[string]any

// table is a uniform view of one worksheet regardless of workbook format:
// header names plus typed data rows, missing cells already nil.
type table struct {
	header []string
	rows   [][]any
}

// Parse opens the file at path as a workbook and converts the named worksheet
// into one record per data row, preserving row order. The first row is the
// header; every record carries the full header key set. Legacy .xls files are
// OLE2 compound documents and get their own reader; everything else is opened
// as OOXML.
func Parse(path, sheetName string) ([]Record, error) {
	sheetName = strings.TrimSpace(sheetName)

	var (
		tbl *table
		err error
	)
	if isLegacyWorkbook(path) {
		tbl, err = loadLegacyWorkbook(path, sheetName)
	} else {
		tbl, err = loadWorkbook(path, sheetName)
	}
	if err != nil {
		return nil, err
	}
	if len(tbl.header) == 0 || len(tbl.rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, sheetName)
	}

	records := make([]Record, 0, len(tbl.rows))
	for _, row := range tbl.rows {
		record := make(Record, len(tbl.header))
		for i, name := range tbl.header {
			if i < len(row) {
				record[name] = row[i]
			} else {
				record[name] = nil
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// isLegacyWorkbook reports whether path names a pre-OOXML workbook, which
// excelize cannot open.
func isLegacyWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xls")
}

// loadWorkbook reads an OOXML workbook via excelize. Each cell's declared
// type is consulted so text cells keep their string value even when the text
// looks numeric.
func loadWorkbook(path, sheetName string) (*table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	if !hasSheet(f.GetSheetList(), sheetName) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
	}

	raw, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheetName, err)
	}
	if len(raw) == 0 {
		return &table{}, nil
	}

	tbl := &table{header: raw[0]}
	for r, row := range raw[1:] {
		cells := make([]any, len(row))
		for c, value := range row {
			if strings.TrimSpace(value) == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("failed to locate cell in sheet %s: %w", sheetName, err)
			}
			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, fmt.Errorf("failed to inspect cell %s in sheet %s: %w", cellName, sheetName, err)
			}
			cells[c] = typedValue(value, cellType)
		}
		tbl.rows = append(tbl.rows, cells)
	}

	return tbl, nil
}

// loadLegacyWorkbook reads an OLE2 .xls workbook via xlsReader.
func loadLegacyWorkbook(path, sheetName string) (*table, error) {
	wb, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	for i := 0; i < wb.GetNumberSheets(); i++ {
		sh, err := wb.GetSheet(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %d from %s: %w", i, path, err)
		}
		if sh.GetName() != sheetName {
			continue
		}

		var raw [][]string
		for j := 0; j <= sh.GetNumberRows(); j++ {
			row, err := sh.GetRow(j)
			if err != nil {
				continue
			}
			var cells []string
			for _, col := range row.GetCols() {
				cells = append(cells, col.GetString())
			}
			// Match excelize's trailing-empty trimming.
			for len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
				cells = cells[:len(cells)-1]
			}
			raw = append(raw, cells)
		}
		for len(raw) > 0 && len(raw[len(raw)-1]) == 0 {
			raw = raw[:len(raw)-1]
		}
		if len(raw) == 0 {
			return &table{}, nil
		}

		tbl := &table{header: raw[0]}
		for _, row := range raw[1:] {
			cells := make([]any, len(row))
			for c, value := range row {
				if strings.TrimSpace(value) == "" {
					continue
				}
				cells[c] = parseScalar(value)
			}
			tbl.rows = append(tbl.rows, cells)
		}
		return tbl, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
}

func hasSheet(sheets []string, name string) bool {
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}

// typedValue restores the scalar type of a formatted OOXML cell. Cells the
// workbook declares as strings stay strings no matter what they contain.
func typedValue(raw string, cellType excelize.CellType) any {
	switch cellType {
	case excelize.CellTypeBool:
		if b, ok := parseBool(raw); ok {
			return b
		}
		return raw
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw
	default:
		return raw
	}
}

// parseScalar restores the native type of a formatted legacy cell value:
// integers before floats before booleans, falling back to the raw string.
// Legacy cell records carry no usable declared type, so numeric-looking text
// is re-typed here.
func parseScalar(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, ok := parseBool(s); ok {
		return b
	}
	return s
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "TRUE", "true", "True":
		return true, true
	case "FALSE", "false", "False":
		return false, true
	}
	return false, false
}
