package predictor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// BatchRow is one specimen read from a batch file.
type BatchRow struct {
	Line  int
	ID    string
	Input RawInput
}

var idColumnCandidates = []string{"id", "index", "no", "specimen", "番号"}

// ParseBatchFile reads specimens from a CSV, TSV or XLSX file. The first row is
// a header naming each column by display key ("fc(mm)") or feature name
// ("fc"); unknown columns are ignored, and an optional id column labels rows.
func ParseBatchFile(path string, fields []FieldDescriptor) ([]BatchRow, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbookRows(path)
	case ".tsv":
		rows, err = readDelimitedRows(path, '\t')
	default:
		rows, err = readDelimitedRows(path, ',')
	}
	if err != nil {
		return nil, err
	}
	return rowsToBatch(rows, fields)
}

func readDelimitedRows(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func readWorkbookRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", filepath.Base(path))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func rowsToBatch(rows [][]string, fields []FieldDescriptor) ([]BatchRow, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	columns := make(map[int]string, len(fields))
	idCol := -1
	for i, name := range header {
		if f, ok := LookupField(fields, name); ok {
			columns[i] = f.Display
			continue
		}
		if idCol < 0 && isIDColumn(name) {
			idCol = i
		}
	}
	if len(columns) == 0 {
		return nil, errors.New("header names none of the input fields")
	}
	out := make([]BatchRow, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := BatchRow{Line: n + 2, Input: make(RawInput, len(columns))}
		for col, display := range columns {
			if col < len(row) {
				rec.Input[display] = cleanCell(row[col])
			}
		}
		if idCol >= 0 && idCol < len(row) {
			rec.ID = cleanCell(row[idCol])
		}
		out = append(out, rec)
	}
	return out, nil
}

func isIDColumn(name string) bool {
	for _, cand := range idColumnCandidates {
		if strings.EqualFold(name, cand) {
			return true
		}
	}
	return false
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cleanCell(cell) != "" {
			return false
		}
	}
	return true
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}
