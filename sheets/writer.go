package sheets

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Sheet is one named table of output cells. Rows[0] is the header row.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// Write saves all sheets at once, choosing the format from the file
// extension: .xlsx/.xlsm, .csv or .parquet.
func Write(path string, sheets []Sheet) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return WriteXLSX(path, sheets)
	case ".csv":
		return WriteCSV(path, sheets)
	case ".parquet":
		return WriteParquet(path, sheets)
	default:
		return fmt.Errorf("%s: %w (use .xlsx, .csv or .parquet)", path, ErrUnsupportedFormat)
	}
}

func WriteXLSX(path string, sheets []Sheet) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	defaultSheet := f.GetSheetName(0)
	for i, s := range sheets {
		if i == 0 {
			if s.Name != defaultSheet {
				if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
					return err
				}
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return err
		}

		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			values := make([]interface{}, len(row))
			for c, v := range row {
				values[c] = xlsxValue(v)
			}
			if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
				return fmt.Errorf("sheet %q row %d: %w", s.Name, r+1, err)
			}
		}
	}
	logrus.Debugf("Saving %d sheets to %s", len(sheets), path)
	return f.SaveAs(path)
}

// NaN has no numeric cell encoding, so it is written as a text marker.
func xlsxValue(v interface{}) interface{} {
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return "NaN"
	}
	return v
}

// WriteCSV writes one CSV file per sheet. With a single sheet the file is
// path itself, otherwise each sheet goes to <stem>_<sheet>.csv.
func WriteCSV(path string, sheets []Sheet) error {
	for _, s := range sheets {
		target := path
		if len(sheets) > 1 {
			target = strings.TrimSuffix(path, filepath.Ext(path)) + "_" + s.Name + filepath.Ext(path)
		}
		if err := writeCSVSheet(target, s); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVSheet(path string, s Sheet) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	for _, row := range s.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = FormatCell(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

// FormatCell renders a cell value as text.
func FormatCell(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int:
		return strconv.Itoa(val)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
