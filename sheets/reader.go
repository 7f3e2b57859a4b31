package sheets

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrSheetNotFound     = errors.New("no such sheet")
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
)

var raw = excelize.Options{RawCellValue: true}

// Workbook is an open input spreadsheet.
type Workbook struct {
	path string
	f    *excelize.File
}

func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &Workbook{path: path, f: f}, nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

func (w *Workbook) Sheets() []string {
	return w.f.GetSheetList()
}

func (w *Workbook) checkSheet(sheet string) error {
	idx, err := w.f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("%s: sheet %q: %w", w.path, sheet, err)
	}
	if idx < 0 {
		return fmt.Errorf("%s: sheet %q: %w", w.path, sheet, ErrSheetNotFound)
	}
	return nil
}

// Rows returns the raw cell text of a sheet.
func (w *Workbook) Rows(sheet string) ([][]string, error) {
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}
	return w.f.GetRows(sheet, raw)
}

// Points reads x from column A and y from column B of every row after the
// header row.
func (w *Workbook) Points(sheet string) ([]geom.Point, error) {
	rows, err := w.Rows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	points := make([]geom.Point, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 2 {
			return nil, fmt.Errorf("%s: sheet %q row %d: need x and y, got %d cells", w.path, sheet, i+2, len(row))
		}
		x, err := parseNumber(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s: sheet %q cell A%d: %w", w.path, sheet, i+2, err)
		}
		y, err := parseNumber(row[1])
		if err != nil {
			return nil, fmt.Errorf("%s: sheet %q cell B%d: %w", w.path, sheet, i+2, err)
		}
		points = append(points, geom.Point{X: x, Y: y})
	}
	return points, nil
}

// Block reads a rectangular cell range such as "B2:I67" into a matrix, one
// matrix row per sheet row. Empty cells read as NaN.
func (w *Workbook) Block(sheet, ref string) (*mat.Dense, error) {
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}
	startCol, startRow, endCol, endRow, err := ParseRange(ref)
	if err != nil {
		return nil, err
	}

	o := mat.NewDense(endRow-startRow+1, endCol-startCol+1, nil)
	for r := startRow; r <= endRow; r++ {
		for c := startCol; c <= endCol; c++ {
			cell, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return nil, err
			}
			s, err := w.f.GetCellValue(sheet, cell, raw)
			if err != nil {
				return nil, fmt.Errorf("%s: sheet %q cell %s: %w", w.path, sheet, cell, err)
			}
			v, err := parseNumber(s)
			if err != nil {
				return nil, fmt.Errorf("%s: sheet %q cell %s: %w", w.path, sheet, cell, err)
			}
			o.Set(r-startRow, c-startCol, v)
		}
	}
	return o, nil
}

// ParseRange splits an "A1:B2" reference into 1-based, inclusive bounds.
func ParseRange(ref string) (startCol, startRow, endCol, endRow int, err error) {
	from, to, ok := strings.Cut(ref, ":")
	if !ok {
		to = from
	}
	if startCol, startRow, err = excelize.CellNameToCoordinates(from); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("range %q: %w", ref, err)
	}
	if endCol, endRow, err = excelize.CellNameToCoordinates(to); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("range %q: %w", ref, err)
	}
	if endCol < startCol || endRow < startRow {
		return 0, 0, 0, 0, fmt.Errorf("range %q is reversed", ref)
	}
	return startCol, startRow, endCol, endRow, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
