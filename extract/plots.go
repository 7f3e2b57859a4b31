// Package extract samples raster bands at coordinates listed in
// spreadsheets and writes the results back out as tables.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"plotextract/raster"
	"plotextract/sheets"
	"plotextract/stats"
)

var (
	ErrNotList   = errors.New("input files should be of list type")
	ErrNameCount = errors.New("number of short names does not match number of files")
	ErrPlotCount = errors.New("plot count must not be negative")
)

type PlotOptions struct {
	Band   int
	Plots  int
	Method string
	Alpha  float64
	// Names are the column headers, one per file. Defaults to the file base names.
	Names []string
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{
		Band:   1,
		Plots:  66,
		Method: "median",
		Alpha:  stats.DefaultAlpha,
	}
}

// PlotTable holds one summary and one dispersion per (plot, file).
// Summary and Spread are Plots x len(Names), nil when either is zero.
type PlotTable struct {
	Plots   int
	Names   []string
	Summary *mat.Dense
	Spread  *mat.Dense
}

// Sheets lays the table out as the "median" and "std" sheets.
func (t *PlotTable) Sheets() []sheets.Sheet {
	return []sheets.Sheet{
		{Name: "median", Rows: plotRows(t.Plots, t.Names, t.Summary)},
		{Name: "std", Rows: plotRows(t.Plots, t.Names, t.Spread)},
	}
}

func plotRows(plots int, names []string, m *mat.Dense) [][]interface{} {
	files := len(names)
	rows := make([][]interface{}, 0, plots+1)

	header := make([]interface{}, 0, files+1)
	header = append(header, "Plot no.")
	for _, name := range names {
		header = append(header, name)
	}
	rows = append(rows, header)

	for i := 0; i < plots; i++ {
		row := make([]interface{}, 0, files+1)
		row = append(row, i+1)
		for j := 0; j < files; j++ {
			row = append(row, m.At(i, j))
		}
		rows = append(rows, row)
	}
	return rows
}

// Plots aggregates the pixels of every raster file over each plot, where
// plot i's coordinates are listed on the sheet named strconv.Itoa(i) of
// xlsIn, and writes the table to xlsOut.
func Plots(r raster.Reader, xlsIn, xlsOut string, files []string, opts PlotOptions) (*PlotTable, error) {
	if files == nil {
		return nil, ErrNotList
	}
	if opts.Plots < 0 {
		return nil, fmt.Errorf("%d plots: %w", opts.Plots, ErrPlotCount)
	}
	method, err := stats.Lookup(opts.Method, opts.Alpha)
	if err != nil {
		return nil, err
	}
	names := opts.Names
	if names == nil {
		names = make([]string, len(files))
		for k, path := range files {
			names[k] = filepath.Base(path)
		}
	} else if len(names) != len(files) {
		return nil, fmt.Errorf("%d names for %d files: %w", len(names), len(files), ErrNameCount)
	}

	coords, err := readPlots(xlsIn, opts.Plots)
	if err != nil {
		return nil, err
	}

	table := &PlotTable{Plots: opts.Plots, Names: names}
	if opts.Plots > 0 && len(files) > 0 {
		table.Summary = mat.NewDense(opts.Plots, len(files), nil)
		table.Spread = mat.NewDense(opts.Plots, len(files), nil)
	}

	for k, path := range files {
		band, err := r.ReadBand(path, opts.Band)
		if err != nil {
			return nil, err
		}
		for i, points := range coords {
			values, err := band.Sample(points)
			if err != nil {
				return nil, fmt.Errorf("%s plot %d: %w", path, i+1, err)
			}
			summary, spread := method(values...)
			table.Summary.Set(i, k, summary)
			table.Spread.Set(i, k, spread)
		}
		logrus.Infof("%d/%d", k+1, len(files))
	}

	if err := sheets.Write(xlsOut, table.Sheets()); err != nil {
		return nil, err
	}
	return table, nil
}

func readPlots(xlsIn string, n int) (coords [][]geom.Point, err error) {
	wb, err := sheets.Open(xlsIn)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, wb.Close())
	}()

	coords = make([][]geom.Point, n)
	for i := range coords {
		coords[i], err = wb.Points(strconv.Itoa(i + 1))
		if err != nil {
			return nil, err
		}
	}
	logrus.Debugf("Read coordinates of %d plots from %s", n, xlsIn)
	return coords, nil
}
