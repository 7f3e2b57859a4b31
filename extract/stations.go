package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"plotextract/raster"
	"plotextract/sheets"
)

var ErrStationCount = errors.New("station block does not match station count")

type StationOptions struct {
	Band     int
	Stations int
	Sort     bool
	Verbose  bool
	// Sheet and Range locate the station coordinates: an x row above a y
	// row, one column per station.
	Sheet string
	Range string
}

func DefaultStationOptions() StationOptions {
	return StationOptions{
		Band:     1,
		Stations: 66,
		Sort:     true,
		Sheet:    "Sheet1",
		Range:    "B2:BO3",
	}
}

// StationTable holds one value per (file, station).
type StationTable struct {
	Files  []string
	Values *mat.Dense
}

func (t *StationTable) Sheets() []sheets.Sheet {
	stations := 0
	if t.Values != nil {
		_, stations = t.Values.Dims()
	}
	rows := make([][]interface{}, 0, len(t.Files)+1)

	header := make([]interface{}, 0, stations+1)
	header = append(header, `File \ Plot no.`)
	for j := 0; j < stations; j++ {
		header = append(header, j+1)
	}
	rows = append(rows, header)

	for i, path := range t.Files {
		row := make([]interface{}, 0, stations+1)
		row = append(row, ShortName(path))
		for j := 0; j < stations; j++ {
			row = append(row, t.Values.At(i, j))
		}
		rows = append(rows, row)
	}
	return []sheets.Sheet{{Name: "Sheet1", Rows: rows}}
}

// ShortName is the base name of path up to its first dot.
func ShortName(path string) string {
	name, _, _ := strings.Cut(filepath.Base(path), ".")
	return name
}

// Stations reads every raster file at the station coordinates of xlsIn and
// writes a files x stations table to xlsOut.
func Stations(r raster.Reader, xlsIn, xlsOut string, files []string, opts StationOptions) (*StationTable, error) {
	if files == nil {
		return nil, ErrNotList
	}
	if opts.Sort {
		files = append([]string(nil), files...)
		sort.Strings(files)
	}

	points, err := readStations(xlsIn, opts)
	if err != nil {
		return nil, err
	}

	table := &StationTable{Files: files}
	if len(files) > 0 {
		table.Values = mat.NewDense(len(files), len(points), nil)
	}

	for i, path := range files {
		band, err := r.ReadBand(path, opts.Band)
		if err != nil {
			return nil, err
		}
		values, err := band.Sample(points)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		table.Values.SetRow(i, values)
		if opts.Verbose {
			logrus.Info(path)
		} else {
			logrus.Debug(path)
		}
	}

	if err := sheets.Write(xlsOut, table.Sheets()); err != nil {
		return nil, err
	}
	return table, nil
}

func readStations(xlsIn string, opts StationOptions) (points []geom.Point, err error) {
	wb, err := sheets.Open(xlsIn)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, wb.Close())
	}()

	xy, err := wb.Block(opts.Sheet, opts.Range)
	if err != nil {
		return nil, err
	}
	rows, cols := xy.Dims()
	if rows != 2 || cols != opts.Stations {
		return nil, fmt.Errorf("%s %s is %dx%d, want 2x%d: %w", xlsIn, opts.Range, rows, cols, opts.Stations, ErrStationCount)
	}

	points = make([]geom.Point, cols)
	for j := range points {
		points[j] = geom.Point{X: xy.At(0, j), Y: xy.At(1, j)}
	}
	return points, nil
}
