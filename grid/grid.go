// Package grid turns monitoring plot corners into regular point grids that
// the plot extractor can sample.
package grid

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/ctessum/geom"
	"github.com/golang/geo/r2"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"plotextract/sheets"
)

var (
	ErrResolution = errors.New("resolution must be positive")
	ErrRowRange   = errors.New("first row must not be after last row")
	ErrCorners    = errors.New("plot corners must be eight finite numbers")
)

type Options struct {
	Sheet      string
	Resolution float64
	FirstRow   int
	LastRow    int
}

func DefaultOptions() Options {
	return Options{
		Sheet:      "Sheet1",
		Resolution: 5,
		FirstRow:   2,
		LastRow:    67,
	}
}

// Bounds is the box spanned by the corners, widened outwards to multiples
// of res. Hi is exclusive: one step past the last grid line.
func Bounds(corners [4]geom.Point, res float64) r2.Rect {
	pts := make([]r2.Point, len(corners))
	for i, c := range corners {
		pts[i] = r2.Point{X: c.X, Y: c.Y}
	}
	box := r2.RectFromPoints(pts...)
	return r2.RectFromPoints(
		r2.Point{X: box.X.Lo - floorMod(box.X.Lo, res), Y: box.Y.Lo - floorMod(box.Y.Lo, res)},
		r2.Point{X: box.X.Hi - floorMod(box.X.Hi, res) + res, Y: box.Y.Hi - floorMod(box.Y.Hi, res) + res},
	)
}

// floorMod takes the sign of b, unlike math.Mod.
func floorMod(a, b float64) float64 {
	return a - b*math.Floor(a/b)
}

// steps lists lo, lo+res, ... strictly below hi.
func steps(lo, hi, res float64) []float64 {
	span := (hi - lo) / res
	if !(span > 0) {
		return nil
	}
	n := int(math.Ceil(span))
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, lo+float64(i)*res)
	}
	return out
}

// PlotPoints returns the grid points at res spacing that fall inside or on
// the edge of the quadrilateral, x varying fastest.
func PlotPoints(corners [4]geom.Point, res float64) []geom.Point {
	box := Bounds(corners, res)
	ring := append(corners[:], corners[0])
	poly := geom.Polygon{ring}

	var inside []geom.Point
	for _, y := range steps(box.Y.Lo, box.Y.Hi, res) {
		for _, x := range steps(box.X.Lo, box.X.Hi, res) {
			p := geom.Point{X: x, Y: y}
			if onEdge(p, ring) || p.Within(poly) != geom.Outside {
				inside = append(inside, p)
			}
		}
	}
	return inside
}

// onEdge reports whether p lies exactly on a segment of the closed ring.
func onEdge(p geom.Point, ring []geom.Point) bool {
	for i := 0; i+1 < len(ring); i++ {
		a, b := ring[i], ring[i+1]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross != 0 {
			continue
		}
		if p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
			p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y) {
			return true
		}
	}
	return false
}

// Corners decodes one block row of x1,y1,...,x4,y4. Blank or infinite
// values fail with ErrCorners.
func Corners(xy *mat.Dense, row int) ([4]geom.Point, error) {
	var c [4]geom.Point
	for k := 0; k < 8; k++ {
		if v := xy.At(row, k); math.IsNaN(v) || math.IsInf(v, 0) {
			return c, fmt.Errorf("column %c: %w", 'B'+k, ErrCorners)
		}
	}
	for k := range c {
		c[k] = geom.Point{X: xy.At(row, 2*k), Y: xy.At(row, 2*k+1)}
	}
	return c, nil
}

// CornersToGrid reads the plot corners in columns B to I of the given rows,
// grids each plot and writes one sheet per plot to xlsOut.
func CornersToGrid(xlsIn, xlsOut string, opts Options) ([][]geom.Point, error) {
	if !(opts.Resolution > 0) {
		return nil, fmt.Errorf("%v: %w", opts.Resolution, ErrResolution)
	}
	if opts.FirstRow > opts.LastRow {
		return nil, fmt.Errorf("rows %d to %d: %w", opts.FirstRow, opts.LastRow, ErrRowRange)
	}

	xy, err := readCorners(xlsIn, opts)
	if err != nil {
		return nil, err
	}

	plots, _ := xy.Dims()
	grids := make([][]geom.Point, plots)
	out := make([]sheets.Sheet, plots)
	for i := range grids {
		corners, err := Corners(xy, i)
		if err != nil {
			return nil, fmt.Errorf("%s sheet %q row %d: %w", xlsIn, opts.Sheet, opts.FirstRow+i, err)
		}
		grids[i] = PlotPoints(corners, opts.Resolution)

		rows := make([][]interface{}, 0, len(grids[i])+1)
		rows = append(rows, []interface{}{"x", "y"})
		for _, p := range grids[i] {
			rows = append(rows, []interface{}{p.X, p.Y})
		}
		out[i] = sheets.Sheet{Name: strconv.Itoa(i + 1), Rows: rows}

		logrus.Infof("%d/%d", i+1, plots)
	}

	if err := sheets.Write(xlsOut, out); err != nil {
		return nil, err
	}
	return grids, nil
}

func readCorners(xlsIn string, opts Options) (xy *mat.Dense, err error) {
	wb, err := sheets.Open(xlsIn)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, wb.Close())
	}()
	return wb.Block(opts.Sheet, fmt.Sprintf("B%d:I%d", opts.FirstRow, opts.LastRow))
}
