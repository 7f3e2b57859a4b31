package grid

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"

	"plotextract/sheets"
)

var square = [4]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}

func TestBounds(t *testing.T) {
	tests := []struct {
		name    string
		corners [4]geom.Point
		res     float64
		want    r2.Rect
	}{
		{"aligned", square, 5, r2.RectFromPoints(r2.Point{X: 0, Y: 0}, r2.Point{X: 15, Y: 15})},
		{"unaligned", [4]geom.Point{{X: 1, Y: 2}, {X: 13, Y: 2}, {X: 13, Y: 9}, {X: 1, Y: 9}}, 5,
			r2.RectFromPoints(r2.Point{X: 0, Y: 0}, r2.Point{X: 15, Y: 10})},
		{"negative", [4]geom.Point{{X: -3, Y: -7}, {X: 2, Y: -7}, {X: 2, Y: -1}, {X: -3, Y: -1}}, 5,
			r2.RectFromPoints(r2.Point{X: -5, Y: -10}, r2.Point{X: 5, Y: 0})},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Bounds(tt.corners, tt.res), tt.name)
	}
}

func TestPlotPointsSquare(t *testing.T) {
	got := PlotPoints(square, 5)
	want := []geom.Point{
		{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0},
		{X: 0, Y: 5}, {X: 5, Y: 5}, {X: 10, Y: 5},
		{X: 0, Y: 10}, {X: 5, Y: 10}, {X: 10, Y: 10},
	}
	require.Equal(t, want, got)
}

func TestPlotPointsDiamond(t *testing.T) {
	diamond := [4]geom.Point{{X: 5, Y: 0}, {X: 10, Y: 5}, {X: 5, Y: 10}, {X: 0, Y: 5}}
	want := []geom.Point{
		{X: 5, Y: 0},
		{X: 0, Y: 5}, {X: 5, Y: 5}, {X: 10, Y: 5},
		{X: 5, Y: 10},
	}
	require.Equal(t, want, PlotPoints(diamond, 5))
}

func cornerWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "utm"))
	require.NoError(t, f.SetSheetRow("utm", "A1", &[]interface{}{"plot", "x1", "y1", "x2", "y2", "x3", "y3", "x4", "y4"}))
	require.NoError(t, f.SetSheetRow("utm", "A2", &[]interface{}{"p1", 0, 0, 10, 0, 10, 10, 0, 10}))
	require.NoError(t, f.SetSheetRow("utm", "A3", &[]interface{}{"p2", 5, 0, 10, 5, 5, 10, 0, 5}))
	path := filepath.Join(t.TempDir(), "corners.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestCornersToGrid(t *testing.T) {
	out := filepath.Join(t.TempDir(), "grid.xlsx")
	opts := DefaultOptions()
	opts.Sheet = "utm"
	opts.LastRow = 3

	grids, err := CornersToGrid(cornerWorkbook(t), out, opts)
	require.NoError(t, err)
	require.Len(t, grids, 2)
	require.Len(t, grids[0], 9)
	require.Len(t, grids[1], 5)

	wb, err := sheets.Open(out)
	require.NoError(t, err)
	defer wb.Close()
	require.Equal(t, []string{"1", "2"}, wb.Sheets())

	rows, err := wb.Rows("1")
	require.NoError(t, err)
	require.Len(t, rows, 10)
	require.Equal(t, []string{"x", "y"}, rows[0])
	require.Equal(t, []string{"5", "0"}, rows[2])

	// The output feeds straight back in as plot coordinates.
	points, err := wb.Points("2")
	require.NoError(t, err)
	require.Equal(t, grids[1], points)
}

func TestCornersToGridOptions(t *testing.T) {
	in := cornerWorkbook(t)
	out := filepath.Join(t.TempDir(), "grid.xlsx")

	opts := DefaultOptions()
	opts.Sheet = "utm"
	opts.Resolution = 0
	_, err := CornersToGrid(in, out, opts)
	require.True(t, errors.Is(err, ErrResolution))

	opts = DefaultOptions()
	opts.Sheet = "utm"
	opts.FirstRow, opts.LastRow = 3, 2
	_, err = CornersToGrid(in, out, opts)
	require.True(t, errors.Is(err, ErrRowRange))

	opts = DefaultOptions()
	_, err = CornersToGrid(in, out, opts)
	require.True(t, errors.Is(err, sheets.ErrSheetNotFound))
}

func TestCornersToGridBlankRows(t *testing.T) {
	opts := DefaultOptions()
	opts.Sheet = "utm"

	// Rows 4 to 67 of the fixture are empty.
	grids, err := CornersToGrid(cornerWorkbook(t), filepath.Join(t.TempDir(), "grid.xlsx"), opts)
	require.Nil(t, grids)
	require.True(t, errors.Is(err, ErrCorners), "got %v", err)
	require.Contains(t, err.Error(), "row 4")
}

func TestCornersInfinite(t *testing.T) {
	xy := mat.NewDense(1, 8, []float64{0, 0, 10, 0, 10, math.Inf(1), 0, 10})
	_, err := Corners(xy, 0)
	require.True(t, errors.Is(err, ErrCorners))
	require.Contains(t, err.Error(), "column G")
}

func TestStepsEmpty(t *testing.T) {
	require.Empty(t, steps(math.NaN(), math.NaN(), 5))
	require.Empty(t, steps(10, 10, 5))
	require.Equal(t, []float64{0, 5, 10}, steps(0, 15, 5))
}
