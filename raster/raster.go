package raster

import (
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

var (
	ErrBandIndex         = errors.New("band index out of range")
	ErrOutOfBounds       = errors.New("coordinate falls outside the raster")
	ErrSingularTransform = errors.New("geotransform is not invertible")
	ErrNotFound          = errors.New("raster not found")
)

// GeoTransform holds the six GDAL affine coefficients mapping pixel
// (col, row) to world (x, y):
//
//	x = gt[0] + col*gt[1] + row*gt[2]
//	y = gt[3] + col*gt[4] + row*gt[5]
type GeoTransform [6]float64

// World returns the world coordinate of the top-left corner of a pixel.
func (gt GeoTransform) World(col, row float64) geom.Point {
	return geom.Point{
		X: gt[0] + col*gt[1] + row*gt[2],
		Y: gt[3] + col*gt[4] + row*gt[5],
	}
}

// Pixel maps a world coordinate to the pixel containing it.
func (gt GeoTransform) Pixel(p geom.Point) (col, row int, err error) {
	det := gt[1]*gt[5] - gt[2]*gt[4]
	if det == 0 {
		return 0, 0, ErrSingularTransform
	}
	dx := p.X - gt[0]
	dy := p.Y - gt[3]
	c := (dx*gt[5] - dy*gt[2]) / det
	r := (dy*gt[1] - dx*gt[4]) / det
	return int(math.Floor(c)), int(math.Floor(r)), nil
}

// Band is a single raster band held fully in memory. GDAL is row-major, and
// so is Data.
type Band struct {
	Width        int
	Height       int
	Data         []float64
	GeoTransform GeoTransform
	NoData       float64
	HasNoData    bool
}

// Value returns the pixel at (col, row). Nodata pixels read as NaN.
func (b *Band) Value(col, row int) (float64, error) {
	if col < 0 || row < 0 || col >= b.Width || row >= b.Height {
		return math.NaN(), fmt.Errorf("pixel [%d, %d] of %dx%d raster: %w", col, row, b.Width, b.Height, ErrOutOfBounds)
	}
	v := b.Data[row*b.Width+col]
	if b.HasNoData && v == b.NoData {
		return math.NaN(), nil
	}
	return v, nil
}

// Sample gathers the pixel values under each world coordinate, in order.
func (b *Band) Sample(points []geom.Point) ([]float64, error) {
	values := make([]float64, len(points))
	for i, p := range points {
		col, row, err := b.GeoTransform.Pixel(p)
		if err != nil {
			return nil, err
		}
		v, err := b.Value(col, row)
		if err != nil {
			return nil, fmt.Errorf("point (%v, %v): %w", p.X, p.Y, err)
		}
		values[i] = v
	}
	return values, nil
}

// Reader loads one band of a raster file. Band indexes are 1-based, as in GDAL.
type Reader interface {
	ReadBand(path string, band int) (*Band, error)
}

// Memory is a Reader over bands that are already in memory, keyed by path.
// Every band index resolves to the same Band.
type Memory map[string]*Band

func (m Memory) ReadBand(path string, band int) (*Band, error) {
	if band < 1 {
		return nil, fmt.Errorf("%s band %d: %w", path, band, ErrBandIndex)
	}
	b, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return b, nil
}

// Constant builds a width x height band filled with v.
func Constant(v float64, width, height int, gt GeoTransform) *Band {
	data := make([]float64, width*height)
	for i := range data {
		data[i] = v
	}
	return &Band{Width: width, Height: height, Data: data, GeoTransform: gt}
}
