package raster

import (
	"errors"
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
	"github.com/sirupsen/logrus"
)

var registerOnce sync.Once

// GDALReader reads bands from any raster format GDAL can open.
type GDALReader struct{}

func (GDALReader) ReadBand(path string, band int) (b *Band, err error) {
	registerOnce.Do(godal.RegisterAll)

	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// The dataset is released before returning; only the copied pixels escape.
	defer func() {
		err = errors.Join(err, ds.Close())
	}()

	bands := ds.Bands()
	if band < 1 || band > len(bands) {
		return nil, fmt.Errorf("%s has %d bands, asked for %d: %w", path, len(bands), band, ErrBandIndex)
	}

	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("geotransform of %s: %w", path, err)
	}

	rb := bands[band-1]
	struc := rb.Structure()
	logrus.Debugf("Reading band %d of %s (%dx%d)", band, path, struc.SizeX, struc.SizeY)

	data := make([]float64, struc.SizeX*struc.SizeY)
	if err := rb.Read(0, 0, data, struc.SizeX, struc.SizeY); err != nil {
		return nil, fmt.Errorf("reading %s band %d: %w", path, band, err)
	}

	noData, ok := rb.NoData()
	if !ok {
		logrus.Debugf("NoData not set on %s", path)
	}

	return &Band{
		Width:        struc.SizeX,
		Height:       struc.SizeY,
		Data:         data,
		GeoTransform: GeoTransform(gt),
		NoData:       noData,
		HasNoData:    ok,
	}, nil
}
