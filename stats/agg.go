package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrUnknownMethod = errors.New("method should be either 'median', 'mean', or 'truncated'")

const DefaultAlpha = 0.1

// AggFunc reduces a sample to one number.
type AggFunc func(...float64) float64

// Method reduces a sample to a summary and a dispersion.
type Method func(...float64) (summary, spread float64)

// Lookup resolves an aggregation method by name. alpha is only used by
// "truncated".
func Lookup(name string, alpha float64) (Method, error) {
	switch name {
	case "median":
		return func(values ...float64) (float64, float64) {
			return Median(values...), NanStd(values...)
		}, nil
	case "mean":
		return func(values ...float64) (float64, float64) {
			return NanMean(values...), NanStd(values...)
		}, nil
	case "truncated":
		return func(values ...float64) (float64, float64) {
			kept := Truncate(alpha, values...)
			return NanMean(kept...), NanStd(kept...)
		}, nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownMethod)
	}
}

// Median is the middle of the sorted values, averaging the two middle values
// for even counts. Missing values are not skipped: any NaN gives NaN.
func Median(inData ...float64) float64 {
	if len(inData) == 0 || floats.HasNaN(inData) {
		return math.NaN()
	}
	sorted := append([]float64(nil), inData...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// NanMean is the arithmetic mean of the non-NaN values.
func NanMean(inData ...float64) float64 {
	valid := DropNaN(inData...)
	if len(valid) == 0 {
		return math.NaN()
	}
	return stat.Mean(valid, nil)
}

// NanStd is the unbiased sample standard deviation of the non-NaN values.
func NanStd(inData ...float64) float64 {
	valid := DropNaN(inData...)
	if len(valid) < 2 {
		return math.NaN()
	}
	return stat.StdDev(valid, nil)
}

// Truncate drops NaN, sorts, and discards the lowest and highest alpha
// fraction. The kept slice is [floor(n*alpha), floor(n*(1-alpha))).
func Truncate(alpha float64, inData ...float64) []float64 {
	sorted := DropNaN(inData...)
	sort.Float64s(sorted)
	n := float64(len(sorted))
	lo := int(math.Floor(n * alpha))
	hi := int(math.Floor(n * (1 - alpha)))
	if lo < 0 {
		lo = 0
	}
	if hi > len(sorted) {
		hi = len(sorted)
	}
	if lo >= hi {
		return nil
	}
	return sorted[lo:hi]
}

func DropNaN(inData ...float64) []float64 {
	out := make([]float64, 0, len(inData))
	for _, val := range inData {
		if !math.IsNaN(val) {
			out = append(out, val)
		}
	}
	return out
}
