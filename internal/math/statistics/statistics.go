// Package statistics provides descriptive statistics over float64 samples
// using gonum/stat and gonum/floats.
package statistics

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrEmpty          = errors.New("empty sample")
	ErrTooFew         = errors.New("sample needs at least 2 values")
	ErrLengthMismatch = errors.New("samples differ in length")
	ErrNotFinite      = errors.New("sample contains NaN or Inf")
	ErrPercentile     = errors.New("percentile must be within [0, 100]")
)

// Validate rejects empty samples and non-finite values
func Validate(xs []float64) error {
	if len(xs) == 0 {
		return ErrEmpty
	}
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("value %d: %w", i, ErrNotFinite)
		}
	}
	return nil
}

// Mean returns the arithmetic mean
func Mean(xs []float64) (float64, error) {
	if err := Validate(xs); err != nil {
		return 0, err
	}
	return stat.Mean(xs, nil), nil
}

// Median returns the empirical 0.5 quantile
func Median(xs []float64) (float64, error) {
	return Percentile(xs, 50)
}

// Min returns the smallest value
func Min(xs []float64) (float64, error) {
	if err := Validate(xs); err != nil {
		return 0, err
	}
	return floats.Min(xs), nil
}

// Max returns the largest value
func Max(xs []float64) (float64, error) {
	if err := Validate(xs); err != nil {
		return 0, err
	}
	return floats.Max(xs), nil
}

// Sum returns the total
func Sum(xs []float64) (float64, error) {
	if err := Validate(xs); err != nil {
		return 0, err
	}
	return floats.Sum(xs), nil
}

// Range returns max - min
func Range(xs []float64) (float64, error) {
	if err := Validate(xs); err != nil {
		return 0, err
	}
	return floats.Max(xs) - floats.Min(xs), nil
}

// Variance returns the unbiased sample variance
func Variance(xs []float64) (float64, error) {
	if len(xs) < 2 {
		return 0, ErrTooFew
	}
	if err := Validate(xs); err != nil {
		return 0, err
	}
	return stat.Variance(xs, nil), nil
}

// StdDev returns the sample standard deviation
func StdDev(xs []float64) (float64, error) {
	v, err := Variance(xs)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// Mode returns the most frequent value and its count. Ties resolve to the
// smallest value.
func Mode(xs []float64) (float64, int, error) {
	if err := Validate(xs); err != nil {
		return 0, 0, err
	}

	counts := make(map[float64]int, len(xs))
	for _, x := range xs {
		counts[x]++
	}

	var mode float64
	best := 0
	for x, n := range counts {
		if n > best || (n == best && x < mode) {
			mode, best = x, n
		}
	}
	return mode, best, nil
}

// Percentile returns the empirical p-th percentile, p in [0, 100]
func Percentile(xs []float64, p float64) (float64, error) {
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, ErrPercentile
	}
	if err := Validate(xs); err != nil {
		return 0, err
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return stat.Quantile(p/100, stat.Empirical, sorted, nil), nil
}

// Correlation returns the Pearson correlation coefficient
func Correlation(x, y []float64) (float64, error) {
	if err := paired(x, y); err != nil {
		return 0, err
	}
	return stat.Correlation(x, y, nil), nil
}

// Covariance returns the sample covariance
func Covariance(x, y []float64) (float64, error) {
	if err := paired(x, y); err != nil {
		return 0, err
	}
	return stat.Covariance(x, y, nil), nil
}

// Summary bundles the common descriptive statistics of one sample
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"stddev"`
}

// Describe computes a Summary; variance is zero for single-value samples
func Describe(xs []float64) (Summary, error) {
	if err := Validate(xs); err != nil {
		return Summary{}, err
	}
	median, _ := Median(xs)
	s := Summary{
		Count:  len(xs),
		Mean:   stat.Mean(xs, nil),
		Median: median,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
	if len(xs) > 1 {
		s.Variance = stat.Variance(xs, nil)
		s.StdDev = math.Sqrt(s.Variance)
	}
	return s, nil
}

func paired(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%d and %d: %w", len(x), len(y), ErrLengthMismatch)
	}
	if len(x) < 2 {
		return ErrTooFew
	}
	if err := Validate(x); err != nil {
		return fmt.Errorf("x: %w", err)
	}
	if err := Validate(y); err != nil {
		return fmt.Errorf("y: %w", err)
	}
	return nil
}
