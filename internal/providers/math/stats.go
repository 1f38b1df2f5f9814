package math

import (
	"context"

	"github.com/GriffinCanCode/terminus-math/internal/math/statistics"
	"github.com/GriffinCanCode/terminus-math/internal/types"
)

// StatsOps handles statistical operations using gonum
type StatsOps struct {
	*MathOps
}

var numbersParam = []types.Parameter{
	{Name: "numbers", Type: "array", Description: "Array of numbers", Required: true},
}

var pairedParams = []types.Parameter{
	{Name: "x", Type: "array", Description: "First dataset", Required: true},
	{Name: "y", Type: "array", Description: "Second dataset", Required: true},
}

// GetTools returns stats tool definitions
func (s *StatsOps) GetTools() []types.Tool {
	return []types.Tool{
		{ID: "math.mean", Name: "Mean", Description: "Calculate arithmetic mean", Parameters: numbersParam, Returns: "number"},
		{ID: "math.median", Name: "Median", Description: "Calculate median value", Parameters: numbersParam, Returns: "number"},
		{ID: "math.min", Name: "Minimum", Description: "Find minimum value", Parameters: numbersParam, Returns: "number"},
		{ID: "math.max", Name: "Maximum", Description: "Find maximum value", Parameters: numbersParam, Returns: "number"},
		{ID: "math.sum", Name: "Sum", Description: "Calculate sum of all numbers", Parameters: numbersParam, Returns: "number"},
		{ID: "math.stdev", Name: "Standard Deviation", Description: "Calculate sample standard deviation", Parameters: numbersParam, Returns: "number"},
		{ID: "math.variance", Name: "Variance", Description: "Calculate sample variance", Parameters: numbersParam, Returns: "number"},
		{ID: "math.range", Name: "Range", Description: "Difference between maximum and minimum", Parameters: numbersParam, Returns: "number"},
		{ID: "math.mode", Name: "Mode", Description: "Most frequent value, smallest on ties", Parameters: numbersParam, Returns: "number"},
		{
			ID:          "math.percentile",
			Name:        "Percentile",
			Description: "Calculate nth percentile",
			Parameters: append(append([]types.Parameter{}, numbersParam...),
				types.Parameter{Name: "p", Type: "number", Description: "Percentile (0-100)", Required: true},
			),
			Returns: "number",
		},
		{ID: "math.correlation", Name: "Correlation", Description: "Calculate Pearson correlation coefficient", Parameters: pairedParams, Returns: "number"},
		{ID: "math.covariance", Name: "Covariance", Description: "Calculate sample covariance", Parameters: pairedParams, Returns: "number"},
		{ID: "math.describe", Name: "Describe", Description: "Summary statistics of a dataset", Parameters: numbersParam, Returns: "object"},
	}
}

// reduce runs a single-sample statistic over the numbers parameter
func reduce(params map[string]interface{}, fn func([]float64) (float64, error)) (*types.Result, error) {
	numbers, ok := GetNumbers(params, "numbers")
	if !ok {
		return Failure("numbers array required")
	}
	result, err := fn(numbers)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": result})
}

func reducePair(params map[string]interface{}, fn func(x, y []float64) (float64, error)) (*types.Result, error) {
	x, ok := GetNumbers(params, "x")
	if !ok {
		return Failure("x array required")
	}
	y, ok := GetNumbers(params, "y")
	if !ok {
		return Failure("y array required")
	}
	result, err := fn(x, y)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": result})
}

// Mean calculates arithmetic mean
func (s *StatsOps) Mean(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	return reduce(params, statistics.Mean)
}

// Median calculates median
func (s *StatsOps) Median(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	return reduce(params, statistics.Median)
}

// Min finds minimum value
func (s *StatsOps) Min(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	return reduce(params, statistics.Min)
}

// Max finds maximum value
func (s *StatsOps) Max(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	return reduce(params, statistics.Max)
}

// Sum calculates sum
func (s *StatsOps) Sum(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	return reduce(params, statistics.Sum)
}

// Stdev calculates sample standard deviation
func (s *StatsOps) Stdev(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	numbers, ok := GetNumbers(params, "numbers")
	if !ok {
		return Failure("numbers array required")
	}
	summary, err := statistics.Describe(numbers)
	if err != nil {
		return Failure(err.Error())
	}
	if summary.Count < 2 {
		return Failure("numbers array with at least 2 elements required")
	}

	return Success(map[string]interface{}{
		"result":   summary.StdDev,
		"variance": summary.Variance,
		"mean":     summary.Mean,
	})
}

// Variance calculates sample variance
func (s *StatsOps) Variance(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	return reduce(params, statistics.Variance)
}

// Range calculates max - min
func (s *StatsOps) Range(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	return reduce(params, statistics.Range)
}

// Mode finds most frequent value
func (s *StatsOps) Mode(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	numbers, ok := GetNumbers(params, "numbers")
	if !ok {
		return Failure("numbers array required")
	}
	mode, count, err := statistics.Mode(numbers)
	if err != nil {
		return Failure(err.Error())
	}

	return Success(map[string]interface{}{
		"result":    mode,
		"frequency": count,
	})
}

// Percentile calculates nth percentile
func (s *StatsOps) Percentile(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	p, ok := GetNumber(params, "p")
	if !ok {
		return Failure("p parameter required (0-100)")
	}
	return reduce(params, func(xs []float64) (float64, error) {
		return statistics.Percentile(xs, p)
	})
}

// Correlation calculates Pearson correlation coefficient
func (s *StatsOps) Correlation(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	return reducePair(params, statistics.Correlation)
}

// Covariance calculates sample covariance
func (s *StatsOps) Covariance(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	return reducePair(params, statistics.Covariance)
}

// Describe returns count, mean, median, extremes and spread in one call
func (s *StatsOps) Describe(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	numbers, ok := GetNumbers(params, "numbers")
	if !ok {
		return Failure("numbers array required")
	}
	summary, err := statistics.Describe(numbers)
	if err != nil {
		return Failure(err.Error())
	}

	return Success(map[string]interface{}{
		"count":    summary.Count,
		"mean":     summary.Mean,
		"median":   summary.Median,
		"min":      summary.Min,
		"max":      summary.Max,
		"variance": summary.Variance,
		"stdev":    summary.StdDev,
	})
}
