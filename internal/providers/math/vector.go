package math

import (
	"context"

	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
	"github.com/GriffinCanCode/terminus-math/internal/types"
)

// VectorOps handles vector arithmetic
type VectorOps struct {
	*MathOps
}

var vectorPairParams = []types.Parameter{
	{Name: "a", Type: "array", Description: "First vector", Required: true},
	{Name: "b", Type: "array", Description: "Second vector", Required: true},
}

// GetTools returns vector tool definitions
func (v *VectorOps) GetTools() []types.Tool {
	return []types.Tool{
		{ID: "vector.add", Name: "Add", Description: "Element-wise sum of two vectors", Parameters: vectorPairParams, Returns: "array"},
		{ID: "vector.subtract", Name: "Subtract", Description: "Element-wise difference of two vectors", Parameters: vectorPairParams, Returns: "array"},
		{
			ID:          "vector.scale",
			Name:        "Scale",
			Description: "Multiply every element by a scalar",
			Parameters: []types.Parameter{
				{Name: "a", Type: "array", Description: "Vector", Required: true},
				{Name: "s", Type: "number", Description: "Scalar", Required: true},
			},
			Returns: "array",
		},
		{ID: "vector.dot", Name: "Dot Product", Description: "Inner product of two vectors", Parameters: vectorPairParams, Returns: "number"},
		{ID: "vector.cross", Name: "Cross Product", Description: "Cross product of two 3-vectors", Parameters: vectorPairParams, Returns: "array"},
		{
			ID:          "vector.magnitude",
			Name:        "Magnitude",
			Description: "Euclidean length of a vector",
			Parameters: []types.Parameter{
				{Name: "a", Type: "array", Description: "Vector", Required: true},
			},
			Returns: "number",
		},
		{
			ID:          "vector.normalize",
			Name:        "Normalize",
			Description: "Scale a vector to unit length",
			Parameters: []types.Parameter{
				{Name: "a", Type: "array", Description: "Vector", Required: true},
			},
			Returns: "array",
		},
		{
			ID:          "vector.distance",
			Name:        "Distance",
			Description: "Distance between two vectors under L1, L2, L2_SQUARED or LINF",
			Parameters: append(append([]types.Parameter{}, vectorPairParams...),
				types.Parameter{Name: "metric", Type: "string", Description: "Distance metric (default L2)", Required: false},
			),
			Returns: "number",
		},
	}
}

func pair(params map[string]interface{}) (vector.Vector, vector.Vector, error) {
	a, err := GetVector(params, "a")
	if err != nil {
		return nil, nil, err
	}
	b, err := GetVector(params, "b")
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// Add sums two vectors
func (v *VectorOps) Add(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, b, err := pair(params)
	if err != nil {
		return Failure(err.Error())
	}
	sum, err := a.Add(b)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": []float64(sum)})
}

// Subtract computes a - b
func (v *VectorOps) Subtract(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, b, err := pair(params)
	if err != nil {
		return Failure(err.Error())
	}
	diff, err := a.Sub(b)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": []float64(diff)})
}

// Scale multiplies a vector by a scalar
func (v *VectorOps) Scale(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, err := GetVector(params, "a")
	if err != nil {
		return Failure(err.Error())
	}
	s, ok := GetNumber(params, "s")
	if !ok {
		return Failure("s parameter required")
	}
	if err := ValidateNumber(s, "s"); err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": []float64(a.Scale(s))})
}

// Dot computes the inner product
func (v *VectorOps) Dot(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, b, err := pair(params)
	if err != nil {
		return Failure(err.Error())
	}
	dot, err := a.Dot(b)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": dot})
}

// Cross computes the cross product of two 3-vectors
func (v *VectorOps) Cross(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, b, err := pair(params)
	if err != nil {
		return Failure(err.Error())
	}
	cross, err := a.Cross(b)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": []float64(cross)})
}

// Magnitude returns the Euclidean length
func (v *VectorOps) Magnitude(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, err := GetVector(params, "a")
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{
		"result":  a.Magnitude(),
		"squared": a.MagnitudeSq(),
	})
}

// Normalize returns the unit vector
func (v *VectorOps) Normalize(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, err := GetVector(params, "a")
	if err != nil {
		return Failure(err.Error())
	}
	unit, err := a.Normalize()
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": []float64(unit)})
}

// Distance measures a to b under the requested metric
func (v *VectorOps) Distance(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, b, err := pair(params)
	if err != nil {
		return Failure(err.Error())
	}
	name, _ := GetString(params, "metric")
	metric, err := vector.ParseDistanceType(name)
	if err != nil {
		return Failure(err.Error())
	}
	d, err := vector.Distance(a, b, metric)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{
		"result": d,
		"metric": metric.String(),
	})
}
