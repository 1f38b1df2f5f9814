package math

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/terminus-math/internal/math/linalg"
	"github.com/GriffinCanCode/terminus-math/internal/math/matrix"
	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
	"github.com/GriffinCanCode/terminus-math/internal/types"
)

// MatrixOps handles dense matrix operations and linear solves
type MatrixOps struct {
	*MathOps
}

var singleMatrixParam = []types.Parameter{
	{Name: "a", Type: "array", Description: "Matrix as an array of rows", Required: true},
}

// GetTools returns matrix tool definitions
func (m *MatrixOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "matrix.multiply",
			Name:        "Multiply",
			Description: "Matrix product a * b",
			Parameters: []types.Parameter{
				{Name: "a", Type: "array", Description: "Left matrix as an array of rows", Required: true},
				{Name: "b", Type: "array", Description: "Right matrix as an array of rows", Required: true},
			},
			Returns: "array",
		},
		{
			ID:          "matrix.mul_vec",
			Name:        "Multiply Vector",
			Description: "Matrix-vector product a * v",
			Parameters: []types.Parameter{
				{Name: "a", Type: "array", Description: "Matrix as an array of rows", Required: true},
				{Name: "v", Type: "array", Description: "Vector", Required: true},
			},
			Returns: "array",
		},
		{ID: "matrix.transpose", Name: "Transpose", Description: "Matrix transpose", Parameters: singleMatrixParam, Returns: "array"},
		{ID: "matrix.determinant", Name: "Determinant", Description: "Determinant of a square matrix", Parameters: singleMatrixParam, Returns: "number"},
		{ID: "matrix.inverse", Name: "Inverse", Description: "Inverse of a square matrix", Parameters: singleMatrixParam, Returns: "array"},
		{
			ID:          "matrix.solve",
			Name:        "Solve",
			Description: "Solve the linear system a * x = b",
			Parameters: []types.Parameter{
				{Name: "a", Type: "array", Description: "Coefficient matrix as an array of rows", Required: true},
				{Name: "b", Type: "array", Description: "Right-hand side", Required: true},
				{Name: "method", Type: "string", Description: "general, symmetric or least_squares (default general)", Required: false},
			},
			Returns: "array",
		},
	}
}

// Multiply computes a * b
func (m *MatrixOps) Multiply(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, err := GetMatrix(params, "a")
	if err != nil {
		return Failure(err.Error())
	}
	b, err := GetMatrix(params, "b")
	if err != nil {
		return Failure(err.Error())
	}
	product, err := a.Mul(b)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{
		"result": Rows(product),
		"rows":   product.Rows(),
		"cols":   product.Cols(),
	})
}

// MulVec computes a * v
func (m *MatrixOps) MulVec(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, err := GetMatrix(params, "a")
	if err != nil {
		return Failure(err.Error())
	}
	v, err := GetVector(params, "v")
	if err != nil {
		return Failure(err.Error())
	}
	out, err := a.MulVec(v)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": []float64(out)})
}

// Transpose returns the transpose
func (m *MatrixOps) Transpose(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, err := GetMatrix(params, "a")
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": Rows(a.Transpose())})
}

// Determinant computes det(a)
func (m *MatrixOps) Determinant(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, err := GetMatrix(params, "a")
	if err != nil {
		return Failure(err.Error())
	}
	det, err := a.Determinant()
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": det})
}

// Inverse computes a^-1
func (m *MatrixOps) Inverse(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, err := GetMatrix(params, "a")
	if err != nil {
		return Failure(err.Error())
	}
	inv, err := a.Inverse()
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": Rows(inv)})
}

// Solve solves a * x = b with the requested method
func (m *MatrixOps) Solve(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, err := GetMatrix(params, "a")
	if err != nil {
		return Failure(err.Error())
	}
	b, err := GetVector(params, "b")
	if err != nil {
		return Failure(err.Error())
	}

	method, _ := GetString(params, "method")
	if method == "" {
		method = "general"
	}

	var solve func(*matrix.Matrix, vector.Vector) (vector.Vector, error)
	switch method {
	case "general":
		solve = linalg.Solve
	case "symmetric":
		solve = linalg.SolveSymmetric
	case "least_squares":
		solve = linalg.LeastSquares
	default:
		return Failure(fmt.Sprintf("unknown solve method: %s", method))
	}

	x, err := solve(a, b)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{
		"result": []float64(x),
		"method": method,
	})
}
