package optimize

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

// referenceModel is a small nonlinear map from 4 parameters to 5 outputs
var referenceModel = ModelFunc(func(x vector.Vector) (vector.Vector, error) {
	return vector.Vector{
		math.Sin(x[0] + 0.1),
		math.Cos(x[1] * x[2]),
		x[1] * math.Cos(x[2]),
		math.Atan2(x[0], x[3]),
		math.Atan2(x[2], x[1]),
	}, nil
})

// linearModel maps (a, b) onto (a, b, a+b)
var linearModel = ModelFunc(func(x vector.Vector) (vector.Vector, error) {
	return vector.Vector{x[0], x[1], x[0] + x[1]}, nil
})

func TestReferenceModel(t *testing.T) {
	x := vector.Vector{0.2, 0.3, 0.4, 0.5}

	h, err := referenceModel.Evaluate(x)
	require.NoError(t, err)

	expected := []float64{
		0.29552020666133957510,
		0.99280863585386625224,
		0.27631829820086552483,
		0.38050637711236488630,
		0.92729521800161223242,
	}
	for i := range expected {
		assert.InDelta(t, expected[i], h[i], 1e-9)
	}
}

func TestNumericJacobian(t *testing.T) {
	x := vector.Vector{0.2, 0.3, 0.4, 0.5}

	jac, err := NumericJacobian(referenceModel, x)
	require.NoError(t, err)
	assert.Equal(t, 5, jac.Rows())
	assert.Equal(t, 4, jac.Cols())

	tests := []struct {
		row, col int
		want     float64
	}{
		{0, 0, math.Cos(0.3)},
		{1, 1, -0.4 * math.Sin(0.12)},
		{2, 2, -0.3 * math.Sin(0.4)},
		{3, 0, 0.5 / 0.29},
		{4, 1, -0.4 / 0.25},
	}
	for _, tt := range tests {
		got, err := jac.At(tt.row, tt.col)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-4, "J(%d,%d)", tt.row, tt.col)
	}
}

func TestSolveLinear(t *testing.T) {
	settings := DefaultSettings()
	settings.AbsTolerance = 1e-9

	res, err := Solve(context.Background(), linearModel,
		vector.Vector{0, 0}, vector.Vector{1, 2, 3}, settings, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, ConvergedAbsTolerance, res.Status)
	assert.True(t, res.Status.Converged())
	assert.InDelta(t, 1.0, res.X[0], 1e-8)
	assert.InDelta(t, 2.0, res.X[1], 1e-8)
	assert.Less(t, res.Error, 1e-9)
	assert.Greater(t, res.Iterations, 0)
}

func TestSolveAlreadyConverged(t *testing.T) {
	res, err := Solve(context.Background(), linearModel,
		vector.Vector{1, 2}, vector.Vector{1, 2, 3}, Settings{}, nil)
	require.NoError(t, err)

	assert.Equal(t, ConvergedAbsTolerance, res.Status)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, vector.Vector{1, 2}, res.X)
}

func TestSolveDoesNotMutateSeed(t *testing.T) {
	seed := vector.Vector{0, 0}
	_, err := Solve(context.Background(), linearModel, seed, vector.Vector{1, 2, 3},
		Settings{AbsTolerance: 1e-9}, nil)
	require.NoError(t, err)
	assert.Equal(t, vector.Vector{0, 0}, seed)
}

func TestSolveMaxIterations(t *testing.T) {
	res, err := Solve(context.Background(), linearModel,
		vector.Vector{0, 0}, vector.Vector{1, 2, 3}, Settings{MaxIterations: 1}, nil)
	require.NoError(t, err)

	assert.Equal(t, DidNotConverge, res.Status)
	assert.Equal(t, 1, res.Iterations)
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Solve(ctx, linearModel, vector.Vector{0, 0}, vector.Vector{1, 2, 3}, DefaultSettings(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPolynomialFit(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	ys := make(vector.Vector, len(xs))
	for i, x := range xs {
		ys[i] = 1 + 2*x
	}

	model := PolynomialModel{X: xs, Degree: 1}
	res, err := Solve(context.Background(), model, vector.Vector{0, 0}, ys,
		Settings{AbsTolerance: 1e-9}, nil)
	require.NoError(t, err)

	assert.True(t, res.Status.Converged())
	assert.InDelta(t, 1.0, res.X[0], 1e-6)
	assert.InDelta(t, 2.0, res.X[1], 1e-6)

	_, err = model.Evaluate(vector.Vector{1, 2, 3})
	assert.ErrorIs(t, err, ErrParameterCount)
}

func TestExponentialJacobianMatchesNumeric(t *testing.T) {
	model := ExponentialModel{X: []float64{0, 0.5, 1}}
	p := vector.Vector{2, 0.7}

	analytic, err := model.Jacobian(p)
	require.NoError(t, err)
	numeric, err := NumericJacobian(model, p)
	require.NoError(t, err)

	assert.True(t, analytic.Equal(numeric, 1e-5))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "converged_rel_tolerance", ConvergedRelTolerance.String())
	assert.Equal(t, "did_not_converge", DidNotConverge.String())
	assert.Equal(t, "unknown", Unknown.String())
	assert.False(t, DidNotConverge.Converged())
}
