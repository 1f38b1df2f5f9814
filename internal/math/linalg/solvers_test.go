package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/terminus-math/internal/math/matrix"
	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

func mustMatrix(t *testing.T, rows [][]float64) *matrix.Matrix {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)
	return m
}

func TestSolveSymmetric(t *testing.T) {
	a := mustMatrix(t, [][]float64{
		{4, 1, 0},
		{1, 3, 1},
		{0, 1, 2},
	})
	want := vector.New3(1, -2, 3)
	b, err := a.MulVec(want)
	require.NoError(t, err)

	x, err := SolveSymmetric(a, b)
	require.NoError(t, err)
	assert.True(t, x.Equal(want, 1e-10), x.String())
}

func TestSolveSymmetricIndefinite(t *testing.T) {
	// symmetric but not positive definite, Cholesky fails and QR solves it
	a := mustMatrix(t, [][]float64{
		{0, 1},
		{1, 0},
	})
	x, err := SolveSymmetric(a, vector.New2(2, 5))
	require.NoError(t, err)
	assert.True(t, x.Equal(vector.New2(5, 2), 1e-10), x.String())
}

func TestSolveSymmetricRejectsAsymmetric(t *testing.T) {
	a := mustMatrix(t, [][]float64{{1, 2}, {3, 4}})
	_, err := SolveSymmetric(a, vector.New2(1, 1))
	assert.ErrorIs(t, err, ErrNotSymmetric)
}

func TestSolve(t *testing.T) {
	a := mustMatrix(t, [][]float64{{1, 2}, {3, 4}})
	x, err := Solve(a, vector.New2(5, 11))
	require.NoError(t, err)
	assert.True(t, x.Equal(vector.New2(1, 2), 1e-10), x.String())

	_, err = Solve(a, vector.New3(1, 2, 3))
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	singular := mustMatrix(t, [][]float64{{1, 0}, {0, 0}})
	_, err = Solve(singular, vector.New2(1, 1))
	assert.ErrorIs(t, err, ErrSingular)
}

func TestLeastSquares(t *testing.T) {
	// y = 2x + 1 sampled without noise
	a := mustMatrix(t, [][]float64{{0, 1}, {1, 1}, {2, 1}, {3, 1}})
	x, err := LeastSquares(a, vector.Vector{1, 3, 5, 7})
	require.NoError(t, err)
	assert.True(t, x.Equal(vector.New2(2, 1), 1e-10), x.String())

	wide := mustMatrix(t, [][]float64{{1, 2, 3}})
	_, err = LeastSquares(wide, vector.Vector{1})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
