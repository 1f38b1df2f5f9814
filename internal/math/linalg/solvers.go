// Package linalg solves dense linear systems with gonum factorizations.
package linalg

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/GriffinCanCode/terminus-math/internal/math/matrix"
	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

var (
	// ErrSingular is returned when no factorization can solve the system
	ErrSingular = errors.New("system is singular")
	// ErrNotSymmetric is returned when a symmetric solver receives an asymmetric matrix
	ErrNotSymmetric = errors.New("matrix is not symmetric")
)

const symmetryTolerance = 1e-9

// SolveSymmetric solves Ax = b for a symmetric positive definite A.
// Cholesky is tried first; Householder QR takes over when A is not
// numerically positive definite.
func SolveSymmetric(a *matrix.Matrix, b vector.Vector) (vector.Vector, error) {
	if err := checkSystem(a, b); err != nil {
		return nil, err
	}
	if a.Rows() != a.Cols() {
		return nil, fmt.Errorf("symmetric solve: %w", matrix.ErrNotSquare)
	}
	if !isSymmetric(a.Dense()) {
		return nil, ErrNotSymmetric
	}

	n := a.Rows()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, a.Dense().At(i, j))
		}
	}

	var chol mat.Cholesky
	if chol.Factorize(sym) {
		x := mat.NewVecDense(n, nil)
		if err := chol.SolveVecTo(x, toVec(b)); err == nil {
			return fromVec(x), nil
		}
	}

	return solveQR(a.Dense(), b)
}

// Solve solves Ax = b. Square systems use LU; anything LU cannot handle
// falls through to a QR least-squares solution.
func Solve(a *matrix.Matrix, b vector.Vector) (vector.Vector, error) {
	if err := checkSystem(a, b); err != nil {
		return nil, err
	}

	if a.Rows() == a.Cols() {
		var lu mat.LU
		lu.Factorize(a.Dense())
		x := mat.NewVecDense(a.Cols(), nil)
		if err := lu.SolveVecTo(x, false, toVec(b)); err == nil {
			return fromVec(x), nil
		}
	}

	return LeastSquares(a, b)
}

// LeastSquares minimizes ||Ax - b|| for an A with at least as many rows as columns
func LeastSquares(a *matrix.Matrix, b vector.Vector) (vector.Vector, error) {
	if err := checkSystem(a, b); err != nil {
		return nil, err
	}
	if a.Rows() < a.Cols() {
		return nil, fmt.Errorf("least squares needs rows >= cols, got %dx%d: %w", a.Rows(), a.Cols(), matrix.ErrDimensionMismatch)
	}
	return solveQR(a.Dense(), b)
}

func solveQR(a *mat.Dense, b vector.Vector) (vector.Vector, error) {
	_, c := a.Dims()
	var qr mat.QR
	qr.Factorize(a)
	x := mat.NewVecDense(c, nil)
	if err := qr.SolveVecTo(x, false, toVec(b)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return fromVec(x), nil
}

func checkSystem(a *matrix.Matrix, b vector.Vector) error {
	if a.Rows() == 0 || a.Cols() == 0 {
		return fmt.Errorf("empty system: %w", matrix.ErrDimensionMismatch)
	}
	if a.Rows() != len(b) {
		return fmt.Errorf("%dx%d system with rhs of size %d: %w", a.Rows(), a.Cols(), len(b), matrix.ErrDimensionMismatch)
	}
	return nil
}

func isSymmetric(a *mat.Dense) bool {
	n, _ := a.Dims()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := a.At(i, j) - a.At(j, i)
			if d > symmetryTolerance || d < -symmetryTolerance {
				return false
			}
		}
	}
	return true
}

func toVec(v vector.Vector) *mat.VecDense {
	return mat.NewVecDense(len(v), append([]float64(nil), v...))
}

func fromVec(v *mat.VecDense) vector.Vector {
	out := make(vector.Vector, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
