// Package optimize implements a Levenberg-Marquardt least-squares solver.
//
// Solve searches for the parameter vector x that minimizes
//
//	J(x) = sum_i (z_i - h_i(x))^2
//
// for a Model h and observation z. The damping term mixes gradient descent
// with Gauss-Newton steps and shrinks by a factor of ten after every
// accepted outer iteration.
package optimize

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/GriffinCanCode/terminus-math/internal/math/linalg"
	"github.com/GriffinCanCode/terminus-math/internal/math/matrix"
	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

// Status reports how a solve terminated
type Status int

const (
	DidNotConverge        Status = -1
	Unknown               Status = 0
	ConvergedAbsTolerance Status = 1
	ConvergedRelTolerance Status = 2
)

func (s Status) String() string {
	switch s {
	case DidNotConverge:
		return "did_not_converge"
	case ConvergedAbsTolerance:
		return "converged_abs_tolerance"
	case ConvergedRelTolerance:
		return "converged_rel_tolerance"
	default:
		return "unknown"
	}
}

// Converged reports whether either tolerance was met
func (s Status) Converged() bool {
	return s == ConvergedAbsTolerance || s == ConvergedRelTolerance
}

const (
	DefaultAbsTolerance  = 1e-16
	DefaultRelTolerance  = 1e-16
	DefaultMaxIterations = 100

	rinv          = 10.0
	initialLambda = 0.1
	maxInner      = 5
)

// Settings bounds a solve. Non-positive fields take their defaults.
type Settings struct {
	AbsTolerance  float64
	RelTolerance  float64
	MaxIterations int
}

// DefaultSettings returns 1e-16 / 1e-16 / 100
func DefaultSettings() Settings {
	return Settings{
		AbsTolerance:  DefaultAbsTolerance,
		RelTolerance:  DefaultRelTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

func (s Settings) normalized() Settings {
	if s.AbsTolerance <= 0 {
		s.AbsTolerance = DefaultAbsTolerance
	}
	if s.RelTolerance <= 0 {
		s.RelTolerance = DefaultRelTolerance
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = DefaultMaxIterations
	}
	return s
}

// Result is the outcome of Solve. Error is the final residual 2-norm.
type Result struct {
	X          vector.Vector `json:"x"`
	Status     Status        `json:"status"`
	Iterations int           `json:"iterations"`
	Error      float64       `json:"error"`
}

// Solve runs Levenberg-Marquardt from seed toward observation
func Solve(ctx context.Context, model Model, seed, observation vector.Vector, settings Settings, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := settings.normalized()

	x := seed.Clone()
	res := Result{X: x, Status: DidNotConverge}

	normStart, err := residualNorm(model, x, observation)
	if err != nil {
		return res, err
	}
	res.Error = normStart
	logger.Debug("LM start",
		zap.Float64s("seed", seed),
		zap.Float64("norm", normStart))

	if normStart < s.AbsTolerance {
		res.Status = ConvergedAbsTolerance
		logger.Debug("LM converged to absolute tolerance")
		return res, nil
	}

	lambda := initialLambda
	for done := false; !done; {
		if err := ctx.Err(); err != nil {
			res.X = x
			return res, err
		}
		res.Iterations++

		h, err := model.Evaluate(x)
		if err != nil {
			return res, err
		}
		e, err := difference(model, observation, h)
		if err != nil {
			return res, err
		}
		normStart = e.Magnitude()

		jac, err := jacobian(model, x)
		if err != nil {
			return res, err
		}
		if jac.Rows() != len(e) || jac.Cols() != len(x) {
			return res, fmt.Errorf("jacobian is %dx%d for %d outputs and %d parameters: %w",
				jac.Rows(), jac.Cols(), len(e), len(x), matrix.ErrDimensionMismatch)
		}
		J := jac.Dense()

		var delJ mat.VecDense
		delJ.MulVec(J.T(), mat.NewVecDense(len(e), e))
		delJ.ScaleVec(-rinv, &delJ)

		var hessian mat.Dense
		hessian.Mul(J.T(), J)
		hessian.Scale(rinv, &hessian)

		logger.Debug("LM outer iteration",
			zap.Int("iteration", res.Iterations),
			zap.Float64s("x", x),
			zap.Float64("norm", normStart))

		var xTry vector.Vector
		shortCircuit := false
		normTry := normStart + 1
		for inner := 0; !(normTry <= normStart); {
			delta, err := dampedStep(&hessian, &delJ, lambda)
			if err != nil {
				return res, err
			}
			if xTry, err = x.Sub(delta); err != nil {
				return res, err
			}
			if normTry, err = residualNorm(model, xTry, observation); err != nil {
				return res, err
			}
			logger.Debug("LM inner iteration",
				zap.Int("inner", inner),
				zap.Float64("norm", normTry),
				zap.Float64("lambda", lambda))

			if !(normTry <= normStart) {
				lambda *= 10
			}
			inner++
			if inner > maxInner {
				logger.Debug("LM too many inner iterations, short circuiting")
				shortCircuit = true
				normTry = normStart
			}
		}

		// a short circuit means no improvement, so relative change is meaningless
		if !shortCircuit && (normStart-normTry)/normStart < s.RelTolerance {
			res.Status = ConvergedRelTolerance
			logger.Debug("LM converged to relative tolerance")
			done = true
		}
		if normTry < s.AbsTolerance {
			res.Status = ConvergedAbsTolerance
			logger.Debug("LM converged to absolute tolerance")
			done = true
		}
		if res.Iterations >= s.MaxIterations {
			logger.Debug("LM reached max iterations")
			done = true
		}

		if !shortCircuit {
			x = xTry
		}
		res.Error = normTry
		lambda /= 10
	}

	res.X = x
	logger.Debug("LM finished",
		zap.Int("iterations", res.Iterations),
		zap.Stringer("status", res.Status),
		zap.Float64("norm", res.Error))
	return res, nil
}

func residualNorm(model Model, x, observation vector.Vector) (float64, error) {
	h, err := model.Evaluate(x)
	if err != nil {
		return 0, err
	}
	e, err := difference(model, observation, h)
	if err != nil {
		return 0, err
	}
	return e.Magnitude(), nil
}

// dampedStep solves (H + diag(H)*lambda + lambda*I) delta = delJ
func dampedStep(hessian *mat.Dense, delJ *mat.VecDense, lambda float64) (vector.Vector, error) {
	n, _ := hessian.Dims()
	lm := mat.DenseCopyOf(hessian)
	for i := 0; i < n; i++ {
		d := lm.At(i, i)
		lm.Set(i, i, d+d*lambda+lambda)
	}

	if n <= 2 && mat.Det(lm) > 0 {
		var inv mat.Dense
		if err := inv.Inverse(lm); err == nil {
			var out mat.VecDense
			out.MulVec(&inv, delJ)
			return vector.Vector(mat.Col(nil, 0, &out)), nil
		}
	}

	a := matrix.FromDense(lm)
	b := vector.Vector(mat.Col(nil, 0, delJ))
	delta, err := linalg.SolveSymmetric(a, b)
	if err == nil {
		return delta, nil
	}
	// a tiny lambda can leave the damped hessian numerically singular
	return linalg.Solve(a, b)
}
