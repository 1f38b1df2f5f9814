package optimize

import (
	"errors"
	"fmt"
	"math"

	"github.com/GriffinCanCode/terminus-math/internal/math/matrix"
	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

var (
	ErrEmptyModel     = errors.New("model produced no outputs")
	ErrParameterCount = errors.New("wrong number of model parameters")
)

// Model evaluates h(x) for a parameter vector x
type Model interface {
	Evaluate(x vector.Vector) (vector.Vector, error)
}

// Jacobianer is implemented by models that can supply dh/dx analytically.
// The matrix has one row per output and one column per parameter.
type Jacobianer interface {
	Jacobian(x vector.Vector) (*matrix.Matrix, error)
}

// Differencer is implemented by models whose outputs live on a topology
// where plain subtraction is wrong, such as wrapped angles
type Differencer interface {
	Difference(a, b vector.Vector) (vector.Vector, error)
}

// ModelFunc adapts a plain function to Model
type ModelFunc func(x vector.Vector) (vector.Vector, error)

// Evaluate calls f(x)
func (f ModelFunc) Evaluate(x vector.Vector) (vector.Vector, error) {
	return f(x)
}

// NumericJacobian differentiates model at x with forward differences,
// stepping each parameter by 1e-7 + |x_i|*1e-7
func NumericJacobian(model Model, x vector.Vector) (*matrix.Matrix, error) {
	h0, err := model.Evaluate(x)
	if err != nil {
		return nil, err
	}
	if len(h0) == 0 {
		return nil, ErrEmptyModel
	}

	jac := matrix.New(len(h0), len(x))
	for i := range x {
		xi := x.Clone()
		eps := 1e-7 + math.Abs(xi[i]*1e-7)
		xi[i] += eps

		hi, err := model.Evaluate(xi)
		if err != nil {
			return nil, err
		}
		d, err := difference(model, hi, h0)
		if err != nil {
			return nil, err
		}
		if err := jac.SetCol(i, d.Scale(1/eps)); err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
	}
	return jac, nil
}

func jacobian(model Model, x vector.Vector) (*matrix.Matrix, error) {
	if j, ok := model.(Jacobianer); ok {
		return j.Jacobian(x)
	}
	return NumericJacobian(model, x)
}

func difference(model Model, a, b vector.Vector) (vector.Vector, error) {
	if d, ok := model.(Differencer); ok {
		return d.Difference(a, b)
	}
	return a.Sub(b)
}

// PolynomialModel predicts y = c0 + c1*x + ... + cn*x^n at each sample X.
// The parameter vector holds the Degree+1 coefficients.
type PolynomialModel struct {
	X      []float64
	Degree int
}

func (p PolynomialModel) Evaluate(c vector.Vector) (vector.Vector, error) {
	if len(c) != p.Degree+1 {
		return nil, fmt.Errorf("polynomial of degree %d takes %d coefficients, got %d: %w",
			p.Degree, p.Degree+1, len(c), ErrParameterCount)
	}
	out := vector.New(len(p.X))
	for i, x := range p.X {
		// Horner
		var y float64
		for k := len(c) - 1; k >= 0; k-- {
			y = y*x + c[k]
		}
		out[i] = y
	}
	return out, nil
}

func (p PolynomialModel) Jacobian(c vector.Vector) (*matrix.Matrix, error) {
	if len(c) != p.Degree+1 {
		return nil, ErrParameterCount
	}
	if len(p.X) == 0 {
		return nil, ErrEmptyModel
	}
	jac := matrix.New(len(p.X), len(c))
	for i, x := range p.X {
		pow := 1.0
		for k := range c {
			_ = jac.Set(i, k, pow)
			pow *= x
		}
	}
	return jac, nil
}

// ExponentialModel predicts y = a*exp(b*x) with parameters (a, b)
type ExponentialModel struct {
	X []float64
}

func (e ExponentialModel) Evaluate(p vector.Vector) (vector.Vector, error) {
	if len(p) != 2 {
		return nil, fmt.Errorf("exponential takes 2 parameters, got %d: %w", len(p), ErrParameterCount)
	}
	out := vector.New(len(e.X))
	for i, x := range e.X {
		out[i] = p[0] * math.Exp(p[1]*x)
	}
	return out, nil
}

func (e ExponentialModel) Jacobian(p vector.Vector) (*matrix.Matrix, error) {
	if len(p) != 2 {
		return nil, ErrParameterCount
	}
	if len(e.X) == 0 {
		return nil, ErrEmptyModel
	}
	jac := matrix.New(len(e.X), 2)
	for i, x := range e.X {
		g := math.Exp(p[1] * x)
		_ = jac.Set(i, 0, g)
		_ = jac.Set(i, 1, p[0]*x*g)
	}
	return jac, nil
}
