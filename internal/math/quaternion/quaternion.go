// Package quaternion provides rotation quaternions built on gonum/num/quat.
//
// The zero Quaternion is the zero quaternion; use Identity for the no-op
// rotation. Multiplication is the Hamilton product.
package quaternion

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/GriffinCanCode/terminus-math/internal/math/matrix"
	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

var (
	ErrIndexOutOfRange = errors.New("quaternion index out of range")
	ErrZero            = errors.New("zero quaternion")
	ErrNotRotation     = errors.New("expected a 3x3 rotation matrix")
)

// fromMatrixEpsilon selects the largest diagonal branch in FromMatrix
const fromMatrixEpsilon = 1e-5

// Quaternion is real + i*imag[0] + j*imag[1] + k*imag[2]
type Quaternion struct {
	n quat.Number
}

// New creates a quaternion from its four components
func New(real, i, j, k float64) Quaternion {
	return Quaternion{n: quat.Number{Real: real, Imag: i, Jmag: j, Kmag: k}}
}

// Identity returns 1 + 0i + 0j + 0k
func Identity() Quaternion {
	return New(1, 0, 0, 0)
}

// FromAxisAngle builds the rotation of angle radians about axis
func FromAxisAngle(axis vector.Vector, angle float64) (Quaternion, error) {
	unit, err := axis.ToVector3().Normalize()
	if err != nil {
		return Quaternion{}, fmt.Errorf("rotation axis: %w", err)
	}
	s := math.Sin(angle / 2)
	return New(math.Cos(angle/2), unit[0]*s, unit[1]*s, unit[2]*s), nil
}

// Number exposes the gonum representation
func (q Quaternion) Number() quat.Number { return q.n }

// Real returns the scalar part
func (q Quaternion) Real() float64 { return q.n.Real }

// Imag returns the vector part
func (q Quaternion) Imag() vector.Vector {
	return vector.New3(q.n.Imag, q.n.Jmag, q.n.Kmag)
}

// At returns component i, where 0 is the real part
func (q Quaternion) At(i int) (float64, error) {
	switch i {
	case 0:
		return q.n.Real, nil
	case 1:
		return q.n.Imag, nil
	case 2:
		return q.n.Jmag, nil
	case 3:
		return q.n.Kmag, nil
	default:
		return 0, fmt.Errorf("component %d: %w", i, ErrIndexOutOfRange)
	}
}

// Components returns [real, i, j, k]
func (q Quaternion) Components() [4]float64 {
	return [4]float64{q.n.Real, q.n.Imag, q.n.Jmag, q.n.Kmag}
}

// MagnitudeSq returns the squared norm
func (q Quaternion) MagnitudeSq() float64 {
	return q.n.Real*q.n.Real + q.n.Imag*q.n.Imag + q.n.Jmag*q.n.Jmag + q.n.Kmag*q.n.Kmag
}

// Magnitude returns the norm
func (q Quaternion) Magnitude() float64 {
	return quat.Abs(q.n)
}

// Normalize returns q scaled to unit length
func (q Quaternion) Normalize() (Quaternion, error) {
	mag := q.Magnitude()
	if mag == 0 {
		return Quaternion{}, ErrZero
	}
	return Quaternion{n: quat.Scale(1/mag, q.n)}, nil
}

// Conj returns the conjugate
func (q Quaternion) Conj() Quaternion {
	return Quaternion{n: quat.Conj(q.n)}
}

// Inverse returns the multiplicative inverse
func (q Quaternion) Inverse() (Quaternion, error) {
	if q.MagnitudeSq() == 0 {
		return Quaternion{}, ErrZero
	}
	return Quaternion{n: quat.Inv(q.n)}, nil
}

// Add returns q + other
func (q Quaternion) Add(other Quaternion) Quaternion {
	return Quaternion{n: quat.Add(q.n, other.n)}
}

// Sub returns q - other
func (q Quaternion) Sub(other Quaternion) Quaternion {
	return Quaternion{n: quat.Sub(q.n, other.n)}
}

// Scale returns q * s
func (q Quaternion) Scale(s float64) Quaternion {
	return Quaternion{n: quat.Scale(s, q.n)}
}

// Mul returns the Hamilton product q * other
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{n: quat.Mul(q.n, other.n)}
}

// Div returns q * other^-1
func (q Quaternion) Div(other Quaternion) (Quaternion, error) {
	inv, err := other.Inverse()
	if err != nil {
		return Quaternion{}, fmt.Errorf("divide: %w", err)
	}
	return q.Mul(inv), nil
}

// Dot returns the four-dimensional inner product
func (q Quaternion) Dot(other Quaternion) float64 {
	return q.n.Real*other.n.Real + q.n.Imag*other.n.Imag + q.n.Jmag*other.n.Jmag + q.n.Kmag*other.n.Kmag
}

// Equal reports whether all components match within eps
func (q Quaternion) Equal(other Quaternion, eps float64) bool {
	a, b := q.Components(), other.Components()
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Rotate applies the rotation q to a 3D vector
func (q Quaternion) Rotate(v vector.Vector) (vector.Vector, error) {
	unit, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	v3 := v.ToVector3()
	p := quat.Number{Imag: v3[0], Jmag: v3[1], Kmag: v3[2]}
	r := quat.Mul(quat.Mul(unit.n, p), quat.Conj(unit.n))
	return vector.New3(r.Imag, r.Jmag, r.Kmag), nil
}

// ToMatrix returns the 3x3 rotation matrix of the normalized quaternion
func (q Quaternion) ToMatrix() (*matrix.Matrix, error) {
	unit, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	w, x, y, z := unit.n.Real, unit.n.Imag, unit.n.Jmag, unit.n.Kmag
	return matrix.NewFromData(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
}

// FromMatrix recovers a quaternion from a 3x3 rotation matrix, solving
// through whichever of w, x, y, z has the largest magnitude
func FromMatrix(m *matrix.Matrix) (Quaternion, error) {
	if m.Rows() != 3 || m.Cols() != 3 {
		return Quaternion{}, fmt.Errorf("got %dx%d: %w", m.Rows(), m.Cols(), ErrNotRotation)
	}
	a := m.Dense()
	d := m.Diagonal()

	ww := 1 + d[0] + d[1] + d[2]
	xx := 1 + d[0] - d[1] - d[2]
	yy := 1 - d[0] + d[1] - d[2]
	zz := 1 - d[0] - d[1] + d[2]
	maxVal := math.Max(ww, math.Max(xx, math.Max(yy, zz)))

	switch {
	case math.Abs(ww-maxVal) < fromMatrixEpsilon:
		w4 := math.Sqrt(ww * 4)
		return New(w4/4, (a.At(2, 1)-a.At(1, 2))/w4, (a.At(0, 2)-a.At(2, 0))/w4, (a.At(1, 0)-a.At(0, 1))/w4), nil
	case math.Abs(xx-maxVal) < fromMatrixEpsilon:
		x4 := math.Sqrt(xx * 4)
		return New((a.At(2, 1)-a.At(1, 2))/x4, x4/4, (a.At(0, 1)+a.At(1, 0))/x4, (a.At(0, 2)+a.At(2, 0))/x4), nil
	case math.Abs(yy-maxVal) < fromMatrixEpsilon:
		y4 := math.Sqrt(yy * 4)
		return New((a.At(0, 2)-a.At(2, 0))/y4, (a.At(0, 1)+a.At(1, 0))/y4, y4/4, (a.At(1, 2)+a.At(2, 1))/y4), nil
	default:
		z4 := math.Sqrt(zz * 4)
		return New((a.At(1, 0)-a.At(0, 1))/z4, (a.At(0, 2)+a.At(2, 0))/z4, (a.At(1, 2)+a.At(2, 1))/z4, z4/4), nil
	}
}

// String renders "Q(real, i, j, k)"
func (q Quaternion) String() string {
	return fmt.Sprintf("Q(%g, %g, %g, %g)", q.n.Real, q.n.Imag, q.n.Jmag, q.n.Kmag)
}
