package vector

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrIndexOutOfRange is returned when an accessor addresses a missing element
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrDimensionMismatch is returned when two vectors differ in length
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrZeroLength is returned when normalizing or dividing by zero
	ErrZeroLength = errors.New("zero length")
)

// Vector is a dense real vector
type Vector []float64

// New creates a zero vector of size n
func New(n int) Vector {
	return make(Vector, n)
}

// New2 creates a 2D vector
func New2(x, y float64) Vector {
	return Vector{x, y}
}

// New3 creates a 3D vector
func New3(x, y, z float64) Vector {
	return Vector{x, y, z}
}

// Filled creates a vector of size n with every element set to value
func Filled(n int, value float64) Vector {
	v := New(n)
	v.Fill(value)
	return v
}

// Size returns the number of elements
func (v Vector) Size() int {
	return len(v)
}

// At returns element i
func (v Vector) At(i int) (float64, error) {
	if i < 0 || i >= len(v) {
		return 0, fmt.Errorf("element %d of vector with size %d: %w", i, len(v), ErrIndexOutOfRange)
	}
	return v[i], nil
}

// X returns the first element
func (v Vector) X() (float64, error) {
	return v.At(0)
}

// Y returns the second element
func (v Vector) Y() (float64, error) {
	return v.At(1)
}

// Z returns the third element
func (v Vector) Z() (float64, error) {
	return v.At(2)
}

// Fill sets every element to value
func (v Vector) Fill(value float64) {
	for i := range v {
		v[i] = value
	}
}

// PushBack returns v with value appended
func (v Vector) PushBack(value float64) Vector {
	return append(v, value)
}

// Clone returns a deep copy
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Add returns v + other
func (v Vector) Add(other Vector) (Vector, error) {
	if err := sameSize(v, other); err != nil {
		return nil, err
	}
	out := New(len(v))
	floats.AddTo(out, v, other)
	return out, nil
}

// Sub returns v - other
func (v Vector) Sub(other Vector) (Vector, error) {
	if err := sameSize(v, other); err != nil {
		return nil, err
	}
	out := New(len(v))
	floats.SubTo(out, v, other)
	return out, nil
}

// Scale returns v * s
func (v Vector) Scale(s float64) Vector {
	out := New(len(v))
	floats.ScaleTo(out, s, v)
	return out
}

// Div returns v / s
func (v Vector) Div(s float64) (Vector, error) {
	if s == 0 {
		return nil, fmt.Errorf("divide vector by zero: %w", ErrZeroLength)
	}
	return v.Scale(1 / s), nil
}

// Dot returns the inner product of v and other
func (v Vector) Dot(other Vector) (float64, error) {
	if err := sameSize(v, other); err != nil {
		return 0, err
	}
	return floats.Dot(v, other), nil
}

// Cross returns the 3D cross product v x other
func (v Vector) Cross(other Vector) (Vector, error) {
	if len(v) != 3 || len(other) != 3 {
		return nil, fmt.Errorf("cross product requires 3D vectors, got %d and %d: %w", len(v), len(other), ErrDimensionMismatch)
	}
	c := r3.Cross(r3.Vec{X: v[0], Y: v[1], Z: v[2]}, r3.Vec{X: other[0], Y: other[1], Z: other[2]})
	return New3(c.X, c.Y, c.Z), nil
}

// Magnitude returns the L2 norm
func (v Vector) Magnitude() float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, 2)
}

// MagnitudeSq returns the squared L2 norm
func (v Vector) MagnitudeSq() float64 {
	return floats.Dot(v, v)
}

// Normalize returns the unit vector pointing along v
func (v Vector) Normalize() (Vector, error) {
	mag := v.Magnitude()
	if mag == 0 {
		return nil, fmt.Errorf("normalize zero vector: %w", ErrZeroLength)
	}
	return v.Scale(1 / mag), nil
}

// Equal reports whether v and other match element-wise within eps
func (v Vector) Equal(other Vector, eps float64) bool {
	if len(v) != len(other) {
		return false
	}
	return floats.EqualApprox(v, other, eps)
}

// ToVector2 truncates or zero-pads v to two elements
func (v Vector) ToVector2() Vector {
	return v.resize(2)
}

// ToVector3 truncates or zero-pads v to three elements
func (v Vector) ToVector3() Vector {
	return v.resize(3)
}

func (v Vector) resize(n int) Vector {
	out := New(n)
	copy(out, v)
	return out
}

// String renders the vector as "V(x, y, ...)"
func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return "V(" + strings.Join(parts, ", ") + ")"
}

// IsFinite reports whether every element is neither NaN nor infinite
func (v Vector) IsFinite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func sameSize(a, b Vector) error {
	if len(a) != len(b) {
		return fmt.Errorf("sizes %d and %d: %w", len(a), len(b), ErrDimensionMismatch)
	}
	return nil
}
