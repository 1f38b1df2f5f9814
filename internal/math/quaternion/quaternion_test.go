package quaternion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/terminus-math/internal/math/matrix"
	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

func TestComponents(t *testing.T) {
	q := New(1, 2, 3, 4)
	assert.Equal(t, 1.0, q.Real())
	assert.Equal(t, vector.Vector{2, 3, 4}, q.Imag())

	for i, want := range []float64{1, 2, 3, 4} {
		got, err := q.At(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := q.At(4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	assert.Equal(t, 30.0, q.MagnitudeSq())
	assert.InDelta(t, math.Sqrt(30), q.Magnitude(), 1e-12)
	assert.Equal(t, New(1, -2, -3, -4), q.Conj())
}

func TestZeroValue(t *testing.T) {
	var q Quaternion
	assert.Equal(t, 0.0, q.Magnitude())

	_, err := q.Normalize()
	assert.ErrorIs(t, err, ErrZero)
	_, err = q.Inverse()
	assert.ErrorIs(t, err, ErrZero)
	_, err = Identity().Div(q)
	assert.ErrorIs(t, err, ErrZero)
}

func TestHamiltonProduct(t *testing.T) {
	i := New(0, 1, 0, 0)
	j := New(0, 0, 1, 0)
	k := New(0, 0, 0, 1)

	assert.Equal(t, k, i.Mul(j))
	assert.Equal(t, i, j.Mul(k))
	assert.Equal(t, j, k.Mul(i))
	assert.Equal(t, New(-1, 0, 0, 0), i.Mul(i))
	assert.Equal(t, k.Scale(-1), j.Mul(i))
}

func TestInverseAndDivide(t *testing.T) {
	q := New(1, 2, 3, 4)

	inv, err := q.Inverse()
	require.NoError(t, err)
	assert.True(t, q.Mul(inv).Equal(Identity(), 1e-12))

	quotient, err := q.Div(q)
	require.NoError(t, err)
	assert.True(t, quotient.Equal(Identity(), 1e-12))
}

func TestMatrixRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		axis  vector.Vector
		angle float64
	}{
		{"identity", vector.New3(0, 0, 1), 0},
		{"z quarter turn", vector.New3(0, 0, 1), math.Pi / 2},
		{"x half turn", vector.New3(1, 0, 0), math.Pi},
		{"y half turn", vector.New3(0, 1, 0), math.Pi},
		{"z half turn", vector.New3(0, 0, 1), math.Pi},
		{"oblique", vector.New3(1, 1, 1), 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := FromAxisAngle(tt.axis, tt.angle)
			require.NoError(t, err)

			m, err := q.ToMatrix()
			require.NoError(t, err)

			back, err := FromMatrix(m)
			require.NoError(t, err)

			// q and -q are the same rotation
			if back.Dot(q) < 0 {
				back = back.Scale(-1)
			}
			assert.True(t, back.Equal(q, 1e-9), "got %s want %s", back, q)
		})
	}

	_, err := FromMatrix(matrix.New(2, 2))
	assert.ErrorIs(t, err, ErrNotRotation)
}

func TestRotate(t *testing.T) {
	q, err := FromAxisAngle(vector.New3(0, 0, 1), math.Pi/2)
	require.NoError(t, err)

	v, err := q.Rotate(vector.New3(1, 0, 0))
	require.NoError(t, err)
	assert.True(t, v.Equal(vector.New3(0, 1, 0), 1e-12), v.String())
}

func TestSlerp(t *testing.T) {
	a := Identity()
	b, err := FromAxisAngle(vector.New3(0, 0, 1), math.Pi/2)
	require.NoError(t, err)

	assert.True(t, Slerp(0, a, b, 0).Equal(a, 1e-12))
	assert.True(t, Slerp(1, a, b, 0).Equal(b, 1e-12))

	mid := Slerp(0.5, a, b, 0)
	want, err := FromAxisAngle(vector.New3(0, 0, 1), math.Pi/4)
	require.NoError(t, err)
	assert.True(t, mid.Equal(want, 1e-12), "got %s want %s", mid, want)
	assert.InDelta(t, 1.0, mid.Magnitude(), 1e-12)

	// nearly identical inputs use the linear branch
	near := Slerp(0.5, a, a, 0)
	assert.True(t, near.Equal(a, 1e-12))

	// opposite hemisphere takes the shorter arc
	flipped := Slerp(0.5, a, b.Scale(-1), 0)
	assert.True(t, flipped.Equal(want, 1e-12), "got %s want %s", flipped, want)
}

func TestSlerpN(t *testing.T) {
	a := Identity()
	b, err := FromAxisAngle(vector.New3(0, 0, 1), math.Pi/2)
	require.NoError(t, err)

	t.Run("single ignores its weight", func(t *testing.T) {
		for _, w := range []float64{1, 0, 0.5, -3, math.NaN()} {
			q, err := SlerpN([]float64{w}, []Quaternion{b}, 0)
			require.NoError(t, err, "weight %g", w)
			assert.Equal(t, b, q)
		}
	})

	t.Run("pair matches Slerp", func(t *testing.T) {
		q, err := SlerpN([]float64{0.75, 0.25}, []Quaternion{a, b}, 0)
		require.NoError(t, err)
		assert.True(t, q.Equal(Slerp(0.25, a, b, 0), 1e-12))
	})

	t.Run("three equal copies", func(t *testing.T) {
		q, err := SlerpN([]float64{0.2, 0.3, 0.5}, []Quaternion{b, b, b}, 0)
		require.NoError(t, err)
		assert.True(t, q.Equal(b, 1e-9))
	})

	t.Run("errors", func(t *testing.T) {
		_, err := SlerpN([]float64{1}, []Quaternion{a, b}, 0)
		assert.ErrorIs(t, err, ErrWeightMismatch)

		_, err = SlerpN(nil, nil, 0)
		assert.ErrorIs(t, err, ErrNoQuaternions)

		_, err = SlerpN([]float64{0.5, 0.4}, []Quaternion{a, b}, 0)
		assert.ErrorIs(t, err, ErrWeightSum)

		_, err = SlerpN([]float64{1.5, -0.5}, []Quaternion{a, b}, 0)
		assert.ErrorIs(t, err, ErrNegativeWeight)
	})
}
