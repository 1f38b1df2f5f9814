package matrix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

func sequential(t *testing.T, rows, cols int) *Matrix {
	t.Helper()
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(i + 1)
	}
	m, err := NewFromData(rows, cols, data)
	require.NoError(t, err)
	return m
}

func TestConstructors(t *testing.T) {
	m := New(2, 3)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0}, m.Data())

	_, err := NewFromData(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewFromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	assert.Equal(t, []float64{1, 1, 1, 1}, Ones(2, 2).Data())
	assert.Equal(t, []float64{1, 0, 0, 1}, Identity(2).Data())
}

func TestAccess(t *testing.T) {
	m := sequential(t, 2, 2)

	v, err := m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	require.NoError(t, m.Set(1, 0, 9))
	v, _ = m.At(1, 0)
	assert.Equal(t, 9.0, v)

	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, m.Set(0, -1, 1), ErrIndexOutOfRange)
}

func TestResize(t *testing.T) {
	m := sequential(t, 2, 2)
	require.NoError(t, m.Resize(3, 3, true))
	assert.Equal(t, []float64{1, 2, 0, 3, 4, 0, 0, 0, 0}, m.Data())

	require.NoError(t, m.Resize(1, 1, false))
	assert.Equal(t, []float64{0}, m.Data())

	fixed := NewFixed(2, 2)
	assert.ErrorIs(t, fixed.Resize(3, 3, true), ErrFixedSize)
	assert.NoError(t, fixed.Resize(2, 2, true))
}

func TestMultiplication(t *testing.T) {
	a := sequential(t, 4, 3)
	b := sequential(t, 3, 4)

	c, err := a.Mul(b)
	require.NoError(t, err)

	expected, err := NewFromRows([][]float64{
		{38, 44, 50, 56},
		{83, 98, 113, 128},
		{128, 152, 176, 200},
		{173, 206, 239, 272},
	})
	require.NoError(t, err)
	assert.True(t, c.Equal(expected, 1e-12), c.ToLogString(2))

	_, err = a.Mul(a)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMulVec(t *testing.T) {
	m := sequential(t, 2, 3)
	out, err := m.MulVec(vector.New3(1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, vector.Vector{6, 15}, out)

	_, err = m.MulVec(vector.New2(1, 1))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDeterminant(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		want float64
	}{
		{"1x1", [][]float64{{4}}, 4},
		{"2x2", [][]float64{{1, 2}, {3, 4}}, -2},
		{"3x3", [][]float64{{6, 1, 1}, {4, -2, 5}, {2, 8, 7}}, -306},
		{"4x4", [][]float64{{1, 0, 2, -1}, {3, 0, 0, 5}, {2, 1, 4, -3}, {1, 0, 5, 0}}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewFromRows(tt.rows)
			require.NoError(t, err)
			det, err := m.Determinant()
			require.NoError(t, err)
			assert.InDelta(t, tt.want, det, 1e-9)
		})
	}

	_, err := New(2, 3).Determinant()
	assert.ErrorIs(t, err, ErrNotSquare)
}

func TestTransposeAndBlocks(t *testing.T) {
	m := sequential(t, 2, 3)

	tr := m.Transpose()
	assert.Equal(t, 3, tr.Rows())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, tr.Data())

	sub, err := m.Submatrix(0, 1, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 5, 6}, sub.Data())

	_, err = m.Submatrix(1, 1, 2, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	row, err := m.SelectRow(1)
	require.NoError(t, err)
	assert.Equal(t, vector.Vector{4, 5, 6}, row)

	col, err := m.SelectCol(2)
	require.NoError(t, err)
	assert.Equal(t, vector.Vector{3, 6}, col)

	_, err = m.SelectRow(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = m.SelectCol(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	assert.Equal(t, vector.Vector{1, 5}, m.Diagonal())
}

func TestInverse(t *testing.T) {
	m, err := NewFromRows([][]float64{{4, 7}, {2, 6}})
	require.NoError(t, err)

	inv, err := m.Inverse()
	require.NoError(t, err)

	prod, err := m.Mul(inv)
	require.NoError(t, err)
	assert.True(t, prod.Equal(Identity(2), 1e-12))

	singular, err := NewFromRows([][]float64{{1, 2}, {2, 4}})
	require.NoError(t, err)
	_, err = singular.Inverse()
	assert.ErrorIs(t, err, ErrSingular)
}

func TestToLogString(t *testing.T) {
	s := sequential(t, 2, 2).ToLogString(2)
	assert.True(t, strings.HasPrefix(s, "  Matrix (2 x 2)"))
	assert.Contains(t, s, "[3, 4]")
}

func TestEmptyMatrices(t *testing.T) {
	tests := []struct {
		name string
		m    *Matrix
		op   func(m *Matrix) error
		want error
	}{
		{"inverse 0x0", New(0, 0), func(m *Matrix) error { _, err := m.Inverse(); return err }, ErrEmpty},
		{"select row of 3x0", New(3, 0), func(m *Matrix) error { _, err := m.SelectRow(0); return err }, ErrEmpty},
		{"select col of 0x3", New(0, 3), func(m *Matrix) error { _, err := m.SelectCol(2); return err }, ErrEmpty},
		{"set row of 3x0", New(3, 0), func(m *Matrix) error { return m.SetRow(1, vector.Vector{}) }, ErrEmpty},
		{"set col of 0x3", New(0, 3), func(m *Matrix) error { return m.SetCol(0, vector.Vector{}) }, ErrEmpty},
		{"select row of 0x0", New(0, 0), func(m *Matrix) error { _, err := m.SelectRow(0); return err }, ErrIndexOutOfRange},
		{"resize negative", New(2, 2), func(m *Matrix) error { return m.Resize(-1, 2, false) }, ErrDimensionMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.op(tt.m), tt.want)
		})
	}

	t.Run("negative sizes clamp to zero", func(t *testing.T) {
		m := New(-2, 3)
		assert.Equal(t, 0, m.Rows())
		assert.Empty(t, m.Data())

		_, err := NewFromData(-1, -1, []float64{1})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("determinant of 0x0", func(t *testing.T) {
		d, err := New(0, 0).Determinant()
		require.NoError(t, err)
		assert.Equal(t, 1.0, d)
	})
}
