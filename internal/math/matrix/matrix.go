// Package matrix provides a row-major dense matrix on top of gonum/mat.
package matrix

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

var (
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrNotSquare         = errors.New("matrix is not square")
	ErrSingular          = errors.New("matrix is singular")
	ErrFixedSize         = errors.New("fixed-size matrix cannot be resized")
	ErrEmpty             = errors.New("matrix has no elements")
)

// Matrix is a dense row-major matrix
type Matrix struct {
	dense *mat.Dense
	rows  int
	cols  int
	fixed bool
}

// New creates a zero matrix. Negative sizes are treated as zero.
func New(rows, cols int) *Matrix {
	m := &Matrix{rows: max(rows, 0), cols: max(cols, 0)}
	if rows > 0 && cols > 0 {
		m.dense = mat.NewDense(rows, cols, nil)
	}
	return m
}

// NewFixed creates a zero matrix whose size cannot change
func NewFixed(rows, cols int) *Matrix {
	m := New(rows, cols)
	m.fixed = true
	return m
}

// NewFromData creates a matrix from row-major data
func NewFromData(rows, cols int, data []float64) (*Matrix, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("%d values for %dx%d matrix: %w", len(data), rows, cols, ErrDimensionMismatch)
	}
	m := New(rows, cols)
	if m.dense != nil {
		m.dense = mat.NewDense(rows, cols, append([]float64(nil), data...))
	}
	return m, nil
}

// NewFromRows creates a matrix from a slice of equally sized rows
func NewFromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d: %w", i, len(r), cols, ErrDimensionMismatch)
		}
		data = append(data, r...)
	}
	return NewFromData(len(rows), cols, data)
}

// FromDense wraps an existing gonum matrix by copy
func FromDense(d mat.Matrix) *Matrix {
	r, c := d.Dims()
	m := New(r, c)
	if m.dense != nil {
		m.dense.Copy(d)
	}
	return m
}

// Zeros creates a rows x cols matrix of zeros
func Zeros(rows, cols int) *Matrix {
	return New(rows, cols)
}

// Ones creates a rows x cols matrix of ones
func Ones(rows, cols int) *Matrix {
	m := New(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.dense.Set(r, c, 1)
		}
	}
	return m
}

// Identity creates an n x n identity matrix
func Identity(n int) *Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.dense.Set(i, i, 1)
	}
	return m
}

// Rows returns the row count
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count
func (m *Matrix) Cols() int { return m.cols }

// Fixed reports whether the matrix size is locked
func (m *Matrix) Fixed() bool { return m.fixed }

// Dense exposes the backing gonum matrix
func (m *Matrix) Dense() *mat.Dense {
	if m.dense == nil {
		return &mat.Dense{}
	}
	return m.dense
}

// At returns element (r, c)
func (m *Matrix) At(r, c int) (float64, error) {
	if err := m.checkIndex(r, c); err != nil {
		return 0, err
	}
	return m.dense.At(r, c), nil
}

// Set assigns element (r, c)
func (m *Matrix) Set(r, c int, v float64) error {
	if err := m.checkIndex(r, c); err != nil {
		return err
	}
	m.dense.Set(r, c, v)
	return nil
}

// Data returns a row-major copy of the elements
func (m *Matrix) Data() []float64 {
	out := make([]float64, 0, m.rows*m.cols)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out = append(out, m.dense.At(r, c))
		}
	}
	return out
}

// Clone returns a deep copy
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{rows: m.rows, cols: m.cols, fixed: m.fixed}
	if m.dense != nil {
		out.dense = mat.DenseCopyOf(m.dense)
	}
	return out
}

// Resize changes the matrix size, keeping overlapping values when preserve is set
func (m *Matrix) Resize(rows, cols int, preserve bool) error {
	if m.fixed {
		if rows == m.rows && cols == m.cols {
			return nil
		}
		return ErrFixedSize
	}
	if rows < 0 || cols < 0 {
		return fmt.Errorf("resize to %dx%d: %w", rows, cols, ErrDimensionMismatch)
	}

	next := New(rows, cols)
	if preserve && next.dense != nil && m.dense != nil {
		for r := 0; r < min(rows, m.rows); r++ {
			for c := 0; c < min(cols, m.cols); c++ {
				next.dense.Set(r, c, m.dense.At(r, c))
			}
		}
	}
	m.dense, m.rows, m.cols = next.dense, rows, cols
	return nil
}

// Transpose returns a new transposed matrix
func (m *Matrix) Transpose() *Matrix {
	if m.dense == nil {
		return New(m.cols, m.rows)
	}
	return FromDense(m.dense.T())
}

// Diagonal returns the main diagonal
func (m *Matrix) Diagonal() vector.Vector {
	n := min(m.rows, m.cols)
	out := vector.New(n)
	for i := 0; i < n; i++ {
		out[i] = m.dense.At(i, i)
	}
	return out
}

// Submatrix copies the rows x cols block starting at (r0, c0)
func (m *Matrix) Submatrix(r0, c0, rows, cols int) (*Matrix, error) {
	if r0 < 0 || c0 < 0 || rows <= 0 || cols <= 0 || r0+rows > m.rows || c0+cols > m.cols {
		return nil, fmt.Errorf("block (%d,%d)+(%dx%d) of %dx%d matrix: %w", r0, c0, rows, cols, m.rows, m.cols, ErrIndexOutOfRange)
	}
	return FromDense(m.dense.Slice(r0, r0+rows, c0, c0+cols)), nil
}

// SelectRow returns a copy of row r
func (m *Matrix) SelectRow(r int) (vector.Vector, error) {
	if r < 0 || r >= m.rows {
		return nil, fmt.Errorf("row %d of %d: %w", r, m.rows, ErrIndexOutOfRange)
	}
	if m.dense == nil {
		return nil, m.empty()
	}
	return vector.Vector(mat.Row(nil, r, m.dense)), nil
}

// SelectCol returns a copy of column c
func (m *Matrix) SelectCol(c int) (vector.Vector, error) {
	if c < 0 || c >= m.cols {
		return nil, fmt.Errorf("column %d of %d: %w", c, m.cols, ErrIndexOutOfRange)
	}
	if m.dense == nil {
		return nil, m.empty()
	}
	return vector.Vector(mat.Col(nil, c, m.dense)), nil
}

// SetRow overwrites row r
func (m *Matrix) SetRow(r int, v vector.Vector) error {
	if r < 0 || r >= m.rows {
		return fmt.Errorf("row %d of %d: %w", r, m.rows, ErrIndexOutOfRange)
	}
	if len(v) != m.cols {
		return fmt.Errorf("row of size %d into %d columns: %w", len(v), m.cols, ErrDimensionMismatch)
	}
	if m.dense == nil {
		return m.empty()
	}
	m.dense.SetRow(r, v)
	return nil
}

// SetCol overwrites column c
func (m *Matrix) SetCol(c int, v vector.Vector) error {
	if c < 0 || c >= m.cols {
		return fmt.Errorf("column %d of %d: %w", c, m.cols, ErrIndexOutOfRange)
	}
	if len(v) != m.rows {
		return fmt.Errorf("column of size %d into %d rows: %w", len(v), m.rows, ErrDimensionMismatch)
	}
	if m.dense == nil {
		return m.empty()
	}
	m.dense.SetCol(c, v)
	return nil
}

// Add returns m + other
func (m *Matrix) Add(other *Matrix) (*Matrix, error) {
	if m.rows != other.rows || m.cols != other.cols {
		return nil, m.mismatch(other)
	}
	out := New(m.rows, m.cols)
	if out.dense != nil {
		out.dense.Add(m.dense, other.dense)
	}
	return out, nil
}

// Sub returns m - other
func (m *Matrix) Sub(other *Matrix) (*Matrix, error) {
	if m.rows != other.rows || m.cols != other.cols {
		return nil, m.mismatch(other)
	}
	out := New(m.rows, m.cols)
	if out.dense != nil {
		out.dense.Sub(m.dense, other.dense)
	}
	return out, nil
}

// Scale returns m * s
func (m *Matrix) Scale(s float64) *Matrix {
	out := New(m.rows, m.cols)
	if out.dense != nil {
		out.dense.Scale(s, m.dense)
	}
	return out
}

// Mul returns the matrix product m * other
func (m *Matrix) Mul(other *Matrix) (*Matrix, error) {
	if m.cols != other.rows {
		return nil, m.mismatch(other)
	}
	out := New(m.rows, other.cols)
	if out.dense != nil && m.dense != nil {
		out.dense.Mul(m.dense, other.dense)
	}
	return out, nil
}

// MulVec returns the matrix-vector product m * v
func (m *Matrix) MulVec(v vector.Vector) (vector.Vector, error) {
	if m.cols != len(v) {
		return nil, fmt.Errorf("%dx%d matrix times vector of size %d: %w", m.rows, m.cols, len(v), ErrDimensionMismatch)
	}
	if m.dense == nil {
		return vector.New(m.rows), nil
	}
	out := mat.NewVecDense(m.rows, nil)
	out.MulVec(m.dense, mat.NewVecDense(len(v), append([]float64(nil), v...)))
	return vector.Vector(out.RawVector().Data), nil
}

// Determinant computes the determinant of a square matrix
func (m *Matrix) Determinant() (float64, error) {
	if m.rows != m.cols {
		return 0, fmt.Errorf("determinant of %dx%d matrix: %w", m.rows, m.cols, ErrNotSquare)
	}
	switch m.rows {
	case 0:
		return 1, nil
	case 1:
		return m.dense.At(0, 0), nil
	case 2, 3:
		return cofactorDet(m.dense, m.rows), nil
	default:
		return mat.Det(m.dense), nil
	}
}

// cofactorDet expands along the first row
func cofactorDet(a *mat.Dense, n int) float64 {
	if n == 1 {
		return a.At(0, 0)
	}
	if n == 2 {
		return a.At(0, 0)*a.At(1, 1) - a.At(0, 1)*a.At(1, 0)
	}

	det := 0.0
	sign := 1.0
	minor := mat.NewDense(n-1, n-1, nil)
	for c := 0; c < n; c++ {
		for r := 1; r < n; r++ {
			mc := 0
			for k := 0; k < n; k++ {
				if k == c {
					continue
				}
				minor.Set(r-1, mc, a.At(r, k))
				mc++
			}
		}
		det += sign * a.At(0, c) * cofactorDet(minor, n-1)
		sign = -sign
	}
	return det
}

// Inverse returns the matrix inverse
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("inverse of %dx%d matrix: %w", m.rows, m.cols, ErrNotSquare)
	}
	if m.dense == nil {
		return nil, m.empty()
	}
	out := New(m.rows, m.cols)
	if err := out.dense.Inverse(m.dense); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return out, nil
}

// Equal reports whether m and other match element-wise within eps
func (m *Matrix) Equal(other *Matrix, eps float64) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	if m.dense == nil {
		return true
	}
	return mat.EqualApprox(m.dense, other.dense, eps)
}

// ToLogString renders the matrix over multiple lines with the given indent
func (m *Matrix) ToLogString(indent int) string {
	gap := strings.Repeat(" ", indent)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%sMatrix (%d x %d)\n", gap, m.rows, m.cols)
	for r := 0; r < m.rows; r++ {
		sb.WriteString(gap)
		sb.WriteString("  [")
		for c := 0; c < m.cols; c++ {
			if c != 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatFloat(m.dense.At(r, c), 'g', -1, 64))
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

// String implements fmt.Stringer
func (m *Matrix) String() string {
	return m.ToLogString(0)
}

func (m *Matrix) checkIndex(r, c int) error {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		return fmt.Errorf("element (%d,%d) of %dx%d matrix: %w", r, c, m.rows, m.cols, ErrIndexOutOfRange)
	}
	return nil
}

func (m *Matrix) empty() error {
	return fmt.Errorf("%dx%d: %w", m.rows, m.cols, ErrEmpty)
}

func (m *Matrix) mismatch(other *Matrix) error {
	return fmt.Errorf("%dx%d and %dx%d: %w", m.rows, m.cols, other.rows, other.cols, ErrDimensionMismatch)
}
