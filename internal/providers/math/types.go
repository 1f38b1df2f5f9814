package math

import (
	"fmt"
	gomath "math"

	"github.com/GriffinCanCode/terminus-math/internal/math/matrix"
	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
	"github.com/GriffinCanCode/terminus-math/internal/types"
)

// MathOps provides common math helpers
type MathOps struct{}

// Success creates a successful result
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure creates a failed result
func Failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}

// GetNumber extracts float64 from params with validation
func GetNumber(params map[string]interface{}, key string) (float64, bool) {
	val, ok := params[key]
	if !ok {
		return 0, false
	}
	return toFloat(val)
}

// maxExactInt is the largest integer a float64 holds exactly
const maxExactInt = 1 << 53

// GetInt extracts a whole number from params
func GetInt(params map[string]interface{}, key string) (int, bool) {
	f, ok := GetNumber(params, key)
	if !ok || f != gomath.Trunc(f) || gomath.Abs(f) > maxExactInt {
		return 0, false
	}
	return int(f), true
}

// GetNumbers extracts array of numbers with type coercion
func GetNumbers(params map[string]interface{}, key string) ([]float64, bool) {
	return toFloats(params[key])
}

// GetVector extracts a finite vector from params
func GetVector(params map[string]interface{}, key string) (vector.Vector, error) {
	numbers, ok := GetNumbers(params, key)
	if !ok || len(numbers) == 0 {
		return nil, fmt.Errorf("%s array required", key)
	}
	if err := ValidateNumbers(numbers, key); err != nil {
		return nil, err
	}
	return vector.Vector(numbers), nil
}

// GetVectors extracts a non-empty array of finite vectors
func GetVectors(params map[string]interface{}, key string) ([]vector.Vector, error) {
	raw, ok := params[key].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("%s must be a non-empty array of arrays", key)
	}
	out := make([]vector.Vector, 0, len(raw))
	for i, item := range raw {
		numbers, ok := toFloats(item)
		if !ok || len(numbers) == 0 {
			return nil, fmt.Errorf("%s[%d] must be an array of numbers", key, i)
		}
		if err := ValidateNumbers(numbers, fmt.Sprintf("%s[%d]", key, i)); err != nil {
			return nil, err
		}
		out = append(out, vector.Vector(numbers))
	}
	return out, nil
}

// GetMatrix extracts a row-major matrix given as an array of rows
func GetMatrix(params map[string]interface{}, key string) (*matrix.Matrix, error) {
	rowsRaw, ok := params[key].([]interface{})
	if !ok || len(rowsRaw) == 0 {
		return nil, fmt.Errorf("%s must be an array of rows", key)
	}

	rows := make([][]float64, 0, len(rowsRaw))
	for i, raw := range rowsRaw {
		row, ok := toFloats(raw)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be an array of numbers", key, i)
		}
		if err := ValidateNumbers(row, fmt.Sprintf("%s[%d]", key, i)); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return matrix.NewFromRows(rows)
}

// GetString extracts string from params
func GetString(params map[string]interface{}, key string) (string, bool) {
	val, ok := params[key].(string)
	return val, ok
}

// GetBool extracts bool from params
func GetBool(params map[string]interface{}, key string) (bool, bool) {
	val, ok := params[key].(bool)
	return val, ok
}

// ValidateNumber checks if a number is valid (not NaN or Inf)
func ValidateNumber(x float64, name string) error {
	if gomath.IsNaN(x) {
		return fmt.Errorf("%s is NaN", name)
	}
	if gomath.IsInf(x, 0) {
		return fmt.Errorf("%s is infinite", name)
	}
	return nil
}

// ValidateNumbers validates an array of numbers
func ValidateNumbers(nums []float64, name string) error {
	for i, x := range nums {
		if err := ValidateNumber(x, fmt.Sprintf("%s[%d]", name, i)); err != nil {
			return err
		}
	}
	return nil
}

// Rows converts a matrix into nested slices for JSON results
func Rows(m *matrix.Matrix) [][]float64 {
	out := make([][]float64, m.Rows())
	for r := range out {
		out[r] = make([]float64, 0, m.Cols())
		if row, err := m.SelectRow(r); err == nil {
			out[r] = row
		}
	}
	return out
}

func toFloat(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	default:
		return 0, false
	}
}

func toFloats(val interface{}) ([]float64, bool) {
	switch arr := val.(type) {
	case []float64:
		return arr, true
	case []interface{}:
		numbers := make([]float64, 0, len(arr))
		for _, v := range arr {
			num, ok := toFloat(v)
			if !ok {
				return nil, false
			}
			numbers = append(numbers, num)
		}
		return numbers, true
	default:
		return nil, false
	}
}
