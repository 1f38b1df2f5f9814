package math

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/terminus-math/internal/math/quaternion"
	"github.com/GriffinCanCode/terminus-math/internal/types"
)

// QuaternionOps handles quaternion algebra and interpolation
type QuaternionOps struct {
	*MathOps
}

// GetTools returns quaternion tool definitions
func (q *QuaternionOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "quaternion.multiply",
			Name:        "Multiply",
			Description: "Hamilton product a * b of quaternions given as [w, x, y, z]",
			Parameters: []types.Parameter{
				{Name: "a", Type: "array", Description: "Left quaternion", Required: true},
				{Name: "b", Type: "array", Description: "Right quaternion", Required: true},
			},
			Returns: "array",
		},
		{
			ID:          "quaternion.inverse",
			Name:        "Inverse",
			Description: "Multiplicative inverse of a quaternion",
			Parameters: []types.Parameter{
				{Name: "q", Type: "array", Description: "Quaternion [w, x, y, z]", Required: true},
			},
			Returns: "array",
		},
		{
			ID:          "quaternion.from_axis_angle",
			Name:        "From Axis Angle",
			Description: "Rotation quaternion for an angle in radians about an axis",
			Parameters: []types.Parameter{
				{Name: "axis", Type: "array", Description: "Rotation axis", Required: true},
				{Name: "angle", Type: "number", Description: "Angle in radians", Required: true},
			},
			Returns: "array",
		},
		{
			ID:          "quaternion.rotate",
			Name:        "Rotate",
			Description: "Rotate a 3D vector by a quaternion",
			Parameters: []types.Parameter{
				{Name: "q", Type: "array", Description: "Quaternion [w, x, y, z]", Required: true},
				{Name: "v", Type: "array", Description: "3D vector", Required: true},
			},
			Returns: "array",
		},
		{
			ID:          "quaternion.to_matrix",
			Name:        "To Matrix",
			Description: "3x3 rotation matrix of a quaternion",
			Parameters: []types.Parameter{
				{Name: "q", Type: "array", Description: "Quaternion [w, x, y, z]", Required: true},
			},
			Returns: "array",
		},
		{
			ID:          "quaternion.slerp",
			Name:        "Slerp",
			Description: "Spherical linear interpolation between two quaternions",
			Parameters: []types.Parameter{
				{Name: "a", Type: "array", Description: "Start quaternion", Required: true},
				{Name: "b", Type: "array", Description: "End quaternion", Required: true},
				{Name: "alpha", Type: "number", Description: "Interpolation parameter, 0 at a and 1 at b", Required: true},
				{Name: "spin", Type: "number", Description: "Extra half-turns (default 0)", Required: false},
			},
			Returns: "array",
		},
		{
			ID:          "quaternion.slerp_n",
			Name:        "Weighted Slerp",
			Description: "Weighted spherical blend of several quaternions",
			Parameters: []types.Parameter{
				{Name: "quaternions", Type: "array", Description: "Array of [w, x, y, z]", Required: true},
				{Name: "weights", Type: "array", Description: "Non-negative weights summing to 1", Required: true},
				{Name: "spin", Type: "number", Description: "Extra half-turns (default 0)", Required: false},
			},
			Returns: "array",
		},
	}
}

func getQuaternion(params map[string]interface{}, key string) (quaternion.Quaternion, error) {
	c, err := GetVector(params, key)
	if err != nil {
		return quaternion.Quaternion{}, err
	}
	return toQuaternion(c, key)
}

func toQuaternion(c []float64, name string) (quaternion.Quaternion, error) {
	if len(c) != 4 {
		return quaternion.Quaternion{}, fmt.Errorf("%s must have 4 components, got %d", name, len(c))
	}
	return quaternion.New(c[0], c[1], c[2], c[3]), nil
}

func components(q quaternion.Quaternion) []float64 {
	c := q.Components()
	return c[:]
}

func getSpin(params map[string]interface{}) (int, error) {
	if _, present := params["spin"]; !present {
		return 0, nil
	}
	spin, ok := GetInt(params, "spin")
	if !ok {
		return 0, fmt.Errorf("spin must be an integer")
	}
	return spin, nil
}

// Multiply computes the Hamilton product
func (q *QuaternionOps) Multiply(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, err := getQuaternion(params, "a")
	if err != nil {
		return Failure(err.Error())
	}
	b, err := getQuaternion(params, "b")
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": components(a.Mul(b))})
}

// Inverse computes q^-1
func (q *QuaternionOps) Inverse(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	in, err := getQuaternion(params, "q")
	if err != nil {
		return Failure(err.Error())
	}
	inv, err := in.Inverse()
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": components(inv)})
}

// FromAxisAngle builds a rotation quaternion
func (q *QuaternionOps) FromAxisAngle(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	axis, err := GetVector(params, "axis")
	if err != nil {
		return Failure(err.Error())
	}
	angle, ok := GetNumber(params, "angle")
	if !ok {
		return Failure("angle parameter required")
	}
	if err := ValidateNumber(angle, "angle"); err != nil {
		return Failure(err.Error())
	}
	rot, err := quaternion.FromAxisAngle(axis, angle)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": components(rot)})
}

// Rotate applies q to a vector
func (q *QuaternionOps) Rotate(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	rot, err := getQuaternion(params, "q")
	if err != nil {
		return Failure(err.Error())
	}
	v, err := GetVector(params, "v")
	if err != nil {
		return Failure(err.Error())
	}
	out, err := rot.Rotate(v)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": []float64(out)})
}

// ToMatrix returns the rotation matrix
func (q *QuaternionOps) ToMatrix(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	rot, err := getQuaternion(params, "q")
	if err != nil {
		return Failure(err.Error())
	}
	m, err := rot.ToMatrix()
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": Rows(m)})
}

// Slerp interpolates between a and b
func (q *QuaternionOps) Slerp(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	a, err := getQuaternion(params, "a")
	if err != nil {
		return Failure(err.Error())
	}
	b, err := getQuaternion(params, "b")
	if err != nil {
		return Failure(err.Error())
	}
	alpha, ok := GetNumber(params, "alpha")
	if !ok {
		return Failure("alpha parameter required")
	}
	if err := ValidateNumber(alpha, "alpha"); err != nil {
		return Failure(err.Error())
	}
	spin, err := getSpin(params)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": components(quaternion.Slerp(alpha, a, b, spin))})
}

// SlerpN blends several quaternions
func (q *QuaternionOps) SlerpN(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	vecs, err := GetVectors(params, "quaternions")
	if err != nil {
		return Failure(err.Error())
	}
	quats := make([]quaternion.Quaternion, 0, len(vecs))
	for i, c := range vecs {
		qq, err := toQuaternion(c, fmt.Sprintf("quaternions[%d]", i))
		if err != nil {
			return Failure(err.Error())
		}
		quats = append(quats, qq)
	}

	weights, ok := GetNumbers(params, "weights")
	if !ok {
		return Failure("weights array required")
	}
	if err := ValidateNumbers(weights, "weights"); err != nil {
		return Failure(err.Error())
	}
	spin, err := getSpin(params)
	if err != nil {
		return Failure(err.Error())
	}

	out, err := quaternion.SlerpN(weights, quats, spin)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"result": components(out)})
}
