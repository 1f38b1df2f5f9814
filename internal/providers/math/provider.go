package math

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/terminus-math/internal/types"
)

// Provider implements statistical operations under the "math" service
type Provider struct {
	stats *StatsOps
}

// NewProvider creates the statistics provider
func NewProvider() *Provider {
	return &Provider{stats: &StatsOps{MathOps: &MathOps{}}}
}

// Definition returns service metadata
func (m *Provider) Definition() types.Service {
	return types.Service{
		ID:           "math",
		Name:         "Math Service",
		Description:  "Descriptive statistics over numeric samples",
		Category:     types.CategoryMath,
		Capabilities: []string{"statistics", "percentile", "correlation", "covariance"},
		Tools:        m.stats.GetTools(),
	}
}

// Execute routes to the statistics module
func (m *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "math.mean":
		return m.stats.Mean(ctx, params, reqCtx)
	case "math.median":
		return m.stats.Median(ctx, params, reqCtx)
	case "math.min":
		return m.stats.Min(ctx, params, reqCtx)
	case "math.max":
		return m.stats.Max(ctx, params, reqCtx)
	case "math.sum":
		return m.stats.Sum(ctx, params, reqCtx)
	case "math.stdev":
		return m.stats.Stdev(ctx, params, reqCtx)
	case "math.variance":
		return m.stats.Variance(ctx, params, reqCtx)
	case "math.range":
		return m.stats.Range(ctx, params, reqCtx)
	case "math.mode":
		return m.stats.Mode(ctx, params, reqCtx)
	case "math.percentile":
		return m.stats.Percentile(ctx, params, reqCtx)
	case "math.correlation":
		return m.stats.Correlation(ctx, params, reqCtx)
	case "math.covariance":
		return m.stats.Covariance(ctx, params, reqCtx)
	case "math.describe":
		return m.stats.Describe(ctx, params, reqCtx)
	default:
		return Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// VectorProvider exposes vector arithmetic under the "vector" service
type VectorProvider struct {
	ops *VectorOps
}

// NewVectorProvider creates the vector provider
func NewVectorProvider() *VectorProvider {
	return &VectorProvider{ops: &VectorOps{MathOps: &MathOps{}}}
}

// Definition returns service metadata
func (v *VectorProvider) Definition() types.Service {
	return types.Service{
		ID:           "vector",
		Name:         "Vector Service",
		Description:  "Vector arithmetic, products, norms and distances",
		Category:     types.CategoryMath,
		Capabilities: []string{"dot_product", "cross_product", "normalize", "distance"},
		Tools:        v.ops.GetTools(),
	}
}

// Execute routes vector tools
func (v *VectorProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "vector.add":
		return v.ops.Add(ctx, params, reqCtx)
	case "vector.subtract":
		return v.ops.Subtract(ctx, params, reqCtx)
	case "vector.scale":
		return v.ops.Scale(ctx, params, reqCtx)
	case "vector.dot":
		return v.ops.Dot(ctx, params, reqCtx)
	case "vector.cross":
		return v.ops.Cross(ctx, params, reqCtx)
	case "vector.magnitude":
		return v.ops.Magnitude(ctx, params, reqCtx)
	case "vector.normalize":
		return v.ops.Normalize(ctx, params, reqCtx)
	case "vector.distance":
		return v.ops.Distance(ctx, params, reqCtx)
	default:
		return Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// MatrixProvider exposes matrix operations under the "matrix" service
type MatrixProvider struct {
	ops *MatrixOps
}

// NewMatrixProvider creates the matrix provider
func NewMatrixProvider() *MatrixProvider {
	return &MatrixProvider{ops: &MatrixOps{MathOps: &MathOps{}}}
}

// Definition returns service metadata
func (m *MatrixProvider) Definition() types.Service {
	return types.Service{
		ID:           "matrix",
		Name:         "Matrix Service",
		Description:  "Dense matrix products, determinants, inverses and linear solves",
		Category:     types.CategoryMath,
		Capabilities: []string{"matrix_product", "determinant", "inverse", "linear_solve", "least_squares"},
		Tools:        m.ops.GetTools(),
	}
}

// Execute routes matrix tools
func (m *MatrixProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "matrix.multiply":
		return m.ops.Multiply(ctx, params, reqCtx)
	case "matrix.mul_vec":
		return m.ops.MulVec(ctx, params, reqCtx)
	case "matrix.transpose":
		return m.ops.Transpose(ctx, params, reqCtx)
	case "matrix.determinant":
		return m.ops.Determinant(ctx, params, reqCtx)
	case "matrix.inverse":
		return m.ops.Inverse(ctx, params, reqCtx)
	case "matrix.solve":
		return m.ops.Solve(ctx, params, reqCtx)
	default:
		return Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// QuaternionProvider exposes quaternion tools under the "quaternion" service
type QuaternionProvider struct {
	ops *QuaternionOps
}

// NewQuaternionProvider creates the quaternion provider
func NewQuaternionProvider() *QuaternionProvider {
	return &QuaternionProvider{ops: &QuaternionOps{MathOps: &MathOps{}}}
}

// Definition returns service metadata
func (q *QuaternionProvider) Definition() types.Service {
	return types.Service{
		ID:           "quaternion",
		Name:         "Quaternion Service",
		Description:  "Quaternion rotation, products and spherical interpolation",
		Category:     types.CategoryMath,
		Capabilities: []string{"rotation", "slerp", "hamilton_product"},
		Tools:        q.ops.GetTools(),
	}
}

// Execute routes quaternion tools
func (q *QuaternionProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "quaternion.multiply":
		return q.ops.Multiply(ctx, params, reqCtx)
	case "quaternion.inverse":
		return q.ops.Inverse(ctx, params, reqCtx)
	case "quaternion.from_axis_angle":
		return q.ops.FromAxisAngle(ctx, params, reqCtx)
	case "quaternion.rotate":
		return q.ops.Rotate(ctx, params, reqCtx)
	case "quaternion.to_matrix":
		return q.ops.ToMatrix(ctx, params, reqCtx)
	case "quaternion.slerp":
		return q.ops.Slerp(ctx, params, reqCtx)
	case "quaternion.slerp_n":
		return q.ops.SlerpN(ctx, params, reqCtx)
	default:
		return Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}
