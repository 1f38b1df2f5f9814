package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/terminus-math/internal/types"
)

type mockProvider struct {
	id       string
	category types.Category
}

func (m *mockProvider) Definition() types.Service {
	category := m.category
	if category == "" {
		category = types.CategoryMath
	}
	return types.Service{
		ID:           m.id,
		Name:         "Mock Service",
		Description:  "A mock service for testing",
		Category:     category,
		Capabilities: []string{"dot_product", "cross_product"},
		Tools: []types.Tool{
			{
				ID:          m.id + ".test",
				Name:        "Test Tool",
				Description: "A test tool",
				Returns:     "number",
			},
		},
	}
}

func (m *mockProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"tool": toolID},
	}, nil
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{id: "vector"}))

	_, ok := r.Get("vector")
	assert.True(t, ok)

	assert.Error(t, r.Register(&mockProvider{}))

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{id: "vector"}))
	require.NoError(t, r.Register(&mockProvider{id: "datum", category: types.CategoryCoordinate}))

	services := r.List(nil)
	require.Len(t, services, 2)
	assert.Equal(t, "datum", services[0].ID)

	cat := types.CategoryMath
	filtered := r.List(&cat)
	require.Len(t, filtered, 1)
	assert.Equal(t, "vector", filtered[0].ID)
}

func TestDiscover(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{id: "vector"}))
	require.NoError(t, r.Register(&mockProvider{id: "datum", category: types.CategoryCoordinate}))

	results := r.Discover("vector cross product", 5)
	require.NotEmpty(t, results)
	assert.Equal(t, "vector", results[0].ID)

	assert.Len(t, r.Discover("vector cross product", 1), 1)
	assert.Empty(t, r.Discover("zz", 5))
}

func TestExecute(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{id: "vector"}))
	ctx := context.Background()

	result, err := r.Execute(ctx, "vector.test", map[string]interface{}{}, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "vector.test", result.Data["tool"])

	result, err = r.Execute(ctx, "novector", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidToolID)
	assert.False(t, result.Success)

	result, err = r.Execute(ctx, "matrix.mul", nil, nil)
	assert.ErrorIs(t, err, ErrServiceNotFound)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "matrix")
}

func TestStats(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{id: "vector"}))
	require.NoError(t, r.Register(&mockProvider{id: "matrix"}))

	stats := r.Stats()
	assert.Equal(t, 2, stats["total_services"])
	assert.Equal(t, 2, stats["total_tools"])
	assert.Equal(t, map[string]int{"math": 2}, stats["categories"])
}
