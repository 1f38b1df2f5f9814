package optimize

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/terminus-math/internal/math/optimize"
	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
	"github.com/GriffinCanCode/terminus-math/internal/providers/math"
	"github.com/GriffinCanCode/terminus-math/internal/types"
)

const (
	// MaxDegree bounds polynomial models; the normal equations are
	// (degree+1)² dense
	MaxDegree = 20
	// MaxIterations bounds the per-call max_iterations override
	MaxIterations = 10000
)

// SolveObserver is notified after every completed solve
type SolveObserver func(model string, result optimize.Result)

// Provider fits parametric models with Levenberg-Marquardt
type Provider struct {
	settings optimize.Settings
	logger   *zap.Logger
	observe  SolveObserver
}

// NewProvider creates an optimize provider. settings are the defaults that
// individual calls may tighten; observe may be nil.
func NewProvider(settings optimize.Settings, logger *zap.Logger, observe SolveObserver) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{settings: settings, logger: logger, observe: observe}
}

var modelParams = []types.Parameter{
	{Name: "model", Type: "string", Description: "linear, polynomial or exponential", Required: true},
	{Name: "x", Type: "array", Description: "Sample positions", Required: true},
	{Name: "degree", Type: "number", Description: "Polynomial degree (polynomial only)", Required: false},
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	fitParams := append(append([]types.Parameter{}, modelParams...),
		types.Parameter{Name: "y", Type: "array", Description: "Observed values at x", Required: true},
		types.Parameter{Name: "seed", Type: "array", Description: "Initial parameters (default all ones)", Required: false},
		types.Parameter{Name: "max_iterations", Type: "number", Description: "Outer iteration limit", Required: false},
		types.Parameter{Name: "abs_tolerance", Type: "number", Description: "Absolute residual tolerance", Required: false},
		types.Parameter{Name: "rel_tolerance", Type: "number", Description: "Relative improvement tolerance", Required: false},
	)
	evalParams := append(append([]types.Parameter{}, modelParams...),
		types.Parameter{Name: "params", Type: "array", Description: "Model parameters", Required: true},
	)

	return types.Service{
		ID:           "optimize",
		Name:         "Optimize Service",
		Description:  "Nonlinear least squares curve fitting with Levenberg-Marquardt",
		Category:     types.CategoryOptimize,
		Capabilities: []string{"curve_fit", "least_squares", "levenberg_marquardt"},
		Tools: []types.Tool{
			{
				ID:          "optimize.fit",
				Name:        "Fit",
				Description: "Fit model parameters so the model output matches y",
				Parameters:  fitParams,
				Returns:     "object",
			},
			{
				ID:          "optimize.evaluate",
				Name:        "Evaluate",
				Description: "Evaluate a model at x for given parameters",
				Parameters:  evalParams,
				Returns:     "array",
			},
		},
	}
}

// Execute routes optimize tools
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "optimize.fit":
		return p.fit(ctx, params, reqCtx)
	case "optimize.evaluate":
		return p.evaluate(params)
	default:
		return math.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// buildModel returns the model named in params and its parameter count
func buildModel(params map[string]interface{}) (string, optimize.Model, int, error) {
	name, _ := math.GetString(params, "model")
	xs, err := math.GetVector(params, "x")
	if err != nil {
		return name, nil, 0, err
	}

	switch name {
	case "linear":
		return name, optimize.PolynomialModel{X: xs, Degree: 1}, 2, nil
	case "polynomial":
		degree, ok := math.GetInt(params, "degree")
		if !ok || degree < 0 {
			return name, nil, 0, fmt.Errorf("degree must be a non-negative integer")
		}
		if degree > MaxDegree {
			return name, nil, 0, fmt.Errorf("degree %d exceeds %d", degree, MaxDegree)
		}
		return name, optimize.PolynomialModel{X: xs, Degree: degree}, degree + 1, nil
	case "exponential":
		return name, optimize.ExponentialModel{X: xs}, 2, nil
	case "":
		return name, nil, 0, fmt.Errorf("model parameter required")
	default:
		return name, nil, 0, fmt.Errorf("unknown model: %s", name)
	}
}

func (p *Provider) settingsFor(params map[string]interface{}) (optimize.Settings, error) {
	s := p.settings
	if n, ok := math.GetInt(params, "max_iterations"); ok && n > 0 {
		if n > MaxIterations {
			return s, fmt.Errorf("max_iterations %d exceeds %d", n, MaxIterations)
		}
		s.MaxIterations = n
	}
	if v, ok := math.GetNumber(params, "abs_tolerance"); ok && v > 0 {
		s.AbsTolerance = v
	}
	if v, ok := math.GetNumber(params, "rel_tolerance"); ok && v > 0 {
		s.RelTolerance = v
	}
	return s, nil
}

func (p *Provider) fit(ctx context.Context, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	name, model, nparams, err := buildModel(params)
	if err != nil {
		return math.Failure(err.Error())
	}
	ys, err := math.GetVector(params, "y")
	if err != nil {
		return math.Failure(err.Error())
	}
	if nparams > len(ys) {
		return math.Failure(fmt.Sprintf("%s model takes %d parameters but only %d observations were given", name, nparams, len(ys)))
	}
	settings, err := p.settingsFor(params)
	if err != nil {
		return math.Failure(err.Error())
	}

	seed := vector.Filled(nparams, 1)
	if _, present := params["seed"]; present {
		if seed, err = math.GetVector(params, "seed"); err != nil {
			return math.Failure(err.Error())
		}
		if len(seed) != nparams {
			return math.Failure(fmt.Sprintf("%s model takes %d parameters, seed has %d", name, nparams, len(seed)))
		}
	}

	logger := p.logger.With(zap.String("model", name))
	if reqCtx != nil && reqCtx.RequestID != "" {
		logger = logger.With(zap.String("request_id", reqCtx.RequestID))
	}

	result, err := optimize.Solve(ctx, model, seed, ys, settings, logger)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return math.Failure(err.Error())
	}
	if p.observe != nil {
		p.observe(name, result)
	}

	return math.Success(map[string]interface{}{
		"params":     []float64(result.X),
		"status":     result.Status.String(),
		"converged":  result.Status.Converged(),
		"iterations": result.Iterations,
		"error":      result.Error,
	})
}

func (p *Provider) evaluate(params map[string]interface{}) (*types.Result, error) {
	_, model, _, err := buildModel(params)
	if err != nil {
		return math.Failure(err.Error())
	}
	x, err := math.GetVector(params, "params")
	if err != nil {
		return math.Failure(err.Error())
	}
	out, err := model.Evaluate(x)
	if err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{"result": []float64(out)})
}
