package geometry

import (
	"context"
	"fmt"
	gomath "math"

	geom "github.com/GriffinCanCode/terminus-math/internal/math/geometry"
	"github.com/GriffinCanCode/terminus-math/internal/providers/math"
	"github.com/GriffinCanCode/terminus-math/internal/types"
)

// Provider implements rectangle, polygon and ellipse tools
type Provider struct{}

// NewProvider creates a geometry provider
func NewProvider() *Provider {
	return &Provider{}
}

var rectPairParams = []types.Parameter{
	{Name: "a", Type: "object", Description: "Rectangle {x, y, width, height}", Required: true},
	{Name: "b", Type: "object", Description: "Rectangle {x, y, width, height}", Required: true},
}

var pointsParam = []types.Parameter{
	{Name: "points", Type: "array", Description: "Array of points, each an array of coordinates", Required: true},
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "geometry",
		Name:         "Geometry Service",
		Description:  "Rectangle tiling, intersection and union, polygon bounds and ellipse sampling",
		Category:     types.CategoryGeometry,
		Capabilities: []string{"rectangle", "subdivide", "polygon", "ellipse", "angle"},
		Tools: []types.Tool{
			{
				ID:          "geometry.subdivide",
				Name:        "Subdivide",
				Description: "Tile a rectangle row by row from the bottom-left",
				Parameters: []types.Parameter{
					{Name: "rect", Type: "object", Description: "Rectangle {x, y, width, height}", Required: true},
					{Name: "tile", Type: "array", Description: "Tile size [width, height]", Required: true},
					{Name: "include_partials", Type: "boolean", Description: "Keep clipped edge tiles (default false)", Required: false},
				},
				Returns: "array",
			},
			{ID: "geometry.intersection", Name: "Intersection", Description: "Overlap of two rectangles", Parameters: rectPairParams, Returns: "object"},
			{ID: "geometry.union", Name: "Union", Description: "Smallest rectangle containing both", Parameters: rectPairParams, Returns: "object"},
			{
				ID:          "geometry.contains",
				Name:        "Contains",
				Description: "Whether a rectangle contains a point",
				Parameters: []types.Parameter{
					{Name: "rect", Type: "object", Description: "Rectangle {x, y, width, height}", Required: true},
					{Name: "point", Type: "array", Description: "Point [x, y]", Required: true},
				},
				Returns: "boolean",
			},
			{ID: "geometry.polygon_bounds", Name: "Polygon Bounds", Description: "Bounding rectangle of a polygon", Parameters: pointsParam, Returns: "object"},
			{ID: "geometry.polyline_length", Name: "Polyline Length", Description: "Summed segment length of a polyline", Parameters: pointsParam, Returns: "number"},
			{
				ID:          "geometry.ellipse",
				Name:        "Ellipse",
				Description: "Sample an ellipse arc into a polygon",
				Parameters: []types.Parameter{
					{Name: "center", Type: "array", Description: "Center [x, y]", Required: true},
					{Name: "axes", Type: "array", Description: "Semi-axes [width, height]", Required: true},
					{Name: "angle", Type: "number", Description: "Rotation in radians (default 0)", Required: false},
					{Name: "arc_start", Type: "number", Description: "Arc start in radians (default 0)", Required: false},
					{Name: "arc_end", Type: "number", Description: "Arc end in radians (default 2π)", Required: false},
					{Name: "step", Type: "number", Description: "Sampling step in radians", Required: true},
				},
				Returns: "array",
			},
			{
				ID:          "geometry.normalize_angle",
				Name:        "Normalize Angle",
				Description: "Wrap an angle into one turn",
				Parameters: []types.Parameter{
					{Name: "angle", Type: "number", Description: "Angle", Required: true},
					{Name: "unit", Type: "string", Description: "degrees or radians (default degrees)", Required: false},
				},
				Returns: "number",
			},
		},
	}
}

// Execute routes geometry tools
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "geometry.subdivide":
		return p.subdivide(params)
	case "geometry.intersection":
		return p.intersection(params)
	case "geometry.union":
		return p.union(params)
	case "geometry.contains":
		return p.contains(params)
	case "geometry.polygon_bounds":
		return p.polygonBounds(params)
	case "geometry.polyline_length":
		return p.polylineLength(params)
	case "geometry.ellipse":
		return p.ellipse(params)
	case "geometry.normalize_angle":
		return p.normalizeAngle(params)
	default:
		return math.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) subdivide(params map[string]interface{}) (*types.Result, error) {
	rect, err := getRect(params, "rect")
	if err != nil {
		return math.Failure(err.Error())
	}
	tile, err := math.GetVector(params, "tile")
	if err != nil {
		return math.Failure(err.Error())
	}
	if len(tile) != 2 {
		return math.Failure("tile must be [width, height]")
	}
	partials, _ := math.GetBool(params, "include_partials")

	tiles, err := rect.Subdivide(geom.Size(tile), partials)
	if err != nil {
		return math.Failure(err.Error())
	}
	out := make([]map[string]interface{}, len(tiles))
	for i, t := range tiles {
		out[i] = rectData(t)
	}
	return math.Success(map[string]interface{}{
		"tiles": out,
		"count": len(tiles),
	})
}

func (p *Provider) intersection(params map[string]interface{}) (*types.Result, error) {
	a, b, err := rectPair(params)
	if err != nil {
		return math.Failure(err.Error())
	}
	overlap, ok := a.Intersection(b)
	if !ok {
		return math.Success(map[string]interface{}{"intersects": false})
	}
	return math.Success(map[string]interface{}{
		"intersects": true,
		"result":     rectData(overlap),
	})
}

func (p *Provider) union(params map[string]interface{}) (*types.Result, error) {
	a, b, err := rectPair(params)
	if err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{"result": rectData(a.Union(b))})
}

func (p *Provider) contains(params map[string]interface{}) (*types.Result, error) {
	rect, err := getRect(params, "rect")
	if err != nil {
		return math.Failure(err.Error())
	}
	pt, err := math.GetVector(params, "point")
	if err != nil {
		return math.Failure(err.Error())
	}
	if len(pt) != 2 {
		return math.Failure("point must be [x, y]")
	}
	return math.Success(map[string]interface{}{"result": rect.Contains(geom.Point(pt))})
}

func (p *Provider) polygonBounds(params map[string]interface{}) (*types.Result, error) {
	points, err := getPoints(params, "points")
	if err != nil {
		return math.Failure(err.Error())
	}
	poly := geom.NewPolygon(points...)
	bounds, ok := poly.Bounds()
	if !ok {
		return math.Failure("polygon has no points")
	}
	return math.Success(map[string]interface{}{
		"result": rectData(bounds),
		"closed": poly.IsClosed(),
	})
}

func (p *Provider) polylineLength(params map[string]interface{}) (*types.Result, error) {
	points, err := getPoints(params, "points")
	if err != nil {
		return math.Failure(err.Error())
	}
	var line geom.PolyLine
	for _, pt := range points {
		line.Append(pt)
	}
	length, err := line.Length()
	if err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{"result": length})
}

func (p *Provider) ellipse(params map[string]interface{}) (*types.Result, error) {
	center, err := math.GetVector(params, "center")
	if err != nil {
		return math.Failure(err.Error())
	}
	axes, err := math.GetVector(params, "axes")
	if err != nil {
		return math.Failure(err.Error())
	}
	step, ok := math.GetNumber(params, "step")
	if !ok {
		return math.Failure("step parameter required")
	}
	angle := optionalNumber(params, "angle", 0)
	arcStart := optionalNumber(params, "arc_start", 0)
	arcEnd := optionalNumber(params, "arc_end", 2*gomath.Pi)
	if err := math.ValidateNumbers([]float64{step, angle, arcStart, arcEnd}, "ellipse"); err != nil {
		return math.Failure(err.Error())
	}

	poly, err := geom.EllipseToPolygon(geom.Point(center), geom.Size(axes), angle, arcStart, arcEnd, step)
	if err != nil {
		return math.Failure(err.Error())
	}
	out := make([][]float64, 0, poly.Len())
	for _, pt := range poly.Points() {
		out = append(out, []float64(pt))
	}
	return math.Success(map[string]interface{}{
		"result": out,
		"count":  len(out),
	})
}

func (p *Provider) normalizeAngle(params map[string]interface{}) (*types.Result, error) {
	angle, ok := math.GetNumber(params, "angle")
	if !ok {
		return math.Failure("angle parameter required")
	}
	if err := math.ValidateNumber(angle, "angle"); err != nil {
		return math.Failure(err.Error())
	}
	unit, _ := math.GetString(params, "unit")
	switch unit {
	case "", "degrees":
		return math.Success(map[string]interface{}{"result": geom.NormalizeAngleDegrees(angle)})
	case "radians":
		return math.Success(map[string]interface{}{"result": geom.NormalizeAngleRadians(angle)})
	default:
		return math.Failure(fmt.Sprintf("unknown angle unit: %s", unit))
	}
}
