package coordinate

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/terminus-math/internal/coordinate"
	"github.com/GriffinCanCode/terminus-math/internal/coordinate/conversions"
	"github.com/GriffinCanCode/terminus-math/internal/providers/math"
	"github.com/GriffinCanCode/terminus-math/internal/types"
)

// LookupObserver is notified after every datum lookup
type LookupObserver func(hit bool)

// Provider implements datum lookup and coordinate conversions
type Provider struct {
	cache    *coordinate.Cache
	onLookup LookupObserver
}

// NewProvider creates a coordinate provider backed by cache. onLookup may be nil.
func NewProvider(cache *coordinate.Cache, onLookup LookupObserver) *Provider {
	return &Provider{cache: cache, onLookup: onLookup}
}

var sourceParam = types.Parameter{
	Name:        "datum",
	Type:        "string",
	Description: "Datum name, PROJ string or WKT (default WGS84)",
	Required:    false,
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "coordinate",
		Name:         "Coordinate Service",
		Description:  "Datum lookup and geodetic, cartesian and spherical coordinate conversions",
		Category:     types.CategoryCoordinate,
		Capabilities: []string{"datum", "geodetic", "cartesian", "ned"},
		Tools: []types.Tool{
			{
				ID:          "coordinate.datum",
				Name:        "Datum",
				Description: "Resolve a datum from a name, PROJ string or WKT",
				Parameters: []types.Parameter{
					{Name: "datum", Type: "string", Description: "Datum name, PROJ string or WKT", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "coordinate.to_cartesian",
				Name:        "Geodetic To Cartesian",
				Description: "Convert [lon, lat, height] in degrees and meters to body-centered XYZ",
				Parameters: []types.Parameter{
					{Name: "llh", Type: "array", Description: "[lon, lat, height]", Required: true},
					sourceParam,
				},
				Returns: "array",
			},
			{
				ID:          "coordinate.to_geodetic",
				Name:        "Cartesian To Geodetic",
				Description: "Convert body-centered XYZ to [lon, lat, height]",
				Parameters: []types.Parameter{
					{Name: "xyz", Type: "array", Description: "[x, y, z] in meters", Required: true},
					sourceParam,
				},
				Returns: "array",
			},
			{
				ID:          "coordinate.radius",
				Name:        "Radius",
				Description: "Distance from the body center to the ellipsoid at a latitude",
				Parameters: []types.Parameter{
					{Name: "lat", Type: "number", Description: "Latitude in degrees", Required: true},
					sourceParam,
				},
				Returns: "number",
			},
			{
				ID:          "coordinate.xyz_to_llr",
				Name:        "XYZ To Lon Lat Radius",
				Description: "Spherical estimate of [lon, lat, radius] from XYZ",
				Parameters: []types.Parameter{
					{Name: "xyz", Type: "array", Description: "[x, y, z]", Required: true},
					{Name: "east_positive", Type: "boolean", Description: "Longitude grows eastward (default true)", Required: false},
					{Name: "centered_on_zero", Type: "boolean", Description: "Longitude in [-180, 180] instead of [0, 360) (default false)", Required: false},
				},
				Returns: "array",
			},
			{
				ID:          "coordinate.llr_to_xyz",
				Name:        "Lon Lat Radius To XYZ",
				Description: "Cartesian XYZ from [lon, lat, radius]",
				Parameters: []types.Parameter{
					{Name: "llr", Type: "array", Description: "[lon, lat, radius]", Required: true},
					{Name: "east_positive", Type: "boolean", Description: "Longitude grows eastward (default true)", Required: false},
				},
				Returns: "array",
			},
			{
				ID:          "coordinate.ned",
				Name:        "NED Rotation",
				Description: "Rotation from north-east-down offsets to XYZ offsets",
				Parameters: []types.Parameter{
					{Name: "lon", Type: "number", Description: "Longitude in degrees", Required: true},
					{Name: "lat", Type: "number", Description: "Latitude in degrees", Required: true},
				},
				Returns: "array",
			},
			{
				ID:          "coordinate.cache_stats",
				Name:        "Cache Stats",
				Description: "Datum cache size, hits and misses",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute routes coordinate tools
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "coordinate.datum":
		return p.datum(params)
	case "coordinate.to_cartesian":
		return p.toCartesian(params)
	case "coordinate.to_geodetic":
		return p.toGeodetic(params)
	case "coordinate.radius":
		return p.radius(params)
	case "coordinate.xyz_to_llr":
		return p.xyzToLLR(params)
	case "coordinate.llr_to_xyz":
		return p.llrToXYZ(params)
	case "coordinate.ned":
		return p.ned(params)
	case "coordinate.cache_stats":
		return p.cacheStats()
	default:
		return math.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// lookup resolves the datum parameter through the cache
func (p *Provider) lookup(params map[string]interface{}, required bool) (coordinate.Datum, error) {
	source, ok := math.GetString(params, "datum")
	if !ok || source == "" {
		if required {
			return coordinate.Datum{}, fmt.Errorf("datum parameter required")
		}
		return coordinate.WGS84(), nil
	}

	d, hit, err := p.cache.Get(source)
	if p.onLookup != nil {
		p.onLookup(hit)
	}
	return d, err
}

func (p *Provider) datum(params map[string]interface{}) (*types.Result, error) {
	d, err := p.lookup(params, true)
	if err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{
		"name":            d.Name,
		"spheroid_name":   d.SpheroidName,
		"meridian_name":   d.MeridianName,
		"semi_major_axis": d.SemiMajor,
		"semi_minor_axis": d.SemiMinor,
		"meridian_offset": d.MeridianOffset,
		"geocentric":      d.Geocentric,
		"spherical":       d.IsSpherical(),
		"flattening":      d.Flattening(),
		"proj_string":     d.ProjString(),
	})
}

func (p *Provider) toCartesian(params map[string]interface{}) (*types.Result, error) {
	d, err := p.lookup(params, false)
	if err != nil {
		return math.Failure(err.Error())
	}
	llh, err := math.GetVector(params, "llh")
	if err != nil {
		return math.Failure(err.Error())
	}
	xyz, err := d.GeodeticToCartesian(llh)
	if err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{"result": []float64(xyz), "datum": d.Name})
}

func (p *Provider) toGeodetic(params map[string]interface{}) (*types.Result, error) {
	d, err := p.lookup(params, false)
	if err != nil {
		return math.Failure(err.Error())
	}
	xyz, err := math.GetVector(params, "xyz")
	if err != nil {
		return math.Failure(err.Error())
	}
	llh, err := d.CartesianToGeodetic(xyz)
	if err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{"result": []float64(llh), "datum": d.Name})
}

func (p *Provider) radius(params map[string]interface{}) (*types.Result, error) {
	d, err := p.lookup(params, false)
	if err != nil {
		return math.Failure(err.Error())
	}
	lat, ok := math.GetNumber(params, "lat")
	if !ok {
		return math.Failure("lat parameter required")
	}
	if err := math.ValidateNumber(lat, "lat"); err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{"result": d.Radius(lat), "datum": d.Name})
}

func (p *Provider) xyzToLLR(params map[string]interface{}) (*types.Result, error) {
	xyz, err := math.GetVector(params, "xyz")
	if err != nil {
		return math.Failure(err.Error())
	}
	llr, err := conversions.XYZToLonLatRadius(xyz, boolOr(params, "east_positive", true), boolOr(params, "centered_on_zero", false))
	if err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{"result": []float64(llr)})
}

func (p *Provider) llrToXYZ(params map[string]interface{}) (*types.Result, error) {
	llr, err := math.GetVector(params, "llr")
	if err != nil {
		return math.Failure(err.Error())
	}
	xyz, err := conversions.LonLatRadiusToXYZ(llr, boolOr(params, "east_positive", true))
	if err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{"result": []float64(xyz)})
}

func (p *Provider) ned(params map[string]interface{}) (*types.Result, error) {
	lon, ok := math.GetNumber(params, "lon")
	if !ok {
		return math.Failure("lon parameter required")
	}
	lat, ok := math.GetNumber(params, "lat")
	if !ok {
		return math.Failure("lat parameter required")
	}
	if err := math.ValidateNumbers([]float64{lon, lat}, "lon_lat"); err != nil {
		return math.Failure(err.Error())
	}
	return math.Success(map[string]interface{}{"result": math.Rows(coordinate.NEDRotation(lon, lat))})
}

func (p *Provider) cacheStats() (*types.Result, error) {
	stats := p.cache.Stats()
	return math.Success(map[string]interface{}{
		"size":   stats.Size,
		"hits":   stats.Hits,
		"misses": stats.Misses,
	})
}

func boolOr(params map[string]interface{}, key string, fallback bool) bool {
	if v, ok := math.GetBool(params, key); ok {
		return v
	}
	return fallback
}
