package geometry

import (
	"fmt"

	geom "github.com/GriffinCanCode/terminus-math/internal/math/geometry"
	"github.com/GriffinCanCode/terminus-math/internal/providers/math"
)

// getRect decodes {x, y, width, height}
func getRect(params map[string]interface{}, key string) (geom.Rectangle, error) {
	obj, ok := params[key].(map[string]interface{})
	if !ok {
		return geom.Rectangle{}, fmt.Errorf("%s must be an object {x, y, width, height}", key)
	}

	var vals [4]float64
	for i, field := range []string{"x", "y", "width", "height"} {
		v, ok := math.GetNumber(obj, field)
		if !ok {
			return geom.Rectangle{}, fmt.Errorf("%s.%s required", key, field)
		}
		if err := math.ValidateNumber(v, key+"."+field); err != nil {
			return geom.Rectangle{}, err
		}
		vals[i] = v
	}
	if vals[2] < 0 || vals[3] < 0 {
		return geom.Rectangle{}, fmt.Errorf("%s has negative extent", key)
	}
	return geom.NewRectangle(vals[0], vals[1], vals[2], vals[3]), nil
}

func rectPair(params map[string]interface{}) (geom.Rectangle, geom.Rectangle, error) {
	a, err := getRect(params, "a")
	if err != nil {
		return geom.Rectangle{}, geom.Rectangle{}, err
	}
	b, err := getRect(params, "b")
	if err != nil {
		return geom.Rectangle{}, geom.Rectangle{}, err
	}
	return a, b, nil
}

func rectData(r geom.Rectangle) map[string]interface{} {
	return map[string]interface{}{
		"x":      r.MinX,
		"y":      r.MinY,
		"width":  r.Width,
		"height": r.Height,
	}
}

func getPoints(params map[string]interface{}, key string) ([]geom.Point, error) {
	vecs, err := math.GetVectors(params, key)
	if err != nil {
		return nil, err
	}
	points := make([]geom.Point, len(vecs))
	for i, v := range vecs {
		points[i] = geom.Point(v)
	}
	return points, nil
}

func optionalNumber(params map[string]interface{}, key string, fallback float64) float64 {
	if v, ok := math.GetNumber(params, key); ok {
		return v
	}
	return fallback
}
