// Package conversions holds spherical estimates between cartesian XYZ and
// (longitude, latitude, radius) triples. Latitude is measured from the
// equator, north positive, and all angles are in degrees.
package conversions

import (
	"errors"
	"fmt"
	"math"

	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

// ErrUninitialized marks a point too close to the origin to carry a direction
var ErrUninitialized = errors.New("uninitialized input coordinate")

const minMagnitude = 0.0001

// XYZToLonLatRadius returns (lon, lat, radius). With centeredOnZero the
// longitude lies in [-180, 180], otherwise in [0, 360).
func XYZToLonLatRadius(xyz vector.Vector, eastPositive, centeredOnZero bool) (vector.Vector, error) {
	if len(xyz) != 3 {
		return nil, fmt.Errorf("xyz needs 3 components, got %d: %w", len(xyz), vector.ErrDimensionMismatch)
	}
	radius := xyz.Magnitude()
	if radius < minMagnitude {
		return nil, ErrUninitialized
	}

	lat := math.Asin(xyz[2] / radius)
	y := xyz[1]
	if !eastPositive {
		y = -y
	}
	lon := math.Atan2(y, xyz[0])

	if centeredOnZero {
		if lon > math.Pi {
			lon -= 2 * math.Pi
		}
		if lon < -math.Pi {
			lon += 2 * math.Pi
		}
	} else {
		if lon < 0 {
			lon += 2 * math.Pi
		}
		if lon >= 2*math.Pi {
			lon -= 2 * math.Pi
		}
	}

	return vector.Vector{lon * 180 / math.Pi, lat * 180 / math.Pi, radius}, nil
}

// LonLatRadiusToXYZ is the inverse of XYZToLonLatRadius
func LonLatRadiusToXYZ(llr vector.Vector, eastPositive bool) (vector.Vector, error) {
	if len(llr) != 3 {
		return nil, fmt.Errorf("lon/lat/radius needs 3 components, got %d: %w", len(llr), vector.ErrDimensionMismatch)
	}
	lon := llr[0] * math.Pi / 180
	if !eastPositive {
		lon = -lon
	}
	sinLat, cosLat := math.Sincos(llr[1] * math.Pi / 180)
	sinLon, cosLon := math.Sincos(lon)

	return vector.Vector{
		llr[2] * cosLat * cosLon,
		llr[2] * cosLat * sinLon,
		llr[2] * sinLat,
	}, nil
}
