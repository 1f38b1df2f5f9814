package coordinate

import (
	"fmt"
	"math"

	"github.com/GriffinCanCode/terminus-math/internal/math/matrix"
	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi

	bowringIterations = 10
	bowringTolerance  = 1e-15
)

// GeodeticToCartesian converts (lon, lat, height) in degrees and meters
// into Earth-centered XYZ. Longitude is relative to the datum's prime
// meridian. Geocentric datums treat lat as geocentric latitude.
func (d Datum) GeodeticToCartesian(llh vector.Vector) (vector.Vector, error) {
	if len(llh) != 3 {
		return nil, fmt.Errorf("geodetic point needs 3 components, got %d: %w", len(llh), vector.ErrDimensionMismatch)
	}
	a, b := d.SemiMajor, d.SemiMinor

	lat := llh[1] * deg2rad
	if d.Geocentric && math.Abs(llh[1]) < 90 {
		lat = math.Atan(math.Tan(lat) * (a * a) / (b * b))
	}
	lon := (llh[0] + d.MeridianOffset) * deg2rad

	e2 := d.EccentricitySq()
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	n := a / math.Sqrt(1-e2*sinLat*sinLat)
	h := llh[2]

	return vector.Vector{
		(n + h) * cosLat * cosLon,
		(n + h) * cosLat * sinLon,
		(n*(1-e2) + h) * sinLat,
	}, nil
}

// CartesianToGeodetic inverts GeodeticToCartesian using Bowring's method.
// Longitude is returned in (-180, 180].
func (d Datum) CartesianToGeodetic(xyz vector.Vector) (vector.Vector, error) {
	if len(xyz) != 3 {
		return nil, fmt.Errorf("cartesian point needs 3 components, got %d: %w", len(xyz), vector.ErrDimensionMismatch)
	}
	a, b := d.SemiMajor, d.SemiMinor
	x, y, z := xyz[0], xyz[1], xyz[2]

	e2 := d.EccentricitySq()
	ep2 := (a*a)/(b*b) - 1
	f := d.Flattening()
	p := math.Hypot(x, y)

	beta := math.Atan2(z, (1-f)*p)
	var lat float64
	for i := 0; i < bowringIterations; i++ {
		sinB, cosB := math.Sincos(beta)
		lat = math.Atan2(z+ep2*b*sinB*sinB*sinB, p-e2*a*cosB*cosB*cosB)
		next := math.Atan2((1-f)*math.Sin(lat), math.Cos(lat))
		if math.Abs(next-beta) < bowringTolerance {
			break
		}
		beta = next
	}

	sinLat, cosLat := math.Sincos(lat)
	h := p*cosLat + z*sinLat - a*math.Sqrt(1-e2*sinLat*sinLat)

	if d.Geocentric && math.Abs(lat) < math.Pi/2 {
		lat = math.Atan(math.Tan(lat) * (b * b) / (a * a))
	}

	lon := math.Atan2(y, x)*rad2deg - d.MeridianOffset
	return vector.Vector{wrapLongitude(lon), lat * rad2deg, h}, nil
}

// wrapLongitude maps lon into (-180, 180]
func wrapLongitude(lon float64) float64 {
	if lon > -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon <= 0 {
		lon += 360
	}
	return lon - 180
}

// NEDRotation returns the 3x3 matrix whose columns are the north, east and
// down unit vectors at (lon, lat), expressed in Earth-centered axes. It
// maps NED offsets into XYZ offsets.
func NEDRotation(lon, lat float64) *matrix.Matrix {
	sinLat, cosLat := math.Sincos(lat * deg2rad)
	sinLon, cosLon := math.Sincos(lon * deg2rad)

	m, _ := matrix.NewFromRows([][]float64{
		{-sinLat * cosLon, -sinLon, -cosLat * cosLon},
		{-sinLat * sinLon, cosLon, -cosLat * sinLon},
		{cosLat, 0, -sinLat},
	})
	return m
}
