package geometry

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// MaxEllipseSamples bounds the points EllipseToPolygon will produce
const MaxEllipseSamples = 100000

// NormalizeAngleDegrees wraps angle into [0, 360]
func NormalizeAngleDegrees(angle float64) float64 {
	return wrapClosed(angle, 360)
}

// NormalizeAngleRadians wraps angle into [0, 2π]
func NormalizeAngleRadians(angle float64) float64 {
	return wrapClosed(angle, twoPi)
}

// wrapClosed keeps values already in [0, period] and sends larger
// multiples of period to period, negative ones to 0.
func wrapClosed(angle, period float64) float64 {
	if angle >= 0 && angle <= period {
		return angle
	}
	m := math.Mod(angle, period)
	switch {
	case angle < 0 && m < 0:
		return m + period
	case angle < 0:
		return 0
	case m == 0:
		return period
	}
	return m
}

// EllipseToPolygon samples an ellipse arc every step radians. The arc angle
// is measured from +Y toward +X; the whole figure is then rotated by
// angle about center.
func EllipseToPolygon(center Point, axes Size, angle, arcStart, arcEnd, step float64) (*Polygon, error) {
	if !(step > 0) || math.IsInf(step, 1) {
		return nil, fmt.Errorf("step %g must be positive: %w", step, ErrInvalidSize)
	}
	for _, v := range []float64{angle, arcStart, arcEnd} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("angle %g must be finite: %w", v, ErrInvalidSize)
		}
	}
	if axes.Dims() < 2 {
		return nil, fmt.Errorf("axes need width and height: %w", ErrInvalidSize)
	}

	if arcStart > arcEnd {
		arcStart, arcEnd = arcEnd, arcStart
	}
	if arcEnd-arcStart >= twoPi {
		arcStart, arcEnd = 0, twoPi
	} else {
		arcStart = NormalizeAngleRadians(arcStart)
		arcEnd = NormalizeAngleRadians(arcEnd)
		if arcEnd < arcStart {
			arcEnd += twoPi
		}
	}

	sinA, cosA := math.Sincos(NormalizeAngleRadians(angle))
	out := NewPolygon()
	sample := func(t float64) {
		dx := axes.Width() * math.Sin(t)
		dy := axes.Height() * math.Cos(t)
		out.Append(Pt2(
			center.X()+dx*cosA-dy*sinA,
			center.Y()+dx*sinA+dy*cosA,
		))
	}

	steps := math.Floor((arcEnd-arcStart)/step + 1e-9)
	if steps+2 > MaxEllipseSamples {
		return nil, fmt.Errorf("step %g needs more than %d samples: %w", step, MaxEllipseSamples, ErrInvalidSize)
	}
	n := int(steps)
	for k := 0; k <= n; k++ {
		sample(arcStart + float64(k)*step)
	}
	// always finish on the arc end
	if arcStart+float64(n)*step < arcEnd-1e-9 {
		sample(arcEnd)
	}
	return out, nil
}
