// Package geometry provides points, sizes, axis-aligned rectangles,
// polygons and polylines, plus helpers for sampling ellipses.
package geometry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrInvalidSize       = errors.New("invalid size")
)

// Point is a location in N-dimensional space
type Point []float64

// Pt2 creates a 2D point
func Pt2(x, y float64) Point {
	return Point{x, y}
}

// Pt3 creates a 3D point
func Pt3(x, y, z float64) Point {
	return Point{x, y, z}
}

// Dims returns the number of coordinates
func (p Point) Dims() int { return len(p) }

// X returns the first coordinate, or 0 when absent
func (p Point) X() float64 { return p.coord(0) }

// Y returns the second coordinate, or 0 when absent
func (p Point) Y() float64 { return p.coord(1) }

// Z returns the third coordinate, or 0 when absent
func (p Point) Z() float64 { return p.coord(2) }

func (p Point) coord(i int) float64 {
	if i < len(p) {
		return p[i]
	}
	return 0
}

// Add returns p + other
func (p Point) Add(other Point) (Point, error) {
	v, err := vector.Vector(p).Add(vector.Vector(other))
	if err != nil {
		return nil, fmt.Errorf("point add: %w", ErrDimensionMismatch)
	}
	return Point(v), nil
}

// Sub returns p - other
func (p Point) Sub(other Point) (Point, error) {
	v, err := vector.Vector(p).Sub(vector.Vector(other))
	if err != nil {
		return nil, fmt.Errorf("point sub: %w", ErrDimensionMismatch)
	}
	return Point(v), nil
}

// Distance measures p to other under the given metric
func (p Point) Distance(other Point, metric vector.DistanceType) (float64, error) {
	d, err := vector.Distance(vector.Vector(p), vector.Vector(other), metric)
	if err != nil {
		return 0, fmt.Errorf("point distance: %w", ErrDimensionMismatch)
	}
	return d, nil
}

// Clone returns a deep copy
func (p Point) Clone() Point {
	return append(Point(nil), p...)
}

// String renders "Point (Dims: N): a, b"
func (p Point) String() string {
	parts := make([]string, len(p))
	for i, x := range p {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return fmt.Sprintf("Point (Dims: %d): %s", len(p), strings.Join(parts, ", "))
}

// Size holds extents along each axis
type Size []float64

// Width returns the first extent
func (s Size) Width() float64 { return Point(s).coord(0) }

// Height returns the second extent
func (s Size) Height() float64 { return Point(s).coord(1) }

// Depth returns the third extent; 2D sizes have no depth
func (s Size) Depth() (float64, error) {
	if len(s) < 3 {
		return 0, fmt.Errorf("depth of %dD size: %w", len(s), ErrIndexOutOfRange)
	}
	return s[2], nil
}

// Dims returns the number of extents
func (s Size) Dims() int { return len(s) }

// String renders "Size (Dims: N): w, h"
func (s Size) String() string {
	return strings.Replace(Point(s).String(), "Point", "Size", 1)
}
