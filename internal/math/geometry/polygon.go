package geometry

import (
	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

// closedTolerance is the L2 gap under which the first and last vertex coincide
const closedTolerance = 0.001

// Polygon is an ordered vertex list
type Polygon struct {
	points []Point
}

// NewPolygon creates a polygon from vertices
func NewPolygon(points ...Point) *Polygon {
	return &Polygon{points: append([]Point(nil), points...)}
}

// Append adds a vertex
func (p *Polygon) Append(pt Point) {
	p.points = append(p.points, pt)
}

// Len returns the vertex count
func (p *Polygon) Len() int { return len(p.points) }

// Points returns the vertices
func (p *Polygon) Points() []Point { return p.points }

// IsClosed reports whether the last vertex returns to the first
func (p *Polygon) IsClosed() bool {
	if len(p.points) < 2 {
		return false
	}
	d, err := p.points[0].Distance(p.points[len(p.points)-1], vector.L2)
	return err == nil && d < closedTolerance
}

// Close repeats the first vertex at the end unless already closed.
// It returns false for an empty polygon.
func (p *Polygon) Close() bool {
	if len(p.points) == 0 {
		return false
	}
	if !p.IsClosed() {
		p.points = append(p.points, p.points[0].Clone())
	}
	return true
}

// Bounds returns the 2D bounding rectangle
func (p *Polygon) Bounds() (Rectangle, bool) {
	if len(p.points) == 0 {
		return Rectangle{}, false
	}
	r := Rectangle{MinX: p.points[0].X(), MinY: p.points[0].Y()}
	for _, pt := range p.points[1:] {
		r = r.UnionPoint(pt)
	}
	return r, true
}

// PolyLine is an open chain of points
type PolyLine struct {
	points []Point
}

// Append adds a point
func (l *PolyLine) Append(pt Point) {
	l.points = append(l.points, pt)
}

// Len returns the point count
func (l *PolyLine) Len() int { return len(l.points) }

// Points returns the points
func (l *PolyLine) Points() []Point { return l.points }

// Length returns the summed L2 segment length
func (l *PolyLine) Length() (float64, error) {
	total := 0.0
	for i := 1; i < len(l.points); i++ {
		d, err := l.points[i-1].Distance(l.points[i], vector.L2)
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}
