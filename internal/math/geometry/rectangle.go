package geometry

import (
	"fmt"
	"math"
)

// Rectangle is an axis-aligned 2D box stored as its bottom-left corner
// plus extents
type Rectangle struct {
	MinX, MinY    float64
	Width, Height float64
}

// NewRectangle creates a rectangle from its bottom-left corner and size
func NewRectangle(x, y, width, height float64) Rectangle {
	return Rectangle{MinX: x, MinY: y, Width: width, Height: height}
}

// FromCorners creates the smallest rectangle containing both points
func FromCorners(a, b Point) Rectangle {
	minX, maxX := math.Min(a.X(), b.X()), math.Max(a.X(), b.X())
	minY, maxY := math.Min(a.Y(), b.Y()), math.Max(a.Y(), b.Y())
	return Rectangle{MinX: minX, MinY: minY, Width: maxX - minX, Height: maxY - minY}
}

// FromPointSize creates a rectangle anchored at p with the given size
func FromPointSize(p Point, s Size) Rectangle {
	return NewRectangle(p.X(), p.Y(), s.Width(), s.Height())
}

// Min returns the bottom-left corner
func (r Rectangle) Min() Point { return Pt2(r.MinX, r.MinY) }

// Max returns the top-right corner
func (r Rectangle) Max() Point { return Pt2(r.MinX+r.Width, r.MinY+r.Height) }

// BL returns the bottom-left corner
func (r Rectangle) BL() Point { return r.Min() }

// BR returns the bottom-right corner
func (r Rectangle) BR() Point { return Pt2(r.MinX+r.Width, r.MinY) }

// TL returns the top-left corner
func (r Rectangle) TL() Point { return Pt2(r.MinX, r.MinY+r.Height) }

// TR returns the top-right corner
func (r Rectangle) TR() Point { return r.Max() }

// Size returns the extents
func (r Rectangle) Size() Size { return Size{r.Width, r.Height} }

// Area returns width * height
func (r Rectangle) Area() float64 { return r.Width * r.Height }

// SetMax moves the top-right corner, keeping the bottom-left fixed
func (r Rectangle) SetMax(p Point) Rectangle {
	r.Width = p.X() - r.MinX
	r.Height = p.Y() - r.MinY
	return r
}

// Translate shifts the rectangle by offset
func (r Rectangle) Translate(offset Point) Rectangle {
	r.MinX += offset.X()
	r.MinY += offset.Y()
	return r
}

// TranslateNeg shifts the rectangle by -offset
func (r Rectangle) TranslateNeg(offset Point) Rectangle {
	r.MinX -= offset.X()
	r.MinY -= offset.Y()
	return r
}

// Contains reports whether p lies inside or on the boundary
func (r Rectangle) Contains(p Point) bool {
	top := r.Max()
	return p.X() >= r.MinX && p.X() <= top.X() &&
		p.Y() >= r.MinY && p.Y() <= top.Y()
}

// ContainsRect reports whether other lies entirely inside r
func (r Rectangle) ContainsRect(other Rectangle) bool {
	return r.Contains(other.Min()) && r.Contains(other.Max())
}

// Intersection returns the overlap of r and other; ok is false when they
// do not overlap
func (r Rectangle) Intersection(other Rectangle) (Rectangle, bool) {
	minX := math.Max(r.MinX, other.MinX)
	minY := math.Max(r.MinY, other.MinY)
	maxX := math.Min(r.Max().X(), other.Max().X())
	maxY := math.Min(r.Max().Y(), other.Max().Y())
	if maxX < minX || maxY < minY {
		return Rectangle{}, false
	}
	return Rectangle{MinX: minX, MinY: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Union returns the smallest rectangle covering r and other
func (r Rectangle) Union(other Rectangle) Rectangle {
	return FromCorners(
		Pt2(math.Min(r.MinX, other.MinX), math.Min(r.MinY, other.MinY)),
		Pt2(math.Max(r.Max().X(), other.Max().X()), math.Max(r.Max().Y(), other.Max().Y())),
	)
}

// UnionPoint grows r to include p
func (r Rectangle) UnionPoint(p Point) Rectangle {
	return r.Union(Rectangle{MinX: p.X(), MinY: p.Y()})
}

// Expand grows every side by n
func (r Rectangle) Expand(n float64) Rectangle {
	return Rectangle{MinX: r.MinX - n, MinY: r.MinY - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

// MaxTiles bounds the number of tiles Subdivide will produce
const MaxTiles = 100000

// Subdivide tiles r row by row from the bottom-left. With includePartials
// the last row and column are clipped to r; otherwise they are dropped.
func (r Rectangle) Subdivide(tile Size, includePartials bool) ([]Rectangle, error) {
	tw, th := tile.Width(), tile.Height()
	if !finite(tw, th) || tw <= 0 || th <= 0 {
		return nil, fmt.Errorf("tile %s: %w", tile, ErrInvalidSize)
	}
	if !finite(r.MinX, r.MinY, r.Width, r.Height) {
		return nil, fmt.Errorf("rectangle %s: %w", r, ErrInvalidSize)
	}

	round := math.Floor
	if includePartials {
		round = math.Ceil
	}
	cols := math.Max(round(r.Width/tw), 0)
	rows := math.Max(round(r.Height/th), 0)
	if cols*rows > MaxTiles {
		return nil, fmt.Errorf("%g x %g tiles exceeds %d: %w", cols, rows, MaxTiles, ErrInvalidSize)
	}

	top := r.Max()
	tiles := make([]Rectangle, 0, int(cols*rows))
	for j := 0; j < int(rows); j++ {
		y := r.MinY + float64(j)*th
		h := math.Min(th, top.Y()-y)
		for i := 0; i < int(cols); i++ {
			x := r.MinX + float64(i)*tw
			w := math.Min(tw, top.X()-x)
			tiles = append(tiles, NewRectangle(x, y, w, h))
		}
	}
	return tiles, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// String renders "Rectangle: BL: (x, y), W: w, H: h"
func (r Rectangle) String() string {
	return fmt.Sprintf("Rectangle: BL: (%g, %g), W: %g, H: %g", r.MinX, r.MinY, r.Width, r.Height)
}
