package model

import "math"

// Point represents a 2D point on a page, in bottom-left-origin page units.
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox represents a bounding box in bottom-left-origin page coordinates.
// X0/Y0 is the lower-left corner, X1/Y1 the upper-right corner.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// NewBBox creates a bounding box, normalizing swapped corners.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// PointBox creates a degenerate box centered on a single point, padded so the
// result remains drawable. Used when a character carries a point coordinate
// but no box.
func PointBox(p Point, pad float64) BBox {
	return BBox{X0: p.X - pad, Y0: p.Y - pad, X1: p.X + pad, Y1: p.Y + pad}
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

// Center returns the center point
func (b BBox) Center() Point {
	return Point{X: (b.X0 + b.X1) / 2, Y: (b.Y0 + b.Y1) / 2}
}

// VCenter returns the vertical center of the box. Line clustering groups
// characters whose vertical centers fall within a fixed threshold.
func (b BBox) VCenter() float64 { return (b.Y0 + b.Y1) / 2 }

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.X0 && p.X <= b.X1 && p.Y >= b.Y0 && p.Y <= b.Y1
}

// Intersects checks if two bounding boxes intersect
func (b BBox) Intersects(other BBox) bool {
	return !(b.X1 < other.X0 ||
		b.X0 > other.X1 ||
		b.Y1 < other.Y0 ||
		b.Y0 > other.Y1)
}

// Union returns the smallest box enclosing both boxes.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// Clip constrains the box to the given page bounds. The result may be
// empty; callers should check IsValid before drawing.
func (b BBox) Clip(page BBox) BBox {
	return BBox{
		X0: math.Max(b.X0, page.X0),
		Y0: math.Max(b.Y0, page.Y0),
		X1: math.Min(b.X1, page.X1),
		Y1: math.Min(b.Y1, page.Y1),
	}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width() * b.Height()
}

// Expand expands the bounding box by a margin on all sides
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		X0: b.X0 - margin,
		Y0: b.Y0 - margin,
		X1: b.X1 + margin,
		Y1: b.Y1 + margin,
	}
}

// IsValid returns true if the bounding box has positive dimensions and
// finite coordinates.
func (b BBox) IsValid() bool {
	for _, v := range [4]float64{b.X0, b.Y0, b.X1, b.Y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.X1 > b.X0 && b.Y1 > b.Y0
}

// Rounded returns a copy with all coordinates rounded to two decimal
// places. Annotation de-duplication keys on the rounded box so that
// float noise from repeated reconciliation cannot defeat it.
func (b BBox) Rounded() BBox {
	return BBox{
		X0: round2(b.X0),
		Y0: round2(b.Y0),
		X1: round2(b.X1),
		Y1: round2(b.Y1),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
