package geom

import "math"

const (
	// AxisTolerance is the maximum difference on an axis for two points to
	// count as aligned on it.
	AxisTolerance = 1.0

	// CornerTolerance is the minimum difference on both axes for a pair of
	// points to count as a diagonal that needs a corner.
	CornerTolerance = 0.5
)

// =============================================================================
// Point
// =============================================================================

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p multiplied by k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// SameX reports whether p and q are vertically aligned.
func (p Point) SameX(q Point) bool { return math.Abs(p.X-q.X) < AxisTolerance }

// SameY reports whether p and q are horizontally aligned.
func (p Point) SameY(q Point) bool { return math.Abs(p.Y-q.Y) < AxisTolerance }

// Diagonal reports whether the segment p→q needs a corner to become orthogonal.
func (p Point) Diagonal(q Point) bool {
	return math.Abs(p.X-q.X) > CornerTolerance && math.Abs(p.Y-q.Y) > CornerTolerance
}

// =============================================================================
// Rect
// =============================================================================

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Left returns the x coordinate of the left edge.
func (r Rect) Left() float64 { return r.X }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the centre point.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{r.X, r.Y} }

// ContainsOrigin reports whether p lies in the half-open area [x,x+w) × [y,y+h).
// Shapes are considered inside a container when their origin passes this test.
func (r Rect) ContainsOrigin(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Contains reports whether p lies within the closed rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Pad returns the rectangle grown by m on every side as an obstacle box.
func (r Rect) Pad(m float64) Box {
	return Box{Left: r.X - m, Top: r.Y - m, Right: r.X + r.W + m, Bottom: r.Y + r.H + m}
}

// Box converts the rectangle to an unpadded obstacle box.
func (r Rect) Box() Box { return r.Pad(0) }

// =============================================================================
// Box
// =============================================================================

// Box is an axis-aligned obstacle rectangle a routed path must not cross.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Blocks reports whether the interior of segment a→b crosses the box.
//
// A horizontal segment is blocked when its y lies strictly between the box's
// top and bottom and its x-range overlaps the box; vertical segments are
// tested the same way on the other axis. Segments running along an edge and
// diagonal segments never block.
func (b Box) Blocks(p, q Point) bool {
	switch {
	case p.SameY(q):
		y := p.Y
		if y <= b.Top || y >= b.Bottom {
			return false
		}
		lo, hi := math.Min(p.X, q.X), math.Max(p.X, q.X)
		return hi > b.Left && lo < b.Right
	case p.SameX(q):
		x := p.X
		if x <= b.Left || x >= b.Right {
			return false
		}
		lo, hi := math.Min(p.Y, q.Y), math.Max(p.Y, q.Y)
		return hi > b.Top && lo < b.Bottom
	}
	return false
}
