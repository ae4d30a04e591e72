package geom

import (
	"strconv"
	"strings"
)

// Path is an ordered waypoint sequence.
type Path []Point

// Segment is one leg of a path, identified by the index of its first point.
type Segment struct {
	Index int   `json:"index"`
	From  Point `json:"from"`
	To    Point `json:"to"`
}

// Horizontal reports whether the segment is horizontal.
func (s Segment) Horizontal() bool { return s.From.SameY(s.To) }

// Vertical reports whether the segment is vertical.
func (s Segment) Vertical() bool { return s.From.SameX(s.To) }

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 { return s.From.Dist(s.To) }

// Midpoint returns the point halfway along the segment.
func (s Segment) Midpoint() Point {
	return Point{(s.From.X + s.To.X) / 2, (s.From.Y + s.To.Y) / 2}
}

// Segments returns the consecutive point pairs of the path.
func (p Path) Segments() []Segment {
	if len(p) < 2 {
		return nil
	}
	segs := make([]Segment, len(p)-1)
	for i := range segs {
		segs[i] = Segment{Index: i, From: p[i], To: p[i+1]}
	}
	return segs
}

// Orthogonal reports whether no segment of the path is diagonal.
func (p Path) Orthogonal() bool {
	for i := 0; i+1 < len(p); i++ {
		if p[i].Diagonal(p[i+1]) {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no memory with p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports whether both paths contain the same points in order.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// First returns the first point, or the zero point for an empty path.
func (p Path) First() Point {
	if len(p) == 0 {
		return Point{}
	}
	return p[0]
}

// Last returns the last point, or the zero point for an empty path.
func (p Path) Last() Point {
	if len(p) == 0 {
		return Point{}
	}
	return p[len(p)-1]
}

// SVG returns the polyline as an SVG path description ("M x y L x y ...").
func (p Path) SVG() string {
	if len(p) < 2 {
		return ""
	}
	var b strings.Builder
	for i, pt := range p {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(fmtCoord(pt.X))
		b.WriteByte(' ')
		b.WriteString(fmtCoord(pt.Y))
	}
	return b.String()
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
