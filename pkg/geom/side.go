package geom

import "fmt"

// Side is one of the four cardinal attachment points on a shape boundary.
type Side string

// Attachment sides.
const (
	Top    Side = "top"
	Bottom Side = "bottom"
	Left   Side = "left"
	Right  Side = "right"
)

// Sides lists the candidate sides in their fixed tie-break order.
var Sides = []Side{Top, Bottom, Left, Right}

// ParseSide converts a string to a Side.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Top, Bottom, Left, Right:
		return Side(s), nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// Valid reports whether s is one of the four cardinal sides.
func (s Side) Valid() bool {
	switch s {
	case Top, Bottom, Left, Right:
		return true
	}
	return false
}

// Normal returns the outward unit normal of the side.
func (s Side) Normal() Point {
	switch s {
	case Top:
		return Point{0, -1}
	case Bottom:
		return Point{0, 1}
	case Left:
		return Point{-1, 0}
	case Right:
		return Point{1, 0}
	}
	return Point{}
}

// Horizontal reports whether a connector leaves this side horizontally.
func (s Side) Horizontal() bool {
	return s == Left || s == Right
}

// Opposite returns the facing side.
func (s Side) Opposite() Side {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	}
	return s
}
