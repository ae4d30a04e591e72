package route

import (
	"math"

	"github.com/matzehuels/smartstep/pkg/geom"
)

// Avoid detours the path around obstacle boxes.
//
// Each pass finds the first segment blocked by any box and splices in two
// points hugging the nearer box edge, then rescans from the start. It stops
// once nothing is blocked (resolved) or after maxPasses detours, in which
// case the partial path is returned as is.
func Avoid(path geom.Path, boxes []geom.Box, maxPasses int) (out geom.Path, passes int, resolved bool) {
	out = path.Clone()
	for passes < maxPasses {
		i, box, ok := firstBlocked(out, boxes)
		if !ok {
			return out, passes, true
		}
		out = splice(out, i+1, detour(out[i], out[i+1], box)...)
		passes++
	}
	_, _, blocked := firstBlocked(out, boxes)
	return out, passes, !blocked
}

func firstBlocked(path geom.Path, boxes []geom.Box) (int, geom.Box, bool) {
	for i := 0; i+1 < len(path); i++ {
		for _, b := range boxes {
			if b.Blocks(path[i], path[i+1]) {
				return i, b, true
			}
		}
	}
	return 0, geom.Box{}, false
}

// detour returns the two points that carry segment a→b along the box edge
// nearest its fixed coordinate. Ties go to the top or left edge.
func detour(a, b geom.Point, box geom.Box) []geom.Point {
	if a.SameY(b) {
		y := box.Bottom
		if math.Abs(a.Y-box.Top) <= math.Abs(a.Y-box.Bottom) {
			y = box.Top
		}
		return []geom.Point{{X: a.X, Y: y}, {X: b.X, Y: y}}
	}
	x := box.Right
	if math.Abs(a.X-box.Left) <= math.Abs(a.X-box.Right) {
		x = box.Left
	}
	return []geom.Point{{X: x, Y: a.Y}, {X: x, Y: b.Y}}
}

// splice inserts pts before index i.
func splice(path geom.Path, i int, pts ...geom.Point) geom.Path {
	out := make(geom.Path, 0, len(path)+len(pts))
	out = append(out, path[:i]...)
	out = append(out, pts...)
	return append(out, path[i:]...)
}
