package route

import (
	"math"

	"github.com/matzehuels/smartstep/pkg/geom"
)

// Anchors returns where a renderer places the connector label and the
// direction-swap control.
//
// The label sits at the midpoint of the middle segment. The swap control
// sits on the bend nearest the midpoint between the path's ends so it never
// overlaps the label; a path without bends uses the label anchor.
func Anchors(path geom.Path) (label, swap geom.Point) {
	if len(path) == 0 {
		return geom.Point{}, geom.Point{}
	}
	mid := len(path) / 2
	a, b := path[max(0, mid-1)], path[mid]
	label = geom.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}

	swap = label
	center := geom.Point{X: (path.First().X + path.Last().X) / 2, Y: (path.First().Y + path.Last().Y) / 2}
	best := math.Inf(1)
	for i := 1; i < len(path)-1; i++ {
		if path[i-1].SameY(path[i]) == path[i].SameY(path[i+1]) {
			continue
		}
		if d := path[i].Dist(center); d < best {
			best, swap = d, path[i]
		}
	}
	return label, swap
}

// DraggableSegments returns the interior segments a user may drag: those
// between the stubs that are axis-aligned and at least
// [Config.MinDragSegment] long.
func DraggableSegments(path geom.Path, cfg Config) []geom.Segment {
	var out []geom.Segment
	for _, seg := range path.Segments() {
		if !ValidSegment(seg.Index, len(path)) {
			continue
		}
		if !seg.Horizontal() && !seg.Vertical() {
			continue
		}
		if seg.Length() < cfg.MinDragSegment {
			continue
		}
		out = append(out, seg)
	}
	return out
}
