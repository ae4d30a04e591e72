package route

import (
	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// LiveOffset is the offset of a segment drag still in progress.
type LiveOffset struct {
	Segment int     `json:"segment"`
	Delta   float64 `json:"delta"`
}

// Adjust applies stored offsets in ascending segment order, then the live
// offset, then repairs diagonals with the original handle sides.
//
// Each offset moves both endpoints of its segment perpendicular to it, which
// also moves the neighbouring segments' shared points. Indices outside
// [ValidSegment] are ignored.
func Adjust(raw geom.Path, offsets scene.Offsets, live *LiveOffset, src, tgt geom.Side) geom.Path {
	if len(offsets) == 0 && live == nil {
		return raw.Clone()
	}
	path := raw.Clone()
	for _, idx := range offsets.Indices() {
		shiftSegment(path, idx, offsets[idx])
	}
	if live != nil {
		shiftSegment(path, live.Segment, live.Delta)
	}
	return Orthogonalize(path, src, tgt)
}

// ValidSegment reports whether offsets may target segment i of a path with
// n points: the interior segments between the two stubs, [1, n-3].
func ValidSegment(i, n int) bool {
	return i >= 1 && i <= n-3
}

// shiftSegment moves segment i in place. Horizontal segments move in y,
// everything else in x.
func shiftSegment(path geom.Path, i int, delta float64) {
	if !ValidSegment(i, len(path)) || delta == 0 {
		return
	}
	a, b := &path[i], &path[i+1]
	if a.SameY(*b) {
		a.Y += delta
		b.Y += delta
		return
	}
	a.X += delta
	b.X += delta
}
