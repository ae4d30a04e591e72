package route

import (
	"math"

	"github.com/matzehuels/smartstep/pkg/geom"
)

// EnforceStubs inserts a point length units out from each handle along its
// side's outward normal, so the path always leaves and enters a shape
// perpendicular to the side.
func EnforceStubs(path geom.Path, src, tgt geom.Side, length float64) geom.Path {
	if len(path) < 2 {
		return path.Clone()
	}
	first, last := path.First(), path.Last()
	out := make(geom.Path, 0, len(path)+2)
	out = append(out, first, first.Add(src.Normal().Scale(length)))
	out = append(out, path[1:len(path)-1]...)
	return append(out, last.Add(tgt.Normal().Scale(length)), last)
}

// Orthogonalize inserts a corner between any two consecutive points that
// differ on both axes.
//
// The corner direction keeps stubs intact: the first corner leaves along the
// source side's axis, the last corner arrives along the target side's axis,
// and interior corners turn relative to the preceding segment.
func Orthogonalize(path geom.Path, src, tgt geom.Side) geom.Path {
	if len(path) < 2 {
		return path.Clone()
	}
	out := make(geom.Path, 0, len(path)*2)
	out = append(out, path[0])
	for i := 1; i < len(path); i++ {
		prev, curr := out[len(out)-1], path[i]
		if prev.Diagonal(curr) {
			var horizFirst bool
			switch {
			case len(out) < 2:
				horizFirst = src.Horizontal()
			case i == len(path)-1:
				horizFirst = !tgt.Horizontal()
			default:
				horizFirst = math.Abs(out[len(out)-2].X-prev.X) < geom.CornerTolerance
			}
			if horizFirst {
				out = append(out, geom.Point{X: curr.X, Y: prev.Y})
			} else {
				out = append(out, geom.Point{X: prev.X, Y: curr.Y})
			}
		}
		out = append(out, curr)
	}
	return out
}

// Clean drops interior points collinear with their neighbours. The second
// and second-to-last points bound the stubs and are always kept.
func Clean(path geom.Path) geom.Path {
	if len(path) <= 2 {
		return path.Clone()
	}
	out := geom.Path{path[0]}
	for i := 1; i < len(path)-1; i++ {
		curr := path[i]
		if i == 1 || i == len(path)-2 {
			out = append(out, curr)
			continue
		}
		prev, next := out[len(out)-1], path[i+1]
		sameX := prev.SameX(curr) && curr.SameX(next)
		sameY := prev.SameY(curr) && curr.SameY(next)
		if !sameX && !sameY {
			out = append(out, curr)
		}
	}
	return append(out, path[len(path)-1])
}
