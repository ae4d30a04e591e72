package render

import (
	"math"

	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/route"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// Frame is a routed scene ready for drawing.
type Frame struct {
	Scene   *scene.Scene
	Results []route.Result
	// Bounds encloses every visible shape and waypoint, before margins.
	Bounds geom.Rect
}

// NewFrame computes the drawing bounds of a routed scene.
func NewFrame(s *scene.Scene, results []route.Result) Frame {
	b := newBounds()
	for i := range s.Shapes {
		sh := &s.Shapes[i]
		if sh.IsHidden() {
			continue
		}
		r := sh.Rect()
		b.add(r.Origin())
		b.add(geom.Point{X: r.Right(), Y: r.Bottom()})
	}
	for _, res := range results {
		for _, p := range res.Waypoints {
			b.add(p)
		}
	}
	return Frame{Scene: s, Results: results, Bounds: b.rect()}
}

// Result returns the routing result of a connector.
func (f Frame) Result(connID string) (route.Result, bool) {
	for _, r := range f.Results {
		if r.ConnectorID == connID {
			return r, true
		}
	}
	return route.Result{}, false
}

// Canvas returns the bounds grown by margin on every side.
func (f Frame) Canvas(margin float64) geom.Rect {
	return geom.Rect{
		X: f.Bounds.X - margin,
		Y: f.Bounds.Y - margin,
		W: f.Bounds.W + 2*margin,
		H: f.Bounds.H + 2*margin,
	}
}

type bounds struct {
	minX, minY, maxX, maxY float64
}

func newBounds() bounds {
	return bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

func (b *bounds) add(p geom.Point) {
	b.minX = math.Min(b.minX, p.X)
	b.minY = math.Min(b.minY, p.Y)
	b.maxX = math.Max(b.maxX, p.X)
	b.maxY = math.Max(b.maxY, p.Y)
}

func (b bounds) rect() geom.Rect {
	if math.IsInf(b.minX, 1) {
		return geom.Rect{}
	}
	return geom.Rect{X: b.minX, Y: b.minY, W: b.maxX - b.minX, H: b.maxY - b.minY}
}
