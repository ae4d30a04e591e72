package route

import (
	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// Handle is a resolved attachment: which side of a shape and where.
type Handle struct {
	Side   geom.Side  `json:"side"`
	Point  geom.Point `json:"point"`
	Manual bool       `json:"manual,omitempty"`
}

// Handles pairs the source and target attachments of a connector.
type Handles struct {
	Source Handle `json:"source"`
	Target Handle `json:"target"`
}

// endpoint is one connector end after geometry resolution.
type endpoint struct {
	geo   scene.Geometry
	found bool
	at    geom.Point // fallback coordinate for a missing shape
}

func (e endpoint) center() geom.Point {
	if !e.found {
		return e.at
	}
	return e.geo.Center()
}

func resolveEnd(s *scene.Scene, c *scene.Connector, end scene.End) endpoint {
	if g, ok := s.Geometry(c.ShapeID(end)); ok {
		return endpoint{geo: g, found: true}
	}
	at, _ := c.LastKnown(end)
	return endpoint{at: at}
}

func defaultSide(end scene.End) geom.Side {
	if end == scene.Source {
		return geom.Bottom
	}
	return geom.Top
}

// SelectHandles resolves the attachment side and coordinate of both ends.
//
// A manual end keeps its stored side. An end whose shape is missing keeps
// its stored side (bottom/top when unset) at the last known coordinate.
// Every other end is chosen by scoring the four sides against the vector
// between card centres; see [scoreSides].
func SelectHandles(s *scene.Scene, c *scene.Connector, cfg Config) Handles {
	src := resolveEnd(s, c, scene.Source)
	tgt := resolveEnd(s, c, scene.Target)

	delta := tgt.center().Sub(src.center())
	srcScores, tgtScores := scoreSides(delta)
	if src.found && tgt.found {
		applyContainerRule(s, src.geo, tgt.geo, delta, &tgtScores, cfg)
	}

	return Handles{
		Source: pick(c, scene.Source, src, srcScores),
		Target: pick(c, scene.Target, tgt, tgtScores),
	}
}

// sideScores is indexed in [geom.Sides] order.
type sideScores [4]float64

const (
	iTop = iota
	iBottom
	iLeft
	iRight
)

// scoreSides projects the centre delta onto the axis each side controls.
// The source prefers the side facing the target and vice versa.
func scoreSides(d geom.Point) (src, tgt sideScores) {
	src = sideScores{iTop: -d.Y, iBottom: d.Y, iLeft: -d.X, iRight: d.X}
	tgt = sideScores{iTop: d.Y, iBottom: -d.Y, iLeft: d.X, iRight: -d.X}
	return src, tgt
}

// best returns the highest scoring side; ties go to the earlier side in
// [geom.Sides].
func (sc sideScores) best() geom.Side {
	bi := 0
	for i := 1; i < len(sc); i++ {
		if sc[i] > sc[bi] {
			bi = i
		}
	}
	return geom.Sides[bi]
}

// applyContainerRule keeps a connector from entering a contained target
// through its top when the source sits beside the container: the header
// band would be crossed. Only the first container holding the target but
// not the source is considered.
func applyContainerRule(s *scene.Scene, src, tgt scene.Geometry, delta geom.Point, tgtScores *sideScores, cfg Config) {
	for _, zone := range s.Containers() {
		bounds := zone.Rect()
		if !bounds.ContainsOrigin(tgt.Rect.Origin()) || bounds.ContainsOrigin(src.Rect.Origin()) {
			continue
		}
		if src.Rect.Bottom() < bounds.Y+s.HeaderHeight() {
			return
		}
		tgtScores[iTop] -= cfg.TopPenalty
		if delta.X >= 0 {
			tgtScores[iLeft] += cfg.SideBoost
		} else {
			tgtScores[iRight] += cfg.SideBoost
		}
		return
	}
}

func pick(c *scene.Connector, end scene.End, ep endpoint, scores sideScores) Handle {
	stored := c.Side(end)
	if !ep.found {
		side := stored
		if !side.Valid() {
			side = defaultSide(end)
		}
		return Handle{Side: side, Point: ep.at, Manual: c.Manual(end)}
	}
	if c.Manual(end) && stored.Valid() {
		return Handle{Side: stored, Point: ep.geo.Handle(stored), Manual: true}
	}
	side := scores.best()
	return Handle{Side: side, Point: ep.geo.Handle(side)}
}
