package render

import (
	"math"

	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// zone is a container as drawn: its body and header band.
type zone struct {
	id, label string
	rect      geom.Rect
	header    geom.Rect
	collapsed bool
}

// card is a regular shape as drawn.
type card struct {
	id, label string
	rect      geom.Rect
}

// layers splits the visible shapes into containers and cards in scene
// order. Hidden members are not drawn.
func layers(s *scene.Scene) (zones []zone, cards []card) {
	for i := range s.Shapes {
		sh := &s.Shapes[i]
		if sh.IsHidden() {
			continue
		}
		if sh.IsContainer() {
			zones = append(zones, zone{
				id:        sh.ID,
				label:     sh.DisplayLabel(),
				rect:      sh.Rect(),
				header:    s.HeaderRect(sh),
				collapsed: sh.Collapsed,
			})
			continue
		}
		g, _ := s.Geometry(sh.ID)
		cards = append(cards, card{id: sh.ID, label: sh.DisplayLabel(), rect: g.Card()})
	}
	return zones, cards
}

// arrowHead returns the three corners of the arrow at the end of a path,
// tip first.
func arrowHead(p geom.Path) (tip, left, right geom.Point, ok bool) {
	if len(p) < 2 {
		return
	}
	from, to := p[len(p)-2], p[len(p)-1]
	d := to.Sub(from)
	n := math.Hypot(d.X, d.Y)
	if n < 0.1 {
		return
	}
	d = d.Scale(1 / n)
	back := to.Sub(d.Scale(arrowSize))
	perp := geom.Point{X: -d.Y, Y: d.X}.Scale(arrowSize / 2)
	return to, back.Add(perp), back.Sub(perp), true
}
