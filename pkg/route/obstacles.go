package route

import (
	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// Obstacles returns the boxes a connector must route around.
//
// Every regular shape other than the two endpoints contributes its bounds
// padded by [Config.Clearance]. Hidden shapes contribute nothing. A
// container never blocks with its body; its header band blocks only when
// neither endpoint lies inside it, so connectors may leave or enter a
// container through its own header.
func Obstacles(s *scene.Scene, c *scene.Connector, cfg Config) []geom.Box {
	var boxes []geom.Box
	for i := range s.Shapes {
		sh := &s.Shapes[i]
		if sh.ID == c.Source || sh.ID == c.Target || sh.IsContainer() || sh.IsHidden() {
			continue
		}
		boxes = append(boxes, sh.Rect().Pad(cfg.Clearance))
	}
	for _, zone := range s.Containers() {
		if s.Inside(zone, c.Source) || s.Inside(zone, c.Target) {
			continue
		}
		boxes = append(boxes, s.HeaderRect(zone).Box())
	}
	return boxes
}
