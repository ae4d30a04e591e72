package scene

import (
	"github.com/matzehuels/smartstep/pkg/errors"
	"github.com/matzehuels/smartstep/pkg/geom"
)

// Scene is a diagram: shapes plus the connectors routed between them.
//
// A Scene is not safe for concurrent use; callers serialize access the same
// way the interactive thread does.
type Scene struct {
	ID         string      `json:"id,omitempty" toml:"id,omitempty"`
	Name       string      `json:"name,omitempty" toml:"name,omitempty"`
	Header     float64     `json:"header_height,omitempty" toml:"header_height,omitempty"`
	Shapes     []Shape     `json:"shapes" toml:"shapes"`
	Connectors []Connector `json:"connectors" toml:"connectors"`
}

// Geometry is a shape's routing rectangle and the label band reserved above
// its body.
type Geometry struct {
	Rect  geom.Rect
	Inset float64
}

// Card returns the body rectangle below the label band.
func (g Geometry) Card() geom.Rect {
	return geom.Rect{X: g.Rect.X, Y: g.Rect.Y + g.Inset, W: g.Rect.W, H: g.Rect.H - g.Inset}
}

// Center returns the centre of the card.
func (g Geometry) Center() geom.Point {
	return g.Card().Center()
}

// Handle returns the attachment coordinate of a side: the midpoint of the
// corresponding card edge.
func (g Geometry) Handle(side geom.Side) geom.Point {
	c := g.Card()
	switch side {
	case geom.Top:
		return geom.Point{X: c.X + c.W/2, Y: c.Y}
	case geom.Bottom:
		return geom.Point{X: c.X + c.W/2, Y: c.Y + c.H}
	case geom.Left:
		return geom.Point{X: c.X, Y: c.Y + c.H/2}
	case geom.Right:
		return geom.Point{X: c.X + c.W, Y: c.Y + c.H/2}
	}
	return c.Center()
}

// New creates an empty scene.
func New(id string) *Scene {
	return &Scene{ID: id}
}

// HeaderHeight returns the container header band height.
func (s *Scene) HeaderHeight() float64 {
	if s.Header > 0 {
		return s.Header
	}
	return DefaultHeaderHeight
}

// =============================================================================
// Lookup
// =============================================================================

// Shape returns the shape with the given ID.
func (s *Scene) Shape(id string) (*Shape, bool) {
	for i := range s.Shapes {
		if s.Shapes[i].ID == id {
			return &s.Shapes[i], true
		}
	}
	return nil, false
}

// Connector returns the connector with the given ID.
func (s *Scene) Connector(id string) (*Connector, bool) {
	for i := range s.Connectors {
		if s.Connectors[i].ID == id {
			return &s.Connectors[i], true
		}
	}
	return nil, false
}

// Containers returns every container shape in scene order.
func (s *Scene) Containers() []*Shape {
	var out []*Shape
	for i := range s.Shapes {
		if s.Shapes[i].IsContainer() {
			out = append(out, &s.Shapes[i])
		}
	}
	return out
}

// Geometry resolves the routing rectangle of a shape.
//
// A shape hidden inside a collapsed container is substituted by the
// container's header band. Returns false when the shape does not exist.
func (s *Scene) Geometry(id string) (Geometry, bool) {
	sh, ok := s.Shape(id)
	if !ok {
		return Geometry{}, false
	}
	if sh.IsHidden() {
		if zone, ok := s.Shape(sh.HiddenIn); ok {
			return Geometry{Rect: s.HeaderRect(zone)}, true
		}
	}
	return Geometry{Rect: sh.Rect(), Inset: sh.Inset()}, true
}

// HeaderRect returns the header band of a container.
func (s *Scene) HeaderRect(container *Shape) geom.Rect {
	r := container.Rect()
	r.H = s.HeaderHeight()
	return r
}

// Inside reports whether the shape's resolved origin lies inside the
// container's bounds.
func (s *Scene) Inside(container *Shape, shapeID string) bool {
	g, ok := s.Geometry(shapeID)
	if !ok {
		return false
	}
	return container.Rect().ContainsOrigin(g.Rect.Origin())
}

// Validate checks identifiers, kinds and sides. Connectors whose shapes
// have gone are accepted; they route from their last known coordinates.
// See [Scene.Dangling].
func (s *Scene) Validate() error {
	seen := make(map[string]bool, len(s.Shapes))
	for _, sh := range s.Shapes {
		if err := errors.ValidateID(sh.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "shape id")
		}
		if seen[sh.ID] {
			return errors.New(errors.ErrCodeInvalidScene, "duplicate shape id %q", sh.ID)
		}
		seen[sh.ID] = true
		switch sh.Kind {
		case "", KindRegular, KindContainer, KindHidden:
		default:
			return errors.New(errors.ErrCodeInvalidScene, "shape %q: unknown kind %q", sh.ID, sh.Kind)
		}
	}

	conns := make(map[string]bool, len(s.Connectors))
	for _, c := range s.Connectors {
		if err := errors.ValidateID(c.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "connector id")
		}
		if conns[c.ID] {
			return errors.New(errors.ErrCodeInvalidScene, "duplicate connector id %q", c.ID)
		}
		conns[c.ID] = true
		for _, side := range []geom.Side{c.SourceSide, c.TargetSide} {
			if side != "" && !side.Valid() {
				return errors.New(errors.ErrCodeInvalidSide, "connector %q: side %q", c.ID, side)
			}
		}
	}
	return nil
}

// Dangling returns the ids of connectors with at least one end on a shape
// that is not in the scene.
func (s *Scene) Dangling() []string {
	var ids []string
	for i := range s.Connectors {
		c := &s.Connectors[i]
		_, src := s.Shape(c.Source)
		_, tgt := s.Shape(c.Target)
		if !src || !tgt {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Clone returns a deep copy of the scene.
func (s *Scene) Clone() *Scene {
	out := *s
	out.Shapes = make([]Shape, len(s.Shapes))
	for i, sh := range s.Shapes {
		if sh.Saved != nil {
			saved := make(map[string]geom.Point, len(sh.Saved))
			for k, v := range sh.Saved {
				saved[k] = v
			}
			sh.Saved = saved
		}
		out.Shapes[i] = sh
	}
	out.Connectors = make([]Connector, len(s.Connectors))
	for i, c := range s.Connectors {
		out.Connectors[i] = c.Clone()
	}
	return &out
}
