package scene

import (
	"github.com/google/uuid"

	"github.com/matzehuels/smartstep/pkg/errors"
	"github.com/matzehuels/smartstep/pkg/geom"
)

// ConnectorPrefix prefixes generated connector IDs.
const ConnectorPrefix = "e-"

// NewConnectorID returns a fresh connector identifier.
func NewConnectorID() string {
	return ConnectorPrefix + uuid.NewString()
}

// =============================================================================
// Shapes
// =============================================================================

// AddShape appends a shape. IDs must be unique.
func (s *Scene) AddShape(sh Shape) error {
	if err := errors.ValidateID(sh.ID); err != nil {
		return err
	}
	if _, ok := s.Shape(sh.ID); ok {
		return errors.New(errors.ErrCodeInvalidScene, "duplicate shape id %q", sh.ID)
	}
	if sh.Kind == "" {
		sh.Kind = KindRegular
	}
	s.Shapes = append(s.Shapes, sh)
	return nil
}

// MoveShape places a shape's origin at (x, y).
func (s *Scene) MoveShape(id string, x, y float64) bool {
	sh, ok := s.Shape(id)
	if !ok {
		return false
	}
	sh.X, sh.Y = x, y
	return true
}

// ResizeShape records a measured render size for a shape.
func (s *Scene) ResizeShape(id string, w, h float64) bool {
	sh, ok := s.Shape(id)
	if !ok {
		return false
	}
	sh.Width, sh.Height = w, h
	return true
}

// =============================================================================
// Connectors
// =============================================================================

// AddConnector creates a connector between two existing shapes with the
// default bottom-to-top sides. Sides stay automatic until reconnected.
func (s *Scene) AddConnector(source, target string) (*Connector, error) {
	for _, id := range []string{source, target} {
		if _, ok := s.Shape(id); !ok {
			return nil, errors.New(errors.ErrCodeShapeNotFound, "shape %q", id)
		}
	}
	s.Connectors = append(s.Connectors, Connector{
		ID:         NewConnectorID(),
		Source:     source,
		SourceSide: geom.Bottom,
		Target:     target,
		TargetSide: geom.Top,
	})
	return &s.Connectors[len(s.Connectors)-1], nil
}

// RemoveConnector deletes a connector.
func (s *Scene) RemoveConnector(id string) bool {
	for i := range s.Connectors {
		if s.Connectors[i].ID == id {
			s.Connectors = append(s.Connectors[:i], s.Connectors[i+1:]...)
			return true
		}
	}
	return false
}

// AddSegmentOffset adds delta to the stored offset of a segment. Offsets
// accumulate across drags.
func (s *Scene) AddSegmentOffset(connID string, segment int, delta float64) error {
	c, ok := s.Connector(connID)
	if !ok {
		return errors.New(errors.ErrCodeConnectorNotFound, "connector %q", connID)
	}
	if c.Offsets == nil {
		c.Offsets = make(Offsets)
	}
	c.Offsets[segment] += delta
	return nil
}

// ClearOffsets drops every stored segment offset of a connector.
func (s *Scene) ClearOffsets(connID string) error {
	c, ok := s.Connector(connID)
	if !ok {
		return errors.New(errors.ErrCodeConnectorNotFound, "connector %q", connID)
	}
	c.Offsets = nil
	return nil
}

// Reconnect reattaches one end of a connector to a shape side. The end becomes
// manual and stored offsets are cleared since their indices no longer refer
// to the same segments.
func (s *Scene) Reconnect(connID string, end End, shapeID string, side geom.Side) error {
	c, ok := s.Connector(connID)
	if !ok {
		return errors.New(errors.ErrCodeConnectorNotFound, "connector %q", connID)
	}
	if _, ok := s.Shape(shapeID); !ok {
		return errors.New(errors.ErrCodeShapeNotFound, "shape %q", shapeID)
	}
	if !side.Valid() {
		return errors.New(errors.ErrCodeInvalidSide, "side %q", side)
	}
	if end == Source {
		c.Source, c.SourceSide, c.ManualSource = shapeID, side, true
	} else {
		c.Target, c.TargetSide, c.ManualTarget = shapeID, side, true
	}
	c.Offsets = nil
	return nil
}

// Swap exchanges source and target along with their sides, manual flags and
// remembered coordinates. Offsets are cleared.
func (s *Scene) Swap(connID string) error {
	c, ok := s.Connector(connID)
	if !ok {
		return errors.New(errors.ErrCodeConnectorNotFound, "connector %q", connID)
	}
	c.Source, c.Target = c.Target, c.Source
	c.SourceSide, c.TargetSide = c.TargetSide, c.SourceSide
	c.ManualSource, c.ManualTarget = c.ManualTarget, c.ManualSource
	c.SourceAt, c.TargetAt = c.TargetAt, c.SourceAt
	c.Offsets = nil
	return nil
}

// RememberEndpoints stores the last raw endpoint coordinates of a connector so
// it can still be drawn if a referenced shape disappears.
func (s *Scene) RememberEndpoints(connID string, src, tgt geom.Point) bool {
	c, ok := s.Connector(connID)
	if !ok {
		return false
	}
	c.SourceAt, c.TargetAt = &src, &tgt
	return true
}

// =============================================================================
// Containers
// =============================================================================

// CollapseContainer folds a container down to its header band. Members whose
// origin lies inside it are hidden and moved into the header; their positions
// are saved for ExpandContainer.
func (s *Scene) CollapseContainer(id string) error {
	zone, ok := s.Shape(id)
	if !ok || !zone.IsContainer() {
		return errors.New(errors.ErrCodeShapeNotFound, "container %q", id)
	}
	if zone.Collapsed {
		return nil
	}
	bounds := zone.Rect()
	header := s.HeaderRect(zone)
	saved := make(map[string]geom.Point)
	for i := range s.Shapes {
		sh := &s.Shapes[i]
		if sh.ID == id || sh.IsContainer() || sh.IsHidden() {
			continue
		}
		if !bounds.ContainsOrigin(geom.Point{X: sh.X, Y: sh.Y}) {
			continue
		}
		saved[sh.ID] = geom.Point{X: sh.X, Y: sh.Y}
		c := header.Center()
		sh.X, sh.Y = c.X, c.Y
		sh.HiddenIn = id
	}

	zone.Saved = saved
	zone.SavedHeight = bounds.H
	zone.StyleHeight = header.H
	zone.Collapsed = true
	return nil
}

// ExpandContainer restores a collapsed container and its hidden members.
func (s *Scene) ExpandContainer(id string) error {
	zone, ok := s.Shape(id)
	if !ok || !zone.IsContainer() {
		return errors.New(errors.ErrCodeShapeNotFound, "container %q", id)
	}
	if !zone.Collapsed {
		return nil
	}
	for i := range s.Shapes {
		sh := &s.Shapes[i]
		if sh.HiddenIn != id {
			continue
		}
		if p, ok := zone.Saved[sh.ID]; ok {
			sh.X, sh.Y = p.X, p.Y
		}
		sh.HiddenIn = ""
	}
	zone.StyleHeight = zone.SavedHeight
	zone.Saved = nil
	zone.SavedHeight = 0
	zone.Collapsed = false
	return nil
}
