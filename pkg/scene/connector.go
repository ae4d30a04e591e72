package scene

import (
	"github.com/matzehuels/smartstep/pkg/geom"
)

// End selects one end of a connector.
type End string

// Connector ends.
const (
	Source End = "source"
	Target End = "target"
)

// Other returns the opposite end.
func (e End) Other() End {
	if e == Source {
		return Target
	}
	return Source
}

// Connector is a routed edge between two shapes.
type Connector struct {
	ID         string    `json:"id" toml:"id"`
	Source     string    `json:"source" toml:"source"`
	SourceSide geom.Side `json:"source_side,omitempty" toml:"source_side,omitempty"`
	Target     string    `json:"target" toml:"target"`
	TargetSide geom.Side `json:"target_side,omitempty" toml:"target_side,omitempty"`
	Label      string    `json:"label,omitempty" toml:"label,omitempty"`

	// Offsets maps segment index to a perpendicular user offset.
	Offsets Offsets `json:"offsets,omitempty" toml:"-"`

	// ManualSource and ManualTarget skip automatic side selection for an end
	// that was explicitly reconnected.
	ManualSource bool `json:"manual_source,omitempty" toml:"manual_source,omitempty"`
	ManualTarget bool `json:"manual_target,omitempty" toml:"manual_target,omitempty"`

	// SourceAt and TargetAt are the last known raw endpoint coordinates, used
	// when a referenced shape is missing.
	SourceAt *geom.Point `json:"source_at,omitempty" toml:"source_at,omitempty"`
	TargetAt *geom.Point `json:"target_at,omitempty" toml:"target_at,omitempty"`
}

// ShapeID returns the shape referenced by end e.
func (c *Connector) ShapeID(e End) string {
	if e == Source {
		return c.Source
	}
	return c.Target
}

// Side returns the stored side of end e.
func (c *Connector) Side(e End) geom.Side {
	if e == Source {
		return c.SourceSide
	}
	return c.TargetSide
}

// Manual reports whether end e was explicitly reconnected.
func (c *Connector) Manual(e End) bool {
	if e == Source {
		return c.ManualSource
	}
	return c.ManualTarget
}

// LastKnown returns the remembered raw coordinate of end e, if any.
func (c *Connector) LastKnown(e End) (geom.Point, bool) {
	p := c.TargetAt
	if e == Source {
		p = c.SourceAt
	}
	if p == nil {
		return geom.Point{}, false
	}
	return *p, true
}

// Clone returns a deep copy of the connector.
func (c Connector) Clone() Connector {
	c.Offsets = c.Offsets.Clone()
	if c.SourceAt != nil {
		p := *c.SourceAt
		c.SourceAt = &p
	}
	if c.TargetAt != nil {
		p := *c.TargetAt
		c.TargetAt = &p
	}
	return c
}
