package route

import (
	"github.com/matzehuels/smartstep/pkg/errors"
	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// Result is everything a renderer needs to draw one connector.
type Result struct {
	ConnectorID string         `json:"connector_id"`
	Source      Handle         `json:"source"`
	Target      Handle         `json:"target"`
	Raw         geom.Path      `json:"raw"`
	Waypoints   geom.Path      `json:"waypoints"`
	SVG         string         `json:"svg"`
	Label       geom.Point     `json:"label"`
	Swap        geom.Point     `json:"swap"`
	Draggable   []geom.Segment `json:"draggable,omitempty"`
	Passes      int            `json:"passes"`
	Resolved    bool           `json:"resolved"`
}

// Inputs are the resolved values a route depends on. Two equal Inputs always
// produce the same Result.
type Inputs struct {
	ConnectorID string        `json:"connector_id"`
	Handles     Handles       `json:"handles"`
	Boxes       []geom.Box    `json:"boxes"`
	Offsets     scene.Offsets `json:"offsets,omitempty"`
	Live        *LiveOffset   `json:"live,omitempty"`
	Config      Config        `json:"config"`
}

// Resolve gathers the inputs for one connector.
func Resolve(s *scene.Scene, connID string, live *LiveOffset, cfg Config) (Inputs, error) {
	c, ok := s.Connector(connID)
	if !ok {
		return Inputs{}, errors.New(errors.ErrCodeConnectorNotFound, "connector %q", connID)
	}
	return Inputs{
		ConnectorID: c.ID,
		Handles:     SelectHandles(s, c, cfg),
		Boxes:       Obstacles(s, c, cfg),
		Offsets:     c.Offsets.Clone(),
		Live:        live,
		Config:      cfg,
	}, nil
}

// Compute routes one connector. It fails only when the connector does not
// exist.
func Compute(s *scene.Scene, connID string, live *LiveOffset, cfg Config) (Result, error) {
	in, err := Resolve(s, connID, live, cfg)
	if err != nil {
		return Result{}, err
	}
	return Run(in), nil
}

// Run executes the pipeline on resolved inputs.
func Run(in Inputs) Result {
	src, tgt := in.Handles.Source, in.Handles.Target
	planned := Plan(src, tgt, in.Boxes, in.Config)
	final := Adjust(planned.Path, in.Offsets, in.Live, src.Side, tgt.Side)
	label, swap := Anchors(final)
	return Result{
		ConnectorID: in.ConnectorID,
		Source:      src,
		Target:      tgt,
		Raw:         planned.Path,
		Waypoints:   final,
		SVG:         final.SVG(),
		Label:       label,
		Swap:        swap,
		Draggable:   DraggableSegments(final, in.Config),
		Passes:      planned.Passes,
		Resolved:    planned.Resolved,
	}
}

// Remember stores the routed endpoint coordinates on the connector so it can
// still be drawn if a shape it references disappears.
func (r Result) Remember(s *scene.Scene) {
	s.RememberEndpoints(r.ConnectorID, r.Source.Point, r.Target.Point)
}
