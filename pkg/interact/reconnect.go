package interact

import (
	"context"
	"math"

	"github.com/matzehuels/smartstep/pkg/errors"
	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/route"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// Candidate is an attachment point a dragged end can snap to.
type Candidate struct {
	ShapeID string     `json:"shape"`
	Side    geom.Side  `json:"side"`
	Point   geom.Point `json:"point"`
}

// Candidates lists every side of every visible, non-container shape,
// skipping the single (shapeID, side) pair given.
func Candidates(s *scene.Scene, skipShape string, skipSide geom.Side) []Candidate {
	var out []Candidate
	for i := range s.Shapes {
		sh := &s.Shapes[i]
		if sh.IsContainer() || sh.IsHidden() {
			continue
		}
		g, ok := s.Geometry(sh.ID)
		if !ok {
			continue
		}
		for _, side := range geom.Sides {
			if sh.ID == skipShape && side == skipSide {
				continue
			}
			out = append(out, Candidate{ShapeID: sh.ID, Side: side, Point: g.Handle(side)})
		}
	}
	return out
}

// State is the phase of a [Reconnect].
type State int

const (
	Idle State = iota
	Dragging
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Reconnect drags one end of a connector to a new shape side.
//
// Candidates are snapshotted when the gesture begins and are not refreshed
// if the scene changes mid-drag.
type Reconnect struct {
	session

	End scene.End

	state      State
	candidates []Candidate
	screen     geom.Point
	cursor     geom.Point
	snap       *Candidate // in range of the cursor now
	lastSnap   *Candidate // last one ever in range
	velocity   geom.Point
	stopPan    func()
}

// BeginReconnect starts dragging the given end of a connector from the
// screen point.
//
// The end's current attachment, as the router would choose it now, is the
// one candidate left out; the other sides of the same shape remain
// available.
func (e *Engine) BeginReconnect(ctx context.Context, s *scene.Scene, connID string, end scene.End, screen geom.Point) (*Reconnect, error) {
	c, ok := s.Connector(connID)
	if !ok {
		return nil, errors.New(errors.ErrCodeConnectorNotFound, "connector %q not found", connID)
	}
	handles := route.SelectHandles(s, c, e.Routing.WithDefaults())
	current := handles.Source.Side
	if end == scene.Target {
		current = handles.Target.Side
	}

	r := &Reconnect{
		session:    e.newSession(ctx, KindReconnect, connID),
		End:        end,
		state:      Dragging,
		candidates: Candidates(s, c.ShapeID(end), current),
		screen:     screen,
		cursor:     e.Transform.ToCanvas(screen),
	}
	r.begin(r)
	return r, nil
}

// State returns the gesture phase.
func (r *Reconnect) State() State { return r.state }

// Cursor returns the last pointer position in canvas coordinates.
func (r *Reconnect) Cursor() geom.Point { return r.cursor }

// Snap returns the candidate the end currently snaps to.
func (r *Reconnect) Snap() (Candidate, bool) {
	if r.snap == nil {
		return Candidate{}, false
	}
	return *r.snap, true
}

// LastSnap returns the most recent candidate that was in range at any point
// of the drag, even if the pointer has since moved away.
func (r *Reconnect) LastSnap() (Candidate, bool) {
	if r.lastSnap == nil {
		return Candidate{}, false
	}
	return *r.lastSnap, true
}

// Candidates returns the snapshotted candidates.
func (r *Reconnect) Candidates() []Candidate {
	return append([]Candidate(nil), r.candidates...)
}

// Panning reports whether auto-pan is running.
func (r *Reconnect) Panning() bool { return r.stopPan != nil }

// SnapRadius returns the snap radius in canvas units at the current zoom.
func (r *Reconnect) SnapRadius() float64 {
	return r.engine.Transform.ScreenDistance(r.engine.Config.SnapScreenPx)
}

// Move tracks the pointer: the cursor and snap target are recomputed and
// auto-pan starts or stops depending on how close the pointer is to the
// canvas edge.
func (r *Reconnect) Move(screen geom.Point) {
	if r.state != Dragging {
		return
	}
	r.screen = screen
	r.resnap()
	r.updatePan()
}

// Release ends the drag. The end is attached to the candidate nearest the
// release point when one is in range, otherwise to the last snap target
// seen during the drag. If no candidate was ever in range the connector is
// left unchanged and the gesture is cancelled.
func (r *Reconnect) Release(screen geom.Point) (committed bool, err error) {
	if r.state != Dragging {
		return false, nil
	}
	r.stopAutoPan()
	r.screen = screen
	r.cursor = r.engine.Transform.ToCanvas(screen)
	target := r.nearest(r.cursor)
	if target == nil {
		target = r.lastSnap
	}
	if target == nil {
		r.state = Cancelled
		r.finish(OutcomeCancelled)
		return false, nil
	}
	r.snap, r.lastSnap = target, target
	if err := r.engine.Store.Reconnect(r.connID, r.End, target.ShapeID, target.Side); err != nil {
		r.state = Cancelled
		r.finish(OutcomeFailed)
		return false, err
	}
	r.state = Committed
	r.finish(OutcomeCommitted)
	return true, nil
}

// Abort cancels the drag without touching the store.
func (r *Reconnect) Abort() {
	if r.state != Dragging {
		return
	}
	r.stopAutoPan()
	r.state = Cancelled
	r.finish(OutcomeCancelled)
}

// Cancel implements [Gesture].
func (r *Reconnect) Cancel() { r.Abort() }

func (r *Reconnect) resnap() {
	r.cursor = r.engine.Transform.ToCanvas(r.screen)
	r.snap = r.nearest(r.cursor)
	if r.snap != nil {
		r.lastSnap = r.snap
	}
}

// nearest returns the closest candidate when it lies within the snap
// radius.
func (r *Reconnect) nearest(p geom.Point) *Candidate {
	radius := r.SnapRadius()
	best, bestDist := -1, math.Inf(1)
	for i, c := range r.candidates {
		if d := c.Point.Dist(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist > radius {
		return nil
	}
	c := r.candidates[best]
	return &c
}

// panVelocity returns the per-tick pan for a pointer position. Near the
// left or top edge the canvas moves right or down to reveal what lies
// beyond it, and the opposite near the right or bottom edge.
func (r *Reconnect) panVelocity(screen geom.Point) geom.Point {
	cfg := r.engine.Config
	b := r.engine.Transform.Viewport.Bounds()
	var v geom.Point
	switch {
	case screen.X-b.Left() < cfg.PanMargin:
		v.X = cfg.PanSpeed
	case b.Right()-screen.X < cfg.PanMargin:
		v.X = -cfg.PanSpeed
	}
	switch {
	case screen.Y-b.Top() < cfg.PanMargin:
		v.Y = cfg.PanSpeed
	case b.Bottom()-screen.Y < cfg.PanMargin:
		v.Y = -cfg.PanSpeed
	}
	return v
}

func (r *Reconnect) updatePan() {
	r.velocity = r.panVelocity(r.screen)
	moving := r.velocity != (geom.Point{})
	switch {
	case moving && r.stopPan == nil:
		r.stopPan = r.engine.Scheduler.Every(r.engine.Config.PanInterval, r.tick)
	case !moving && r.stopPan != nil:
		r.stopAutoPan()
	}
}

// tick pans once and recomputes the snap from the last pointer position,
// since the canvas moved under a stationary pointer.
func (r *Reconnect) tick() {
	if r.state != Dragging || r.velocity == (geom.Point{}) {
		return
	}
	r.engine.Transform.Viewport.PanBy(r.velocity.X, r.velocity.Y)
	r.resnap()
}

func (r *Reconnect) stopAutoPan() {
	if r.stopPan != nil {
		r.stopPan()
		r.stopPan = nil
	}
	r.velocity = geom.Point{}
}
