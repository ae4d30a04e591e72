package interact

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/observability"
	"github.com/matzehuels/smartstep/pkg/route"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// Store receives the mutations a finished gesture commits.
// *scene.Scene satisfies it.
type Store interface {
	AddSegmentOffset(connID string, segment int, delta float64) error
	Reconnect(connID string, end scene.End, shapeID string, side geom.Side) error
}

// Gesture kinds reported to observability hooks.
const (
	KindSegmentDrag = "segment_drag"
	KindReconnect   = "reconnect"
)

// Gesture outcomes reported to observability hooks.
const (
	OutcomeCommitted = "committed"
	OutcomeDiscarded = "discarded"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

// Gesture is a running segment drag or reconnection.
type Gesture interface {
	ID() string
	Kind() string
	ConnectorID() string
	Cancel()
}

// Engine starts gestures and tracks at most one per connector.
type Engine struct {
	Config    Config
	Routing   route.Config
	Transform Transform
	Scheduler Scheduler
	Store     Store
	Logger    *log.Logger

	active map[string]Gesture
}

// NewEngine creates an engine. A nil scheduler uses a [ManualScheduler]
// and a nil logger uses the default logger.
func NewEngine(cfg Config, t Transform, sched Scheduler, store Store, logger *log.Logger) *Engine {
	if sched == nil {
		sched = NewManualScheduler()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		Config:    cfg.WithDefaults(),
		Routing:   route.DefaultConfig(),
		Transform: t,
		Scheduler: sched,
		Store:     store,
		Logger:    logger,
		active:    make(map[string]Gesture),
	}
}

// Active returns the gesture running on a connector.
func (e *Engine) Active(connID string) (Gesture, bool) {
	g, ok := e.active[connID]
	return g, ok
}

// CancelAll cancels every running gesture.
func (e *Engine) CancelAll() {
	for _, g := range e.active {
		g.Cancel()
	}
}

func (e *Engine) track(g Gesture) {
	if prev, ok := e.active[g.ConnectorID()]; ok {
		e.Logger.Debug("gesture superseded", "conn", g.ConnectorID(), "kind", prev.Kind(), "id", prev.ID())
		prev.Cancel()
	}
	e.active[g.ConnectorID()] = g
}

func (e *Engine) untrack(g Gesture) {
	if cur, ok := e.active[g.ConnectorID()]; ok && cur == g {
		delete(e.active, g.ConnectorID())
	}
}

// session carries what every gesture shares: identity, timing and the
// single-shot finish bookkeeping.
type session struct {
	id      string
	kind    string
	connID  string
	ctx     context.Context
	started time.Time
	engine  *Engine
	self    Gesture
	done    bool
}

func (e *Engine) newSession(ctx context.Context, kind, connID string) session {
	return session{
		id:      uuid.NewString(),
		kind:    kind,
		connID:  connID,
		ctx:     ctx,
		started: time.Now(),
		engine:  e,
	}
}

// begin registers the gesture, replacing any other on the same connector.
func (s *session) begin(self Gesture) {
	s.self = self
	s.engine.track(self)
	s.engine.Logger.Debug("gesture started", "kind", s.kind, "conn", s.connID, "id", s.id)
	observability.Gesture().OnGestureStart(s.ctx, s.kind, s.connID)
}

func (s *session) finish(outcome string) {
	if s.done {
		return
	}
	s.done = true
	s.engine.untrack(s.self)
	dur := time.Since(s.started)
	s.engine.Logger.Debug("gesture ended", "kind", s.kind, "conn", s.connID, "outcome", outcome, "duration", dur)
	observability.Gesture().OnGestureEnd(s.ctx, s.kind, s.connID, outcome, dur)
}

// ID returns the gesture's session id.
func (s *session) ID() string { return s.id }

// Kind returns [KindSegmentDrag] or [KindReconnect].
func (s *session) Kind() string { return s.kind }

// ConnectorID returns the connector the gesture acts on.
func (s *session) ConnectorID() string { return s.connID }

// Done reports whether the gesture has ended.
func (s *session) Done() bool { return s.done }
