package interact

import (
	"context"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/observability"
	"github.com/matzehuels/smartstep/pkg/route"
	"github.com/matzehuels/smartstep/pkg/scene"
)

func box(id string, x, y, w, h float64) scene.Shape {
	return scene.Shape{ID: id, X: x, Y: y, Width: w, Height: h}
}

func newScene(t *testing.T, shapes ...scene.Shape) *scene.Scene {
	t.Helper()
	s := scene.New("test")
	for _, sh := range shapes {
		if err := s.AddShape(sh); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func connect(t *testing.T, s *scene.Scene, id, src, tgt string) {
	t.Helper()
	s.Connectors = append(s.Connectors, scene.Connector{ID: id, Source: src, Target: tgt})
}

// newEngine returns an engine over an unpanned 800x600 view at zoom 1.
func newEngine(s *scene.Scene) (*Engine, *View, *ManualScheduler) {
	v := NewView(geom.Rect{W: 800, H: 600})
	sched := NewManualScheduler()
	e := NewEngine(DefaultConfig(), Transform{Viewport: v, DisplayScale: 1}, sched, s, log.New(io.Discard))
	return e, v, sched
}

type gestureEvent struct {
	kind, conn, outcome string
	start               bool
}

type recordingGestureHooks struct {
	mu     sync.Mutex
	events []gestureEvent
}

func (r *recordingGestureHooks) OnGestureStart(_ context.Context, kind, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, gestureEvent{kind: kind, conn: connID, start: true})
}

func (r *recordingGestureHooks) OnGestureEnd(_ context.Context, kind, connID, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, gestureEvent{kind: kind, conn: connID, outcome: outcome})
}

// =============================================================================
// Segment drag
// =============================================================================

func stepScene(t *testing.T) *scene.Scene {
	s := newScene(t, box("api", 0, 0, 200, 100), box("db", 400, 300, 200, 100))
	connect(t, s, "e-1", "api", "db")
	return s
}

func horizontalSegment(t *testing.T, res route.Result) geom.Segment {
	t.Helper()
	for _, seg := range res.Draggable {
		if seg.Horizontal() {
			return seg
		}
	}
	t.Fatalf("no horizontal draggable segment in %v", res.Waypoints)
	return geom.Segment{}
}

func TestSegmentDragPersistsOffset(t *testing.T) {
	s := stepScene(t)
	e, _, _ := newEngine(s)
	ctx := context.Background()

	before, err := route.Compute(s, "e-1", nil, route.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	seg := horizontalSegment(t, before)

	d := e.StartSegmentDrag(ctx, "e-1", seg, geom.Point{X: 300, Y: 200})
	live := d.Move(geom.Point{X: 340, Y: 210})
	if live.Segment != seg.Index || live.Delta != 10 {
		t.Fatalf("live = %+v, want segment %d delta 10", live, seg.Index)
	}

	during, _ := route.Compute(s, "e-1", d.Live(), route.DefaultConfig())

	ok, err := d.End(geom.Point{X: 340, Y: 210})
	if err != nil || !ok {
		t.Fatalf("End = %v, %v; want commit", ok, err)
	}
	c, _ := s.Connector("e-1")
	if c.Offsets[seg.Index] != 10 {
		t.Fatalf("stored offset = %v, want 10", c.Offsets[seg.Index])
	}
	if d.Live() != nil {
		t.Error("Live should be nil after End")
	}

	after, _ := route.Compute(s, "e-1", nil, route.DefaultConfig())
	if !after.Waypoints.Equal(during.Waypoints) {
		t.Errorf("persisted path %v differs from live path %v", after.Waypoints, during.Waypoints)
	}
	for _, i := range []int{seg.Index, seg.Index + 1} {
		if dy := after.Waypoints[i].Y - before.Waypoints[i].Y; dy != 10 {
			t.Errorf("point %d moved %v, want 10", i, dy)
		}
	}
}

func TestSegmentDragScalesByZoom(t *testing.T) {
	s := stepScene(t)
	e, v, _ := newEngine(s)
	v.Scale = 2
	e.Transform.DisplayScale = 1.5

	vertical := geom.Segment{Index: 2, From: geom.Point{X: 10, Y: 0}, To: geom.Point{X: 10, Y: 100}}
	d := e.StartSegmentDrag(context.Background(), "e-1", vertical, geom.Point{})
	if live := d.Move(geom.Point{X: -30, Y: 500}); live.Delta != -10 {
		t.Errorf("delta = %v, want -10 (x delta / total zoom)", live.Delta)
	}
}

func TestSegmentDragThreshold(t *testing.T) {
	tests := []struct {
		name   string
		dy     float64
		commit bool
	}{
		{"zero", 0, false},
		{"at threshold", 1, false},
		{"negative at threshold", -1, false},
		{"just above", 1.5, true},
		{"negative above", -4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stepScene(t)
			e, _, _ := newEngine(s)
			seg := geom.Segment{Index: 2, From: geom.Point{Y: 200}, To: geom.Point{X: 300, Y: 200}}

			d := e.StartSegmentDrag(context.Background(), "e-1", seg, geom.Point{X: 50, Y: 50})
			ok, err := d.End(geom.Point{X: 50, Y: 50 + tt.dy})
			if err != nil {
				t.Fatal(err)
			}
			if ok != tt.commit {
				t.Errorf("committed = %v, want %v", ok, tt.commit)
			}
			c, _ := s.Connector("e-1")
			if got, want := c.Offsets[2], map[bool]float64{true: tt.dy, false: 0}[tt.commit]; got != want {
				t.Errorf("stored = %v, want %v", got, want)
			}
		})
	}
}

func TestSegmentDragAccumulates(t *testing.T) {
	s := stepScene(t)
	e, _, _ := newEngine(s)
	seg := geom.Segment{Index: 2, From: geom.Point{Y: 200}, To: geom.Point{X: 300, Y: 200}}

	for _, dy := range []float64{10, 15, -5} {
		d := e.StartSegmentDrag(context.Background(), "e-1", seg, geom.Point{})
		if _, err := d.End(geom.Point{Y: dy}); err != nil {
			t.Fatal(err)
		}
	}
	c, _ := s.Connector("e-1")
	if c.Offsets[2] != 20 {
		t.Errorf("offset = %v, want 20", c.Offsets[2])
	}
}

func TestSegmentDragCancel(t *testing.T) {
	s := stepScene(t)
	e, _, _ := newEngine(s)
	seg := geom.Segment{Index: 2, From: geom.Point{Y: 200}, To: geom.Point{X: 300, Y: 200}}

	d := e.StartSegmentDrag(context.Background(), "e-1", seg, geom.Point{})
	d.Move(geom.Point{Y: 50})
	d.Cancel()
	if ok, _ := d.End(geom.Point{Y: 50}); ok {
		t.Error("End after Cancel should not commit")
	}
	c, _ := s.Connector("e-1")
	if len(c.Offsets) != 0 {
		t.Errorf("offsets = %v, want none", c.Offsets)
	}
	if _, ok := e.Active("e-1"); ok {
		t.Error("cancelled drag still registered")
	}
}

func TestSegmentDragUnknownConnector(t *testing.T) {
	s := stepScene(t)
	e, _, _ := newEngine(s)
	seg := geom.Segment{Index: 2, From: geom.Point{Y: 200}, To: geom.Point{X: 300, Y: 200}}

	d := e.StartSegmentDrag(context.Background(), "nope", seg, geom.Point{})
	if _, err := d.End(geom.Point{Y: 40}); err == nil {
		t.Error("expected error for unknown connector")
	}
}

// =============================================================================
// Reconnect
// =============================================================================

// triScene has a source a, the current target b to its right and a spare
// shape c below a.
func triScene(t *testing.T) *scene.Scene {
	s := newScene(t,
		box("a", 0, 0, 100, 100),
		box("b", 300, 0, 100, 100),
		box("c", 0, 300, 100, 100),
	)
	connect(t, s, "e-1", "a", "b")
	return s
}

func TestBeginReconnectExcludesCurrentHandle(t *testing.T) {
	s := triScene(t)
	s.Shapes = append(s.Shapes, scene.NewContainer("zone", 500, 500, 400, 300))
	e, _, _ := newEngine(s)

	r, err := e.BeginReconnect(context.Background(), s, "e-1", scene.Source, geom.Point{X: 100, Y: 50})
	if err != nil {
		t.Fatal(err)
	}
	if r.State() != Dragging {
		t.Fatalf("state = %v, want dragging", r.State())
	}
	cands := r.Candidates()
	if len(cands) != 11 {
		t.Fatalf("got %d candidates, want 11", len(cands))
	}
	for _, c := range cands {
		if c.ShapeID == "a" && c.Side == geom.Right {
			t.Error("current source handle a/right offered as candidate")
		}
		if c.ShapeID == "zone" {
			t.Error("container offered as candidate")
		}
	}
	var sameShape int
	for _, c := range cands {
		if c.ShapeID == "a" {
			sameShape++
		}
	}
	if sameShape != 3 {
		t.Errorf("other sides of the source shape: got %d, want 3", sameShape)
	}
}

func TestBeginReconnectManualSide(t *testing.T) {
	s := triScene(t)
	c, _ := s.Connector("e-1")
	c.TargetSide = geom.Bottom
	c.ManualTarget = true
	e, _, _ := newEngine(s)

	r, err := e.BeginReconnect(context.Background(), s, "e-1", scene.Target, geom.Point{})
	if err != nil {
		t.Fatal(err)
	}
	for _, cand := range r.Candidates() {
		if cand.ShapeID == "b" && cand.Side == geom.Bottom {
			t.Error("manual target side should be excluded")
		}
	}
}

func TestBeginReconnectUnknownConnector(t *testing.T) {
	s := triScene(t)
	e, _, _ := newEngine(s)
	if _, err := e.BeginReconnect(context.Background(), s, "missing", scene.Source, geom.Point{}); err == nil {
		t.Error("expected error")
	}
}

func TestCandidatesSkipHidden(t *testing.T) {
	s := triScene(t)
	s.Shapes = append(s.Shapes, scene.NewContainer("zone", 0, 250, 400, 300))
	if err := s.CollapseContainer("zone"); err != nil {
		t.Fatal(err)
	}
	for _, c := range Candidates(s, "", "") {
		if c.ShapeID == "c" {
			t.Error("hidden member offered as candidate")
		}
	}
}

// snapScene puts the target shape t far away from the connector so only its
// top handle is within reach of a cursor approaching from above.
func snapScene(t *testing.T) *scene.Scene {
	s := newScene(t,
		box("a", 0, 0, 100, 100),
		box("b", 3000, 0, 100, 100),
		box("t", 1000, 1000, 100, 100),
	)
	connect(t, s, "e-1", "a", "b")
	return s
}

func TestSnapRadiusIsConstantOnScreen(t *testing.T) {
	handle := geom.Point{X: 1050, Y: 1000}
	tests := []struct {
		zoom, display float64
	}{
		{1, 1},
		{0.5, 1},
		{2, 1},
		{1, 2},
		{0.25, 1.5},
		{3, 0.8},
	}
	for _, tt := range tests {
		s := snapScene(t)
		e, v, _ := newEngine(s)
		v.Scale = tt.zoom
		e.Transform.DisplayScale = tt.display
		// centre the handle on screen
		v.Pan = geom.Point{X: 400, Y: 300}.Sub(handle.Scale(tt.zoom))

		r, err := e.BeginReconnect(context.Background(), s, "e-1", scene.Target, geom.Point{})
		if err != nil {
			t.Fatal(err)
		}
		radius := 80 / (tt.zoom * tt.display)
		if got := r.SnapRadius(); math.Abs(got-radius) > 1e-9 {
			t.Errorf("zoom %v display %v: radius = %v, want %v", tt.zoom, tt.display, got, radius)
		}

		screenOf := func(canvas geom.Point) geom.Point {
			return v.CanvasToScreen(canvas).Scale(tt.display)
		}

		r.Move(screenOf(handle.Sub(geom.Point{Y: radius * 0.99})))
		snap, ok := r.Snap()
		if !ok || snap.ShapeID != "t" || snap.Side != geom.Top {
			t.Errorf("zoom %v display %v: inside radius snap = %+v, %v; want t/top", tt.zoom, tt.display, snap, ok)
		}

		r.Move(screenOf(handle.Sub(geom.Point{Y: radius * 1.01})))
		if snap, ok := r.Snap(); ok {
			t.Errorf("zoom %v display %v: outside radius snapped to %+v", tt.zoom, tt.display, snap)
		}
		r.Abort()
	}
}

func TestReconnectCommitsSnapAtRelease(t *testing.T) {
	s := triScene(t)
	e, _, sched := newEngine(s)

	r, _ := e.BeginReconnect(context.Background(), s, "e-1", scene.Target, geom.Point{X: 300, Y: 50})
	r.Move(geom.Point{X: 200, Y: 200})
	ok, err := r.Release(geom.Point{X: 55, Y: 290})
	if err != nil || !ok {
		t.Fatalf("Release = %v, %v", ok, err)
	}
	if r.State() != Committed {
		t.Errorf("state = %v", r.State())
	}
	c, _ := s.Connector("e-1")
	if c.Target != "c" || c.TargetSide != geom.Top || !c.ManualTarget {
		t.Errorf("target = %s/%s manual=%v, want c/top manual", c.Target, c.TargetSide, c.ManualTarget)
	}
	if sched.Pending() != 0 {
		t.Errorf("%d timers still running", sched.Pending())
	}
}

func TestReconnectFallsBackToLastSnap(t *testing.T) {
	s := triScene(t)
	c, _ := s.Connector("e-1")
	c.Offsets = scene.Offsets{2: 15}
	e, _, _ := newEngine(s)

	r, _ := e.BeginReconnect(context.Background(), s, "e-1", scene.Target, geom.Point{X: 300, Y: 50})
	r.Move(geom.Point{X: 10, Y: 340})
	if snap, ok := r.Snap(); !ok || snap.ShapeID != "c" || snap.Side != geom.Left {
		t.Fatalf("snap = %+v, %v; want c/left", snap, ok)
	}

	ok, err := r.Release(geom.Point{X: 250, Y: 250})
	if err != nil || !ok {
		t.Fatalf("Release = %v, %v", ok, err)
	}
	if c.Target != "c" || c.TargetSide != geom.Left {
		t.Errorf("target = %s/%s, want c/left", c.Target, c.TargetSide)
	}
	if len(c.Offsets) != 0 {
		t.Errorf("offsets = %v, want cleared", c.Offsets)
	}
}

func TestReconnectRemembersSnapAfterLeavingRange(t *testing.T) {
	s := triScene(t)
	e, _, sched := newEngine(s)

	r, _ := e.BeginReconnect(context.Background(), s, "e-1", scene.Target, geom.Point{X: 300, Y: 50})
	r.Move(geom.Point{X: 10, Y: 340})
	if snap, ok := r.Snap(); !ok || snap.ShapeID != "c" || snap.Side != geom.Left {
		t.Fatalf("snap = %+v, %v; want c/left", snap, ok)
	}
	r.Move(geom.Point{X: 250, Y: 250})
	if _, ok := r.Snap(); ok {
		t.Fatal("still snapped after leaving the radius")
	}
	if last, ok := r.LastSnap(); !ok || last.ShapeID != "c" || last.Side != geom.Left {
		t.Fatalf("LastSnap = %+v, %v; want c/left", last, ok)
	}

	ok, err := r.Release(geom.Point{X: 250, Y: 250})
	if err != nil || !ok {
		t.Fatalf("Release = %v, %v; want commit", ok, err)
	}
	c, _ := s.Connector("e-1")
	if c.Target != "c" || c.TargetSide != geom.Left || !c.ManualTarget {
		t.Errorf("target = %s/%s manual=%v, want c/left manual", c.Target, c.TargetSide, c.ManualTarget)
	}
	if sched.Pending() != 0 {
		t.Errorf("%d timers still running", sched.Pending())
	}
}

func TestReconnectWithoutSnapLeavesConnector(t *testing.T) {
	s := triScene(t)
	e, _, _ := newEngine(s)
	orig, _ := s.Connector("e-1")
	want := orig.Clone()

	r, _ := e.BeginReconnect(context.Background(), s, "e-1", scene.Target, geom.Point{X: 300, Y: 50})
	r.Move(geom.Point{X: 250, Y: 250})
	ok, err := r.Release(geom.Point{X: 240, Y: 240})
	if err != nil || ok {
		t.Fatalf("Release = %v, %v; want no commit", ok, err)
	}
	if r.State() != Cancelled {
		t.Errorf("state = %v, want cancelled", r.State())
	}
	got, _ := s.Connector("e-1")
	if got.Target != want.Target || got.TargetSide != want.TargetSide || got.ManualTarget {
		t.Errorf("connector changed: %+v", got)
	}
}

func TestReconnectAbort(t *testing.T) {
	s := triScene(t)
	e, _, sched := newEngine(s)

	r, _ := e.BeginReconnect(context.Background(), s, "e-1", scene.Target, geom.Point{X: 300, Y: 50})
	r.Move(geom.Point{X: 5, Y: 340})
	if !r.Panning() {
		t.Fatal("expected auto-pan near the left edge")
	}
	r.Abort()
	if r.State() != Cancelled || r.Panning() || sched.Pending() != 0 {
		t.Errorf("state=%v panning=%v pending=%d", r.State(), r.Panning(), sched.Pending())
	}
	if ok, _ := r.Release(geom.Point{X: 5, Y: 340}); ok {
		t.Error("Release after Abort committed")
	}
	c, _ := s.Connector("e-1")
	if c.Target != "b" {
		t.Errorf("target = %s, want b", c.Target)
	}
}

func TestAutoPanRecomputesSnap(t *testing.T) {
	s := newScene(t,
		box("a", 0, 0, 100, 100),
		box("b", 0, 2000, 100, 100),
		box("t", 1000, 250, 100, 100),
	)
	connect(t, s, "e-1", "a", "b")
	e, v, sched := newEngine(s)

	r, _ := e.BeginReconnect(context.Background(), s, "e-1", scene.Target, geom.Point{X: 50, Y: 2000})
	pointer := geom.Point{X: 790, Y: 300}
	r.Move(pointer)
	if !r.Panning() {
		t.Fatal("expected auto-pan near the right edge")
	}
	if _, ok := r.Snap(); ok {
		t.Fatal("unexpected snap before panning")
	}

	sched.Advance(10 * 30 * time.Millisecond)
	if v.Pan.X != -120 || v.Pan.Y != 0 {
		t.Fatalf("pan = %v, want (-120,0)", v.Pan)
	}
	if _, ok := r.Snap(); ok {
		t.Fatalf("snapped too early at cursor %v", r.Cursor())
	}

	sched.Advance(30 * time.Millisecond)
	snap, ok := r.Snap()
	if !ok || snap.ShapeID != "t" || snap.Side != geom.Left {
		t.Fatalf("snap = %+v, %v; want t/left after 11 ticks", snap, ok)
	}
	if got := r.Cursor(); got.X != 922 {
		t.Errorf("cursor x = %v, want 922", got.X)
	}

	r.Move(geom.Point{X: 400, Y: 300})
	if r.Panning() {
		t.Error("auto-pan should stop once the pointer leaves the margin")
	}

	ok, err := r.Release(pointer)
	if err != nil || !ok {
		t.Fatalf("Release = %v, %v", ok, err)
	}
	c, _ := s.Connector("e-1")
	if c.Target != "t" || c.TargetSide != geom.Left {
		t.Errorf("target = %s/%s, want t/left", c.Target, c.TargetSide)
	}
}

func TestPanVelocity(t *testing.T) {
	s := triScene(t)
	e, _, _ := newEngine(s)
	r, _ := e.BeginReconnect(context.Background(), s, "e-1", scene.Target, geom.Point{})

	tests := []struct {
		p    geom.Point
		want geom.Point
	}{
		{geom.Point{X: 400, Y: 300}, geom.Point{}},
		{geom.Point{X: 10, Y: 300}, geom.Point{X: 12}},
		{geom.Point{X: 790, Y: 300}, geom.Point{X: -12}},
		{geom.Point{X: 400, Y: 59}, geom.Point{Y: 12}},
		{geom.Point{X: 400, Y: 545}, geom.Point{Y: -12}},
		{geom.Point{X: 0, Y: 599}, geom.Point{X: 12, Y: -12}},
		{geom.Point{X: 60, Y: 540}, geom.Point{}},
	}
	for _, tt := range tests {
		if got := r.panVelocity(tt.p); got != tt.want {
			t.Errorf("panVelocity(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

// =============================================================================
// Registry and hooks
// =============================================================================

func TestNewGestureCancelsPrevious(t *testing.T) {
	s := triScene(t)
	e, _, sched := newEngine(s)
	ctx := context.Background()

	first, _ := e.BeginReconnect(ctx, s, "e-1", scene.Target, geom.Point{})
	first.Move(geom.Point{X: 5, Y: 300})
	if sched.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", sched.Pending())
	}

	seg := geom.Segment{Index: 2, From: geom.Point{Y: 200}, To: geom.Point{X: 300, Y: 200}}
	drag := e.StartSegmentDrag(ctx, "e-1", seg, geom.Point{})

	if first.State() != Cancelled {
		t.Errorf("first gesture state = %v, want cancelled", first.State())
	}
	if sched.Pending() != 0 {
		t.Errorf("superseded gesture left %d timers", sched.Pending())
	}
	g, ok := e.Active("e-1")
	if !ok || g != Gesture(drag) {
		t.Errorf("active = %v, want the segment drag", g)
	}

	e.CancelAll()
	if !drag.Done() {
		t.Error("CancelAll left drag running")
	}
	if _, ok := e.Active("e-1"); ok {
		t.Error("registry not empty after CancelAll")
	}
}

func TestGestureHooks(t *testing.T) {
	rec := &recordingGestureHooks{}
	observability.SetGestureHooks(rec)
	t.Cleanup(observability.Reset)

	s := triScene(t)
	e, _, _ := newEngine(s)
	ctx := context.Background()

	r, _ := e.BeginReconnect(ctx, s, "e-1", scene.Target, geom.Point{})
	_, _ = r.Release(geom.Point{X: 55, Y: 290})
	seg := geom.Segment{Index: 2, From: geom.Point{Y: 200}, To: geom.Point{X: 300, Y: 200}}
	d := e.StartSegmentDrag(ctx, "e-1", seg, geom.Point{})
	_, _ = d.End(geom.Point{})

	want := []gestureEvent{
		{kind: KindReconnect, conn: "e-1", start: true},
		{kind: KindReconnect, conn: "e-1", outcome: OutcomeCommitted},
		{kind: KindSegmentDrag, conn: "e-1", start: true},
		{kind: KindSegmentDrag, conn: "e-1", outcome: OutcomeDiscarded},
	}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %+v", rec.events)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, rec.events[i], want[i])
		}
	}
}

func TestGestureIDsAreUnique(t *testing.T) {
	s := triScene(t)
	e, _, _ := newEngine(s)
	seg := geom.Segment{Index: 2}
	a := e.StartSegmentDrag(context.Background(), "e-1", seg, geom.Point{})
	b := e.StartSegmentDrag(context.Background(), "e-1", seg, geom.Point{})
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("ids %q and %q", a.ID(), b.ID())
	}
	if a.Kind() != KindSegmentDrag || a.ConnectorID() != "e-1" {
		t.Errorf("kind=%s conn=%s", a.Kind(), a.ConnectorID())
	}
}
