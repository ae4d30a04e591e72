package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/interact"
	"github.com/matzehuels/smartstep/pkg/render"
	"github.com/matzehuels/smartstep/pkg/route"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// Terminal cells are mapped to a screen of cellWidth x cellHeight pixels so
// the interaction engine sees the same distances a pointer on a canvas would.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
	statusRows = 2
	hitRadius  = 12.0 // screen pixels for grabbing handles and segments
	fitMargin  = 20.0
)

// editCommand opens the interactive connector editor.
func (c *CLI) editCommand() *cobra.Command {
	var noCache bool
	cmd := &cobra.Command{
		Use:   "edit <scene>",
		Short: "Edit connectors interactively in the terminal",
		Long: `Open a scene in a full-screen editor.

Drag a connector end onto another shape side to reconnect it, or drag an
interior segment sideways to adjust the route. Dragging an end close to the
window edge pans the canvas.

Keys: tab select · s swap · c clear offsets · w save · f fit · +/- zoom ·
arrows pan · esc abort drag · q quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd, args[0], noCache)
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the route cache")
	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, path string, noCache bool) error {
	ctx := cmd.Context()
	s, err := scene.ReadFile(path)
	if err != nil {
		return err
	}
	router, closeCache, err := c.newRouter(ctx, noCache)
	if err != nil {
		return err
	}
	defer closeCache()

	// The editor owns the terminal; logging would tear the display.
	quiet := log.New(io.Discard)
	router.Logger = quiet

	ed := newEditor(ctx, path, s, router, c.Config.Interaction, quiet)
	p := tea.NewProgram(ed, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	if ed.dirty {
		printError(cmd.OutOrStdout(), "Unsaved changes to %s were discarded", path)
	}
	return nil
}

// panTickMsg drives the auto-pan scheduler.
type panTickMsg struct{}

// editor is the bubbletea model of the edit command. Pointer gestures are
// delegated to an [interact.Engine] whose scheduler advances on
// [panTickMsg].
type editor struct {
	ctx      context.Context
	path     string
	scene    *scene.Scene
	router   *route.Router
	view     *interact.View
	sched    *interact.ManualScheduler
	engine   *interact.Engine
	interval time.Duration

	results  []route.Result
	selected int
	width    int
	height   int
	sized    bool

	reconnect *interact.Reconnect
	drag      *interact.SegmentDrag
	panFrom   *geom.Point
	ticking   bool
	dirty     bool
	confirm   bool // q pressed once with unsaved changes
	status    string
	err       error
}

func newEditor(ctx context.Context, path string, s *scene.Scene, router *route.Router, cfg interact.Config, logger *log.Logger) *editor {
	view := interact.NewView(geom.Rect{W: 80 * cellWidth, H: 22 * cellHeight})
	sched := interact.NewManualScheduler()
	engine := interact.NewEngine(cfg, interact.Transform{Viewport: view, DisplayScale: 1}, sched, s, logger)
	engine.Routing = router.Config

	e := &editor{
		ctx:      ctx,
		path:     path,
		scene:    s,
		router:   router,
		view:     view,
		sched:    sched,
		engine:   engine,
		interval: engine.Config.PanInterval,
		width:    80,
		height:   22 + statusRows,
	}
	e.reroute()
	e.fit()
	return e
}

// =============================================================================
// Model
// =============================================================================

func (e *editor) Init() tea.Cmd { return nil }

func (e *editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return e, e.key(msg.String())
	case tea.MouseMsg:
		return e, e.mouse(msg)
	case panTickMsg:
		return e, e.tick()
	}
	return e, nil
}

func (e *editor) View() string {
	var b strings.Builder
	b.WriteString(e.draw().String())
	b.WriteByte('\n')
	b.WriteString(e.statusLine())
	return b.String()
}

func (e *editor) resize(w, h int) {
	e.width, e.height = w, h
	e.view.Screen = geom.Rect{W: float64(w) * cellWidth, H: float64(max(h-statusRows, 1)) * cellHeight}
	if !e.sized {
		e.sized = true
		e.fit()
	}
}

// =============================================================================
// Keys
// =============================================================================

func (e *editor) key(k string) tea.Cmd {
	if k != "q" {
		e.confirm = false
	}
	switch k {
	case "ctrl+c", "Q":
		e.engine.CancelAll()
		return tea.Quit
	case "q":
		if e.dirty && !e.confirm {
			e.confirm = true
			e.status = "unsaved changes: w to save, q again to quit"
			return nil
		}
		e.engine.CancelAll()
		return tea.Quit
	case "esc":
		e.abort()
	case "tab":
		e.cycle(1)
	case "shift+tab":
		e.cycle(-1)
	case "s":
		e.edit("swapped", e.scene.Swap)
	case "c":
		e.edit("offsets cleared", e.scene.ClearOffsets)
	case "w":
		e.save()
	case "f":
		e.fit()
	case "+", "=":
		e.zoomBy(1.25)
	case "-":
		e.zoomBy(0.8)
	case "up", "k":
		e.view.PanBy(0, 4*cellHeight)
	case "down", "j":
		e.view.PanBy(0, -4*cellHeight)
	case "left", "h":
		e.view.PanBy(4*cellWidth, 0)
	case "right", "l":
		e.view.PanBy(-4*cellWidth, 0)
	}
	return nil
}

func (e *editor) cycle(step int) {
	if n := len(e.results); n > 0 {
		e.selected = ((e.selected+step)%n + n) % n
	}
}

func (e *editor) selectedID() (string, bool) {
	if e.selected < 0 || e.selected >= len(e.results) {
		return "", false
	}
	return e.results[e.selected].ConnectorID, true
}

func (e *editor) selectConn(id string) {
	for i, r := range e.results {
		if r.ConnectorID == id {
			e.selected = i
			return
		}
	}
}

// edit applies fn to the selected connector.
func (e *editor) edit(what string, fn func(connID string) error) {
	id, ok := e.selectedID()
	if !ok {
		return
	}
	if err := fn(id); err != nil {
		e.err = err
		return
	}
	e.dirty = true
	e.status = id + " " + what
	e.reroute()
}

func (e *editor) save() {
	if err := saveScene(e.ctx, e.path, e.scene); err != nil {
		e.err = err
		return
	}
	e.dirty = false
	e.err = nil
	e.status = "saved " + e.path
}

func (e *editor) zoomBy(k float64) {
	c := e.view.Screen.Center()
	e.view.ZoomAt(c, e.view.Zoom()*k)
}

// fit zooms and pans so the whole scene is visible.
func (e *editor) fit() {
	c := render.NewFrame(e.scene, e.results).Canvas(fitMargin)
	if c.W <= 0 || c.H <= 0 {
		return
	}
	scr := e.view.Screen
	zoom := min(max(min(scr.W/c.W, scr.H/c.H), interact.MinZoom), interact.MaxZoom)
	e.view.Scale = zoom
	e.view.Pan = geom.Point{X: -c.X * zoom, Y: -c.Y * zoom}
}

// =============================================================================
// Pointer
// =============================================================================

// cellPoint is the screen position of a cell's centre.
func cellPoint(col, row int) geom.Point {
	return geom.Point{X: (float64(col) + 0.5) * cellWidth, Y: (float64(row) + 0.5) * cellHeight}
}

func (e *editor) toCell(p geom.Point) cell {
	s := e.view.CanvasToScreen(p)
	return cell{int(math.Floor(s.X / cellWidth)), int(math.Floor(s.Y / cellHeight))}
}

func (e *editor) mouse(msg tea.MouseMsg) tea.Cmd {
	p := cellPoint(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			e.view.ZoomAt(p, e.view.Zoom()*1.1)
		case tea.MouseButtonWheelDown:
			e.view.ZoomAt(p, e.view.Zoom()/1.1)
		case tea.MouseButtonLeft:
			e.press(p)
		}
		return nil
	case tea.MouseActionMotion:
		return e.motion(p)
	case tea.MouseActionRelease:
		e.release(p)
	}
	return nil
}

func (e *editor) press(p geom.Point) {
	e.err = nil
	if id, end, ok := e.hitHandle(p); ok {
		r, err := e.engine.BeginReconnect(e.ctx, e.scene, id, end, p)
		if err != nil {
			e.err = err
			return
		}
		e.reconnect = r
		e.selectConn(id)
		e.status = fmt.Sprintf("reconnecting %s %s", id, end)
		return
	}
	if id, seg, ok := e.hitSegment(p); ok {
		e.drag = e.engine.StartSegmentDrag(e.ctx, id, seg, p)
		e.selectConn(id)
		e.status = fmt.Sprintf("dragging %s segment %d", id, seg.Index)
		return
	}
	start := p
	e.panFrom = &start
}

func (e *editor) motion(p geom.Point) tea.Cmd {
	switch {
	case e.reconnect != nil:
		e.reconnect.Move(p)
		return e.ensureTick()
	case e.drag != nil:
		live := e.drag.Move(p)
		e.preview(e.drag.ConnectorID(), &live)
	case e.panFrom != nil:
		d := p.Sub(*e.panFrom)
		e.view.PanBy(d.X, d.Y)
		*e.panFrom = p
	}
	return nil
}

func (e *editor) release(p geom.Point) {
	switch {
	case e.reconnect != nil:
		r := e.reconnect
		e.reconnect = nil
		ok, err := r.Release(p)
		e.finish(r.ConnectorID(), "reconnected", ok, err)
	case e.drag != nil:
		d := e.drag
		e.drag = nil
		ok, err := d.End(p)
		e.finish(d.ConnectorID(), "adjusted", ok, err)
	}
	e.panFrom = nil
}

func (e *editor) finish(id, what string, committed bool, err error) {
	switch {
	case err != nil:
		e.err = err
	case committed:
		e.dirty = true
		e.status = id + " " + what
	default:
		e.status = id + " unchanged"
	}
	e.reroute()
}

func (e *editor) abort() {
	if e.reconnect != nil {
		e.reconnect.Abort()
		e.reconnect = nil
	}
	if e.drag != nil {
		e.drag.Cancel()
		e.drag = nil
	}
	e.panFrom = nil
	e.status = "aborted"
	e.reroute()
}

// ensureTick starts the tick loop while the reconnection auto-pans.
func (e *editor) ensureTick() tea.Cmd {
	if e.ticking || e.reconnect == nil || !e.reconnect.Panning() {
		return nil
	}
	e.ticking = true
	return tea.Tick(e.interval, func(time.Time) tea.Msg { return panTickMsg{} })
}

func (e *editor) tick() tea.Cmd {
	e.ticking = false
	if e.reconnect == nil || !e.reconnect.Panning() {
		return nil
	}
	e.sched.Advance(e.interval)
	return e.ensureTick()
}

// hitHandle finds a connector end within hitRadius of p.
func (e *editor) hitHandle(p geom.Point) (string, scene.End, bool) {
	for _, r := range e.results {
		for _, h := range []struct {
			end scene.End
			pt  geom.Point
		}{{scene.Source, r.Source.Point}, {scene.Target, r.Target.Point}} {
			if e.view.CanvasToScreen(h.pt).Dist(p) <= hitRadius {
				return r.ConnectorID, h.end, true
			}
		}
	}
	return "", "", false
}

// hitSegment finds a draggable segment within hitRadius of p.
func (e *editor) hitSegment(p geom.Point) (string, geom.Segment, bool) {
	c := e.engine.Transform.ToCanvas(p)
	tol := e.engine.Transform.ScreenDistance(hitRadius)
	for _, r := range e.results {
		for _, seg := range r.Draggable {
			if segmentDistance(c, seg) <= tol {
				return r.ConnectorID, seg, true
			}
		}
	}
	return "", geom.Segment{}, false
}

// segmentDistance is the distance from p to the closest point of s.
func segmentDistance(p geom.Point, s geom.Segment) float64 {
	d := s.To.Sub(s.From)
	l2 := d.X*d.X + d.Y*d.Y
	if l2 == 0 {
		return p.Dist(s.From)
	}
	t := ((p.X-s.From.X)*d.X + (p.Y-s.From.Y)*d.Y) / l2
	t = min(max(t, 0), 1)
	return p.Dist(s.From.Add(d.Scale(t)))
}

// =============================================================================
// Routing
// =============================================================================

func (e *editor) reroute() {
	results, err := e.router.RouteAll(e.ctx, e.scene)
	if err != nil {
		e.err = err
		return
	}
	e.results = results
	if e.selected >= len(results) {
		e.selected = 0
	}
}

// preview replaces one connector's result with a live route.
func (e *editor) preview(id string, live *route.LiveOffset) {
	res, err := e.router.RouteLive(e.ctx, e.scene, id, live)
	if err != nil {
		e.err = err
		return
	}
	for i := range e.results {
		if e.results[i].ConnectorID == id {
			e.results[i] = res
		}
	}
}

// =============================================================================
// Drawing
// =============================================================================

func (e *editor) draw() *raster {
	r := newRaster(e.width, max(e.height-statusRows, 0))
	for i := range e.scene.Shapes {
		sh := &e.scene.Shapes[i]
		if sh.IsHidden() || !sh.IsContainer() {
			continue
		}
		e.drawShape(r, sh.Rect(), sh.DisplayLabel(), clsZone)
	}
	for i := range e.scene.Shapes {
		sh := &e.scene.Shapes[i]
		if sh.IsHidden() || sh.IsContainer() {
			continue
		}
		g, _ := e.scene.Geometry(sh.ID)
		e.drawShape(r, g.Card(), sh.DisplayLabel(), clsShape)
	}

	sel, _ := e.selectedID()
	for _, res := range e.results {
		cls := clsConn
		switch {
		case e.drag != nil && res.ConnectorID == e.drag.ConnectorID():
			cls = clsLive
		case res.ConnectorID == sel:
			cls = clsSelected
		}
		pts := make([]cell, len(res.Waypoints))
		for i, p := range res.Waypoints {
			pts[i] = e.toCell(p)
		}
		r.polyline(pts, cls)
	}

	if e.reconnect != nil {
		for _, cand := range e.reconnect.Candidates() {
			c := e.toCell(cand.Point)
			r.set(c.col, c.row, '·', clsCandidate)
		}
		if snap, ok := e.reconnect.Snap(); ok {
			c := e.toCell(snap.Point)
			r.set(c.col, c.row, '◆', clsSnap)
		}
	}
	return r
}

func (e *editor) drawShape(r *raster, rect geom.Rect, label string, cls cellClass) {
	a := e.toCell(rect.Origin())
	b := e.toCell(geom.Point{X: rect.Right(), Y: rect.Bottom()})
	r.box(a.col, a.row, b.col, b.row, cls)
	r.text(a.col+1, a.row+1, label, b.col-a.col-1, clsLabel)
}

func (e *editor) statusLine() string {
	dirty := ""
	if e.dirty {
		dirty = StyleWarning.Render(" · unsaved")
	}
	top := StyleTitle.Render(e.scene.ID) +
		StyleDim.Render(fmt.Sprintf(" · zoom %.0f%% · %d connectors", e.view.Zoom()*100, len(e.results))) + dirty

	var bottom string
	switch {
	case e.err != nil:
		bottom = styleIconError.Render(iconError + " " + e.err.Error())
	case e.reconnect != nil:
		bottom = StyleValue.Render(e.status)
		if snap, ok := e.reconnect.LastSnap(); ok {
			bottom += StyleDim.Render(fmt.Sprintf(" %s %s %s", iconArrow, snap.ShapeID, snap.Side))
		}
	case e.status != "":
		bottom = StyleValue.Render(e.status)
	default:
		if id, ok := e.selectedID(); ok {
			res := e.results[e.selected]
			bottom = StyleValue.Render(id) + StyleDim.Render(fmt.Sprintf(" %s %s %s · %d points",
				res.Source.Side, iconArrow, res.Target.Side, len(res.Waypoints)))
		}
	}
	return top + "\n" + bottom
}
