package route

import (
	"math"

	"github.com/matzehuels/smartstep/pkg/geom"
)

// sidePair keys the base path table.
type sidePair struct {
	src, tgt geom.Side
}

// basePlanner builds the base polyline for one side pair from the source
// handle s to the target handle t.
type basePlanner func(s, t geom.Point, cfg Config) geom.Path

// baseTable covers all 16 side combinations.
var baseTable = map[sidePair]basePlanner{
	{geom.Bottom, geom.Top}:    verticalFacing,
	{geom.Top, geom.Bottom}:    verticalFacing,
	{geom.Right, geom.Left}:    rightToLeft,
	{geom.Left, geom.Right}:    leftToRight,
	{geom.Right, geom.Top}:     rightToTop,
	{geom.Left, geom.Top}:      leftToTop,
	{geom.Bottom, geom.Left}:   bottomToLeft,
	{geom.Bottom, geom.Right}:  bottomToRight,
	{geom.Top, geom.Left}:      topToLeft,
	{geom.Top, geom.Right}:     topToRight,
	{geom.Right, geom.Bottom}:  sideToBottom,
	{geom.Left, geom.Bottom}:   sideToBottom,
	{geom.Right, geom.Right}:   rightLoop,
	{geom.Left, geom.Left}:     leftLoop,
	{geom.Top, geom.Top}:       topLoop,
	{geom.Bottom, geom.Bottom}: bottomLoop,
}

// BasePath returns the minimal orthogonal polyline for the handle pair
// before obstacles and stubs are considered.
func BasePath(src, tgt Handle, cfg Config) geom.Path {
	plan, ok := baseTable[sidePair{src.Side, tgt.Side}]
	if !ok {
		return geom.Path{src.Point, tgt.Point}
	}
	return plan(src.Point, tgt.Point, cfg)
}

func pt(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }

// aligned reports whether two x coordinates line up well enough for a
// straight segment.
func aligned(a, b float64) bool { return math.Abs(a-b) < geom.AxisTolerance }

// verticalFacing joins a bottom and a top handle, splitting at mid height
// when the handles are offset.
func verticalFacing(s, t geom.Point, _ Config) geom.Path {
	if aligned(s.X, t.X) {
		return geom.Path{s, t}
	}
	midY := (s.Y + t.Y) / 2
	return geom.Path{s, pt(s.X, midY), pt(t.X, midY), t}
}

func rightToLeft(s, t geom.Point, cfg Config) geom.Path {
	if t.X > s.X+cfg.FacingMargin {
		return horizontalFacing(s, t)
	}
	return facingAway(s, t, s.X+cfg.ExitOffset, t.X-cfg.ExitOffset, cfg)
}

func leftToRight(s, t geom.Point, cfg Config) geom.Path {
	if t.X < s.X-cfg.FacingMargin {
		return horizontalFacing(s, t)
	}
	return facingAway(s, t, s.X-cfg.ExitOffset, t.X+cfg.ExitOffset, cfg)
}

func horizontalFacing(s, t geom.Point) geom.Path {
	if aligned(s.Y, t.Y) {
		return geom.Path{s, t}
	}
	midX := (s.X + t.X) / 2
	return geom.Path{s, pt(midX, s.Y), pt(midX, t.Y), t}
}

// facingAway steps out of the source, climbs above both endpoints, crosses
// back and drops into the target.
func facingAway(s, t geom.Point, exitX, entryX float64, cfg Config) geom.Path {
	detourY := math.Min(s.Y, t.Y) - cfg.DetourJog
	return geom.Path{s, pt(exitX, s.Y), pt(exitX, detourY), pt(entryX, detourY), pt(entryX, t.Y), t}
}

func rightToTop(s, t geom.Point, cfg Config) geom.Path {
	if t.X >= s.X {
		return geom.Path{s, pt(t.X, s.Y), t}
	}
	return sideOverTop(s, t, s.X+cfg.ExitOffset, cfg)
}

func leftToTop(s, t geom.Point, cfg Config) geom.Path {
	if t.X <= s.X {
		return geom.Path{s, pt(t.X, s.Y), t}
	}
	return sideOverTop(s, t, s.X-cfg.ExitOffset, cfg)
}

func sideOverTop(s, t geom.Point, exitX float64, cfg Config) geom.Path {
	detourY := math.Min(s.Y, t.Y) - cfg.DetourJog
	return geom.Path{s, pt(exitX, s.Y), pt(exitX, detourY), pt(t.X, detourY), t}
}

func bottomToLeft(s, t geom.Point, cfg Config) geom.Path {
	offX := t.X - cfg.ExitOffset
	if s.X <= offX {
		return geom.Path{s, pt(s.X, t.Y), t}
	}
	return bottomAround(s, t, offX)
}

func bottomToRight(s, t geom.Point, cfg Config) geom.Path {
	offX := t.X + cfg.ExitOffset
	if s.X >= offX {
		return geom.Path{s, pt(s.X, t.Y), t}
	}
	return bottomAround(s, t, offX)
}

func bottomAround(s, t geom.Point, offX float64) geom.Path {
	midY := (s.Y + t.Y) / 2
	return geom.Path{s, pt(s.X, midY), pt(offX, midY), pt(offX, t.Y), t}
}

func topToLeft(s, t geom.Point, cfg Config) geom.Path {
	return topHook(s, t, t.X-cfg.LoopOffset, cfg)
}

func topToRight(s, t geom.Point, cfg Config) geom.Path {
	return topHook(s, t, t.X+cfg.LoopOffset, cfg)
}

func topHook(s, t geom.Point, offX float64, cfg Config) geom.Path {
	offY := math.Min(s.Y, t.Y) - cfg.LoopOffset
	return geom.Path{s, pt(s.X, offY), pt(offX, offY), pt(offX, t.Y), t}
}

func sideToBottom(s, t geom.Point, _ Config) geom.Path {
	return geom.Path{s, pt(t.X, s.Y), t}
}

func rightLoop(s, t geom.Point, cfg Config) geom.Path {
	offX := math.Max(s.X, t.X) + cfg.LoopOffset
	return geom.Path{s, pt(offX, s.Y), pt(offX, t.Y), t}
}

func leftLoop(s, t geom.Point, cfg Config) geom.Path {
	offX := math.Min(s.X, t.X) - cfg.LoopOffset
	return geom.Path{s, pt(offX, s.Y), pt(offX, t.Y), t}
}

func topLoop(s, t geom.Point, cfg Config) geom.Path {
	offY := math.Min(s.Y, t.Y) - cfg.LoopOffset
	return geom.Path{s, pt(s.X, offY), pt(t.X, offY), t}
}

func bottomLoop(s, t geom.Point, cfg Config) geom.Path {
	offY := math.Max(s.Y, t.Y) + cfg.LoopOffset
	return geom.Path{s, pt(s.X, offY), pt(t.X, offY), t}
}
