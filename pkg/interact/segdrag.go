package interact

import (
	"context"
	"math"

	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/route"
)

// SegmentDrag is an in-progress drag of one interior connector segment.
//
// A horizontal segment moves vertically and a vertical one horizontally.
// The offset is the pointer's screen delta on that axis divided by the
// total zoom.
type SegmentDrag struct {
	session

	Segment    int
	Horizontal bool

	start  geom.Point
	offset float64
}

// StartSegmentDrag begins dragging seg of a connector from the screen point.
func (e *Engine) StartSegmentDrag(ctx context.Context, connID string, seg geom.Segment, screen geom.Point) *SegmentDrag {
	d := &SegmentDrag{
		session:    e.newSession(ctx, KindSegmentDrag, connID),
		Segment:    seg.Index,
		Horizontal: seg.Horizontal(),
		start:      screen,
	}
	d.begin(d)
	return d
}

func (d *SegmentDrag) measure(screen geom.Point) float64 {
	delta := screen.Sub(d.start)
	if d.Horizontal {
		return d.engine.Transform.ScreenDistance(delta.Y)
	}
	return d.engine.Transform.ScreenDistance(delta.X)
}

// Move updates the live offset from the pointer position.
func (d *SegmentDrag) Move(screen geom.Point) route.LiveOffset {
	if !d.done {
		d.offset = d.measure(screen)
	}
	return route.LiveOffset{Segment: d.Segment, Delta: d.offset}
}

// Offset returns the current live offset in canvas units.
func (d *SegmentDrag) Offset() float64 { return d.offset }

// Live returns the offset to feed [route.RouteLive], or nil once the drag
// has ended.
func (d *SegmentDrag) Live() *route.LiveOffset {
	if d.done {
		return nil
	}
	return &route.LiveOffset{Segment: d.Segment, Delta: d.offset}
}

// End finishes the drag at the release point. The offset is added to the
// stored offset of the segment when its magnitude exceeds
// [Config.CommitThreshold]; smaller drags are discarded.
func (d *SegmentDrag) End(screen geom.Point) (committed bool, err error) {
	if d.done {
		return false, nil
	}
	d.offset = d.measure(screen)
	if math.Abs(d.offset) <= d.engine.Config.CommitThreshold {
		d.finish(OutcomeDiscarded)
		return false, nil
	}
	if err := d.engine.Store.AddSegmentOffset(d.connID, d.Segment, d.offset); err != nil {
		d.finish(OutcomeFailed)
		return false, err
	}
	d.finish(OutcomeCommitted)
	return true, nil
}

// Cancel abandons the drag without touching the store.
func (d *SegmentDrag) Cancel() {
	d.finish(OutcomeCancelled)
}
