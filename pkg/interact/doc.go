// Package interact turns pointer gestures on a zoomable canvas into scene
// mutations.
//
// Two gestures are supported:
//
//   - [SegmentDrag] moves one interior segment of a connector perpendicular
//     to itself. While the pointer moves the drag exposes a
//     [route.LiveOffset] for rendering; on release the offset is added to the
//     connector's stored offsets when it exceeds [Config.CommitThreshold].
//   - [Reconnect] drags one end of a connector onto another shape side. It
//     snapshots every eligible attachment point when it begins, snaps to the
//     nearest one within a fixed screen-pixel radius, auto-pans the viewport
//     while the pointer rests near the canvas edge and commits the last snap
//     target on release.
//
// Both gestures are driven by an [Engine], which owns the viewport
// [Transform], the [Scheduler] used for auto-pan ticks and a per-connector
// registry: beginning a gesture on a connector cancels any gesture still
// running on it.
//
// Gestures are not safe for concurrent use. Pointer events and scheduler
// ticks must be delivered from one goroutine, which is what the terminal
// editor does by turning ticks into bubbletea messages.
package interact
