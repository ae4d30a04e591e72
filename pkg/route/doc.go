// Package route computes orthogonal connector paths between shapes.
//
// The pipeline is a pure function of the scene and the connector:
//
//  1. [SelectHandles] picks an attachment side and coordinate for each end.
//  2. [Plan] builds the raw path: a base polyline from a 16-entry side-pair
//     table ([BasePath]), obstacle detours ([Avoid]), fixed entry/exit stubs
//     ([EnforceStubs]), corner repair ([Orthogonalize]) and collinear point
//     removal ([Clean]).
//  3. [Adjust] replays stored and in-progress segment offsets on top of the
//     raw path and repairs any diagonal the shift introduced.
//
// [Compute] runs all three for one connector and also derives the label and
// swap-control anchors a renderer needs. [Router] wraps Compute with
// logging, caching and observability hooks.
//
// # Invariants
//
// Every produced path, raw or adjusted, is orthogonal. In the raw path the
// second point sits exactly [Config.StubLength] from the source handle along
// the source side's normal, and the second-to-last point likewise for the
// target. Offsets apply afterwards: an offset on segment 1 slides the far
// end of the source stub along the stub axis, so the adjusted path keeps
// the stub's direction but not its length. Recomputing with unchanged inputs
// yields the identical waypoint list.
//
// # Degradation
//
// Routing never fails for geometric reasons. A missing shape falls back to
// the connector's last known endpoint, avoidance that runs out of passes
// returns its best partial path, and out-of-range offsets are ignored.
package route
