// Package geom provides the plain geometry types shared by the routing engine.
//
// Everything in this package is pure data plus small predicates: points,
// axis-aligned rectangles, obstacle boxes, attachment sides and orthogonal
// polylines. Higher-level packages ([github.com/matzehuels/smartstep/pkg/route],
// [github.com/matzehuels/smartstep/pkg/interact]) build their algorithms on top
// of these types.
//
// # Coordinates
//
// All coordinates are canvas units with the y axis pointing down, matching
// the rendering collaborator (SVG, PNG and terminal sinks).
//
// # Tolerances
//
// Two tolerances govern axis classification:
//
//   - [AxisTolerance]: two points whose coordinates differ by less than this
//     on one axis are considered aligned on it (segment is horizontal/vertical).
//   - [CornerTolerance]: orthogonalization treats a pair of points as diagonal
//     only when both axes differ by more than this.
package geom
