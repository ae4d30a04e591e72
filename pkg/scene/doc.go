// Package scene holds the diagram data the routing engine consumes and mutates.
//
// A [Scene] is a flat list of [Shape] values (boxes and containers placed on
// the canvas) and [Connector] values (edges between two shapes). Shape
// geometry belongs to external drag/resize collaborators; connector geometry
// (segment offsets, manual handle flags) is written only through the
// mutation methods in this package:
//
//   - [Scene.AddSegmentOffset]: persist a user segment drag (additive)
//   - [Scene.Reconnect]: move one connector end to another shape/side
//   - [Scene.Swap]: exchange source and target
//   - [Scene.CollapseContainer], [Scene.ExpandContainer]: fold members into
//     a container header and back
//
// # Geometry Resolution
//
// [Scene.Geometry] turns a shape into the rectangle used for routing:
//
//   - size falls back from measured size to authored style size to a fixed
//     default ([DefaultWidth]×[DefaultHeight], or the container defaults)
//   - a shape hidden inside a collapsed container resolves to the
//     container's header band
//   - regular, non-collapsed shapes reserve their label offset above the body
//
// # Serialization
//
// Scenes round-trip through JSON ([Read], [Write]) and TOML ([ReadTOML],
// [WriteTOML]); [ReadFile] and [WriteFile] pick the codec from the file
// extension. Offsets are keyed by segment index; malformed offset maps decode
// as empty rather than failing the whole scene.
package scene
