// Package pkg provides the libraries behind smartstep, an orthogonal
// connector router for box-and-arrow diagrams.
//
// # Overview
//
// Smartstep draws every connector between two shapes as a path of
// horizontal and vertical segments. It picks the sides a connector attaches
// to, plans a step-shaped path around obstacles, keeps the first and last
// segment perpendicular to their shapes, and applies the per-segment
// offsets a user has dragged in. Ends can be dragged onto another shape's
// side to reconnect them.
//
// The pkg directory is organized by concern:
//
//  1. [geom] - Points, rectangles, sides and orthogonal paths
//  2. [scene] - Shapes, containers and connectors, with JSON/TOML codecs
//  3. [route] - Handle selection, path planning, normalization, offsets
//  4. [interact] - Segment drags and snap-to-side reconnection with auto-pan
//  5. [render] - SVG, PNG and Graphviz output of a routed scene
//  6. [cache], [storage] - Route memoisation and scene persistence
//  7. [api] - HTTP access to stored scenes
//
// # Data Flow
//
//	scene file / store
//	       ↓
//	  [scene] package (shapes + connectors)
//	       ↓
//	  [route] package (handles → plan → normalize → offsets)
//	       ↓
//	  [render] package (SVG, PNG, DOT)
//
// # Quick Start
//
//	s, _ := scene.ReadFile("diagram.json")
//	router := route.NewRouter(route.DefaultConfig(), nil, nil)
//	results, _ := router.RouteAll(ctx, s)
//	svg := render.SVG(render.NewFrame(s, results))
//
// # Errors
//
// The [errors] package attaches a code to every failure the CLI or HTTP API
// reports. Routing itself only fails for an unknown connector: missing shapes
// fall back to the last known endpoint coordinates.
//
// # Observability
//
// The [observability] package exposes hooks for route computations, gestures,
// cache traffic and HTTP requests. All hooks default to no-ops.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/smartstep/pkg/geom
// [scene]: https://pkg.go.dev/github.com/matzehuels/smartstep/pkg/scene
// [route]: https://pkg.go.dev/github.com/matzehuels/smartstep/pkg/route
// [interact]: https://pkg.go.dev/github.com/matzehuels/smartstep/pkg/interact
// [render]: https://pkg.go.dev/github.com/matzehuels/smartstep/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/smartstep/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/smartstep/pkg/storage
// [api]: https://pkg.go.dev/github.com/matzehuels/smartstep/pkg/api
// [errors]: https://pkg.go.dev/github.com/matzehuels/smartstep/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/smartstep/pkg/observability
package pkg
