// Package render draws routed scenes.
//
// A [Frame] pairs a scene with the routing results of its connectors and
// the canvas rectangle that encloses both. Three sinks consume a frame:
//
//   - [SVG] writes a standalone SVG document. Connector paths are the
//     routed waypoint lists, so the output matches what an editor shows.
//   - [PNG] rasterises the same drawing with gg and the Go Mono font.
//   - [DOT] writes a Graphviz graph with every node and edge position
//     pinned; [GraphvizSVG] renders it with the nop2 engine, which keeps
//     the routed geometry instead of laying the graph out again.
//
// Sinks accept functional options:
//
//	results, err := router.RouteAll(ctx, s)
//	if err != nil {
//	    return err
//	}
//	frame := render.NewFrame(s, results)
//	svg := render.SVG(frame, render.WithGrid(), render.WithHandles())
package render
