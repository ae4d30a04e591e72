package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/route"
	"github.com/matzehuels/smartstep/pkg/scene"
)

const pointsPerInch = 72.0

// DOT converts a frame to a Graphviz graph with pinned positions.
//
// Graphviz puts the origin at the bottom left, so y is flipped against the
// canvas. Node sizes are fixed and each edge carries its routed polyline as
// a piecewise-linear B-spline, so [GraphvizSVG] reproduces the drawing
// exactly. An end whose shape is hidden attaches to its container; an end
// whose shape is missing attaches to an invisible point at the handle.
func DOT(f Frame, opts ...Option) string {
	r := newRenderer(opts...)
	c := f.Canvas(r.margin)
	flip := func(p geom.Point) geom.Point {
		return geom.Point{X: p.X - c.X, Y: c.Bottom() - p.Y}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%s,%s\";\n", num(c.W), num(c.H))
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fixedsize=true, fontname=\"monospace\", fontsize=12];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	zones, cards := layers(f.Scene)
	for _, z := range zones {
		rect := z.rect
		style := "rounded,filled,dashed"
		if z.collapsed {
			rect = z.header
			style = "rounded,filled"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", z.id, strings.Join(nodeAttrs(rect, z.label, flip,
			fmt.Sprintf("style=%q", style),
			fmt.Sprintf("fillcolor=%q", hex(colorZoneFill)),
			fmt.Sprintf("color=%q", hex(colorZoneEdge)),
			`labelloc="t"`,
		), ", "))
	}
	for _, cd := range cards {
		fmt.Fprintf(&buf, "  %q [%s];\n", cd.id, strings.Join(nodeAttrs(cd.rect, cd.label, flip,
			fmt.Sprintf("fillcolor=%q", hex(colorShapeFill)),
			fmt.Sprintf("color=%q", hex(colorShapeEdge)),
		), ", "))
	}

	buf.WriteString("\n")
	for _, res := range f.Results {
		conn, ok := f.Scene.Connector(res.ConnectorID)
		if !ok {
			continue
		}
		from := endNode(&buf, f.Scene, conn, scene.Source, res.Source.Point, flip)
		to := endNode(&buf, f.Scene, conn, scene.Target, res.Target.Point, flip)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from, to, strings.Join(edgeAttrs(res, conn.Label, flip), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(rect geom.Rect, label string, flip func(geom.Point) geom.Point, extra ...string) []string {
	ct := flip(rect.Center())
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%s,%s!\"", num(ct.X), num(ct.Y)),
		fmt.Sprintf("width=%s", strconv.FormatFloat(rect.W/pointsPerInch, 'f', 4, 64)),
		fmt.Sprintf("height=%s", strconv.FormatFloat(rect.H/pointsPerInch, 'f', 4, 64)),
	}
	return append(attrs, extra...)
}

// endNode returns the node an edge end attaches to, declaring an anchor
// point when the shape is not drawn.
func endNode(buf *bytes.Buffer, s *scene.Scene, conn *scene.Connector, end scene.End, at geom.Point, flip func(geom.Point) geom.Point) string {
	id := conn.ShapeID(end)
	if sh, ok := s.Shape(id); ok {
		if !sh.IsHidden() {
			return id
		}
		if zone, ok := s.Shape(sh.HiddenIn); ok {
			return zone.ID
		}
	}
	anchor := fmt.Sprintf("%s:%s", conn.ID, end)
	p := flip(at)
	fmt.Fprintf(buf, "  %q [shape=point, style=invis, width=0.01, height=0.01, pos=\"%s,%s!\"];\n", anchor, num(p.X), num(p.Y))
	return anchor
}

func edgeAttrs(res route.Result, label string, flip func(geom.Point) geom.Point) []string {
	attrs := []string{
		fmt.Sprintf("id=%q", res.ConnectorID),
		fmt.Sprintf("color=%q", hex(colorConnector)),
		"penwidth=2",
	}
	if spline := splinePos(res.Waypoints, flip); spline != "" {
		attrs = append(attrs, fmt.Sprintf("pos=%q", spline))
	}
	if label != "" {
		lp := flip(res.Label)
		attrs = append(attrs, fmt.Sprintf("label=%q", label), fmt.Sprintf("lp=\"%s,%s\"", num(lp.X), num(lp.Y)))
	}
	return attrs
}

// splinePos encodes a polyline as a cubic B-spline whose pieces are the
// straight segments: p0 (p0 p1 p1) (p1 p2 p2) ...
func splinePos(path geom.Path, flip func(geom.Point) geom.Point) string {
	if len(path) < 2 {
		return ""
	}
	pt := func(p geom.Point) string {
		q := flip(p)
		return num(q.X) + "," + num(q.Y)
	}
	parts := []string{pt(path[0])}
	for i := 1; i < len(path); i++ {
		parts = append(parts, pt(path[i-1]), pt(path[i]), pt(path[i]))
	}
	return strings.Join(parts, " ")
}

// GraphvizSVG renders a pinned DOT graph to SVG with the nop2 engine, which
// uses the given node and edge positions as they are.
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.SetLayout(graphviz.NOP2).Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
