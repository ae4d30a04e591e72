package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/route"
)

// SVG renders a frame as a standalone SVG document.
func SVG(f Frame, opts ...Option) []byte {
	r := newRenderer(opts...)
	c := f.Canvas(r.margin)
	zones, cards := layers(f.Scene)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(c.X), num(c.Y), num(c.W), num(c.H), c.W*r.scale, c.H*r.scale)
	fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(c.X), num(c.Y), num(c.W), num(c.H), hex(colorBackground))
	if r.grid > 0 {
		renderSVGGrid(&buf, c, r.grid)
	}

	for _, z := range zones {
		renderSVGZone(&buf, z)
	}
	for _, res := range f.Results {
		label := ""
		if conn, ok := f.Scene.Connector(res.ConnectorID); ok {
			label = conn.Label
		}
		renderSVGConnector(&buf, res, label)
	}
	for _, cd := range cards {
		renderSVGCard(&buf, cd)
	}
	if r.handles {
		for _, res := range f.Results {
			renderSVGHandles(&buf, res)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func renderSVGGrid(buf *bytes.Buffer, c geom.Rect, step float64) {
	fmt.Fprintf(buf, `  <defs><pattern id="grid" width="%s" height="%s" patternUnits="userSpaceOnUse">`+
		`<path d="M %s 0 L 0 0 0 %s" fill="none" stroke="%s" stroke-width="1"/></pattern></defs>`+"\n",
		num(step), num(step), num(step), num(step), hex(colorGrid))
	fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="url(#grid)"/>`+"\n",
		num(c.X), num(c.Y), num(c.W), num(c.H))
}

func renderSVGZone(buf *bytes.Buffer, z zone) {
	fmt.Fprintf(buf, `  <g class="container" id="shape-%s">`+"\n", escapeXML(z.id))
	if !z.collapsed {
		fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" stroke="%s" stroke-dasharray="6 4"/>`+"\n",
			num(z.rect.X), num(z.rect.Y), num(z.rect.W), num(z.rect.H), num(cornerR), hex(colorZoneFill), hex(colorZoneEdge))
	}
	fmt.Fprintf(buf, `    <rect class="header" x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" stroke="%s"/>`+"\n",
		num(z.header.X), num(z.header.Y), num(z.header.W), num(z.header.H), num(cornerR), hex(colorHeaderFill), hex(colorZoneEdge))
	ct := z.header.Center()
	fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-family="monospace" font-size="%s" fill="%s">%s</text>`+"\n",
		num(ct.X), num(ct.Y), num(fontSize), hex(colorText), escapeXML(z.label))
	buf.WriteString("  </g>\n")
}

func renderSVGCard(buf *bytes.Buffer, cd card) {
	fmt.Fprintf(buf, `  <g class="shape" id="shape-%s">`+"\n", escapeXML(cd.id))
	fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		num(cd.rect.X), num(cd.rect.Y), num(cd.rect.W), num(cd.rect.H), num(cornerR), hex(colorShapeFill), hex(colorShapeEdge))
	ct := cd.rect.Center()
	fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-family="monospace" font-size="%s" fill="%s">%s</text>`+"\n",
		num(ct.X), num(ct.Y), num(fontSize), hex(colorText), escapeXML(cd.label))
	buf.WriteString("  </g>\n")
}

func renderSVGConnector(buf *bytes.Buffer, res route.Result, label string) {
	fmt.Fprintf(buf, `  <g class="connector" id="conn-%s">`+"\n", escapeXML(res.ConnectorID))
	fmt.Fprintf(buf, `    <path d="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
		res.SVG, hex(colorConnector), num(strokeWidth))
	if tip, l, r, ok := arrowHead(res.Waypoints); ok {
		fmt.Fprintf(buf, `    <path d="%s Z" fill="%s"/>`+"\n", geom.Path{tip, l, r}.SVG(), hex(colorConnector))
	}
	if label != "" {
		fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-family="monospace" font-size="%s" fill="%s" stroke="%s" stroke-width="4" paint-order="stroke">%s</text>`+"\n",
			num(res.Label.X), num(res.Label.Y), num(fontSize), hex(colorText), hex(colorBackground), escapeXML(label))
	}
	buf.WriteString("  </g>\n")
}

func renderSVGHandles(buf *bytes.Buffer, res route.Result) {
	for _, seg := range res.Draggable {
		cursor := "ew-resize"
		if seg.Horizontal() {
			cursor = "ns-resize"
		}
		fmt.Fprintf(buf, `  <line class="segment-handle" data-conn="%s" data-segment="%d" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-opacity="0.35" stroke-width="6" stroke-linecap="round" style="cursor:%s"/>`+"\n",
			escapeXML(res.ConnectorID), seg.Index, num(seg.From.X), num(seg.From.Y), num(seg.To.X), num(seg.To.Y), hex(colorHandle), cursor)
	}
	fmt.Fprintf(buf, `  <circle class="swap" data-conn="%s" cx="%s" cy="%s" r="%s" fill="%s" stroke="%s"/>`+"\n",
		escapeXML(res.ConnectorID), num(res.Swap.X), num(res.Swap.Y), num(swapRadius), hex(colorBackground), hex(colorHandle))
}
