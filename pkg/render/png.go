package render

import (
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/route"
)

// PNG rasterises a frame. The image is Canvas.W*scale by Canvas.H*scale
// pixels.
func PNG(w io.Writer, f Frame, opts ...Option) error {
	r := newRenderer(opts...)
	c := f.Canvas(r.margin)
	width := int(math.Ceil(c.W * r.scale))
	height := int(math.Ceil(c.H * r.scale))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("empty canvas %.0fx%.0f", c.W, c.H)
	}

	face, err := monoFace(fontSize * r.scale)
	if err != nil {
		return err
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(colorBackground)
	dc.Clear()
	dc.Scale(r.scale, r.scale)
	dc.Translate(-c.X, -c.Y)
	dc.SetFontFace(face)

	if r.grid > 0 {
		drawGridPNG(dc, c, r.grid)
	}
	zones, cards := layers(f.Scene)
	for _, z := range zones {
		drawZonePNG(dc, z)
	}
	for _, res := range f.Results {
		label := ""
		if conn, ok := f.Scene.Connector(res.ConnectorID); ok {
			label = conn.Label
		}
		drawConnectorPNG(dc, res, label)
	}
	for _, cd := range cards {
		drawCardPNG(dc, cd)
	}
	if r.handles {
		for _, res := range f.Results {
			drawHandlesPNG(dc, res)
		}
	}
	return dc.EncodePNG(w)
}

func monoFace(size float64) (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func drawGridPNG(dc *gg.Context, c geom.Rect, step float64) {
	dc.SetColor(colorGrid)
	dc.SetLineWidth(1)
	for x := math.Floor(c.X/step) * step; x <= c.Right(); x += step {
		dc.DrawLine(x, c.Y, x, c.Bottom())
	}
	for y := math.Floor(c.Y/step) * step; y <= c.Bottom(); y += step {
		dc.DrawLine(c.X, y, c.Right(), y)
	}
	dc.Stroke()
}

func drawZonePNG(dc *gg.Context, z zone) {
	if !z.collapsed {
		dc.DrawRoundedRectangle(z.rect.X, z.rect.Y, z.rect.W, z.rect.H, cornerR)
		dc.SetColor(colorZoneFill)
		dc.FillPreserve()
		dc.SetColor(colorZoneEdge)
		dc.SetDash(6, 4)
		dc.SetLineWidth(1)
		dc.Stroke()
		dc.SetDash()
	}
	dc.DrawRoundedRectangle(z.header.X, z.header.Y, z.header.W, z.header.H, cornerR)
	dc.SetColor(colorHeaderFill)
	dc.FillPreserve()
	dc.SetColor(colorZoneEdge)
	dc.Stroke()

	ct := z.header.Center()
	dc.SetColor(colorText)
	dc.DrawStringAnchored(z.label, ct.X, ct.Y, 0.5, 0.5)
}

func drawCardPNG(dc *gg.Context, cd card) {
	dc.DrawRoundedRectangle(cd.rect.X, cd.rect.Y, cd.rect.W, cd.rect.H, cornerR)
	dc.SetColor(colorShapeFill)
	dc.FillPreserve()
	dc.SetColor(colorShapeEdge)
	dc.SetLineWidth(1.5)
	dc.Stroke()

	ct := cd.rect.Center()
	dc.SetColor(colorText)
	dc.DrawStringAnchored(cd.label, ct.X, ct.Y, 0.5, 0.5)
}

func drawConnectorPNG(dc *gg.Context, res route.Result, label string) {
	if len(res.Waypoints) < 2 {
		return
	}
	dc.SetColor(colorConnector)
	dc.SetLineWidth(strokeWidth)
	dc.MoveTo(res.Waypoints[0].X, res.Waypoints[0].Y)
	for _, p := range res.Waypoints[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()

	if tip, l, r, ok := arrowHead(res.Waypoints); ok {
		dc.MoveTo(tip.X, tip.Y)
		dc.LineTo(l.X, l.Y)
		dc.LineTo(r.X, r.Y)
		dc.ClosePath()
		dc.Fill()
	}

	if label != "" {
		w, h := dc.MeasureString(label)
		dc.SetColor(colorBackground)
		dc.DrawRectangle(res.Label.X-w/2-3, res.Label.Y-h/2-2, w+6, h+4)
		dc.Fill()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(label, res.Label.X, res.Label.Y, 0.5, 0.5)
	}
}

func drawHandlesPNG(dc *gg.Context, res route.Result) {
	dc.SetColor(colorHandle)
	dc.SetLineWidth(4)
	for _, seg := range res.Draggable {
		dc.DrawLine(seg.From.X, seg.From.Y, seg.To.X, seg.To.Y)
		dc.Stroke()
	}
	dc.DrawCircle(res.Swap.X, res.Swap.Y, swapRadius)
	dc.SetColor(colorBackground)
	dc.FillPreserve()
	dc.SetColor(colorHandle)
	dc.SetLineWidth(1.5)
	dc.Stroke()
}
