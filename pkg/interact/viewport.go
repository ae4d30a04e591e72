package interact

import "github.com/matzehuels/smartstep/pkg/geom"

// Zoom limits of [View].
const (
	MinZoom = 0.1
	MaxZoom = 4.0
)

// Viewport maps screen coordinates onto the canvas.
type Viewport interface {
	// Zoom returns the canvas scale factor.
	Zoom() float64

	// ScreenToCanvas converts a screen point to canvas coordinates.
	ScreenToCanvas(p geom.Point) geom.Point

	// PanBy shifts the canvas by a screen distance.
	PanBy(dx, dy float64)

	// Bounds returns the screen rectangle of the canvas container.
	Bounds() geom.Rect
}

// View is a pan/zoom viewport. A canvas point c appears on screen at
// Screen.Origin + Pan + c*Scale.
type View struct {
	Screen geom.Rect
	Pan    geom.Point
	Scale  float64
}

// NewView creates an unpanned view at zoom 1 over the given screen area.
func NewView(screen geom.Rect) *View {
	return &View{Screen: screen, Scale: 1}
}

// Zoom implements [Viewport].
func (v *View) Zoom() float64 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}

// Bounds implements [Viewport].
func (v *View) Bounds() geom.Rect { return v.Screen }

// PanBy implements [Viewport].
func (v *View) PanBy(dx, dy float64) {
	v.Pan = v.Pan.Add(geom.Point{X: dx, Y: dy})
}

// ScreenToCanvas implements [Viewport].
func (v *View) ScreenToCanvas(p geom.Point) geom.Point {
	return p.Sub(v.Screen.Origin()).Sub(v.Pan).Scale(1 / v.Zoom())
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func (v *View) CanvasToScreen(p geom.Point) geom.Point {
	return p.Scale(v.Zoom()).Add(v.Pan).Add(v.Screen.Origin())
}

// ZoomAt sets the zoom, clamped to [MinZoom, MaxZoom], keeping the canvas
// point under the screen point p fixed.
func (v *View) ZoomAt(p geom.Point, zoom float64) {
	anchor := v.ScreenToCanvas(p)
	v.Scale = min(max(zoom, MinZoom), MaxZoom)
	v.Pan = p.Sub(v.Screen.Origin()).Sub(anchor.Scale(v.Scale))
}

// Transform combines a viewport with the display scale of the host page or
// terminal. Screen points are divided by the display scale before the
// viewport sees them.
type Transform struct {
	Viewport     Viewport
	DisplayScale float64
}

func (t Transform) display() float64 {
	if t.DisplayScale <= 0 {
		return 1
	}
	return t.DisplayScale
}

// TotalZoom is the viewport zoom times the display scale: the number of
// screen pixels per canvas unit.
func (t Transform) TotalZoom() float64 {
	return t.Viewport.Zoom() * t.display()
}

// ToCanvas converts a raw screen point to canvas coordinates.
func (t Transform) ToCanvas(screen geom.Point) geom.Point {
	return t.Viewport.ScreenToCanvas(screen.Scale(1 / t.display()))
}

// ScreenDistance converts a screen distance to canvas units.
func (t Transform) ScreenDistance(px float64) float64 {
	return px / t.TotalZoom()
}
