package scene

import "github.com/matzehuels/smartstep/pkg/geom"

// Kind distinguishes how a shape takes part in routing.
type Kind string

// Shape kinds.
const (
	KindRegular   Kind = "regular"
	KindContainer Kind = "container"
	KindHidden    Kind = "hidden"
)

const (
	// DefaultWidth and DefaultHeight size regular shapes without a measured
	// or authored size.
	DefaultWidth  = 256.0
	DefaultHeight = 120.0

	// DefaultContainerWidth and DefaultContainerHeight size containers
	// without a measured or authored size.
	DefaultContainerWidth  = 400.0
	DefaultContainerHeight = 300.0

	// DefaultLabelOffset is the title band reserved above a regular shape body.
	DefaultLabelOffset = 22.0

	// DefaultHeaderHeight is the height of a container's header band.
	DefaultHeaderHeight = 50.0
)

// Shape is a box or container placed on the canvas.
type Shape struct {
	ID          string  `json:"id" toml:"id"`
	X           float64 `json:"x" toml:"x"`
	Y           float64 `json:"y" toml:"y"`
	Width       float64 `json:"width,omitempty" toml:"width,omitempty"`               // measured render size
	Height      float64 `json:"height,omitempty" toml:"height,omitempty"`             // measured render size
	StyleWidth  float64 `json:"style_width,omitempty" toml:"style_width,omitempty"`   // authored size
	StyleHeight float64 `json:"style_height,omitempty" toml:"style_height,omitempty"` // authored size
	Kind        Kind    `json:"kind,omitempty" toml:"kind,omitempty"`
	Collapsed   bool    `json:"collapsed,omitempty" toml:"collapsed,omitempty"`
	LabelOffset float64 `json:"label_offset,omitempty" toml:"label_offset,omitempty"`
	HiddenIn    string  `json:"hidden_in,omitempty" toml:"hidden_in,omitempty"` // container id while hidden
	Label       string  `json:"label,omitempty" toml:"label,omitempty"`

	// Saved holds member positions while a container is collapsed.
	Saved map[string]geom.Point `json:"saved,omitempty" toml:"saved,omitempty"`
	// SavedHeight is the container height before collapsing.
	SavedHeight float64 `json:"saved_height,omitempty" toml:"saved_height,omitempty"`
}

// NewShape creates a regular shape with the default label offset.
func NewShape(id string, x, y, w, h float64) Shape {
	return Shape{ID: id, X: x, Y: y, Width: w, Height: h, Kind: KindRegular, LabelOffset: DefaultLabelOffset}
}

// NewContainer creates a container shape with an authored size.
func NewContainer(id string, x, y, w, h float64) Shape {
	return Shape{ID: id, X: x, Y: y, StyleWidth: w, StyleHeight: h, Kind: KindContainer}
}

// IsContainer reports whether the shape is a container.
func (s *Shape) IsContainer() bool { return s.Kind == KindContainer }

// IsHidden reports whether the shape is folded into a collapsed container.
func (s *Shape) IsHidden() bool { return s.Kind == KindHidden || s.HiddenIn != "" }

// DisplayLabel returns the label if set, otherwise the ID.
func (s *Shape) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.ID
}

// Size returns the shape size using the fallback order
// measured → authored style → default. Containers are sized by their
// authored style first since collapsing rewrites it.
func (s *Shape) Size() (w, h float64) {
	if s.IsContainer() {
		return firstPositive(s.StyleWidth, s.Width, DefaultContainerWidth),
			firstPositive(s.StyleHeight, s.Height, DefaultContainerHeight)
	}
	return firstPositive(s.Width, s.StyleWidth, DefaultWidth), firstPositive(s.Height, s.StyleHeight, DefaultHeight)
}

// Rect returns the shape's own bounds.
func (s *Shape) Rect() geom.Rect {
	w, h := s.Size()
	return geom.Rect{X: s.X, Y: s.Y, W: w, H: h}
}

// Inset returns the label band reserved above the body. Containers and
// collapsed shapes reserve none.
func (s *Shape) Inset() float64 {
	if s.IsContainer() || s.Collapsed {
		return 0
	}
	return s.LabelOffset
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
