package render

// Defaults shared by the sinks.
const (
	DefaultMargin   = 40.0
	DefaultScale    = 1.0
	DefaultGridStep = 20.0
)

// Option configures a sink.
type Option func(*renderer)

type renderer struct {
	margin  float64
	scale   float64
	grid    float64
	handles bool
}

// WithMargin sets the blank border around the drawing, in canvas units.
func WithMargin(m float64) Option { return func(r *renderer) { r.margin = m } }

// WithScale sets the output pixels per canvas unit.
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithGrid draws a background grid.
func WithGrid() Option { return func(r *renderer) { r.grid = DefaultGridStep } }

// WithHandles draws the draggable segment handles and swap controls.
func WithHandles() Option { return func(r *renderer) { r.handles = true } }

func newRenderer(opts ...Option) renderer {
	r := renderer{margin: DefaultMargin, scale: DefaultScale}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
