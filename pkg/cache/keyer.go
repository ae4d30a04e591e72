package cache

// Keyer derives cache keys from routing and rendering inputs.
type Keyer interface {
	// RouteKey identifies one connector's route for a given input hash.
	RouteKey(connID, inputHash string) string

	// RenderKey identifies a rendered scene artifact.
	RenderKey(sceneHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts are the render options that change the output bytes.
type RenderKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Grid   bool    `json:"grid,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RouteKey returns "route:<sha256>".
func (DefaultKeyer) RouteKey(connID, inputHash string) string {
	return hashKey("route", connID, inputHash)
}

// RenderKey returns "render:<sha256>".
func (DefaultKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return hashKey("render", sceneHash, opts)
}
