package cache

// ScopedKeyer wraps a Keyer with a prefix, isolating scenes that share one
// backend.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "scene:checkout:")
//	key := keyer.RouteKey("e-42", inputHash)
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SceneKeyer scopes keys to one scene.
func SceneKeyer(inner Keyer, sceneID string) Keyer {
	return NewScopedKeyer(inner, "scene:"+sceneID+":")
}

// RouteKey generates a prefixed route key.
func (k *ScopedKeyer) RouteKey(connID, inputHash string) string {
	return k.prefix + k.inner.RouteKey(connID, inputHash)
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(sceneHash, opts)
}
