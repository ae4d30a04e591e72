package route

import "github.com/matzehuels/smartstep/pkg/geom"

// Planned is a raw path plus how obstacle avoidance went.
type Planned struct {
	Path     geom.Path
	Passes   int
	Resolved bool
}

// Plan builds the raw path between two handles:
// base table → avoidance → stubs → orthogonalize → clean.
func Plan(src, tgt Handle, boxes []geom.Box, cfg Config) Planned {
	path := BasePath(src, tgt, cfg)
	path, passes, resolved := Avoid(path, boxes, cfg.MaxPasses)
	path = EnforceStubs(path, src.Side, tgt.Side, cfg.StubLength)
	path = Orthogonalize(path, src.Side, tgt.Side)
	return Planned{Path: Clean(path), Passes: passes, Resolved: resolved}
}
