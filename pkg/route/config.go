package route

// Config holds the tuned routing constants. All lengths are canvas units.
type Config struct {
	// StubLength is the straight segment leaving and entering each handle.
	StubLength float64 `toml:"stub_length" json:"stub_length"`

	// Clearance pads every obstacle box.
	Clearance float64 `toml:"clearance" json:"clearance"`

	// ExitOffset is how far a facing-away path steps out before turning.
	ExitOffset float64 `toml:"exit_offset" json:"exit_offset"`

	// DetourJog is how far above the higher endpoint a facing-away path
	// travels back.
	DetourJog float64 `toml:"detour_jog" json:"detour_jog"`

	// LoopOffset spaces same-side loops and top-to-side hooks.
	LoopOffset float64 `toml:"loop_offset" json:"loop_offset"`

	// FacingMargin is the minimum gap for left/right handles to count as
	// facing each other.
	FacingMargin float64 `toml:"facing_margin" json:"facing_margin"`

	// MaxPasses caps obstacle avoidance.
	MaxPasses int `toml:"max_passes" json:"max_passes"`

	// TopPenalty and SideBoost bias a target inside a container away from
	// entering through the header.
	TopPenalty float64 `toml:"top_penalty" json:"top_penalty"`
	SideBoost  float64 `toml:"side_boost" json:"side_boost"`

	// MinDragSegment is the shortest segment offered as a drag target.
	MinDragSegment float64 `toml:"min_drag_segment" json:"min_drag_segment"`
}

// DefaultConfig returns the stock routing constants.
func DefaultConfig() Config {
	return Config{
		StubLength:     30,
		Clearance:      36,
		ExitOffset:     40,
		DetourJog:      120,
		LoopOffset:     60,
		FacingMargin:   10,
		MaxPasses:      12,
		TopPenalty:     1000,
		SideBoost:      200,
		MinDragSegment: 8,
	}
}

// WithDefaults fills zero fields from [DefaultConfig], so a partially
// written config file keeps the stock value for anything it omits.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	fill := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&c.StubLength, d.StubLength)
	fill(&c.Clearance, d.Clearance)
	fill(&c.ExitOffset, d.ExitOffset)
	fill(&c.DetourJog, d.DetourJog)
	fill(&c.LoopOffset, d.LoopOffset)
	fill(&c.FacingMargin, d.FacingMargin)
	fill(&c.TopPenalty, d.TopPenalty)
	fill(&c.SideBoost, d.SideBoost)
	fill(&c.MinDragSegment, d.MinDragSegment)
	if c.MaxPasses == 0 {
		c.MaxPasses = d.MaxPasses
	}
	return c
}
