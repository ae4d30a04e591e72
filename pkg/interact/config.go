package interact

import "time"

// Config holds the interaction constants.
type Config struct {
	// SnapScreenPx is the snap radius in screen pixels. It is divided by the
	// total zoom so the radius feels constant on screen.
	SnapScreenPx float64 `toml:"snap_screen_px" json:"snap_screen_px"`

	// CommitThreshold is the smallest segment offset, in canvas units, that
	// is persisted when a drag ends.
	CommitThreshold float64 `toml:"commit_threshold" json:"commit_threshold"`

	// PanMargin is the width of the band along the canvas edge that triggers
	// auto-pan during a reconnection drag.
	PanMargin float64 `toml:"pan_margin" json:"pan_margin"`

	// PanSpeed is the screen distance panned per tick.
	PanSpeed float64 `toml:"pan_speed" json:"pan_speed"`

	// PanInterval is the auto-pan tick period.
	PanInterval time.Duration `toml:"pan_interval" json:"pan_interval"`
}

// DefaultConfig returns the stock interaction constants.
func DefaultConfig() Config {
	return Config{
		SnapScreenPx:    80,
		CommitThreshold: 1,
		PanMargin:       60,
		PanSpeed:        12,
		PanInterval:     30 * time.Millisecond,
	}
}

// WithDefaults fills zero fields from [DefaultConfig].
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.SnapScreenPx <= 0 {
		c.SnapScreenPx = d.SnapScreenPx
	}
	if c.CommitThreshold <= 0 {
		c.CommitThreshold = d.CommitThreshold
	}
	if c.PanMargin <= 0 {
		c.PanMargin = d.PanMargin
	}
	if c.PanSpeed <= 0 {
		c.PanSpeed = d.PanSpeed
	}
	if c.PanInterval <= 0 {
		c.PanInterval = d.PanInterval
	}
	return c
}
