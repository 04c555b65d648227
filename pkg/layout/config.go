package layout

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pzaremba/flowxmi/pkg/errors"
)

// Config controls canvas geometry and placement behavior. The zero value is
// not usable; start from [DefaultConfig] or [LoadConfig].
type Config struct {
	// CanvasWidth and CanvasHeight bound the drawing area in diagram units.
	CanvasWidth  float64 `toml:"canvas_width"`
	CanvasHeight float64 `toml:"canvas_height"`

	// MarginX and MarginY inset the grid from the canvas origin.
	MarginX float64 `toml:"margin_x"`
	MarginY float64 `toml:"margin_y"`

	// Spacing scales grid cells relative to the largest node. A value of 2.0
	// leaves one node-width of air between neighboring cells.
	Spacing float64 `toml:"spacing"`

	// LanePadding expands swimlane bounds beyond the member bounding box on
	// the left, top and right edges. LaneBottomPadding applies at the bottom,
	// where connector labels need extra room.
	LanePadding       float64 `toml:"lane_padding"`
	LaneBottomPadding float64 `toml:"lane_bottom_padding"`

	// MaxOverlapIterations caps the overlap resolver. Collisions remaining
	// after the cap are reported, not fixed.
	MaxOverlapIterations int `toml:"max_overlap_iterations"`
}

// DefaultConfig returns the layout configuration used when no config file is
// given. The canvas matches an A4 landscape drawing area in EA units.
func DefaultConfig() Config {
	return Config{
		CanvasWidth:          1400,
		CanvasHeight:         1000,
		MarginX:              100,
		MarginY:              80,
		Spacing:              2.0,
		LanePadding:          50,
		LaneBottomPadding:    100,
		MaxOverlapIterations: 10,
	}
}

// LoadConfig reads a TOML layout configuration from path. Fields absent from
// the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read layout config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse layout config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot work with.
func (c Config) Validate() error {
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas dimensions must be positive (%gx%g)", c.CanvasWidth, c.CanvasHeight)
	}
	if c.MarginX < 0 || c.MarginY < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margins cannot be negative")
	}
	if c.MarginX*2 >= c.CanvasWidth || c.MarginY*2 >= c.CanvasHeight {
		return errors.New(errors.ErrCodeInvalidConfig, "margins leave no drawing area")
	}
	if c.Spacing < 1.0 {
		return errors.New(errors.ErrCodeInvalidConfig, "spacing must be at least 1.0, got %g", c.Spacing)
	}
	if c.LanePadding < 0 || c.LaneBottomPadding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "lane padding cannot be negative")
	}
	if c.MaxOverlapIterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_overlap_iterations cannot be negative")
	}
	return nil
}
