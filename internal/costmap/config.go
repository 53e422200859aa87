package costmap

import (
	"fmt"
	"math"
	"slices"

	"github.com/banshee-data/costmap/internal/config"
)

// GridConfig provides a configuration builder for a Grid. It allows setting
// geometry and layers with defaults and validation before building a map.
type GridConfig struct {
	// Geometry
	Length     Length   // Side lengths in metres (default: 10x10)
	Resolution float64  // Cell side in metres (default: 0.05)
	Position   Position // World position of the map centre (default: origin)
	FrameID    FrameID  // Frame the map is expressed in (default: "map")

	// Layers
	Layers      []string           // Layer names in creation order (default: ["cost"])
	BasicLayers []string           // Layers defining a known cell (default: ["cost"])
	Sentinels   map[string]float32 // Per-layer "no information" overrides
}

// DefaultGridConfig returns a GridConfig loaded from the canonical defaults
// file (config/costmap.defaults.json).
// Panics if the file cannot be found, intended for tests and binaries
// that have already validated config availability.
func DefaultGridConfig() *GridConfig {
	return GridConfigFromTuning(config.MustLoadDefaultConfig())
}

// GridConfigFromTuning builds a GridConfig from a loaded CostmapConfig.
func GridConfigFromTuning(cfg *config.CostmapConfig) *GridConfig {
	c := &GridConfig{
		Length:      Length{X: cfg.GetLengthX(), Y: cfg.GetLengthY()},
		Resolution:  cfg.GetResolution(),
		Position:    Position{X: cfg.GetPositionX(), Y: cfg.GetPositionY()},
		FrameID:     FrameID(cfg.GetFrameID()),
		Layers:      slices.Clone(cfg.GetLayers()),
		BasicLayers: slices.Clone(cfg.GetBasicLayers()),
	}
	for _, name := range c.Layers {
		if v, ok := cfg.GetLayerSentinel(name); ok {
			if c.Sentinels == nil {
				c.Sentinels = make(map[string]float32)
			}
			c.Sentinels[name] = float32(v)
		}
	}
	return c
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of acceptable range.
func (c *GridConfig) Validate() error {
	if c.Length.X <= 0 || c.Length.Y <= 0 {
		return fmt.Errorf("Length must be positive, got %v", c.Length)
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("Resolution must be positive, got %f", c.Resolution)
	}
	if math.Round(c.Length.X/c.Resolution) < 1 || math.Round(c.Length.Y/c.Resolution) < 1 {
		return fmt.Errorf("Length %v is less than one cell at resolution %f", c.Length, c.Resolution)
	}
	if len(c.Layers) == 0 {
		return fmt.Errorf("at least one layer is required")
	}
	for _, name := range c.BasicLayers {
		if !slices.Contains(c.Layers, name) {
			return fmt.Errorf("basic layer %q: %w", name, ErrLayerNotFound)
		}
	}
	for name := range c.Sentinels {
		if !slices.Contains(c.Layers, name) {
			return fmt.Errorf("sentinel for layer %q: %w", name, ErrLayerNotFound)
		}
	}
	return nil
}

// Build validates the configuration and returns a grid with its geometry set
// and every layer filled with its sentinel.
func (c *GridConfig) Build() (*Grid, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid config: %w", err)
	}
	g := New(c.Layers...)
	g.SetFrameID(c.FrameID)
	for name, v := range c.Sentinels {
		g.layers[name].sentinel = v
	}
	g.SetGeometry(c.Length, c.Resolution, c.Position)
	if err := g.SetBasicLayers(c.BasicLayers...); err != nil {
		return nil, err
	}
	return g, nil
}

// WithLength sets the side lengths in metres.
func (c *GridConfig) WithLength(x, y float64) *GridConfig {
	c.Length = Length{X: x, Y: y}
	return c
}

// WithResolution sets the cell side in metres.
func (c *GridConfig) WithResolution(r float64) *GridConfig {
	c.Resolution = r
	return c
}

// WithPosition sets the world position of the map centre.
func (c *GridConfig) WithPosition(x, y float64) *GridConfig {
	c.Position = Position{X: x, Y: y}
	return c
}

// WithFrameID sets the frame the map is expressed in.
func (c *GridConfig) WithFrameID(id FrameID) *GridConfig {
	c.FrameID = id
	return c
}

// WithLayers replaces the layer list.
func (c *GridConfig) WithLayers(names ...string) *GridConfig {
	c.Layers = slices.Clone(names)
	return c
}

// WithBasicLayers replaces the basic layer list.
func (c *GridConfig) WithBasicLayers(names ...string) *GridConfig {
	c.BasicLayers = slices.Clone(names)
	return c
}

// WithSentinel overrides the "no information" value of a layer.
func (c *GridConfig) WithSentinel(name string, v float32) *GridConfig {
	if c.Sentinels == nil {
		c.Sentinels = make(map[string]float32)
	}
	c.Sentinels[name] = v
	return c
}
