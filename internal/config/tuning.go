package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical costmap defaults file.
const DefaultConfigPath = "config/costmap.defaults.json"

// CostmapConfig is the file-level description of a grid: geometry, layers,
// sentinels and snapshot persistence. Fields are pointers so partial files
// keep the defaults returned by the Get* methods.
type CostmapConfig struct {
	// Geometry
	LengthX    *float64 `json:"length_x,omitempty" yaml:"length_x,omitempty"`
	LengthY    *float64 `json:"length_y,omitempty" yaml:"length_y,omitempty"`
	Resolution *float64 `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	PositionX  *float64 `json:"position_x,omitempty" yaml:"position_x,omitempty"`
	PositionY  *float64 `json:"position_y,omitempty" yaml:"position_y,omitempty"`
	FrameID    *string  `json:"frame_id,omitempty" yaml:"frame_id,omitempty"`

	// Layers
	Layers         []string           `json:"layers,omitempty" yaml:"layers,omitempty"`
	BasicLayers    []string           `json:"basic_layers,omitempty" yaml:"basic_layers,omitempty"`
	LayerSentinels map[string]float64 `json:"layer_sentinels,omitempty" yaml:"layer_sentinels,omitempty"`

	// Snapshot persistence
	SnapshotDBPath *string `json:"snapshot_db_path,omitempty" yaml:"snapshot_db_path,omitempty"`
	SnapshotReason *string `json:"snapshot_reason,omitempty" yaml:"snapshot_reason,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// EmptyCostmapConfig returns a CostmapConfig with all fields unset.
func EmptyCostmapConfig() *CostmapConfig {
	return &CostmapConfig{}
}

// DefaultCostmapConfig returns a config with every field set to its default.
func DefaultCostmapConfig() *CostmapConfig {
	return &CostmapConfig{
		LengthX:        ptrFloat64(10.0),
		LengthY:        ptrFloat64(10.0),
		Resolution:     ptrFloat64(0.05),
		PositionX:      ptrFloat64(0),
		PositionY:      ptrFloat64(0),
		FrameID:        ptrString("map"),
		Layers:         []string{"cost"},
		BasicLayers:    []string{"cost"},
		SnapshotDBPath: ptrString("costmap.db"),
		SnapshotReason: ptrString("manual"),
	}
}

// LoadCostmapConfig loads a CostmapConfig from a .json, .yaml or .yml file.
// Fields omitted from the file keep their defaults, so partial configs are
// safe.
func LoadCostmapConfig(path string) (*CostmapConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyCostmapConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *CostmapConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/storage/sqlite/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadCostmapConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values are usable.
func (c *CostmapConfig) Validate() error {
	if c.LengthX != nil && *c.LengthX <= 0 {
		return fmt.Errorf("length_x must be positive, got %f", *c.LengthX)
	}
	if c.LengthY != nil && *c.LengthY <= 0 {
		return fmt.Errorf("length_y must be positive, got %f", *c.LengthY)
	}
	if c.Resolution != nil && *c.Resolution <= 0 {
		return fmt.Errorf("resolution must be positive, got %f", *c.Resolution)
	}

	layers := make(map[string]bool)
	for _, l := range c.GetLayers() {
		if l == "" {
			return fmt.Errorf("layer names must not be empty")
		}
		layers[l] = true
	}
	for _, l := range c.GetBasicLayers() {
		if !layers[l] {
			return fmt.Errorf("basic layer %q is not listed in layers", l)
		}
	}
	for l := range c.LayerSentinels {
		if !layers[l] {
			return fmt.Errorf("sentinel given for unknown layer %q", l)
		}
	}
	return nil
}

// GetLengthX returns the length_x value or the default.
func (c *CostmapConfig) GetLengthX() float64 {
	if c.LengthX == nil {
		return 10.0
	}
	return *c.LengthX
}

// GetLengthY returns the length_y value or the default.
func (c *CostmapConfig) GetLengthY() float64 {
	if c.LengthY == nil {
		return 10.0
	}
	return *c.LengthY
}

// GetResolution returns the resolution value or the default.
func (c *CostmapConfig) GetResolution() float64 {
	if c.Resolution == nil {
		return 0.05
	}
	return *c.Resolution
}

// GetPositionX returns the position_x value or the default.
func (c *CostmapConfig) GetPositionX() float64 {
	if c.PositionX == nil {
		return 0
	}
	return *c.PositionX
}

// GetPositionY returns the position_y value or the default.
func (c *CostmapConfig) GetPositionY() float64 {
	if c.PositionY == nil {
		return 0
	}
	return *c.PositionY
}

// GetFrameID returns the frame_id value or the default.
func (c *CostmapConfig) GetFrameID() string {
	if c.FrameID == nil {
		return "map"
	}
	return *c.FrameID
}

// GetLayers returns the layers or the default single "cost" layer.
func (c *CostmapConfig) GetLayers() []string {
	if len(c.Layers) == 0 {
		return []string{"cost"}
	}
	return c.Layers
}

// GetBasicLayers returns the basic layers. When no layers are configured the
// default "cost" layer is basic; otherwise an unset list means none.
func (c *CostmapConfig) GetBasicLayers() []string {
	if c.BasicLayers == nil && len(c.Layers) == 0 {
		return []string{"cost"}
	}
	return c.BasicLayers
}

// GetLayerSentinel returns the configured sentinel for a layer and whether
// one was set.
func (c *CostmapConfig) GetLayerSentinel(layer string) (float64, bool) {
	v, ok := c.LayerSentinels[layer]
	return v, ok
}

// GetSnapshotDBPath returns the snapshot_db_path value or the default.
func (c *CostmapConfig) GetSnapshotDBPath() string {
	if c.SnapshotDBPath == nil || *c.SnapshotDBPath == "" {
		return "costmap.db"
	}
	return *c.SnapshotDBPath
}

// GetSnapshotReason returns the snapshot_reason value or the default.
func (c *CostmapConfig) GetSnapshotReason() string {
	if c.SnapshotReason == nil || *c.SnapshotReason == "" {
		return "manual"
	}
	return *c.SnapshotReason
}
