package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCostmapConfig(t *testing.T) {
	cfg := DefaultCostmapConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.GetLengthX() != 10.0 || cfg.GetLengthY() != 10.0 {
		t.Errorf("Expected 10x10 length, got %vx%v", cfg.GetLengthX(), cfg.GetLengthY())
	}
	if cfg.GetResolution() != 0.05 {
		t.Errorf("Expected resolution 0.05, got %v", cfg.GetResolution())
	}
	if cfg.GetFrameID() != "map" {
		t.Errorf("Expected frame 'map', got %q", cfg.GetFrameID())
	}
}

func TestEmptyConfigUsesDefaults(t *testing.T) {
	cfg := EmptyCostmapConfig()
	if cfg.GetResolution() != 0.05 {
		t.Errorf("Expected default resolution, got %v", cfg.GetResolution())
	}
	if got := cfg.GetLayers(); len(got) != 1 || got[0] != "cost" {
		t.Errorf("Expected default layers [cost], got %v", got)
	}
	if got := cfg.GetBasicLayers(); len(got) != 1 || got[0] != "cost" {
		t.Errorf("Expected default basic layers [cost], got %v", got)
	}
	if cfg.GetSnapshotDBPath() != "costmap.db" {
		t.Errorf("Expected default db path, got %q", cfg.GetSnapshotDBPath())
	}
	if cfg.GetSnapshotReason() != "manual" {
		t.Errorf("Expected default reason, got %q", cfg.GetSnapshotReason())
	}
}

func TestLoadCostmapConfigJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "costmap.json")

	content := `{
  "length_x": 4.0,
  "resolution": 0.5,
  "position_x": 1.5,
  "frame_id": "odom",
  "layers": ["cost", "height"],
  "basic_layers": ["cost"],
  "layer_sentinels": {"height": -1}
}`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadCostmapConfig(configPath)
	if err != nil {
		t.Fatalf("LoadCostmapConfig failed: %v", err)
	}
	if cfg.GetLengthX() != 4.0 {
		t.Errorf("Expected length_x 4, got %v", cfg.GetLengthX())
	}
	// Omitted field keeps its default.
	if cfg.GetLengthY() != 10.0 {
		t.Errorf("Expected default length_y 10, got %v", cfg.GetLengthY())
	}
	if cfg.GetPositionX() != 1.5 || cfg.GetPositionY() != 0 {
		t.Errorf("Unexpected position (%v, %v)", cfg.GetPositionX(), cfg.GetPositionY())
	}
	if cfg.GetFrameID() != "odom" {
		t.Errorf("Expected frame 'odom', got %q", cfg.GetFrameID())
	}
	if v, ok := cfg.GetLayerSentinel("height"); !ok || v != -1 {
		t.Errorf("Expected height sentinel -1, got %v (set=%t)", v, ok)
	}
	if _, ok := cfg.GetLayerSentinel("cost"); ok {
		t.Error("Expected no sentinel override for cost")
	}
}

func TestLoadCostmapConfigYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "costmap.yaml")

	content := `length_x: 2.0
length_y: 3.0
resolution: 0.1
layers: [cost, elevation]
basic_layers: [elevation]
snapshot_db_path: /tmp/maps.db
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadCostmapConfig(configPath)
	if err != nil {
		t.Fatalf("LoadCostmapConfig failed: %v", err)
	}
	if cfg.GetLengthY() != 3.0 || cfg.GetResolution() != 0.1 {
		t.Errorf("Unexpected geometry %v/%v", cfg.GetLengthY(), cfg.GetResolution())
	}
	if got := cfg.GetBasicLayers(); len(got) != 1 || got[0] != "elevation" {
		t.Errorf("Expected basic layers [elevation], got %v", got)
	}
	if cfg.GetSnapshotDBPath() != "/tmp/maps.db" {
		t.Errorf("Unexpected db path %q", cfg.GetSnapshotDBPath())
	}
}

func TestLoadCostmapConfigMissing(t *testing.T) {
	_, err := LoadCostmapConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadCostmapConfigBadExtension(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "costmap.toml")
	if err := os.WriteFile(configPath, []byte("length_x = 1"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	if _, err := LoadCostmapConfig(configPath); err == nil {
		t.Error("Expected error for unsupported extension, got nil")
	}
}

func TestLoadCostmapConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.json")

	invalidJSON := `{
  "resolution": "fine"
`
	if err := os.WriteFile(configPath, []byte(invalidJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := LoadCostmapConfig(configPath); err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestLoadCostmapConfigRejectsInvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "costmap.json")
	if err := os.WriteFile(configPath, []byte(`{"resolution": 0}`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	if _, err := LoadCostmapConfig(configPath); err == nil {
		t.Error("Expected validation error for zero resolution, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *CostmapConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     DefaultCostmapConfig(),
			wantErr: false,
		},
		{
			name:    "empty config is valid",
			cfg:     &CostmapConfig{},
			wantErr: false,
		},
		{
			name:    "negative length",
			cfg:     &CostmapConfig{LengthX: ptrFloat64(-1)},
			wantErr: true,
		},
		{
			name:    "zero length y",
			cfg:     &CostmapConfig{LengthY: ptrFloat64(0)},
			wantErr: true,
		},
		{
			name:    "negative resolution",
			cfg:     &CostmapConfig{Resolution: ptrFloat64(-0.1)},
			wantErr: true,
		},
		{
			name:    "empty layer name",
			cfg:     &CostmapConfig{Layers: []string{"cost", ""}},
			wantErr: true,
		},
		{
			name: "basic layer not in layers",
			cfg: &CostmapConfig{
				Layers:      []string{"cost"},
				BasicLayers: []string{"height"},
			},
			wantErr: true,
		},
		{
			name: "sentinel for unknown layer",
			cfg: &CostmapConfig{
				Layers:         []string{"cost"},
				LayerSentinels: map[string]float64{"height": 0},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults file should validate: %v", err)
	}
	if cfg.GetResolution() <= 0 {
		t.Errorf("Expected positive resolution, got %v", cfg.GetResolution())
	}
	if len(cfg.GetLayers()) == 0 {
		t.Error("Expected defaults file to list layers")
	}
}
