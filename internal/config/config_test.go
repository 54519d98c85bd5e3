package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Graphics.Headless {
		t.Error("expected headless to be false by default")
	}

	// Test physics defaults
	if cfg.Physics.Gravity != [3]float32{0, -9.82, 0} {
		t.Errorf("expected gravity (0,-9.82,0), got %v", cfg.Physics.Gravity)
	}
	if cfg.Physics.MaxStep != 0.1 {
		t.Errorf("expected max step 0.1, got %f", cfg.Physics.MaxStep)
	}
	if cfg.Physics.SubStep <= 0 || cfg.Physics.SubStep > cfg.Physics.MaxStep {
		t.Errorf("sub step %f out of range", cfg.Physics.SubStep)
	}

	// Test demo defaults
	if cfg.Demo.Name != "cannon" {
		t.Errorf("expected demo 'cannon', got %s", cfg.Demo.Name)
	}
	if cfg.Demo.SphereMass != 5 || cfg.Demo.SphereRadius != 1 || cfg.Demo.SphereDrop != 10 {
		t.Errorf("unexpected sphere defaults: %+v", cfg.Demo)
	}

	// Test post-processing defaults
	if cfg.Bloom.Threshold != 3 || cfg.Bloom.Strength != 2 || cfg.Bloom.Radius != 1 {
		t.Errorf("unexpected bloom defaults: %+v", cfg.Bloom)
	}
	if cfg.Outline.Target != "Sphere_4" {
		t.Errorf("expected outline target Sphere_4, got %s", cfg.Outline.Target)
	}
	if cfg.Outline.VisibleColor != 0xa020f0 {
		t.Errorf("expected visible color 0xa020f0, got %#x", cfg.Outline.VisibleColor)
	}

	// Test audio defaults
	if cfg.Audio.Volume != 0.8 {
		t.Errorf("expected volume 0.8, got %f", cfg.Audio.Volume)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

physics:
  gravity: [0, -1.62, 0]
  max_step: 0.05
  solver_iterations: 20

demo:
  name: "outline"
  frames: 120
  show_colliders: true

bloom:
  threshold: 1.5

character:
  crossfade: 0.25

texture:
  scroll_speed: [0, 0.02]

audio:
  enabled: true
  volume: 0.5

logging:
  level: "debug"
  log_file: "demos.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Physics.Gravity[1] != -1.62 {
		t.Errorf("expected gravity y -1.62, got %f", cfg.Physics.Gravity[1])
	}
	if cfg.Physics.MaxStep != 0.05 {
		t.Errorf("expected max step 0.05, got %f", cfg.Physics.MaxStep)
	}
	if cfg.Physics.Iterations != 20 {
		t.Errorf("expected 20 iterations, got %d", cfg.Physics.Iterations)
	}
	// Unset keys keep their defaults
	if cfg.Physics.Friction != 0.3 {
		t.Errorf("expected default friction 0.3, got %f", cfg.Physics.Friction)
	}

	if cfg.Demo.Name != "outline" || cfg.Demo.Frames != 120 || !cfg.Demo.ShowColliders {
		t.Errorf("unexpected demo section: %+v", cfg.Demo)
	}
	if cfg.Bloom.Threshold != 1.5 {
		t.Errorf("expected bloom threshold 1.5, got %f", cfg.Bloom.Threshold)
	}
	if cfg.Bloom.Strength != 2 {
		t.Errorf("expected default bloom strength 2, got %f", cfg.Bloom.Strength)
	}
	if cfg.Character.CrossFade != 0.25 {
		t.Errorf("expected crossfade 0.25, got %f", cfg.Character.CrossFade)
	}
	if cfg.Texture.ScrollSpeed != [2]float32{0, 0.02} {
		t.Errorf("expected scroll speed (0,0.02), got %v", cfg.Texture.ScrollSpeed)
	}

	if !cfg.Audio.Enabled || cfg.Audio.Volume != 0.5 {
		t.Errorf("unexpected audio section: %+v", cfg.Audio)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "demos.log" {
		t.Errorf("expected log file 'demos.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv(EnvConfig, "")

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config) error
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) error {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				return nil
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "demo flag",
			setup: func() {
				*flagDemo = "bloom"
			},
			verify: func(cfg *Config) error {
				if cfg.Demo.Name != "bloom" {
					t.Errorf("expected demo bloom, got %s", cfg.Demo.Name)
				}
				return nil
			},
			teardown: func() {
				*flagDemo = ""
			},
		},
		{
			name: "headless and frames flags",
			setup: func() {
				*flagHeadless = true
				*flagFrames = 300
			},
			verify: func(cfg *Config) error {
				if !cfg.Graphics.Headless {
					t.Error("expected headless with headless flag")
				}
				if cfg.Demo.Frames != 300 {
					t.Errorf("expected 300 frames, got %d", cfg.Demo.Frames)
				}
				return nil
			},
			teardown: func() {
				*flagHeadless = false
				*flagFrames = 0
			},
		},
		{
			name: "assets flag",
			setup: func() {
				*flagAssets = "/srv/demo-assets"
			},
			verify: func(cfg *Config) error {
				if cfg.Assets.Root != "/srv/demo-assets" {
					t.Errorf("expected asset root /srv/demo-assets, got %s", cfg.Assets.Root)
				}
				return nil
			},
			teardown: func() {
				*flagAssets = ""
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) error {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
				return nil
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) error {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
				return nil
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) error {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
				return nil
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Demo.Name = "texture"
	cfg.Texture.ScrollSpeed = [2]float32{0.5, 0.25}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Demo.Name != "texture" {
		t.Errorf("expected demo texture, got %s", loaded.Demo.Name)
	}
	if loaded.Texture.ScrollSpeed != cfg.Texture.ScrollSpeed {
		t.Errorf("expected scroll speed %v, got %v", cfg.Texture.ScrollSpeed, loaded.Texture.ScrollSpeed)
	}
}

func TestFindConfigFileFromEnv(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("demo:\n  name: bloom\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, path)

	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("graphics:\n  widht: 800\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := loadFromFile(Default(), path); err == nil {
		t.Error("expected error for misspelt key")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("empty file: %v", err)
	}
	if cfg.Demo.Name != "cannon" {
		t.Errorf("defaults changed by empty file: %s", cfg.Demo.Name)
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }},
		{"far before near", func(c *Config) { c.Graphics.Far = 0.01 }},
		{"shadow size", func(c *Config) { c.Graphics.ShadowSize = 0 }},
		{"sub step", func(c *Config) { c.Physics.SubStep = 0 }},
		{"restitution", func(c *Config) { c.Physics.Restitution = 1.5 }},
		{"empty demo", func(c *Config) { c.Demo.Name = " " }},
		{"negative frames", func(c *Config) { c.Demo.Frames = -1 }},
		{"massless sphere", func(c *Config) { c.Demo.SphereMass = 0 }},
		{"volume", func(c *Config) { c.Audio.Volume = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Graphics.Width = 0
	cfg.Audio.Volume = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"graphics size", "audio.volume"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestShadowSizeIgnoredWhenShadowsOff(t *testing.T) {
	cfg := Default()
	cfg.Graphics.Shadows = false
	cfg.Graphics.ShadowSize = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
