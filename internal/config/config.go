// Package config handles demo configuration loading and management.
package config

// Config holds all demo settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Demo      DemoConfig      `yaml:"demo"`
	Assets    AssetsConfig    `yaml:"assets"`
	Bloom     BloomConfig     `yaml:"bloom"`
	Outline   OutlineConfig   `yaml:"outline"`
	Character CharacterConfig `yaml:"character"`
	Texture   TextureConfig   `yaml:"texture"`
	Audio     AudioConfig     `yaml:"audio"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	Headless   bool    `yaml:"headless"` // Run without a window (simulation only)
	FOV        float32 `yaml:"fov"`      // Vertical field of view in degrees
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
	Samples    int     `yaml:"samples"`     // MSAA samples, 0 disables
	Shadows    bool    `yaml:"shadows"`     // Sun shadow mapping
	ShadowSize int     `yaml:"shadow_size"` // Shadow map resolution
}

// PhysicsConfig holds rigid-body simulation settings.
type PhysicsConfig struct {
	Gravity     [3]float32 `yaml:"gravity"`
	MaxStep     float64    `yaml:"max_step"` // Upper bound for a single frame's step, seconds
	SubStep     float64    `yaml:"sub_step"` // Largest internal integration step, seconds
	Iterations  int        `yaml:"solver_iterations"`
	Restitution float32    `yaml:"restitution"`
	Friction    float32    `yaml:"friction"`
}

// DemoConfig selects and parameterizes the demo to run.
type DemoConfig struct {
	Name          string     `yaml:"name"`
	Frames        int        `yaml:"frames"` // Stop after N frames (0 = run until closed)
	HeadlessFPS   int        `yaml:"headless_fps"`
	ShowColliders bool       `yaml:"show_colliders"`
	ShowAxes      bool       `yaml:"show_axes"`
	SphereRadius  float32    `yaml:"sphere_radius"`
	SphereMass    float32    `yaml:"sphere_mass"`
	SphereDrop    float32    `yaml:"sphere_drop_height"`
	Seed          int64      `yaml:"seed"` // 0 = random
	CameraPos     [3]float32 `yaml:"camera_position"`
}

// AssetsConfig holds asset locations, relative to Root.
type AssetsConfig struct {
	Root          string   `yaml:"root"`
	GroundModel   string   `yaml:"ground_model"`
	BloomModels   []string `yaml:"bloom_models"`
	OutlineModels []string `yaml:"outline_models"`
	Character     string   `yaml:"character_model"`
	Texture       string   `yaml:"texture"`
}

// BloomConfig holds bloom post-processing parameters.
type BloomConfig struct {
	Threshold float32 `yaml:"threshold"`
	Strength  float32 `yaml:"strength"`
	Radius    float32 `yaml:"radius"`
	Exposure  float32 `yaml:"exposure"`
	Levels    int     `yaml:"levels"`
}

// OutlineConfig holds outline post-processing parameters.
type OutlineConfig struct {
	EdgeStrength  float32 `yaml:"edge_strength"`
	EdgeGlow      float32 `yaml:"edge_glow"`
	EdgeThickness float32 `yaml:"edge_thickness"`
	PulsePeriod   float32 `yaml:"pulse_period"`
	VisibleColor  uint32  `yaml:"visible_color"`
	HiddenColor   uint32  `yaml:"hidden_color"`
	Target        string  `yaml:"target"` // Ancestor node name that gets outlined
}

// CharacterConfig holds skinned-character demo settings.
type CharacterConfig struct {
	Clip      int     `yaml:"clip"`      // Clip index played on load
	SwitchTo  int     `yaml:"switch_to"` // Clip index cross-faded to on click
	CrossFade float64 `yaml:"crossfade"` // Seconds
	Skeleton  bool    `yaml:"show_skeleton"`
}

// TextureConfig holds scrolling-texture demo settings.
type TextureConfig struct {
	ScrollSpeed [2]float32 `yaml:"scroll_speed"` // UV units per frame
	PlaneSize   float32    `yaml:"plane_size"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Volume    float32 `yaml:"volume"`
	SFXVolume float32 `yaml:"sfx_volume"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOV:        75,
			Near:       0.1,
			Far:        1000,
			Samples:    4,
			Shadows:    true,
			ShadowSize: 2048,
		},
		Physics: PhysicsConfig{
			Gravity:     [3]float32{0, -9.82, 0},
			MaxStep:     0.1,
			SubStep:     1.0 / 60.0,
			Iterations:  10,
			Restitution: 0,
			Friction:    0.3,
		},
		Demo: DemoConfig{
			Name:         "cannon",
			HeadlessFPS:  60,
			ShowAxes:     true,
			SphereRadius: 1,
			SphereMass:   5,
			SphereDrop:   10,
			CameraPos:    [3]float32{0, 50, 0},
		},
		Assets: AssetsConfig{
			Root:          "assets",
			GroundModel:   "models/temp.glb",
			BloomModels:   []string{"models/1.glb", "models/2.glb", "models/3.glb"},
			OutlineModels: []string{"models/1.glb", "models/2.glb", "models/3.glb"},
			Character:     "models/Fox.glb",
			Texture:       "images/1.png",
		},
		Bloom: BloomConfig{
			Threshold: 3,
			Strength:  2,
			Radius:    1,
			Exposure:  1,
			Levels:    5,
		},
		Outline: OutlineConfig{
			EdgeStrength:  3,
			EdgeGlow:      0.5,
			EdgeThickness: 3,
			PulsePeriod:   2,
			VisibleColor:  0xa020f0,
			HiddenColor:   0x000000,
			Target:        "Sphere_4",
		},
		Character: CharacterConfig{
			Clip:      2,
			SwitchTo:  0,
			CrossFade: 1,
			Skeleton:  true,
		},
		Texture: TextureConfig{
			ScrollSpeed: [2]float32{0.01, 0},
			PlaneSize:   10,
		},
		Audio: AudioConfig{
			Enabled:   false,
			Volume:    0.8,
			SFXVolume: 1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
