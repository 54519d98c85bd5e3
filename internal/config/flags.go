package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagDemo       = flag.String("demo", "", "Demo to run (bloom, outline, character, texture, cannon)")
	flagHeadless   = flag.Bool("headless", false, "Run without a window")
	flagFrames     = flag.Int("frames", 0, "Stop after this many frames")
	flagColliders  = flag.Bool("colliders", false, "Draw physics collider wireframes")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagAssets     = flag.String("assets", "", "Asset root directory")
	flagList       = flag.Bool("list", false, "List registered demos and exit")
	flagWrite      = flag.String("write-config", "", "Write the effective config to this path (- for stdout) and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ListDemos reports whether --list was given.
func ListDemos() bool {
	return *flagList
}

// WriteConfigPath returns the --write-config destination, if any.
func WriteConfigPath() string {
	return *flagWrite
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDemo != "" {
		cfg.Demo.Name = *flagDemo
	}
	if *flagHeadless {
		cfg.Graphics.Headless = true
	}
	if *flagFrames > 0 {
		cfg.Demo.Frames = *flagFrames
	}
	if *flagColliders {
		cfg.Demo.ShowColliders = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagAssets != "" {
		cfg.Assets.Root = *flagAssets
	}
}
