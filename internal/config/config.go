package config

import "os"

// Config carries the run settings for one invocation. Flags override the
// derived defaults.
type Config struct {
	// Display is the Wayland display name to connect to; empty means the
	// transport's default resolution.
	Display string
	// StateFile is the path used to save modes (fullscreen) or load them
	// (restore). Empty disables saving; restore requires it.
	StateFile string
}

func DefaultConfig() Config {
	return Config{
		Display: os.Getenv("WAYLAND_DISPLAY"),
	}
}
