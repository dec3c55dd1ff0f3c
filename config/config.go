// Package config holds the settings threaded into figure-producing calls.
package config

import "os"

// EnvScratch names the environment variable that overrides the scratch
// directory used for saved figures.
const EnvScratch = "ECO_SCRATCH"

const defaultScratch = "./scratch"

// Config is passed explicitly to plotting functions; there is no
// package-level mutable state.
type Config struct {
	// ScratchDir is where saved figures are written. It is not validated
	// here; an unwritable directory surfaces as an error at save time.
	ScratchDir string

	// DPI is the raster resolution of saved figures.
	DPI int
}

// Default returns the built-in settings.
func Default() Config {
	return Config{ScratchDir: defaultScratch, DPI: 300}
}

// FromEnv returns the default settings with the scratch directory taken
// from ECO_SCRATCH when set. A scratch directory that does not exist falls
// back to the current directory.
func FromEnv() Config {
	cfg := Default()
	if dir := os.Getenv(EnvScratch); dir != "" {
		cfg.ScratchDir = dir
	}
	if _, err := os.Stat(cfg.ScratchDir); err != nil {
		cfg.ScratchDir = "."
	}
	return cfg
}
