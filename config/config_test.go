package config

import "testing"

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ScratchDir != "./scratch" {
		t.Errorf("ScratchDir = %q", cfg.ScratchDir)
	}
	if cfg.DPI != 300 {
		t.Errorf("DPI = %d", cfg.DPI)
	}
}

func TestFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvScratch, dir)
	if got := FromEnv().ScratchDir; got != dir {
		t.Errorf("ScratchDir = %q, want %q", got, dir)
	}
}

func TestFromEnvMissingDirFallsBack(t *testing.T) {
	t.Setenv(EnvScratch, "/no/such/directory")
	if got := FromEnv().ScratchDir; got != "." {
		t.Errorf("ScratchDir = %q, want .", got)
	}
}

func TestFromEnvUnset(t *testing.T) {
	t.Setenv(EnvScratch, "")
	cfg := FromEnv()
	// ./scratch rarely exists in a test working directory, so the fallback
	// applies; either way the result must be usable.
	if cfg.ScratchDir != "." && cfg.ScratchDir != "./scratch" {
		t.Errorf("ScratchDir = %q", cfg.ScratchDir)
	}
	if cfg.DPI != 300 {
		t.Errorf("DPI = %d", cfg.DPI)
	}
}
