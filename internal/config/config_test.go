package config

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/rubix/internal/geom"
	"github.com/san-kum/rubix/internal/lattice"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Size != DefaultSize {
		t.Errorf("expected size %v, got %v", DefaultSize, cfg.Size)
	}
	if !cfg.TrackFaces {
		t.Error("faces should be tracked by default")
	}
	if cfg.ProjectionMode() != geom.Orthographic {
		t.Error("default projection should be orthographic")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("classic")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.ColorPolicy() != lattice.Solved {
		t.Errorf("expected solved colors, got %s", cfg.Colors)
	}
	if cfg.ProjectionMode() != geom.Perspective {
		t.Error("classic should use perspective")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	if len(names) != 6 {
		t.Errorf("expected 6 presets, got %d", len(names))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestPresetDoesNotLeak(t *testing.T) {
	GetPreset("mono")
	if DefaultConfig().Colors != DefaultColors {
		t.Error("applying a preset changed the defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero size", func(c *Config) { c.Size = 0 }},
		{"bad projection", func(c *Config) { c.Projection = "fisheye" }},
		{"bad colors", func(c *Config) { c.Colors = "plaid" }},
		{"bad palette", func(c *Config) { c.Palette = "sepia" }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"zero step", func(c *Config) { c.AngularStep = 0 }},
		{"negative cooldown", func(c *Config) { c.Cooldown = -time.Second }},
		{"huge cube", func(c *Config) { c.CubeRatio = 2 }},
		{"alpha above one", func(c *Config) { c.MinAlpha = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubix.yaml")
	cfg := GetPreset("glass")
	cfg.Seed = 1234
	cfg.Cooldown = 250 * time.Millisecond

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip changed config:\n%+v\n%+v", cfg, loaded)
	}
}

func TestEncodeWritesDurations(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "cooldown: 400ms") || !strings.Contains(out, "projection: orthographic") {
		t.Errorf("unexpected yaml:\n%s", out)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("size: 200\npalette: neon\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Size != 200 || cfg.Palette != "neon" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.FPS != DefaultFPS || cfg.AngularStep <= 0 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("projection: fisheye\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestFrameInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FPS = 50
	if cfg.FrameInterval() != 20*time.Millisecond {
		t.Errorf("got %v", cfg.FrameInterval())
	}
}
