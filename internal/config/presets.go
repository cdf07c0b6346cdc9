package config

import "sort"

// Presets are the display variants of the loader, each a named configuration
// of one engine.
var Presets = map[string]func(*Config){
	// Random pastel faces that travel with their cubelets.
	"loader": func(c *Config) {},
	// One flat color per face direction; only positions are tracked.
	"mono": func(c *Config) {
		c.Colors = "fixed"
		c.Palette = "mono"
		c.TrackFaces = false
	},
	"perspective": func(c *Config) {
		c.Projection = "perspective"
	},
	// Colors stay put while cubelets move.
	"positions": func(c *Config) {
		c.TrackFaces = false
	},
	// Starts solved and scrambles itself.
	"classic": func(c *Config) {
		c.Colors = "solved"
		c.Palette = "classic"
		c.Projection = "perspective"
		c.MinAlpha = 0.85
	},
	"glass": func(c *Config) {
		c.Palette = "neon"
		c.MinAlpha = 0.35
		c.StrokeWidth = 1
		c.Gap = 6
	},
}

// GetPreset returns the default config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
