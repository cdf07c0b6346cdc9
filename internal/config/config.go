package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/san-kum/rubix/internal/geom"
	"github.com/san-kum/rubix/internal/lattice"
	"github.com/san-kum/rubix/internal/paint"
	"github.com/san-kum/rubix/internal/scene"
	"github.com/san-kum/rubix/internal/turn"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid value")

const (
	DefaultSize       = 400.0
	DefaultFPS        = 60
	DefaultProjection = "orthographic"
	DefaultColors     = "random"
	DefaultPalette    = "blush"
)

type Config struct {
	Size        float64       `yaml:"size"`
	Projection  string        `yaml:"projection"`
	FocalRatio  float64       `yaml:"focal_ratio"`
	Colors      string        `yaml:"colors"`
	TrackFaces  bool          `yaml:"track_faces"`
	Palette     string        `yaml:"palette"`
	Seed        int64         `yaml:"seed"`
	FPS         int           `yaml:"fps"`
	AngularStep float64       `yaml:"angular_step"`
	Cooldown    time.Duration `yaml:"cooldown"`
	StartDelay  time.Duration `yaml:"start_delay"`
	Tilt        float64       `yaml:"tilt"`
	Yaw         float64       `yaml:"yaw"`
	Drift       float64       `yaml:"drift"`
	Gap         float64       `yaml:"gap"`
	CubeRatio   float64       `yaml:"cube_ratio"`
	MinAlpha    float64       `yaml:"min_alpha"`
	StrokeWidth float64       `yaml:"stroke_width"`
}

func DefaultConfig() *Config {
	return &Config{
		Size:        DefaultSize,
		Projection:  DefaultProjection,
		FocalRatio:  geom.DefaultFocalRatio,
		Colors:      DefaultColors,
		TrackFaces:  true,
		Palette:     DefaultPalette,
		FPS:         DefaultFPS,
		AngularStep: turn.DefaultStep,
		Cooldown:    turn.DefaultCooldown,
		StartDelay:  turn.DefaultStartDelay,
		Tilt:        scene.DefaultTilt,
		Yaw:         scene.DefaultYaw,
		Drift:       scene.DefaultDrift,
		Gap:         scene.DefaultGap,
		CubeRatio:   scene.DefaultCubeRatio,
		MinAlpha:    paint.DefaultMinAlpha,
		StrokeWidth: paint.DefaultStrokeWidth,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Encode writes cfg as yaml.
func Encode(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %v", ErrInvalid, c.Size)
	}
	if _, ok := geom.ParseProjection(c.Projection); !ok {
		return fmt.Errorf("%w: unknown projection %q", ErrInvalid, c.Projection)
	}
	if _, ok := lattice.ParseColorPolicy(c.Colors); !ok {
		return fmt.Errorf("%w: unknown color policy %q", ErrInvalid, c.Colors)
	}
	if _, ok := paint.LookupPalette(c.Palette); !ok {
		return fmt.Errorf("%w: unknown palette %q (available: %v)", ErrInvalid, c.Palette, paint.PaletteNames())
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	}
	if c.AngularStep <= 0 {
		return fmt.Errorf("%w: angular_step must be positive, got %v", ErrInvalid, c.AngularStep)
	}
	if c.Cooldown < 0 || c.StartDelay < 0 {
		return fmt.Errorf("%w: delays must not be negative", ErrInvalid)
	}
	if c.CubeRatio <= 0 || c.CubeRatio > 1 {
		return fmt.Errorf("%w: cube_ratio must be in (0, 1], got %v", ErrInvalid, c.CubeRatio)
	}
	if c.MinAlpha < 0 || c.MinAlpha > 1 {
		return fmt.Errorf("%w: min_alpha must be in [0, 1], got %v", ErrInvalid, c.MinAlpha)
	}
	return nil
}

// ProjectionMode returns the parsed projection.
func (c *Config) ProjectionMode() geom.ProjectionMode {
	m, _ := geom.ParseProjection(c.Projection)
	return m
}

// ColorPolicy returns the parsed color policy.
func (c *Config) ColorPolicy() lattice.ColorPolicy {
	p, _ := lattice.ParseColorPolicy(c.Colors)
	return p
}

// PaletteValue returns the configured palette, falling back to the default.
func (c *Config) PaletteValue() paint.Palette {
	if p, ok := paint.LookupPalette(c.Palette); ok {
		return p
	}
	p, _ := paint.LookupPalette(DefaultPalette)
	return p
}

// FrameInterval is the wall time of one frame.
func (c *Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.FPS)
}

// Clone returns a copy safe to modify.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
