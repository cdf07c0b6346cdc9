package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/san-kum/rubix/internal/config"
	"github.com/san-kum/rubix/internal/geom"
	"github.com/san-kum/rubix/internal/lattice"
	"github.com/san-kum/rubix/internal/paint"
	"github.com/san-kum/rubix/internal/scene"
	"github.com/san-kum/rubix/internal/turn"
)

// Snapshot describes the engine after a frame.
type Snapshot struct {
	Frame        uint64
	Turns        int
	State        turn.State
	Active       turn.Active
	Orientation  scene.Orientation
	VisibleFaces int
}

// Observer is notified after every rendered frame, on the frame's goroutine.
type Observer interface {
	OnFrame(s Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnFrame(s Snapshot) { f(s) }

type options struct {
	sched     turn.Scheduler
	rng       *rand.Rand
	logger    *slog.Logger
	observers []Observer
}

// Option configures New.
type Option func(*options)

// WithScheduler sets the source of cooldown timers. The default runs on the
// wall clock.
func WithScheduler(s turn.Scheduler) Option { return func(o *options) { o.sched = s } }

// WithRand sets the random source for colors and turn selection. The default
// is seeded from the config, or from the clock when the seed is zero.
func WithRand(r *rand.Rand) Option { return func(o *options) { o.rng = r } }

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

// Engine is one independent cube animation.
type Engine struct {
	mu        sync.Mutex
	cfg       config.Config
	log       *slog.Logger
	lat       *lattice.Lattice
	turns     *turn.Machine
	orient    scene.Orientation
	builder   scene.Builder
	painter   paint.Painter
	observers []Observer

	frame   uint64
	visible int
	closed  bool
}

// New builds an engine from cfg and arms its first turn.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		o.rng = rand.New(rand.NewSource(seed))
	}
	if o.sched == nil {
		o.sched = turn.RealScheduler{}
	}

	palette := cfg.PaletteValue()
	policy := cfg.ColorPolicy()
	geometry := scene.NewGeometry(cfg.Size, cfg.CubeRatio, cfg.Gap)

	e := &Engine{
		cfg:       *cfg,
		log:       o.logger,
		observers: o.observers,
		orient:    scene.Orientation{RotX: cfg.Tilt, RotY: cfg.Yaw},
		builder: scene.Builder{
			Geometry: geometry,
			Projection: geom.Projection{
				Mode:  cfg.ProjectionMode(),
				Focal: cfg.FocalRatio * cfg.Size,
			},
			FixedColors: policy == lattice.Fixed,
		},
		painter: paint.Painter{
			Palette:     palette,
			MinAlpha:    cfg.MinAlpha,
			StrokeWidth: cfg.StrokeWidth,
			Extent:      geometry.Extent(),
		},
	}
	e.lat = lattice.New(
		lattice.WithPolicy(policy),
		lattice.WithPaletteSize(palette.Len()),
		lattice.WithFaceTracking(cfg.TrackFaces),
		lattice.WithRand(o.rng),
	)
	e.turns = turn.New(e.lat, o.rng, o.sched,
		turn.WithStep(cfg.AngularStep),
		turn.WithCooldown(cfg.Cooldown),
		turn.WithStartDelay(cfg.StartDelay),
		turn.WithCommitHook(func(mv lattice.Move) {
			e.log.Debug("turn committed", "move", mv.String())
		}),
	)
	e.turns.Start()

	e.log.Info("engine started",
		"size", cfg.Size,
		"projection", cfg.Projection,
		"colors", cfg.Colors,
		"palette", palette.Name,
		"track_faces", cfg.TrackFaces)
	return e, nil
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// Advance moves the animation forward one frame without drawing.
func (e *Engine) Advance() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.advanceLocked()
	e.visible = len(e.buildLocked())
	e.notifyLocked()
	return nil
}

// AdvanceAndRender moves the animation forward one frame and paints it onto s.
func (e *Engine) AdvanceAndRender(s paint.Surface) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if s == nil {
		return ErrSurfaceUnavailable
	}
	e.advanceLocked()
	if err := e.renderLocked(s); err != nil {
		return err
	}
	e.notifyLocked()
	return nil
}

// Render paints the current frame onto s without advancing.
func (e *Engine) Render(s paint.Surface) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if s == nil {
		return ErrSurfaceUnavailable
	}
	return e.renderLocked(s)
}

// Faces returns the visible faces of the current frame, far to near.
func (e *Engine) Faces() []scene.Face {
	e.mu.Lock()
	defer e.mu.Unlock()
	faces := append([]scene.Face(nil), e.buildLocked()...)
	paint.SortByDepth(faces)
	return faces
}

// Lattice returns a copy of every cubelet.
func (e *Engine) Lattice() []lattice.Cubelet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lat.Cubelets()
}

// Validate checks the lattice invariant.
func (e *Engine) Validate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lat.Validate()
}

// Snapshot reports the state after the last frame.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Close stops the turn machine and cancels its pending timer. Further frame
// requests return ErrClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.turns.Stop()
	e.log.Info("engine closed", "frames", e.frame, "turns", e.turns.Turns())
}

func (e *Engine) advanceLocked() {
	e.frame++
	e.orient.Drift(e.cfg.Drift)
	e.turns.Advance()
}

func (e *Engine) buildLocked() []scene.Face {
	var active *turn.Active
	if a, ok := e.turns.Active(); ok {
		active = &a
	}
	return e.builder.Build(e.lat.Cubelets(), active, e.orient)
}

func (e *Engine) renderLocked(s paint.Surface) error {
	faces := e.buildLocked()
	e.visible = len(faces)
	if err := e.painter.Paint(s, faces); err != nil {
		e.log.Warn("paint failed", "frame", e.frame, "err", err)
		return &FrameError{Frame: e.frame, Wrapped: fmt.Errorf("paint: %w", err)}
	}
	return nil
}

func (e *Engine) snapshotLocked() Snapshot {
	a, _ := e.turns.Active()
	return Snapshot{
		Frame:        e.frame,
		Turns:        e.turns.Turns(),
		State:        e.turns.State(),
		Active:       a,
		Orientation:  e.orient,
		VisibleFaces: e.visible,
	}
}

func (e *Engine) notifyLocked() {
	if len(e.observers) == 0 {
		return
	}
	s := e.snapshotLocked()
	for _, o := range e.observers {
		o.OnFrame(s)
	}
}
