package engine

import (
	"time"

	"github.com/san-kum/rubix/internal/config"
	"github.com/san-kum/rubix/internal/paint"
	"github.com/san-kum/rubix/internal/turn"
)

// Offline drives an Engine on virtual time: each Frame advances the clock by
// one frame interval before drawing, so output depends only on the seed.
type Offline struct {
	*Engine
	sched    *turn.VirtualScheduler
	interval time.Duration
}

// NewOffline builds an engine whose timers run on a VirtualScheduler.
func NewOffline(cfg *config.Config, opts ...Option) (*Offline, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	sched := turn.NewVirtualScheduler()
	opts = append(opts, WithScheduler(sched))
	e, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Offline{Engine: e, sched: sched, interval: cfg.FrameInterval()}, nil
}

// Frame fires due timers for one frame interval, then advances and renders.
func (o *Offline) Frame(s paint.Surface) error {
	o.sched.Tick(o.interval)
	return o.AdvanceAndRender(s)
}

// Step is Frame without drawing.
func (o *Offline) Step() error {
	o.sched.Tick(o.interval)
	return o.Advance()
}

// Elapse fires due timers for d, letting a host that measures its own frame
// time drive the clock.
func (o *Offline) Elapse(d time.Duration) {
	o.sched.Tick(d)
}

// Elapsed returns the virtual time since the engine started.
func (o *Offline) Elapsed() time.Duration { return o.sched.Now() }
