// Package turn drives the cube's layer turns: when idle it waits for a
// cooldown timer, then picks a random layer and sweeps it through a quarter
// turn one frame at a time, committing the result to the lattice at the end.
package turn

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/san-kum/rubix/internal/geom"
	"github.com/san-kum/rubix/internal/lattice"
)

// Target is the angle at which a turn completes.
const Target = math.Pi / 2

const (
	DefaultStep       = 0.08
	DefaultCooldown   = 400 * time.Millisecond
	DefaultStartDelay = 500 * time.Millisecond
)

// State is the machine's phase.
type State int

const (
	Idle State = iota
	Turning
)

func (s State) String() string {
	if s == Turning {
		return "turning"
	}
	return "idle"
}

// Active is the turn in progress.
type Active struct {
	lattice.Move
	Angle float64
}

// Progress returns Angle as a fraction of Target, clamped to [0, 1].
func (a Active) Progress() float64 {
	return math.Min(1, math.Max(0, a.Angle/Target))
}

// Machine owns the Idle/Turning state for one lattice. Advance is called once
// per frame; the Scheduler's callback may run on any goroutine.
type Machine struct {
	mu         sync.Mutex
	lat        *lattice.Lattice
	rng        *rand.Rand
	sched      Scheduler
	step       float64
	cooldown   time.Duration
	startDelay time.Duration
	onCommit   func(lattice.Move)

	active  *Active
	timer   Timer
	gen     uint64
	started bool
	stopped bool
	turns   int
}

// Option configures a Machine.
type Option func(*Machine)

// WithStep sets the angle added per frame.
func WithStep(step float64) Option { return func(m *Machine) { m.step = step } }

// WithCooldown sets the delay between a commit and the next turn.
func WithCooldown(d time.Duration) Option { return func(m *Machine) { m.cooldown = d } }

// WithStartDelay sets the delay before the first turn.
func WithStartDelay(d time.Duration) Option { return func(m *Machine) { m.startDelay = d } }

// WithCommitHook registers fn to run after each commit, under the machine's
// lock. fn must not call back into the Machine.
func WithCommitHook(fn func(lattice.Move)) Option { return func(m *Machine) { m.onCommit = fn } }

// New returns an idle machine. Call Start to arm the first turn.
func New(lat *lattice.Lattice, rng *rand.Rand, sched Scheduler, opts ...Option) *Machine {
	m := &Machine{
		lat:        lat,
		rng:        rng,
		sched:      sched,
		step:       DefaultStep,
		cooldown:   DefaultCooldown,
		startDelay: DefaultStartDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if m.sched == nil {
		m.sched = RealScheduler{}
	}
	if m.step <= 0 {
		m.step = DefaultStep
	}
	return m
}

// Start arms the startup timer. Calling it again has no effect.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.stopped {
		return
	}
	m.started = true
	m.arm(m.startDelay)
}

// Stop cancels the pending timer. Callbacks that still fire are ignored.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// arm schedules the next Idle→Turning transition. Caller holds mu.
func (m *Machine) arm(d time.Duration) {
	m.gen++
	gen := m.gen
	m.timer = m.sched.AfterFunc(d, func() { m.fire(gen) })
}

// fire is the timer callback. Stale generations and callbacks arriving after
// Stop or during a turn are ignored.
func (m *Machine) fire(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped || m.active != nil || gen != m.gen || m.timer == nil {
		return
	}
	m.timer = nil
	m.active = &Active{
		Move: lattice.Move{
			Axis:  geom.Axis(m.rng.Intn(3)),
			Layer: m.rng.Intn(3),
		},
	}
}

// Advance moves an active turn forward by one step. When the turn reaches
// Target it is committed to the lattice, the machine returns to Idle and the
// cooldown timer is armed; the committed move is returned with true.
func (m *Machine) Advance() (lattice.Move, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return lattice.Move{}, false
	}
	m.active.Angle += m.step
	if m.active.Angle < Target {
		return lattice.Move{}, false
	}

	mv := m.active.Move
	m.lat.Commit(mv)
	m.active = nil
	m.turns++
	if m.onCommit != nil {
		m.onCommit(mv)
	}
	if !m.stopped {
		m.arm(m.cooldown)
	}
	return mv, true
}

// Active returns a copy of the turn in progress.
func (m *Machine) Active() (Active, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return Active{}, false
	}
	return *m.active, true
}

// State reports Idle or Turning.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		return Turning
	}
	return Idle
}

// Turns returns the number of committed turns.
func (m *Machine) Turns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turns
}

// Armed reports whether a cooldown or startup timer is pending.
func (m *Machine) Armed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timer != nil
}
