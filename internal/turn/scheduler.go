package turn

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped the
	// timer before it fired.
	Stop() bool
}

// Scheduler arms one-shot callbacks. The turn machine only ever holds one.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealScheduler runs callbacks on wall-clock timers. Callbacks fire on their
// own goroutine.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// VirtualScheduler runs callbacks against a clock that only moves when Tick is
// called. Callbacks fire synchronously inside Tick, in deadline order.
type VirtualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*virtualTimer
}

type virtualTimer struct {
	s        *VirtualScheduler
	deadline time.Duration
	seq      int
	fn       func()
	done     bool
}

// NewVirtualScheduler returns a scheduler whose clock starts at zero.
func NewVirtualScheduler() *VirtualScheduler {
	return &VirtualScheduler{}
}

func (s *VirtualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &virtualTimer{s: s, deadline: s.now + d, seq: s.seq, fn: fn}
	s.pending = append(s.pending, t)
	return t
}

// Now returns the virtual time elapsed since creation.
func (s *VirtualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (s *VirtualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Tick advances the clock by d and fires every timer that came due, including
// timers armed by callbacks during this Tick.
func (s *VirtualScheduler) Tick(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		t := s.popDue(target)
		if t == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		if t.deadline > s.now {
			s.now = t.deadline
		}
		t.done = true
		s.mu.Unlock()
		t.fn()
	}
}

// popDue removes and returns the earliest timer due by target. Caller holds mu.
func (s *VirtualScheduler) popDue(target time.Duration) *virtualTimer {
	if len(s.pending) == 0 {
		return nil
	}
	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].deadline != s.pending[j].deadline {
			return s.pending[i].deadline < s.pending[j].deadline
		}
		return s.pending[i].seq < s.pending[j].seq
	})
	t := s.pending[0]
	if t.deadline > target {
		return nil
	}
	s.pending = s.pending[1:]
	return t
}

func (t *virtualTimer) Stop() bool {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, p := range s.pending {
		if p == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	return true
}
