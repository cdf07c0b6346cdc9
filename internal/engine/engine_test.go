package engine_test

import (
	"context"
	"errors"
	"image/color"
	"math/rand"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rubix/internal/config"
	"github.com/san-kum/rubix/internal/engine"
	"github.com/san-kum/rubix/internal/geom"
	"github.com/san-kum/rubix/internal/lattice"
	"github.com/san-kum/rubix/internal/paint"
	"github.com/san-kum/rubix/internal/turn"
)

type countingSurface struct {
	clears, fills, strokes int
	fail                   error
}

func (s *countingSurface) Clear() { s.clears++ }

func (s *countingSurface) FillPolygon(pts []geom.Point, fill paint.Fill) error {
	if s.fail != nil {
		return s.fail
	}
	s.fills++
	return nil
}

func (s *countingSurface) StrokePolygon(pts []geom.Point, c color.NRGBA, width float64) error {
	s.strokes++
	return nil
}

func seeded(seed int64) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Seed = seed
	return cfg
}

var _ = Describe("Engine", func() {
	var (
		sched *turn.VirtualScheduler
		eng   *engine.Engine
		frame time.Duration
	)

	BeforeEach(func() {
		cfg := seeded(7)
		frame = cfg.FrameInterval()
		sched = turn.NewVirtualScheduler()
		var err error
		eng, err = engine.New(cfg, engine.WithScheduler(sched))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		eng.Close()
	})

	step := func(n int, s paint.Surface) {
		for i := 0; i < n; i++ {
			sched.Tick(frame)
			Expect(eng.AdvanceAndRender(s)).To(Succeed())
		}
	}

	It("rejects a missing surface", func() {
		err := eng.AdvanceAndRender(nil)
		Expect(errors.Is(err, engine.ErrSurfaceUnavailable)).To(BeTrue())
		Expect(eng.Snapshot().Frame).To(BeZero())
	})

	It("rejects invalid configuration", func() {
		cfg := config.DefaultConfig()
		cfg.Size = -1
		_, err := engine.New(cfg)
		Expect(errors.Is(err, config.ErrInvalid)).To(BeTrue())
	})

	It("clears and paints every visible face once per frame", func() {
		s := &countingSurface{}
		step(1, s)
		snap := eng.Snapshot()
		Expect(s.clears).To(Equal(1))
		Expect(s.fills).To(Equal(snap.VisibleFaces))
		Expect(s.strokes).To(Equal(snap.VisibleFaces))
		Expect(snap.VisibleFaces).To(BeNumerically(">", 0))
	})

	It("drifts the global orientation every frame", func() {
		cfg := eng.Config()
		step(10, &countingSurface{})
		o := eng.Snapshot().Orientation
		Expect(o.RotX).To(Equal(cfg.Tilt))
		Expect(o.RotY).To(BeNumerically("~", cfg.Yaw+10*cfg.Drift, 1e-9))
	})

	It("waits for the start delay before the first turn", func() {
		s := &countingSurface{}
		for sched.Now()+frame < turn.DefaultStartDelay {
			step(1, s)
			Expect(eng.Snapshot().State).To(Equal(turn.Idle))
		}
		step(2, s)
		Expect(eng.Snapshot().State).To(Equal(turn.Turning))
	})

	It("keeps turning and keeps the lattice a bijection", func() {
		s := &countingSurface{}
		step(3000, s)
		Expect(eng.Snapshot().Turns).To(BeNumerically(">=", 50))
		Expect(eng.Validate()).To(Succeed())
	})

	It("returns faces sorted far to near", func() {
		step(30, &countingSurface{})
		faces := eng.Faces()
		Expect(faces).NotTo(BeEmpty())
		for i := 1; i < len(faces); i++ {
			Expect(faces[i].Depth).To(BeNumerically(">=", faces[i-1].Depth))
		}
	})

	It("wraps surface failures with the frame number", func() {
		sched.Tick(frame)
		err := eng.AdvanceAndRender(&countingSurface{fail: errors.New("lost context")})
		var fe *engine.FrameError
		Expect(errors.As(err, &fe)).To(BeTrue())
		Expect(fe.Frame).To(Equal(uint64(1)))
	})

	It("notifies observers after each frame", func() {
		var frames []uint64
		cfg := seeded(3)
		e, err := engine.New(cfg,
			engine.WithScheduler(turn.NewVirtualScheduler()),
			engine.WithObserver(engine.ObserverFunc(func(s engine.Snapshot) { frames = append(frames, s.Frame) })))
		Expect(err).NotTo(HaveOccurred())
		defer e.Close()

		for i := 0; i < 3; i++ {
			Expect(e.AdvanceAndRender(&countingSurface{})).To(Succeed())
		}
		Expect(e.Advance()).To(Succeed())
		Expect(frames).To(Equal([]uint64{1, 2, 3, 4}))
	})

	Describe("Close", func() {
		It("cancels the pending timer", func() {
			Expect(sched.Pending()).To(Equal(1))
			eng.Close()
			Expect(sched.Pending()).To(BeZero())
		})

		It("refuses further frames", func() {
			eng.Close()
			Expect(eng.AdvanceAndRender(&countingSurface{})).To(MatchError(engine.ErrClosed))
			Expect(eng.Advance()).To(MatchError(engine.ErrClosed))
		})

		It("is idempotent", func() {
			eng.Close()
			Expect(eng.Close).NotTo(Panic())
		})

		It("ignores a timer firing after teardown", func() {
			step(1, &countingSurface{})
			eng.Close()
			sched.Tick(time.Hour)
			Expect(eng.Snapshot().State).To(Equal(turn.Idle))
			Expect(eng.Snapshot().Turns).To(BeZero())
		})
	})

	Describe("independent instances", func() {
		It("produces identical frames for identical seeds", func() {
			a, err := engine.NewOffline(seeded(99))
			Expect(err).NotTo(HaveOccurred())
			defer a.Close()
			b, err := engine.NewOffline(seeded(99))
			Expect(err).NotTo(HaveOccurred())
			defer b.Close()

			for i := 0; i < 200; i++ {
				Expect(a.Frame(&countingSurface{})).To(Succeed())
				Expect(b.Frame(&countingSurface{})).To(Succeed())
			}
			Expect(a.Snapshot()).To(Equal(b.Snapshot()))
			Expect(a.Lattice()).To(Equal(b.Lattice()))
			Expect(a.Faces()).To(Equal(b.Faces()))
		})

		It("does not share state between engines", func() {
			a, err := engine.NewOffline(seeded(5))
			Expect(err).NotTo(HaveOccurred())
			defer a.Close()
			b, err := engine.NewOffline(seeded(5))
			Expect(err).NotTo(HaveOccurred())
			defer b.Close()

			for i := 0; i < 300; i++ {
				Expect(a.Step()).To(Succeed())
			}
			Expect(a.Snapshot().Turns).To(BeNumerically(">", 0))
			Expect(b.Snapshot().Frame).To(BeZero())
			Expect(b.Snapshot().Turns).To(BeZero())
		})

		It("accepts an injected random source", func() {
			cfg := config.GetPreset("classic")
			e, err := engine.NewOffline(cfg, engine.WithRand(rand.New(rand.NewSource(1))))
			Expect(err).NotTo(HaveOccurred())
			defer e.Close()
			for _, c := range e.Lattice() {
				for f, col := range c.Colors {
					Expect(int(col)).To(Equal(f))
				}
			}
		})
	})

	Describe("presets", func() {
		for _, name := range config.ListPresets() {
			name := name
			It("runs the "+name+" preset", func() {
				cfg := config.GetPreset(name)
				cfg.Seed = 11
				e, err := engine.NewOffline(cfg)
				Expect(err).NotTo(HaveOccurred())
				defer e.Close()
				for i := 0; i < 600; i++ {
					Expect(e.Frame(&countingSurface{})).To(Succeed())
				}
				Expect(e.Validate()).To(Succeed())
				Expect(e.Snapshot().Turns).To(BeNumerically(">", 0))
			})
		}
	})

	Describe("Ensemble", func() {
		It("runs one engine per seed", func() {
			ens := engine.NewEnsemble(seeded(0), 4, 100)
			var mu sync.Mutex
			turns := map[int64]int{}
			err := ens.Run(context.Background(), func(_ context.Context, idx int, e *engine.Offline) error {
				for i := 0; i < 200; i++ {
					if err := e.Step(); err != nil {
						return err
					}
				}
				mu.Lock()
				turns[e.Config().Seed] = e.Snapshot().Turns
				mu.Unlock()
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(4))
			for i := 0; i < 4; i++ {
				Expect(turns).To(HaveKey(ens.Seed(i)))
			}
		})

		It("matches a standalone engine with the same seed", func() {
			var fromEnsemble []lattice.Cubelet
			ens := engine.NewEnsemble(seeded(0), 1, 21)
			Expect(ens.Run(context.Background(), func(_ context.Context, _ int, e *engine.Offline) error {
				for i := 0; i < 150; i++ {
					Expect(e.Step()).To(Succeed())
				}
				fromEnsemble = e.Lattice()
				return nil
			})).To(Succeed())

			solo, err := engine.NewOffline(seeded(21))
			Expect(err).NotTo(HaveOccurred())
			defer solo.Close()
			for i := 0; i < 150; i++ {
				Expect(solo.Step()).To(Succeed())
			}
			Expect(solo.Lattice()).To(Equal(fromEnsemble))
		})

		It("returns the first error", func() {
			boom := errors.New("boom")
			ens := engine.NewEnsemble(seeded(0), 3, 1)
			ens.Workers = 1
			err := ens.Run(context.Background(), func(_ context.Context, idx int, _ *engine.Offline) error {
				if idx == 0 {
					return boom
				}
				return nil
			})
			Expect(err).To(MatchError(boom))
		})
	})
})
