package engine

import (
	"context"
	"runtime"

	"github.com/san-kum/rubix/internal/config"
	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent offline engines that differ only in seed.
type Ensemble struct {
	base      config.Config
	numRuns   int
	seedStart int64
	opts      []Option
	// Workers bounds concurrency. Zero means one per CPU.
	Workers int
}

func NewEnsemble(base *config.Config, numRuns int, seedStart int64, opts ...Option) *Ensemble {
	if base == nil {
		base = config.DefaultConfig()
	}
	return &Ensemble{base: *base, numRuns: numRuns, seedStart: seedStart, opts: opts}
}

// Seed returns the seed of run idx.
func (e *Ensemble) Seed(idx int) int64 { return e.seedStart + int64(idx) }

// Run builds one engine per run and hands it to fn. Engines are closed when
// fn returns. The first error cancels ctx for the remaining runs.
func (e *Ensemble) Run(ctx context.Context, fn func(ctx context.Context, idx int, eng *Offline) error) error {
	g, ctx := errgroup.WithContext(ctx)
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g.SetLimit(workers)

	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg := e.base.Clone()
			cfg.Seed = e.Seed(i)
			eng, err := NewOffline(cfg, e.opts...)
			if err != nil {
				return err
			}
			defer eng.Close()
			return fn(ctx, i, eng)
		})
	}
	return g.Wait()
}
