package runner

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smallnest/graphwalk/kg"
	"github.com/smallnest/graphwalk/log"
	"github.com/smallnest/graphwalk/sink"
	"github.com/smallnest/graphwalk/walk"
)

// DefaultProgressEvery is how many walks pass between progress events.
const DefaultProgressEvery = 10_000

// Config configures a parallel run.
type Config struct {
	// Workers is the number of shards; values below 1 mean 1.
	Workers int

	// WalksPerNode is the number of walks requested per start node.
	WalksPerNode int

	// WalkLength is the maximum number of entities per walk.
	WalkLength int

	// Distinct switches workers from plain sampling to walk.Distinct.
	Distinct bool

	// Strict disables the duplicate fallback of walk.Distinct.
	Strict bool

	// Seed is the base seed; worker i uses walk.WorkerSeed(Seed, i).
	// Zero selects a time-based seed.
	Seed uint64

	// BufferSize is the per-worker sink capacity in lines.
	BufferSize int

	// ProgressEvery is the walk interval between progress events; negative disables them.
	ProgressEvery int64

	Logger    log.Logger
	Listeners []Listener
}

// Result summarizes a run.
type Result struct {
	Walks   int64
	Nodes   int
	Workers int
	// Shortfall counts walks requested but not produced in distinct mode.
	Shortfall int64
	// Relaxed counts start nodes where the duplicate fallback fired.
	Relaxed  int64
	Seed     uint64
	Duration time.Duration
}

type run struct {
	cfg       Config
	g         kg.Neighborer
	dest      *sink.Destination
	logger    log.Logger
	started   time.Time
	nodes     int
	workers   int
	walks     atomic.Int64
	shortfall atomic.Int64
	relaxed   atomic.Int64
}

// Run partitions nodes across cfg.Workers goroutines. Each worker owns a
// random source and a sink.BufferedSink over a shared destination wrapping
// out, and writes cfg.WalksPerNode walks per node as CSV lines. Run returns
// once every worker has finished and flushed.
//
// Cancelling ctx stops workers before their next node; the partial result is
// returned with the context error.
func Run(ctx context.Context, g kg.Neighborer, nodes []string, cfg Config, out io.Writer) (*Result, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.ProgressEvery == 0 {
		cfg.ProgressEvery = DefaultProgressEvery
	}
	if cfg.Seed == 0 {
		cfg.Seed = walk.TimeSeed()
	}

	r := &run{
		cfg:     cfg,
		g:       g,
		dest:    sink.NewDestination(out),
		logger:  log.OrDefault(cfg.Logger),
		started: time.Now(),
		nodes:   len(nodes),
	}

	shards := Partition(nodes, cfg.Workers)
	for _, shard := range shards {
		if len(shard) > 0 {
			r.workers++
		}
	}
	notify(ctx, cfg.Listeners, EventStart, r.progress())

	eg, egCtx := errgroup.WithContext(ctx)
	for id, shard := range shards {
		if len(shard) == 0 {
			continue
		}
		eg.Go(func() error {
			return r.work(egCtx, id, shard)
		})
	}
	err := eg.Wait()

	res := &Result{
		Walks:     r.walks.Load(),
		Nodes:     r.nodes,
		Workers:   r.workers,
		Shortfall: r.shortfall.Load(),
		Relaxed:   r.relaxed.Load(),
		Seed:      cfg.Seed,
		Duration:  time.Since(r.started),
	}
	if err != nil {
		return res, err
	}

	notify(ctx, cfg.Listeners, EventComplete, r.progress())
	return res, nil
}

func (r *run) work(ctx context.Context, id int, shard []string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("worker %d: panic: %v", id, p)
		}
	}()

	rng := walk.NewSource(walk.WorkerSeed(r.cfg.Seed, id))
	r.logger.Debug("Worker %d starting on %d nodes", id, len(shard))

	err = sink.With(r.dest, r.cfg.BufferSize, func(s *sink.BufferedSink) error {
		for _, node := range shard {
			if err := ctx.Err(); err != nil {
				return err
			}

			if r.cfg.Distinct {
				res := walk.Distinct(r.g, node, r.cfg.WalksPerNode, r.cfg.WalkLength, rng, r.distinctOptions()...)
				for _, w := range res.Walks {
					if err := r.emit(ctx, s, w); err != nil {
						return err
					}
				}
				r.shortfall.Add(int64(res.Shortfall(r.cfg.WalksPerNode)))
				if res.Relaxed {
					r.relaxed.Add(1)
				}
				continue
			}

			for i := 0; i < r.cfg.WalksPerNode; i++ {
				if err := r.emit(ctx, s, walk.Sample(r.g, node, r.cfg.WalkLength, rng)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("worker %d: %w", id, err)
	}
	return nil
}

func (r *run) emit(ctx context.Context, s *sink.BufferedSink, w walk.Walk) error {
	if err := s.Add(w.CSV()); err != nil {
		return err
	}
	total := r.walks.Add(1)
	if r.cfg.ProgressEvery > 0 && total%r.cfg.ProgressEvery == 0 {
		notify(ctx, r.cfg.Listeners, EventProgress, r.progress())
	}
	return nil
}

func (r *run) distinctOptions() []walk.DistinctOption {
	opts := []walk.DistinctOption{walk.WithLogger(r.logger)}
	if r.cfg.Strict {
		opts = append(opts, walk.WithStrict())
	}
	return opts
}

func (r *run) progress() Progress {
	return Progress{
		Nodes:   r.nodes,
		Workers: r.workers,
		Walks:   r.walks.Load(),
		Elapsed: time.Since(r.started),
	}
}
