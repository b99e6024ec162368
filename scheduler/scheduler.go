package scheduler

import (
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/smallnest/graphwalk/log"
	"github.com/smallnest/graphwalk/walk"
)

const (
	// DefaultBatchSize is the maximum number of nodes per batch.
	DefaultBatchSize = 100

	// ResetThreshold is the fraction of eligible nodes that ends a cycle.
	ResetThreshold = 0.9
)

// Stats is a snapshot of the scheduler state.
type Stats struct {
	Used     int
	Eligible int
	Cycles   int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithBatchSize sets the maximum batch size. Values below 1 are ignored.
func WithBatchSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithSampleRate sets the fraction of the unused pool considered per batch.
// Rates of 1 or more mean the whole pool; any lower rate, zero included,
// keeps at least one node.
func WithSampleRate(rate float64) Option {
	return func(s *Scheduler) {
		s.sampleRate = rate
	}
}

// WithSeed pins the shuffle seed.
func WithSeed(seed uint64) Option {
	return func(s *Scheduler) {
		s.seed = seed
	}
}

// WithLogger sets the logger for batch and reset messages.
func WithLogger(logger log.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// Scheduler hands out batches of start nodes, avoiding nodes already served
// in the current cycle.
type Scheduler struct {
	mu         sync.Mutex
	eligible   []string
	used       map[string]struct{}
	cycles     int
	rng        *rand.Rand
	batchSize  int
	sampleRate float64
	seed       uint64
	logger     log.Logger
}

// New creates a scheduler over nodes. Duplicates are dropped; callers
// normally pass kg.Graph.StartNodes.
func New(nodes []string, opts ...Option) *Scheduler {
	s := &Scheduler{
		batchSize:  DefaultBatchSize,
		sampleRate: 1.0,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.eligible = slices.Clone(nodes)
	slices.Sort(s.eligible)
	s.eligible = slices.Compact(s.eligible)
	s.used = make(map[string]struct{}, len(s.eligible))

	if s.seed == 0 {
		s.seed = walk.TimeSeed()
	}
	s.rng = walk.NewSource(s.seed)
	s.logger = log.OrDefault(s.logger)
	s.logger.Info("NodeManager initialized with %d potential start nodes", len(s.eligible))
	return s
}

// NextBatch returns up to the batch size of nodes not yet used in this cycle
// and marks them used. Once the used count reaches ResetThreshold of the
// eligible nodes the cycle restarts.
func (s *Scheduler) NextBatch() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if float64(len(s.used)) >= float64(len(s.eligible))*ResetThreshold {
		if len(s.used) > 0 {
			s.logger.Info("Resetting used nodes list")
			s.cycles++
		}
		clear(s.used)
	}

	pool := make([]string, 0, len(s.eligible)-len(s.used))
	for _, n := range s.eligible {
		if _, ok := s.used[n]; !ok {
			pool = append(pool, n)
		}
	}

	if s.sampleRate < 1.0 && len(pool) > 0 {
		s.shuffle(pool)
		pool = pool[:max(1, int(float64(len(pool))*s.sampleRate))]
	}

	s.shuffle(pool)
	batch := pool[:min(s.batchSize, len(pool))]
	for _, n := range batch {
		s.used[n] = struct{}{}
	}

	s.logger.Info("Returning batch of %d nodes (%d/%d used so far)", len(batch), len(s.used), len(s.eligible))
	return slices.Clip(batch)
}

// Stats returns the current usage counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Used: len(s.used), Eligible: len(s.eligible), Cycles: s.cycles}
}

func (s *Scheduler) shuffle(nodes []string) {
	s.rng.Shuffle(len(nodes), func(i, j int) {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	})
}
