package walk

import (
	"math"
	"math/rand/v2"

	"github.com/smallnest/graphwalk/kg"
	"github.com/smallnest/graphwalk/log"
)

const (
	// MaxAttemptsPerWalk bounds sampling at n*MaxAttemptsPerWalk attempts.
	MaxAttemptsPerWalk = 10

	// duplicates beyond n*duplicateFactor switch on the fallback check
	duplicateFactor = 2

	maxDistinctPrealloc = 1024
)

// DistinctResult is the outcome of one Distinct call.
type DistinctResult struct {
	Walks      []Walk
	Attempts   int
	Duplicates int
	// Relaxed is set once the duplicate fallback accepted a repeated walk.
	Relaxed bool
}

// Shortfall returns how many of the n requested walks are missing.
func (r DistinctResult) Shortfall(n int) int {
	if len(r.Walks) >= n {
		return 0
	}
	return n - len(r.Walks)
}

type distinctOptions struct {
	logger log.Logger
	strict bool
}

// DistinctOption configures Distinct.
type DistinctOption func(*distinctOptions)

// WithLogger receives diversity warnings and attempt progress.
func WithLogger(l log.Logger) DistinctOption {
	return func(o *distinctOptions) {
		o.logger = l
	}
}

// WithStrict disables the duplicate fallback, so every returned walk has a
// distinct Key.
func WithStrict() DistinctOption {
	return func(o *distinctOptions) {
		o.strict = true
	}
}

// Distinct samples up to n walks from start whose keys are pairwise distinct.
//
// At most n*MaxAttemptsPerWalk walks are sampled; when they run out the
// result is simply shorter than n. Once more than 2n duplicates have been
// seen while fewer than n/2 walks are held, repeated walks are accepted to
// make progress on low-diversity neighborhoods (unless WithStrict is given).
func Distinct(g kg.Neighborer, start string, n, length int, rng *rand.Rand, opts ...DistinctOption) DistinctResult {
	var o distinctOptions
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.OrDefault(o.logger)

	res := DistinctResult{}
	if n <= 0 {
		return res
	}
	res.Walks = make([]Walk, 0, min(n, maxDistinctPrealloc))
	seen := make(map[string]struct{}, min(n, maxDistinctPrealloc))
	maxAttempts := saturatingMul(n, MaxAttemptsPerWalk)
	dupLimit := saturatingMul(n, duplicateFactor)
	warned := false

	for len(res.Walks) < n && res.Attempts < maxAttempts {
		w := Sample(g, start, length, rng)
		key := w.Key()
		res.Attempts++

		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			res.Walks = append(res.Walks, w)
		} else {
			res.Duplicates++
			if res.Duplicates > dupLimit {
				if !warned {
					logger.Warn("High number of duplicate walks from node %s. Possibly limited path diversity.", start)
					warned = true
				}
				if !o.strict && len(res.Walks) < n/2 {
					res.Walks = append(res.Walks, w)
					res.Relaxed = true
					logger.Debug("Accepting duplicate walk from node %s to meet quota.", start)
				}
			}
		}

		if res.Attempts%dupLimit == 0 {
			logger.Debug("Generated %d unique walks after %d attempts. Duplicates: %d",
				len(res.Walks), res.Attempts, res.Duplicates)
		}
	}

	if len(res.Walks) < n {
		logger.Warn("Could only generate %d unique walks out of %d requested from node %s",
			len(res.Walks), n, start)
	}
	return res
}

// saturatingMul returns a*b for positive operands, clamped to math.MaxInt.
func saturatingMul(a, b int) int {
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}
