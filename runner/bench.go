package runner

import (
	"math/rand/v2"
	"time"

	"github.com/smallnest/graphwalk/kg"
	"github.com/smallnest/graphwalk/log"
	"github.com/smallnest/graphwalk/walk"
)

// BenchResult reports a single-threaded sampling benchmark.
type BenchResult struct {
	Walks    int
	Tokens   int
	Duration time.Duration
}

// Rate returns walks per second.
func (b BenchResult) Rate() int64 {
	return log.Rate(int64(b.Walks), b.Duration)
}

// Benchmark samples n walks from start on the calling goroutine and reports
// throughput, logging a line every 1000 walks.
func Benchmark(g kg.Neighborer, start string, n, length int, rng *rand.Rand, logger log.Logger) BenchResult {
	logger = log.OrDefault(logger)
	logger.Info("Starting benchmark: %d random walks of length %d from node %s", n, length, start)

	began := time.Now()
	res := BenchResult{}
	for i := 0; i < n; i++ {
		w := walk.Sample(g, start, length, rng)
		res.Walks++
		res.Tokens += len(w)
		if res.Walks%1000 == 0 {
			logger.Info("Generated %d walks... (%d walks/sec)", res.Walks, log.Rate(int64(res.Walks), time.Since(began)))
		}
	}
	res.Duration = time.Since(began)

	logger.Info("Benchmark complete: Generated %d random walks in %s", res.Walks, log.FormatDuration(res.Duration))
	logger.Info("Performance: %d walks/sec", res.Rate())
	return res
}
