// Package runner fans random-walk generation out across worker goroutines.
//
// Partition cuts the start-node list into one contiguous shard per worker.
// Run launches a goroutine per non-empty shard through an errgroup; every
// worker seeds its own generator from Config.Seed and its index, samples
// Config.WalksPerNode walks per node (plain or distinct) and writes them as
// CSV lines through a private sink.BufferedSink. A shared atomic counter
// drives progress events delivered to Listeners.
//
//	res, err := runner.Run(ctx, g, nodes, runner.Config{
//		Workers:      4,
//		WalksPerNode: 10,
//		WalkLength:   15,
//		Listeners:    []runner.Listener{runner.NewLoggingListener(logger)},
//	}, file)
//
// The graph is only read, so workers share it without locks.
package runner
