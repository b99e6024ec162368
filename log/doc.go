// Package log provides the leveled logging interface shared by all graphwalk
// packages.
//
// Components such as the triple loader, the parallel runner, the node batch
// scheduler and the request server accept a Logger and fall back to the
// package-level logger when none is given (see OrDefault).
//
// # Log Levels
//
//   - LogLevelDebug: per-attempt and per-worker detail
//   - LogLevelInfo: load, run and request summaries
//   - LogLevelWarn: skipped input lines, low path diversity
//   - LogLevelError: I/O failures
//   - LogLevelNone: disables all logging output
//
// # Implementations
//
// DefaultLogger writes through the standard library logger with a
// "[graphwalk] " prefix. GologLogger forwards to github.com/kataras/golog:
//
//	logger := log.New(log.LogLevelInfo, os.Stderr)
//	logger.Info("Parsed %d triples", n)
//
// New configures golog with the "2006-01-02 15:04:05" timestamp layout so
// every line carries a wall-clock prefix.
//
// # Thread Safety
//
// Both implementations are safe for concurrent use; workers of the parallel
// runner log through the same Logger.
package log
