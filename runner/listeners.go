package runner

import (
	"context"
	"time"

	"github.com/smallnest/graphwalk/log"
)

// Event identifies a point in a run.
type Event string

const (
	// EventStart fires once before workers launch
	EventStart Event = "start"

	// EventProgress fires every Config.ProgressEvery walks
	EventProgress Event = "progress"

	// EventComplete fires once after every worker has flushed
	EventComplete Event = "complete"
)

// Progress is the run state passed to listeners.
type Progress struct {
	Nodes   int
	Workers int
	Walks   int64
	Elapsed time.Duration
}

// Listener observes a run. OnEvent may be called from several worker
// goroutines at once and must not block.
type Listener interface {
	OnEvent(ctx context.Context, event Event, p Progress)
}

// ListenerFunc is a function adapter for Listener
type ListenerFunc func(ctx context.Context, event Event, p Progress)

// OnEvent implements the Listener interface
func (f ListenerFunc) OnEvent(ctx context.Context, event Event, p Progress) {
	f(ctx, event, p)
}

// LoggingListener reports run events through a log.Logger.
type LoggingListener struct {
	logger log.Logger
}

// NewLoggingListener creates a listener that logs progress at info level.
func NewLoggingListener(logger log.Logger) *LoggingListener {
	return &LoggingListener{logger: log.OrDefault(logger)}
}

// OnEvent implements the Listener interface
func (l *LoggingListener) OnEvent(_ context.Context, event Event, p Progress) {
	switch event {
	case EventStart:
		l.logger.Info("Starting random walks from %d nodes on %d workers", p.Nodes, p.Workers)
	case EventProgress:
		l.logger.Info("Generated %d walks", p.Walks)
	case EventComplete:
		l.logger.Info("Random walks generation complete: Generated %d walks in %s",
			p.Walks, log.FormatDuration(p.Elapsed))
		l.logger.Info("Performance: %d walks/sec", log.Rate(p.Walks, p.Elapsed))
	}
}

func notify(ctx context.Context, listeners []Listener, event Event, p Progress) {
	for _, l := range listeners {
		l.OnEvent(ctx, event, p)
	}
}
