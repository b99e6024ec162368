package sink

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// DefaultCapacity is the number of lines buffered before a write.
const DefaultCapacity = 10_000

// ErrClosed is returned by Add and Flush after Close.
var ErrClosed = errors.New("sink: closed")

// Destination serializes writes from many sinks to one io.Writer. Each
// Write holds the lock for exactly one call to the underlying writer.
type Destination struct {
	mu     sync.Mutex
	w      io.Writer
	writes int
}

// NewDestination wraps w for shared use.
func NewDestination(w io.Writer) *Destination {
	return &Destination{w: w}
}

// Write writes p under the destination lock.
func (d *Destination) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes++
	return d.w.Write(p)
}

// Writes returns how many locked writes have been performed.
func (d *Destination) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

// BufferedSink accumulates lines and hands them to its Destination in one
// write once capacity lines are buffered. A BufferedSink belongs to a single
// goroutine; concurrency is handled by the shared Destination.
type BufferedSink struct {
	dest     *Destination
	capacity int
	lines    []string
	size     int
	closed   bool
}

// New creates a sink writing to dest. capacity <= 0 selects DefaultCapacity.
func New(dest *Destination, capacity int) *BufferedSink {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &BufferedSink{
		dest:     dest,
		capacity: capacity,
		lines:    make([]string, 0, min(capacity, 1024)),
	}
}

// Add buffers line, flushing when the buffer reaches capacity. line is
// written verbatim, so it carries its own terminator.
func (s *BufferedSink) Add(line string) error {
	if s.closed {
		return ErrClosed
	}
	s.lines = append(s.lines, line)
	s.size += len(line)
	if len(s.lines) >= s.capacity {
		return s.Flush()
	}
	return nil
}

// Len returns the number of buffered lines.
func (s *BufferedSink) Len() int {
	return len(s.lines)
}

// Flush concatenates the buffered lines and writes them in one locked write.
// The buffer is cleared even when the write fails.
func (s *BufferedSink) Flush() error {
	if s.closed {
		return ErrClosed
	}
	if len(s.lines) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.Grow(s.size)
	for _, line := range s.lines {
		sb.WriteString(line)
	}
	s.lines = s.lines[:0]
	s.size = 0

	if _, err := io.WriteString(s.dest, sb.String()); err != nil {
		return fmt.Errorf("sink: flush: %w", err)
	}
	return nil
}

// Close performs the final flush. Calling Close again is a no-op.
func (s *BufferedSink) Close() error {
	if s.closed {
		return nil
	}
	err := s.Flush()
	s.closed = true
	return err
}

// With runs fn with a fresh sink and closes it on every exit path, including
// an error or panic from fn, so buffered lines always reach dest.
func With(dest *Destination, capacity int, fn func(*BufferedSink) error) (err error) {
	s := New(dest, capacity)
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
