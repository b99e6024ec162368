package kg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/smallnest/graphwalk/log"
)

const (
	defaultProgressEvery = 10_000_000
	maxLineSize          = 16 * 1024 * 1024
)

// LoadReport summarizes one load.
type LoadReport struct {
	Lines    int
	Triples  int
	Failures []*ParseError
	Duration time.Duration
}

// Skipped returns the number of lines that failed to parse.
func (r *LoadReport) Skipped() int {
	return len(r.Failures)
}

type loadOptions struct {
	logger        log.Logger
	progressEvery int
	source        string
}

// LoadOption configures Load and LoadFile.
type LoadOption func(*loadOptions)

// WithLogger sets the logger that receives progress and parse failures.
func WithLogger(l log.Logger) LoadOption {
	return func(o *loadOptions) {
		o.logger = l
	}
}

// WithProgressEvery logs a progress line every n input lines. n <= 0 disables it.
func WithProgressEvery(n int) LoadOption {
	return func(o *loadOptions) {
		o.progressEvery = n
	}
}

// ParseTriple splits a line into subject, predicate and object. The object may
// carry one trailing '.', which is stripped. Extra tokens are ignored.
func ParseTriple(line string) (Triple, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Triple{}, false
	}
	object := strings.TrimSuffix(fields[2], ".")
	if object == "" {
		return Triple{}, false
	}
	return Triple{Subject: fields[0], Predicate: fields[1], Object: object}, true
}

// Load reads whitespace-separated triples from r. Empty lines and lines
// starting with '#' are ignored; lines that do not parse are recorded in the
// report and skipped. Only read errors and context cancellation abort.
func Load(ctx context.Context, r io.Reader, opts ...LoadOption) (*Graph, *LoadReport, error) {
	o := loadOptions{progressEvery: defaultProgressEvery, source: "input"}
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.OrDefault(o.logger)

	start := time.Now()
	b := NewBuilder()
	report := &LoadReport{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		report.Lines++
		if report.Lines%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, report, err
			}
		}

		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}

		t, ok := ParseTriple(line)
		if !ok || b.Add(t) != nil {
			pe := &ParseError{Line: report.Lines, Text: line}
			report.Failures = append(report.Failures, pe)
			logger.Warn("Failed to parse line %d: %s", pe.Line, pe.Text)
		} else {
			report.Triples++
		}

		if o.progressEvery > 0 && report.Lines%o.progressEvery == 0 {
			logger.Info("Processed %d lines... (%d lines/sec)",
				report.Lines, log.Rate(int64(report.Lines), time.Since(start)))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, report, fmt.Errorf("error reading %s: %w", o.source, err)
	}

	report.Duration = time.Since(start)
	logger.Info("Parsed %d triples from %d lines in %s (%d triples/sec).",
		report.Triples, report.Lines, log.FormatDuration(report.Duration),
		log.Rate(int64(report.Triples), report.Duration))

	return b.Build(), report, nil
}

// LoadFile opens path and loads it with Load. A file that yields no triples
// returns ErrEmptyGraph together with the (empty) graph and report.
func LoadFile(ctx context.Context, path string, opts ...LoadOption) (*Graph, *LoadReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open graph file %s: %w", path, err)
	}
	defer file.Close()

	opts = append([]LoadOption{func(o *loadOptions) { o.source = path }}, opts...)
	log.OrDefault(optsLogger(opts)).Info("Parsing file: %s", path)

	g, report, err := Load(ctx, file, opts...)
	if err != nil {
		return nil, report, err
	}
	if g.Empty() {
		return g, report, fmt.Errorf("%s: %w", path, ErrEmptyGraph)
	}
	return g, report, nil
}

// IsEmpty reports whether err marks an input without triples.
func IsEmpty(err error) bool {
	return errors.Is(err, ErrEmptyGraph)
}

func optsLogger(opts []LoadOption) log.Logger {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o.logger
}
