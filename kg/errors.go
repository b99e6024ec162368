package kg

import (
	"errors"
	"fmt"
)

// ErrEmptyGraph is returned by LoadFile when the input yields no triples.
var ErrEmptyGraph = errors.New("graph is empty")

// TripleError reports a triple with a missing subject, predicate or object.
type TripleError struct {
	Triple Triple
}

func (e *TripleError) Error() string {
	return fmt.Sprintf("incomplete triple (%q, %q, %q)", e.Triple.Subject, e.Triple.Predicate, e.Triple.Object)
}

// ParseError describes an input line that could not be read as a triple.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: cannot parse triple: %q", e.Line, e.Text)
}
