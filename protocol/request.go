package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Command is the only request verb the server understands.
	Command = "GET_RANDOM_WALKS"

	// MaxRequestSize is the most the server reads for one request.
	MaxRequestSize = 1024

	// MaxNumWalks and MaxWalkLength bound what one request may ask for;
	// larger values fall back to the defaults.
	MaxNumWalks   = 100_000
	MaxWalkLength = 10_000
)

// Request asks the server for a batch of random walks.
type Request struct {
	NumWalks   int
	WalkLength int
}

// String encodes the request as a protocol line without terminator.
func (r Request) String() string {
	return fmt.Sprintf("%s %d %d", Command, r.NumWalks, r.WalkLength)
}

// ParseError reports a request line that could not be understood.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid request %q: %s", e.Line, e.Reason)
}

// ParseRequest parses "GET_RANDOM_WALKS [numWalks [walkLength]]".
//
// Missing, unparseable, non-positive or out-of-range numbers take their
// value from defaults. When numWalks cannot be parsed the walk length is not read and
// falls back as well. Tokens after walkLength are ignored. An empty line or
// a different command yields a *ParseError.
func ParseRequest(line string, defaults Request) (Request, error) {
	fields := strings.Fields(strings.TrimRight(line, "\x00"))
	if len(fields) == 0 {
		return Request{}, &ParseError{Line: line, Reason: "empty request"}
	}
	if fields[0] != Command {
		return Request{}, &ParseError{Line: line, Reason: fmt.Sprintf("unknown command %q", fields[0])}
	}

	req := defaults
	if len(fields) < 2 {
		return req, nil
	}

	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return req, nil
	}
	if n > 0 && n <= MaxNumWalks {
		req.NumWalks = n
	}

	if len(fields) < 3 {
		return req, nil
	}
	if l, err := strconv.Atoi(fields[2]); err == nil && l > 0 && l <= MaxWalkLength {
		req.WalkLength = l
	}
	return req, nil
}
