package walk

import (
	"strings"
)

// KeySeparator joins walk tokens into a Key. Control characters do not occur
// in the IRIs and literals of N-Triples input.
const KeySeparator = "\x1f"

// Walk is an origin node followed by alternating predicate and target tokens.
type Walk []string

// Origin returns the start node, or "" for an empty walk.
func (w Walk) Origin() string {
	if len(w) == 0 {
		return ""
	}
	return w[0]
}

// Entities returns the number of entity tokens in the walk.
func (w Walk) Entities() int {
	return (len(w) + 1) / 2
}

// Key is the identity used for deduplication within one origin's batch.
func (w Walk) Key() string {
	return strings.Join(w, KeySeparator)
}

// CSV renders the walk as one comma-separated, newline-terminated line.
func (w Walk) CSV() string {
	var sb strings.Builder
	n := len(w)
	for _, tok := range w {
		n += len(tok)
	}
	sb.Grow(n)
	for i, tok := range w {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(tok)
	}
	sb.WriteByte('\n')
	return sb.String()
}

// ParseCSV reverses CSV for a single line, with or without the newline.
func ParseCSV(line string) Walk {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil
	}
	return Walk(strings.Split(line, ","))
}
