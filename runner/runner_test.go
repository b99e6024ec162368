package runner

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/smallnest/graphwalk/kg"
	"github.com/smallnest/graphwalk/log"
	"github.com/smallnest/graphwalk/walk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGraph(t *testing.T, width int) *kg.Graph {
	t.Helper()
	b := kg.NewBuilder()
	for i := 0; i < width; i++ {
		src := fmt.Sprintf("n%d", i)
		for j := 0; j < 3; j++ {
			dst := fmt.Sprintf("n%d", (i+j+1)%width)
			require.NoError(t, b.Add(kg.Triple{Subject: src, Predicate: fmt.Sprintf("p%d", j), Object: dst}))
		}
	}
	return b.Build()
}

func parseLines(t *testing.T, out string) []walk.Walk {
	t.Helper()
	var walks []walk.Walk
	for _, line := range strings.SplitAfter(out, "\n") {
		if line == "" {
			continue
		}
		require.True(t, strings.HasSuffix(line, "\n"))
		require.False(t, strings.HasSuffix(line, ",\n"), "no trailing comma")
		walks = append(walks, walk.ParseCSV(line))
	}
	return walks
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
	last   Progress
}

func (r *eventRecorder) OnEvent(_ context.Context, e Event, p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	r.last = p
}

func (r *eventRecorder) count(e Event) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, got := range r.events {
		if got == e {
			n++
		}
	}
	return n
}

func TestRun_WritesEveryWalk(t *testing.T) {
	g := testGraph(t, 10)
	nodes := g.StartNodes()
	rec := &eventRecorder{}

	var buf bytes.Buffer
	res, err := Run(context.Background(), g, nodes, Config{
		Workers:       3,
		WalksPerNode:  4,
		WalkLength:    5,
		Seed:          11,
		BufferSize:    7,
		ProgressEvery: 10,
		Logger:        &log.NoOpLogger{},
		Listeners:     []Listener{rec},
	}, &buf)
	require.NoError(t, err)

	assert.Equal(t, int64(40), res.Walks)
	assert.Equal(t, 10, res.Nodes)
	assert.Equal(t, 3, res.Workers)
	assert.Equal(t, uint64(11), res.Seed)

	walks := parseLines(t, buf.String())
	require.Len(t, walks, 40)

	perOrigin := map[string]int{}
	for _, w := range walks {
		perOrigin[w.Origin()]++
		assert.Len(t, w, 9, "every node has edges, so walks reach full length")
	}
	for _, n := range nodes {
		assert.Equal(t, 4, perOrigin[n], n)
	}

	assert.Equal(t, 1, rec.count(EventStart))
	assert.Equal(t, 4, rec.count(EventProgress))
	assert.Equal(t, 1, rec.count(EventComplete))
	assert.Equal(t, int64(40), rec.last.Walks)
}

func TestRun_SeededSingleWorkerIsReproducible(t *testing.T) {
	g := testGraph(t, 6)
	cfg := Config{Workers: 1, WalksPerNode: 3, WalkLength: 6, Seed: 5, Logger: &log.NoOpLogger{}}

	var a, b bytes.Buffer
	_, err := Run(context.Background(), g, g.StartNodes(), cfg, &a)
	require.NoError(t, err)
	_, err = Run(context.Background(), g, g.StartNodes(), cfg, &b)
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
}

func TestRun_MoreWorkersThanNodes(t *testing.T) {
	g := testGraph(t, 2)

	var buf bytes.Buffer
	res, err := Run(context.Background(), g, g.StartNodes(), Config{
		Workers: 8, WalksPerNode: 2, WalkLength: 3, Seed: 1, Logger: &log.NoOpLogger{},
	}, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Workers)
	assert.Len(t, parseLines(t, buf.String()), 4)
}

func TestRun_NoNodes(t *testing.T) {
	g := testGraph(t, 2)

	var buf bytes.Buffer
	res, err := Run(context.Background(), g, nil, Config{Workers: 4, WalksPerNode: 2, WalkLength: 3, Seed: 1}, &buf)
	require.NoError(t, err)

	assert.Equal(t, int64(0), res.Walks)
	assert.Equal(t, 0, res.Workers)
	assert.Empty(t, buf.String())
}

func TestRun_DistinctMode(t *testing.T) {
	chain, err := kg.FromTriples(
		kg.Triple{Subject: "A", Predicate: "p1", Object: "B"},
		kg.Triple{Subject: "B", Predicate: "p2", Object: "C"},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	res, err := Run(context.Background(), chain, []string{"A", "B"}, Config{
		Workers: 2, WalksPerNode: 5, WalkLength: 3, Distinct: true, Strict: true, Seed: 3,
		Logger: &log.NoOpLogger{},
	}, &buf)
	require.NoError(t, err)

	assert.Equal(t, "A,p1,B,p2,C\nB,p2,C\n", sortedLines(buf.String()))
	assert.Equal(t, int64(2), res.Walks)
	assert.Equal(t, int64(8), res.Shortfall)
	assert.Equal(t, int64(0), res.Relaxed)
}

func TestRun_DistinctModeRelaxed(t *testing.T) {
	chain, err := kg.FromTriples(kg.Triple{Subject: "A", Predicate: "p1", Object: "B"})
	require.NoError(t, err)

	var buf bytes.Buffer
	res, err := Run(context.Background(), chain, []string{"A"}, Config{
		Workers: 1, WalksPerNode: 5, WalkLength: 2, Distinct: true, Seed: 3,
		Logger: &log.NoOpLogger{},
	}, &buf)
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.Walks)
	assert.Equal(t, int64(1), res.Relaxed)
}

func TestRun_CancelledContext(t *testing.T) {
	g := testGraph(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &eventRecorder{}

	var buf bytes.Buffer
	res, err := Run(ctx, g, g.StartNodes(), Config{
		Workers: 2, WalksPerNode: 2, WalkLength: 3, Seed: 1, Listeners: []Listener{rec},
	}, &buf)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), res.Walks)
	assert.Equal(t, 0, rec.count(EventComplete))
}

func TestBenchmark(t *testing.T) {
	g := testGraph(t, 5)

	res := Benchmark(g, "n0", 2500, 4, walk.NewSource(1), &log.NoOpLogger{})
	assert.Equal(t, 2500, res.Walks)
	assert.Equal(t, 2500*7, res.Tokens)
	assert.GreaterOrEqual(t, res.Rate(), int64(0))
}

func TestLoggingListener(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggingListener(log.NewCustomLogger(&buf, log.LogLevelInfo))

	l.OnEvent(context.Background(), EventStart, Progress{Nodes: 3, Workers: 2})
	l.OnEvent(context.Background(), EventProgress, Progress{Walks: 10000})
	l.OnEvent(context.Background(), EventComplete, Progress{Walks: 20000})

	out := buf.String()
	assert.Contains(t, out, "Starting random walks from 3 nodes on 2 workers")
	assert.Contains(t, out, "Generated 10000 walks")
	assert.Contains(t, out, "Generated 20000 walks in")
}

func sortedLines(s string) string {
	lines := strings.SplitAfter(s, "\n")
	var out []string
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return strings.Join(out, "")
}

type brokenGraph struct{}

func (brokenGraph) Neighbors(string) []kg.Edge { panic("adjacency unavailable") }

func TestRun_WorkerPanicBecomesError(t *testing.T) {
	var buf bytes.Buffer
	res, err := Run(context.Background(), brokenGraph{}, []string{"a", "b"}, Config{
		Workers: 2, WalksPerNode: 1, WalkLength: 3, Seed: 1, Logger: &log.NoOpLogger{},
	}, &buf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: adjacency unavailable")
	assert.Equal(t, int64(0), res.Walks)
}
