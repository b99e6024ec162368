package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/graphwalk/kg"
	"github.com/smallnest/graphwalk/store"
	"github.com/smallnest/graphwalk/store/file"
	"github.com/smallnest/graphwalk/store/memory"
)

const chainGraph = `# tiny chain
<a> <p> <b> .
<b> <q> <c> .
`

func writeGraph(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.nt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(ctx context.Context, args ...string) (string, string, error) {
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestRoot_BatchWritesWalks(t *testing.T) {
	graph := writeGraph(t, chainGraph)
	out := filepath.Join(t.TempDir(), "walks.csv")

	stdout, _, err := execute(context.Background(),
		"-f", graph, "-o", out, "-w", "3", "-l", "3", "-t", "2", "--seed", "7", "--log-level", "none")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	counts := map[string]int{}
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		counts[line]++
	}
	assert.Equal(t, map[string]int{
		"<a>,<p>,<b>,<q>,<c>": 3,
		"<b>,<q>,<c>":         3,
	}, counts)

	assert.Contains(t, stdout, "Random walks written")
	assert.Contains(t, stdout, out)
	assert.Contains(t, stdout, "7")
}

func TestRoot_ConfigFileAndFlags(t *testing.T) {
	graph := writeGraph(t, chainGraph)
	dir := t.TempDir()
	out := filepath.Join(dir, "walks.csv")
	cfgPath := filepath.Join(dir, "graphwalk.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(
		"input: %s\noutput: %s\nwalks: 5\nlength: 2\nlog_level: none\n", graph, out)), 0o644))

	_, _, err := execute(context.Background(), "--config", cfgPath, "-w", "1")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.ElementsMatch(t, []string{"<a>,<p>,<b>", "<b>,<q>,<c>"}, lines)
}

func TestRoot_Errors(t *testing.T) {
	graph := writeGraph(t, chainGraph)

	t.Run("empty graph", func(t *testing.T) {
		empty := writeGraph(t, "# nothing here\n")
		_, _, err := execute(context.Background(),
			"-f", empty, "-o", filepath.Join(t.TempDir(), "w.csv"), "--log-level", "none")
		assert.ErrorIs(t, err, kg.ErrEmptyGraph)
	})

	t.Run("missing graph", func(t *testing.T) {
		_, _, err := execute(context.Background(), "-f", filepath.Join(t.TempDir(), "nope.nt"), "--log-level", "none")
		assert.Error(t, err)
	})

	t.Run("invalid settings", func(t *testing.T) {
		_, _, err := execute(context.Background(), "-f", graph, "-w", "0", "-s", "2")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "walks must be positive")
		assert.Contains(t, err.Error(), "sample rate")
	})

	t.Run("unknown log level", func(t *testing.T) {
		_, _, err := execute(context.Background(), "-f", graph, "--log-level", "loud")
		assert.ErrorContains(t, err, "unknown log level")
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, _, err := execute(context.Background(), "--bogus")
		assert.Error(t, err)
	})
}

func TestBench(t *testing.T) {
	graph := writeGraph(t, chainGraph)

	stdout, _, err := execute(context.Background(),
		"bench", "-f", graph, "--node", "<a>", "-w", "100", "-l", "3", "--seed", "1", "--log-level", "none")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Benchmark complete")
	assert.Contains(t, stdout, "500")

	_, _, err = execute(context.Background(), "bench", "-f", graph, "--node", "<c>", "--log-level", "none")
	assert.ErrorContains(t, err, "no outgoing edges")
}

func TestServerAndClient(t *testing.T) {
	graph := writeGraph(t, chainGraph)
	outDir := t.TempDir()
	runsDir := t.TempDir()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, _, err := execute(ctx, "-S", "-f", graph, "-p", fmt.Sprint(port),
			"--output-dir", outDir, "--store", "file://"+runsDir, "--session", "s1",
			"--seed", "3", "--log-level", "none")
		done <- err
	}()

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 5*time.Second, 20*time.Millisecond)

	stdout, _, err := execute(context.Background(), "client", "-p", fmt.Sprint(port), "-w", "2", "-l", "3")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "Random walks have been generated and saved to: "))

	path := strings.TrimSpace(strings.TrimPrefix(stdout, "Random walks have been generated and saved to: "))
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, outDir, filepath.Dir(path))
	_, err = os.Stat(path)
	require.NoError(t, err)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	stdout, _, err = execute(context.Background(), "runs", "--store", "file://"+runsDir, "--session", "s1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ARTIFACT")
	assert.Contains(t, stdout, path)

	stdout, _, err = execute(context.Background(), "runs", "--store", "file://"+runsDir, "--session", "s1", "--clear")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cleared session s1")
}

func TestClient_NoServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	_, _, err = execute(context.Background(), "client", "-p", fmt.Sprint(port), "--timeout", "1s")
	assert.ErrorContains(t, err, "connect to")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	rec := &store.RunRecord{ID: "run-1", SessionID: "s1", Walks: 4, Timestamp: time.Now()}

	roundTrip := func(t *testing.T, s store.RunStore) {
		t.Helper()
		require.NoError(t, s.Save(ctx, rec))
		got, err := s.Load(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, int64(4), got.Walks)
	}

	t.Run("disabled", func(t *testing.T) {
		for _, raw := range []string{"", "none"} {
			s, err := openStore(ctx, raw)
			require.NoError(t, err)
			assert.Nil(t, s)
		}
	})

	t.Run("memory", func(t *testing.T) {
		s, err := openStore(ctx, "memory://")
		require.NoError(t, err)
		assert.IsType(t, &memory.MemoryRunStore{}, s)
		roundTrip(t, s)
	})

	t.Run("file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "runs")
		s, err := openStore(ctx, "file://"+dir)
		require.NoError(t, err)
		assert.IsType(t, &file.FileRunStore{}, s)
		roundTrip(t, s)
		assert.FileExists(t, filepath.Join(dir, "run-1.json"))
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := openStore(ctx, "sqlite://"+filepath.Join(t.TempDir(), "runs.db"))
		if err != nil {
			t.Skipf("sqlite unavailable: %v", err)
		}
		defer s.(interface{ Close() error }).Close()
		roundTrip(t, s)
	})

	t.Run("redis", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		s, err := openStore(ctx, "redis://"+mr.Addr()+"/0?prefix=test:&ttl=1h")
		require.NoError(t, err)
		defer s.(interface{ Close() error }).Close()
		roundTrip(t, s)

		assert.True(t, mr.Exists("test:run:run-1"))
		assert.Equal(t, time.Hour, mr.TTL("test:run:run-1"))
	})

	t.Run("invalid", func(t *testing.T) {
		for _, raw := range []string{
			"ftp://example.com/runs",
			"sqlite://",
			"redis://localhost:6379/zero",
			"redis://localhost:6379/0?ttl=soon",
		} {
			_, err := openStore(ctx, raw)
			assert.Error(t, err, raw)
		}
	})
}
