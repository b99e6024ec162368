package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/smallnest/graphwalk/kg"
	"github.com/smallnest/graphwalk/log"
	"github.com/smallnest/graphwalk/protocol"
	"github.com/smallnest/graphwalk/runner"
	"github.com/smallnest/graphwalk/scheduler"
	"github.com/smallnest/graphwalk/store"
)

// DefaultOutputDir is where artifacts go when Options.OutputDir is empty.
const DefaultOutputDir = "walks_output"

// Accept failures back off between these bounds, doubling each time.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// ErrCreateArtifact wraps failures to create the output file.
var ErrCreateArtifact = errors.New("could not create output file")

// Options configures a Server.
type Options struct {
	// Defaults fills request fields the client left out.
	Defaults protocol.Request

	// OutputDir receives one CSV artifact per request.
	OutputDir string

	// Workers parallelizes generation within a request; below 1 means 1.
	Workers int

	// Strict disables the duplicate fallback of distinct-walk generation.
	Strict bool

	// Seed is the base seed of every request; zero picks a fresh seed each time.
	Seed uint64

	// BufferSize is the per-worker sink capacity in lines.
	BufferSize int

	// Store records every artifact written. Nil disables recording.
	Store store.RunStore

	// SessionID groups the records of this server. Empty means a random UUID.
	SessionID string

	Logger log.Logger
}

// Server answers walk requests one connection at a time.
type Server struct {
	g     kg.Neighborer
	sched *scheduler.Scheduler
	opts  Options
	log   log.Logger
}

// New creates a server over g that draws start nodes from sched.
func New(g kg.Neighborer, sched *scheduler.Scheduler, opts Options) *Server {
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	return &Server{
		g:     g,
		sched: sched,
		opts:  opts,
		log:   log.OrDefault(opts.Logger),
	}
}

// SessionID returns the session under which runs are recorded.
func (s *Server) SessionID() string {
	return s.opts.SessionID
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and handles each to completion before
// accepting the next. It returns nil once ctx is cancelled, closing ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()
	defer ln.Close()

	s.log.Info("Server started on %s, waiting for connections...", ln.Addr())
	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("Server stopped")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			delay = min(max(2*delay, minAcceptDelay), maxAcceptDelay)
			s.log.Error("Accept failed: %v; retrying in %s", err, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
			continue
		}
		delay = 0

		s.log.Info("New connection accepted from %s", conn.RemoteAddr())
		s.handle(context.WithoutCancel(ctx), conn)
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, protocol.MaxRequestSize)
	n, err := conn.Read(buf)
	if n <= 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			s.log.Warn("Failed to read request: %v", err)
		}
		return
	}

	req, err := protocol.ParseRequest(string(buf[:n]), s.opts.Defaults)
	if err != nil {
		s.log.Warn("%v", err)
		s.reply(conn, protocol.FormatError(err.Error()))
		return
	}
	s.log.Info("Received request with parameters: numWalks=%d, walkLength=%d", req.NumWalks, req.WalkLength)

	rec, err := s.generate(ctx, req)
	if err != nil {
		s.log.Error("%v", err)
		msg := err.Error()
		if errors.Is(err, ErrCreateArtifact) {
			msg = "Could not create output file"
		}
		s.reply(conn, protocol.FormatError(msg))
		return
	}

	s.reply(conn, rec.ArtifactPath)
	s.record(ctx, rec, conn.RemoteAddr())
}

func (s *Server) reply(conn net.Conn, payload string) {
	if _, err := io.WriteString(conn, payload); err != nil {
		s.log.Warn("Failed to send response: %v", err)
	}
}

// generate writes one artifact for req from the next node batch.
func (s *Server) generate(ctx context.Context, req protocol.Request) (*store.RunRecord, error) {
	id := uuid.NewString()
	path, err := s.artifactPath(id)
	if err != nil {
		return nil, err
	}
	s.log.Info("Creating output file: %s", path)

	nodes := s.sched.NextBatch()

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateArtifact, err)
	}

	res, err := runner.Run(ctx, s.g, nodes, runner.Config{
		Workers:       s.opts.Workers,
		WalksPerNode:  req.NumWalks,
		WalkLength:    req.WalkLength,
		Distinct:      true,
		Strict:        s.opts.Strict,
		Seed:          s.opts.Seed,
		BufferSize:    s.opts.BufferSize,
		ProgressEvery: -1,
		Logger:        s.log,
	}, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("generate walks into %s: %w", path, err)
	}

	s.log.Info("Generated and saved %d walks to %s in %s (%d walks/sec)",
		res.Walks, path, log.FormatDuration(res.Duration), log.Rate(res.Walks, res.Duration))
	if res.Shortfall > 0 {
		s.log.Info("Handled %d potential duplicate walks during generation", res.Shortfall)
	}

	return &store.RunRecord{
		ID:           id,
		SessionID:    s.opts.SessionID,
		ArtifactPath: path,
		Nodes:        res.Nodes,
		Walks:        res.Walks,
		NumWalks:     req.NumWalks,
		WalkLength:   req.WalkLength,
		Shortfall:    res.Shortfall,
		Duration:     res.Duration,
		Timestamp:    time.Now(),
	}, nil
}

func (s *Server) artifactPath(id string) (string, error) {
	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCreateArtifact, err)
	}
	name := fmt.Sprintf("walks_%d_%s.csv", time.Now().UnixMilli(), id[:8])
	path, err := filepath.Abs(filepath.Join(s.opts.OutputDir, name))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCreateArtifact, err)
	}
	return path, nil
}

func (s *Server) record(ctx context.Context, rec *store.RunRecord, remote net.Addr) {
	if s.opts.Store == nil {
		return
	}
	if remote != nil {
		rec.Metadata = map[string]any{"remote_addr": remote.String()}
	}
	if err := s.opts.Store.Save(ctx, rec); err != nil {
		s.log.Warn("Failed to record run %s: %v", rec.ID, err)
	}
}
