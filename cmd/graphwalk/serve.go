package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smallnest/graphwalk/config"
	"github.com/smallnest/graphwalk/kg"
	"github.com/smallnest/graphwalk/log"
	"github.com/smallnest/graphwalk/protocol"
	"github.com/smallnest/graphwalk/scheduler"
	"github.com/smallnest/graphwalk/server"
)

// runServer answers GET_RANDOM_WALKS requests until ctx is cancelled.
func runServer(ctx context.Context, _ *cobra.Command, cfg *config.Config, g *kg.Graph, logger log.Logger) error {
	runs, err := openStore(ctx, cfg.Server.Store)
	if err != nil {
		return err
	}
	if c, ok := runs.(io.Closer); ok {
		defer c.Close()
	}

	sched := scheduler.New(g.StartNodes(),
		scheduler.WithBatchSize(cfg.Server.BatchSize),
		scheduler.WithSampleRate(cfg.Sample),
		scheduler.WithSeed(cfg.Seed),
		scheduler.WithLogger(logger),
	)

	srv := server.New(g, sched, server.Options{
		Defaults:  protocol.Request{NumWalks: cfg.Walks, WalkLength: cfg.Length},
		OutputDir: cfg.Server.OutputDir,
		Workers:   cfg.Threads,
		Strict:    cfg.Server.Strict,
		Seed:      cfg.Seed,
		Store:     runs,
		SessionID: cfg.Server.Session,
		Logger:    logger,
	})
	logger.Info("Recording runs under session %s", srv.SessionID())

	return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Server.Port))
}
