package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smallnest/graphwalk/config"
	"github.com/smallnest/graphwalk/kg"
	"github.com/smallnest/graphwalk/log"
	"github.com/smallnest/graphwalk/runner"
	"github.com/smallnest/graphwalk/walk"
)

// runBatch samples start nodes once and writes every walk to cfg.Output.
func runBatch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, g *kg.Graph, logger log.Logger) error {
	seed := cfg.Seed
	if seed == 0 {
		seed = walk.TimeSeed()
	}

	nodes := runner.SelectStartNodes(g, cfg.Sample, walk.NewSource(seed))
	logger.Info("Selected %d of %d start nodes (sample rate %.2f)", len(nodes), len(g.StartNodes()), cfg.Sample)

	out, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", cfg.Output, err)
	}

	res, err := runner.Run(ctx, g, nodes, runner.Config{
		Workers:      cfg.Threads,
		WalksPerNode: cfg.Walks,
		WalkLength:   cfg.Length,
		Seed:         seed,
		Logger:       logger,
		Listeners:    []runner.Listener{runner.NewLoggingListener(logger)},
	}, out)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close output file %s: %w", cfg.Output, cerr)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(
		"Random walks written",
		[][2]string{
			{"Output", cfg.Output},
			{"Start nodes", fmt.Sprint(res.Nodes)},
			{"Workers", fmt.Sprint(res.Workers)},
			{"Walks", fmt.Sprint(res.Walks)},
			{"Seed", fmt.Sprint(res.Seed)},
			{"Time", log.FormatDuration(res.Duration)},
			{"Rate", fmt.Sprintf("%d walks/sec", log.Rate(res.Walks, res.Duration))},
		},
	))
	return nil
}
