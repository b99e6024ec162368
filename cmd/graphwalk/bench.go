package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallnest/graphwalk/log"
	"github.com/smallnest/graphwalk/runner"
	"github.com/smallnest/graphwalk/walk"
)

func newBenchCmd(root *rootFlags) *cobra.Command {
	var (
		node   string
		walks  int
		length int
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure single-threaded walk sampling throughput",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if walks < 1 || length < 1 {
				return fmt.Errorf("walks and length must be positive, got %d and %d", walks, length)
			}

			logger, err := newLogger(cmd, root.logLevel)
			if err != nil {
				return err
			}

			g, err := loadGraph(cmd.Context(), root.input, logger)
			if err != nil {
				return err
			}
			if node == "" {
				node = g.StartNodes()[0]
			} else if len(g.Neighbors(node)) == 0 {
				return fmt.Errorf("node %s has no outgoing edges", node)
			}
			if seed == 0 {
				seed = walk.TimeSeed()
			}

			res := runner.Benchmark(g, node, walks, length, walk.NewSource(seed), logger)
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(
				"Benchmark complete",
				[][2]string{
					{"Node", node},
					{"Walks", fmt.Sprint(res.Walks)},
					{"Entities", fmt.Sprint(res.Tokens)},
					{"Time", log.FormatDuration(res.Duration)},
					{"Rate", fmt.Sprintf("%d walks/sec", res.Rate())},
				},
			))
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&node, "node", "", "start node (defaults to the first node with outgoing edges)")
	fl.IntVarP(&walks, "walks", "w", 10000, "number of walks to sample")
	fl.IntVarP(&length, "length", "l", 15, "length of each walk in entities")
	fl.Uint64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	return cmd
}
