package main

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smallnest/graphwalk/protocol"
)

func newClientCmd() *cobra.Command {
	var (
		host    string
		port    int
		walks   int
		length  int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Request random walks from a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := &protocol.Client{
				Addr:        net.JoinHostPort(host, strconv.Itoa(port)),
				DialTimeout: timeout,
			}

			path, err := c.RandomWalks(cmd.Context(), walks, length)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Random walks have been generated and saved to: %s\n", path)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&host, "host", "H", "127.0.0.1", "server host")
	fl.IntVarP(&port, "port", "p", 8080, "server port")
	fl.IntVarP(&walks, "walks", "w", 10, "number of walks per node")
	fl.IntVarP(&length, "length", "l", 15, "length of each walk in entities")
	fl.DurationVar(&timeout, "timeout", protocol.DefaultDialTimeout, "connect timeout")
	return cmd
}
