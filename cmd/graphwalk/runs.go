package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smallnest/graphwalk/log"
)

func newRunsCmd() *cobra.Command {
	var (
		storeURL string
		session  string
		wipe     bool
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List the walk artifacts a server session recorded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if session == "" {
				return errors.New("--session is required")
			}

			runs, err := openStore(cmd.Context(), storeURL)
			if err != nil {
				return err
			}
			if runs == nil {
				return errors.New("no store configured")
			}
			if c, ok := runs.(io.Closer); ok {
				defer c.Close()
			}

			if wipe {
				if err := runs.Clear(cmd.Context(), session); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared session %s\n", session)
				return nil
			}

			records, err := runs.List(cmd.Context(), session)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTIME\tNODES\tWALKS\tSHORTFALL\tDURATION\tARTIFACT")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
					r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.Nodes, r.Walks,
					r.Shortfall, log.FormatDuration(r.Duration), r.ArtifactPath)
			}
			return tw.Flush()
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&storeURL, "store", "", "run record store URL")
	fl.StringVar(&session, "session", "", "session ID printed by the server at startup")
	fl.BoolVar(&wipe, "clear", false, "delete the session's records instead of listing them")
	_ = cmd.MarkFlagRequired("store")
	return cmd
}
