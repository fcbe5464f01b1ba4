package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fuzzywalrus/hotline-sub000/tracker"
)

func newTrackerCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tracker",
		Short: "Query a Hotline tracker",
	}
	root.AddCommand(newTrackerLsCmd())
	return root
}

func newTrackerLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls <tracker addr>",
		Short: "List servers registered with a tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			servers, err := tracker.ListServers(context.Background(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range servers {
				fmt.Fprintf(out, "%-21s %5d users  %s — %s\n",
					fmt.Sprintf("%s:%d", s.Address, s.Port), s.UserCount, s.Name, s.Description)
			}
			return nil
		},
	}
	return cmd
}
