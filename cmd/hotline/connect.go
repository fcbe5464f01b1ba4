package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConnectCmd() *cobra.Command {
	var f connectFlags
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Open a session, log in, and report the server's banner info",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := dialAndLogin(f)
			if err != nil {
				return err
			}
			defer sess.Disconnect()

			name, version := sess.ServerInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "connected to %s (protocol v%d) as %s\n", name, version, f.username)
			return nil
		},
	}
	addConnectFlags(cmd, &f)
	return cmd
}
