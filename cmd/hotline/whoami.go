package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWhoamiCmd() *cobra.Command {
	var f connectFlags
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Log in and print the identity and server this session holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := dialAndLogin(f)
			if err != nil {
				return err
			}
			defer sess.Disconnect()

			name, version := sess.ServerInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "session    %s\n", sess.ID())
			fmt.Fprintf(out, "state      %s\n", sess.State())
			fmt.Fprintf(out, "username   %s\n", f.username)
			fmt.Fprintf(out, "login      %s\n", loginDisplay(f.login))
			fmt.Fprintf(out, "server     %s (protocol v%d)\n", name, version)
			return nil
		},
	}
	addConnectFlags(cmd, &f)
	return cmd
}

func loginDisplay(login string) string {
	if login == "" {
		return "<guest>"
	}
	return login
}
