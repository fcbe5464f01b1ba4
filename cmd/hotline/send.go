package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newSendCmd() *cobra.Command {
	var f connectFlags
	var announce bool
	cmd := &cobra.Command{
		Use:   "send <message...>",
		Short: "Send a line to public chat",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := dialAndLogin(f)
			if err != nil {
				return err
			}
			defer sess.Disconnect()

			return sess.SendChat(strings.Join(args, " "), announce)
		},
	}
	addConnectFlags(cmd, &f)
	cmd.Flags().BoolVar(&announce, "announce", false, "send as a server-wide announcement")
	return cmd
}
