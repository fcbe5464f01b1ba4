package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/fuzzywalrus/hotline-sub000"
)

// connectFlags are the flags every subcommand that talks to a server
// shares: address plus credentials.
type connectFlags struct {
	addr     string
	login    string
	password string
	username string
	icon     uint16
	timeout  time.Duration
}

func addConnectFlags(cmd *cobra.Command, f *connectFlags) {
	cmd.Flags().StringVar(&f.addr, "addr", "", "server address, host:port (required)")
	cmd.Flags().StringVar(&f.login, "login", "", "account login (blank for guest)")
	cmd.Flags().StringVar(&f.password, "password", "", "account password")
	cmd.Flags().StringVar(&f.username, "username", "hotline-cli", "display name sent at login")
	cmd.Flags().Uint16Var(&f.icon, "icon", 414, "icon id sent at login")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "reply timeout")
	cmd.MarkFlagRequired("addr")
}

// dialAndLogin opens a Session against f.addr and logs in, the setup
// every subcommand below performs before its own work.
func dialAndLogin(f connectFlags) (*hotline.Session, error) {
	sess, err := hotline.Dial(f.addr, hotline.WithReplyTimeout(f.timeout))
	if err != nil {
		return nil, err
	}
	if err := sess.Login(f.login, f.password, f.username, f.icon); err != nil {
		sess.Disconnect()
		return nil, err
	}
	return sess, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hotline",
		Short:         "Talk to a Hotline BBS server from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newConnectCmd(),
		newWhoamiCmd(),
		newSendCmd(),
		newLsCmd(),
		newGetCmd(),
		newPutCmd(),
		newNewsCmd(),
		newTrackerCmd(),
	)

	return root
}
