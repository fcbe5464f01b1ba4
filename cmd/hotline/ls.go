package main

import (
	"fmt"
	"strings"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

func newLsCmd() *cobra.Command {
	var f connectFlags
	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List files and folders at path (default: the share root)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := dialAndLogin(f)
			if err != nil {
				return err
			}
			defer sess.Disconnect()

			var path []string
			if len(args) == 1 && args[0] != "" {
				path = strings.Split(args[0], "/")
			}

			files, err := sess.GetFileList(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, fi := range files {
				if fi.IsFolder() {
					fmt.Fprintf(out, "%-10s  %s/\n", "<dir>", fi.Name)
					continue
				}
				fmt.Fprintf(out, "%-10s  %s\n", units.HumanSize(float64(fi.Size)), fi.Name)
			}
			return nil
		},
	}
	addConnectFlags(cmd, &f)
	return cmd
}
