package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fuzzywalrus/hotline-sub000/transfer"
)

func newPutCmd() *cobra.Command {
	var f connectFlags
	var folder bool
	cmd := &cobra.Command{
		Use:   "put <local path> [remote path]",
		Short: "Upload a local file or folder",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := dialAndLogin(f)
			if err != nil {
				return err
			}
			defer sess.Disconnect()

			localPath := args[0]
			var remotePath []string
			if len(args) == 2 && args[1] != "" {
				remotePath = strings.Split(args[1], "/")
			}

			host, port := sess.TransferAddr()
			name := localBaseName(localPath)

			if folder {
				count, total, err := statLocalFolder(localPath)
				if err != nil {
					return err
				}
				ticket, err := sess.RequestUploadFolder(name, remotePath, count, total)
				if err != nil {
					return err
				}
				t, err := transfer.NewFolderUpload(host, port, transfer.Ticket{
					RefNum: ticket.RefNum, ItemCount: ticket.ItemCount, IsFolder: true,
				}, localPath)
				if err != nil {
					return err
				}
				return runTransfer(cmd, t)
			}

			ticket, err := sess.RequestUploadFile(name, remotePath)
			if err != nil {
				return err
			}
			t, err := transfer.NewFileUpload(host, port, transfer.Ticket{RefNum: ticket.RefNum}, localPath)
			if err != nil {
				return err
			}
			return runTransfer(cmd, t)
		},
	}
	addConnectFlags(cmd, &f)
	cmd.Flags().BoolVar(&folder, "folder", false, "upload a local directory instead of a single file")
	return cmd
}
