package main

import (
	"fmt"
	"strings"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/fuzzywalrus/hotline-sub000/transfer"
)

func newGetCmd() *cobra.Command {
	var f connectFlags
	var destDir string
	var folder bool
	cmd := &cobra.Command{
		Use:   "get <name> [path]",
		Short: "Download a file or folder",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := dialAndLogin(f)
			if err != nil {
				return err
			}
			defer sess.Disconnect()

			name := args[0]
			var path []string
			if len(args) == 2 && args[1] != "" {
				path = strings.Split(args[1], "/")
			}

			host, port := sess.TransferAddr()

			if folder {
				ticket, err := sess.RequestDownloadFolder(name, path)
				if err != nil {
					return err
				}
				t, err := transfer.NewFolderDownload(host, port, transfer.Ticket{
					RefNum: ticket.RefNum, Size: ticket.Size, ItemCount: ticket.ItemCount, IsFolder: true,
				}, destDir)
				if err != nil {
					return err
				}
				return runTransfer(cmd, t)
			}

			ticket, err := sess.RequestDownloadFile(name, path, false)
			if err != nil {
				return err
			}
			t, err := transfer.NewFileDownload(host, port, transfer.Ticket{
				RefNum: ticket.RefNum, Size: ticket.Size,
			}, destDir)
			if err != nil {
				return err
			}
			return runTransfer(cmd, t)
		},
	}
	addConnectFlags(cmd, &f)
	cmd.Flags().StringVar(&destDir, "dest", ".", "local directory to write into")
	cmd.Flags().BoolVar(&folder, "folder", false, "download a folder instead of a single file")
	return cmd
}

// runTransfer drains a Transfer's progress stream to stdout and
// returns its terminal error.
func runTransfer(cmd *cobra.Command, t *transfer.Transfer) error {
	out := cmd.OutOrStdout()
	for p := range t.Progress() {
		switch ev := p.(type) {
		case transfer.TransferProgress:
			speed := "?"
			if ev.Speed != nil {
				speed = units.BytesSize(*ev.Speed) + "/s"
			}
			fmt.Fprintf(out, "\r%s  %s / %s  (%s)", ev.Name,
				units.BytesSize(float64(ev.Bytes)), units.BytesSize(float64(ev.Total)), speed)
		case transfer.ItemProgress:
			fmt.Fprintf(out, "\n[%d/%d] %s\n", ev.Index, ev.Total, ev.Name)
		case transfer.Completed:
			fmt.Fprintln(out, "\ndone")
		case transfer.Cancelled:
			fmt.Fprintln(out, "\ncancelled")
		case transfer.Error:
			fmt.Fprintf(out, "\nerror: %s\n", ev.Kind)
		}
	}
	return t.Wait()
}
