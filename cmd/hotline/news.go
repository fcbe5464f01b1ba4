package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newNewsCmd() *cobra.Command {
	var f connectFlags
	var path string
	var postTitle, postBody string
	var parentID uint32
	cmd := &cobra.Command{
		Use:   "news [path]",
		Short: "List news categories and articles, or post one with --title",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := dialAndLogin(f)
			if err != nil {
				return err
			}
			defer sess.Disconnect()

			newsPath := path
			if len(args) == 1 {
				newsPath = args[0]
			}
			var pathParts []string
			if newsPath != "" {
				pathParts = strings.Split(newsPath, "/")
			}

			if postTitle != "" {
				return sess.PostNewsArticle(postTitle, postBody, pathParts, parentID)
			}

			out := cmd.OutOrStdout()
			cats, err := sess.GetNewsCategories(pathParts)
			if err != nil {
				return err
			}
			for _, c := range cats {
				kind := "category"
				if c.Kind == 2 {
					kind = "bundle"
				}
				fmt.Fprintf(out, "%-10s %-5d %s\n", kind, c.ItemCount, c.Name)
			}

			articles, err := sess.GetNewsArticles(pathParts)
			if err != nil {
				return err
			}
			for _, a := range articles {
				fmt.Fprintf(out, "article    %-5d %s\n", a.ID, a.Title)
			}
			return nil
		},
	}
	addConnectFlags(cmd, &f)
	cmd.Flags().StringVar(&path, "path", "", "news path, slash-separated")
	cmd.Flags().StringVar(&postTitle, "title", "", "post a new article with this title instead of listing")
	cmd.Flags().StringVar(&postBody, "body", "", "article body (with --title)")
	cmd.Flags().Uint32Var(&parentID, "parent", 0, "parent article id (with --title), 0 for top-level")
	return cmd
}
