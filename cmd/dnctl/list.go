// cmd/dnctl/list.go
package main

import (
	"dn-client/internal/workflow"

	"github.com/spf13/cobra"
)

func (c *cli) newListCmd() *cobra.Command {
	var q workflow.BrowseQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled and sent notifications, newest first",
		Long: `List shows one row per notification, newest first.

--content keeps rows whose content contains every word of the query
(case-insensitive, partial words match). --all shows every occurrence
instead of one row per notification.

Example:
  dnctl list
  dnctl list --content "take bins"
  dnctl list --uuid 6f1c2d3e-... --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := c.orch.Browse(c.context(cmd), q)
			if err != nil {
				return c.fail(workflow.OpBrowse, err)
			}
			if c.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			return writeRows(cmd.OutOrStdout(), rows, c.cfg.Location(), c.now())
		},
	}

	cmd.Flags().StringVar(&q.UUID, "uuid", "", "only rows of this notification")
	cmd.Flags().StringVar(&q.Content, "content", "", "search query over row content")
	cmd.Flags().BoolVar(&q.ShowAll, "all", false, "show every occurrence, not one per notification")
	return cmd
}
