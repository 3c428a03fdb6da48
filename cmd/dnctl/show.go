// cmd/dnctl/show.go
package main

import (
	"dn-client/internal/workflow"

	"github.com/spf13/cobra"
)

func (c *cli) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <uuid>",
		Short: "Show one notification and its occurrences",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			in, err := c.orch.Inspect(c.context(cmd), id)
			if err != nil {
				return c.fail(workflow.OpInspect, err)
			}
			if c.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), in)
			}
			return writeInspection(cmd.OutOrStdout(), in, c.cfg.Location())
		},
	}
}
