// cmd/dnctl/types.go
package main

import (
	"github.com/spf13/cobra"
)

func (c *cli) newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the notification types and their arguments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas, err := c.registry.ListSchemas(c.context(cmd))
			if err != nil {
				return c.fail("types", err)
			}
			if c.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), schemas)
			}
			return writeSchemas(cmd.OutOrStdout(), schemas)
		},
	}
}
