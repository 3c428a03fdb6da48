// cmd/dnctl/delete.go
package main

import (
	"bufio"
	"fmt"
	"strings"

	apperrors "dn-client/internal/common/errors"
	"dn-client/internal/workflow"

	"github.com/spf13/cobra"
)

func (c *cli) newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <uuid>",
		Short: "Delete a notification and all of its occurrences",
		Long: `Delete removes a notification together with its scheduled and sent
occurrences. You are asked to confirm unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.context(cmd)
			id := args[0]

			// Load the rows first so the prompt can say what goes away.
			if _, err := c.orch.Browse(ctx, workflow.BrowseQuery{UUID: id, ShowAll: true}); err != nil {
				c.log.Warn("could not list occurrences before delete", map[string]interface{}{
					"uuid":  id,
					"error": apperrors.UserMessage(err),
				})
			}

			intent, err := c.orch.RequestDelete(id)
			if err != nil {
				return c.fail(workflow.OpDelete, err)
			}

			if !yes {
				ok, err := confirm(cmd, intent.Describe())
				if err != nil {
					c.orch.CancelDelete(intent)
					return err
				}
				if !ok {
					c.orch.CancelDelete(intent)
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := c.orch.ConfirmDelete(ctx, intent); err != nil {
				return c.fail(workflow.OpDelete, err)
			}
			if c.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"uuid": id, "deleted": true})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirm asks prompt on the command's output and reads y/yes from its input.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		// EOF without an answer means no.
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
