// cmd/dnctl/create.go
package main

import (
	"fmt"

	"dn-client/internal/models"
	"dn-client/internal/workflow"

	"github.com/spf13/cobra"
)

func (c *cli) newCreateCmd() *cobra.Command {
	var (
		extra []string
		from  string
	)

	cmd := &cobra.Command{
		Use:   "create <type> [value...]",
		Short: "Create a notification of the given type",
		Long: `Create validates the values against the type's arguments, in order,
and submits them. Date and time values are read in the configured display
timezone (YYYY-MM-DDTHH:MM) and sent as UTC.

Values that start with a dash can be passed with --arg, which appends
after the positional values.

With --from, the arguments of an existing notification are used as a
starting point. Values whose kind matches the new type are kept; given
values replace them position by position, and an empty value keeps the
copied one.

Example:
  dnctl create ONCE 2026-01-12T23:30 "Take out the bins"
  dnctl create 30_MIN_BEFORE_REPEAT --arg 2026-01-13T09:00 --arg "- standup -"
  dnctl create 30_MIN_BEFORE_REPEAT --from 6f1c2d3e-... 2026-01-20T09:00`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.context(cmd)
			typeID := args[0]
			given := append(append([]string{}, args[1:]...), extra...)

			var values []models.RawValue
			if from != "" {
				base, err := c.orch.Prefill(ctx, from, typeID)
				if err != nil {
					return c.fail(workflow.OpCreate, err)
				}
				values = overlay(base, given)
			} else {
				values = make([]models.RawValue, 0, len(given))
				for _, v := range given {
					values = append(values, v)
				}
			}

			id, err := c.orch.Create(ctx, typeID, values)
			if err != nil {
				return c.fail(workflow.OpCreate, err)
			}
			if c.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"uuid": id, "type": typeID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s notification %s\n", typeID, id)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&extra, "arg", nil, "argument value (repeatable)")
	cmd.Flags().StringVar(&from, "from", "", "copy argument values from this notification uuid")
	return cmd
}

// overlay replaces base values with the non-empty given ones. Extra given
// values are appended so the length check still reports them.
func overlay(base []models.RawValue, given []string) []models.RawValue {
	out := append([]models.RawValue{}, base...)
	for i, v := range given {
		if i >= len(out) {
			out = append(out, v)
			continue
		}
		if v != "" {
			out[i] = v
		}
	}
	return out
}
