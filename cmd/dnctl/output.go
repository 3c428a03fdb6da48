// cmd/dnctl/output.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"dn-client/internal/models"
	"dn-client/internal/temporal"
	"dn-client/internal/workflow"
)

const maxContentWidth = 48

func writeJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func statusOf(instant string, now time.Time) temporal.Status {
	st, err := temporal.ClassifyStatus(instant, now)
	if err != nil {
		return workflow.StatusUnknown
	}
	return st
}

// writeRows prints occurrence rows as a table, times in loc.
func writeRows(w io.Writer, rows []models.OccurrenceRow, loc *time.Location, now time.Time) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No notifications.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSTATUS\tNAME\tUUID\tCONTENT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			temporal.FormatLocalDisplay(r.UTCDatetime, loc),
			statusOf(r.UTCDatetime, now),
			r.Name,
			r.UUID,
			truncate(r.Content, maxContentWidth),
		)
	}
	return tw.Flush()
}

func writeSchemas(w io.Writer, schemas []models.NotificationTypeSchema) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tPOSITION\tKIND\tLABEL\tDESCRIPTION")
	for _, s := range schemas {
		if len(s.Arguments) == 0 {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\n", s.TypeID)
			continue
		}
		for i, a := range s.Arguments {
			name := s.TypeID
			if i > 0 {
				name = ""
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", name, i+1, a.Kind, a.Label, a.Description)
		}
	}
	return tw.Flush()
}

func writeInspection(w io.Writer, in *workflow.Inspection, loc *time.Location) error {
	n := in.Notification
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = string(a)
	}
	active := "inactive"
	if n.ActiveStatus {
		active = "active"
	}
	fmt.Fprintf(w, "UUID:      %s\n", n.UUID)
	fmt.Fprintf(w, "Type:      %s (%s)\n", n.Type, active)
	fmt.Fprintf(w, "Created:   %s\n", temporal.FormatLocalDisplay(n.CreatedUTC, loc))
	fmt.Fprintf(w, "Arguments: [%s]\n\n", strings.Join(args, ", "))

	if len(in.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No occurrences.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSTATUS\tNAME\tCONTENT")
	for _, r := range in.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			temporal.FormatLocalDisplay(r.UTCDatetime, loc),
			r.Status,
			r.Name,
			truncate(r.Content, maxContentWidth),
		)
	}
	return tw.Flush()
}
