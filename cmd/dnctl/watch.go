// cmd/dnctl/watch.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dn-client/internal/models"
	"dn-client/internal/watch"
	"dn-client/internal/workflow"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func (c *cli) newWatchCmd() *cobra.Command {
	var (
		q           workflow.BrowseQuery
		schedule    string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep refreshing the listing on a schedule",
		Long: `Watch lists notifications like "list" and refreshes on a cron
schedule (default from watch.schedule, "@every 30s"). With --metrics-addr
the Prometheus metrics are served on /metrics while watching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(c.context(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if schedule == "" {
				schedule = c.cfg.Watch.Schedule
			}
			if metricsAddr == "" && c.cfg.Metrics.Enabled {
				metricsAddr = c.cfg.Metrics.Address
			}

			out := cmd.OutOrStdout()
			w := watch.New(c.orch, q, c.cfg.Location(), c.log)
			w.OnRows = func(rows []models.OccurrenceRow) {
				now := c.now()
				fmt.Fprintf(out, "\n%s\n", now.In(c.cfg.Location()).Format(time.DateTime))
				if c.jsonOutput {
					_ = writeJSON(out, rows)
					return
				}
				_ = writeRows(out, rows, c.cfg.Location(), now)
			}
			if err := w.Schedule(ctx, schedule); err != nil {
				return err
			}

			if metricsAddr != "" {
				srv := serveMetrics(metricsAddr, c)
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			c.log.Info("watching", map[string]interface{}{"schedule": schedule, "metricsAddr": metricsAddr})
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&q.UUID, "uuid", "", "only rows of this notification")
	cmd.Flags().StringVar(&q.Content, "content", "", "search query over row content")
	cmd.Flags().BoolVar(&q.ShowAll, "all", false, "show every occurrence, not one per notification")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron spec for refreshes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func serveMetrics(addr string, c *cli) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.log.Error("metrics server stopped", map[string]interface{}{"error": err})
		}
	}()
	return srv
}
