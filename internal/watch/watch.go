// Package watch refreshes the notification listing on a cron schedule.
package watch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	apperrors "dn-client/internal/common/errors"
	"dn-client/internal/common/logger"
	"dn-client/internal/models"
	"dn-client/internal/workflow"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule refreshes twice a minute.
const DefaultSchedule = "@every 30s"

// Browser is the listing operation a Watcher drives.
type Browser interface {
	Browse(ctx context.Context, q workflow.BrowseQuery) ([]models.OccurrenceRow, error)
}

// Watcher runs Browse on a schedule and hands committed listings to OnRows.
// Scheduled refreshes are skipped while the previous one still runs. Calls to
// OnRows are serialized, and a listing older than one already delivered is
// dropped.
type Watcher struct {
	browser Browser
	query   workflow.BrowseQuery
	logger  logger.Logger
	parser  cron.Parser
	c       *cron.Cron

	// OnRows receives every committed listing.
	OnRows func(rows []models.OccurrenceRow)

	refreshes atomic.Int64
	stale     atomic.Int64

	issued    atomic.Uint64
	mu        sync.Mutex
	delivered uint64
}

func New(b Browser, q workflow.BrowseQuery, loc *time.Location, log logger.Logger) *Watcher {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if loc == nil {
		loc = time.Local
	}
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	return &Watcher{
		browser: b,
		query:   q,
		logger:  log.WithFields(map[string]interface{}{"component": "watch"}),
		parser:  parser,
		c:       c,
	}
}

// Schedule registers a refresh at spec. An empty spec means DefaultSchedule.
func (w *Watcher) Schedule(ctx context.Context, spec string) error {
	if spec == "" {
		spec = DefaultSchedule
	}
	if _, err := w.parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	_, err := w.c.AddFunc(spec, func() {
		if err := w.Refresh(ctx); err != nil {
			w.logger.Warn("scheduled refresh failed", map[string]interface{}{
				"error": apperrors.UserMessage(err),
			})
		}
	})
	return err
}

// Refresh runs one Browse. A stale response is not an error.
func (w *Watcher) Refresh(ctx context.Context) error {
	w.refreshes.Add(1)
	seq := w.issued.Add(1)
	rows, err := w.browser.Browse(ctx, w.query)
	if apperrors.Is(err, apperrors.ErrCodeStaleResponse) {
		w.superseded()
		return nil
	}
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq < w.delivered {
		w.superseded()
		return nil
	}
	w.delivered = seq
	if w.OnRows != nil {
		w.OnRows(rows)
	}
	return nil
}

func (w *Watcher) superseded() {
	w.stale.Add(1)
	w.logger.Debug("refresh superseded", nil)
}

// Run refreshes once, then follows the schedule until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Refresh(ctx); err != nil {
		w.logger.Warn("initial refresh failed", map[string]interface{}{
			"error": apperrors.UserMessage(err),
		})
	}
	w.c.Start()
	<-ctx.Done()
	<-w.c.Stop().Done()
	return nil
}

// Stats reports how many refreshes ran and how many were superseded.
func (w *Watcher) Stats() (refreshes, stale int64) {
	return w.refreshes.Load(), w.stale.Load()
}
