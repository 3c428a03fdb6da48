// Package workflow ties the schema registry, the argument validator and the
// notification service together into the user-facing operations.
package workflow

import (
	"context"
	"sync"
	"time"

	"dn-client/internal/arguments"
	apperrors "dn-client/internal/common/errors"
	"dn-client/internal/common/logger"
	"dn-client/internal/common/metrics"
	"dn-client/internal/common/observability"
	"dn-client/internal/listing"
	"dn-client/internal/models"
	"dn-client/internal/temporal"
)

// Operation names used in logs and metrics.
const (
	OpCreate  = "create"
	OpDelete  = "delete"
	OpInspect = "inspect"
	OpBrowse  = "browse"
)

// StatusUnknown marks a row whose instant could not be parsed.
const StatusUnknown temporal.Status = "unknown"

// API is the subset of the service client the orchestrator drives.
type API interface {
	List(ctx context.Context, params models.ListParams) ([]models.OccurrenceRow, error)
	Info(ctx context.Context, uuid string) (*models.InfoResponse, error)
	Create(ctx context.Context, req models.CreateRequest) (*models.CreateResponse, error)
	Delete(ctx context.Context, uuid string) (*models.DeleteResponse, error)
}

// Schemas resolves notification types.
type Schemas interface {
	FindSchema(ctx context.Context, typeID string) (models.NotificationTypeSchema, error)
}

// Orchestrator holds the per-session state: the displayed listing, deleted
// uuids and pending delete intents. It is safe for concurrent use.
type Orchestrator struct {
	api     API
	schemas Schemas
	coercer *arguments.Coercer
	obs     *observability.Observability
	logger  logger.Logger
	now     func() time.Time

	seq Sequencer

	mu         sync.Mutex
	displayed  []models.OccurrenceRow
	tombstones map[string]struct{}
	intents    map[string]*DeleteIntent
}

type Option func(*Orchestrator)

func WithObservability(obs *observability.Observability) Option {
	return func(o *Orchestrator) { o.obs = obs }
}

func WithLogger(log logger.Logger) Option {
	return func(o *Orchestrator) { o.logger = log }
}

// WithClock replaces time.Now for status classification.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New builds an Orchestrator. loc is the zone DATETIME input is read in.
func New(api API, schemas Schemas, loc *time.Location, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:        api,
		schemas:    schemas,
		coercer:    arguments.NewCoercer(loc),
		logger:     logger.NewNoOpLogger(),
		now:        time.Now,
		tombstones: make(map[string]struct{}),
		intents:    make(map[string]*DeleteIntent),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.WithFields(map[string]interface{}{"component": "workflow"})
	return o
}

// Create validates raw against the schema of typeID and submits it. The new
// notification's uuid is returned on success.
func (o *Orchestrator) Create(ctx context.Context, typeID string, raw []models.RawValue) (uuid string, err error) {
	start := time.Now()
	defer func() { o.record(ctx, OpCreate, start, err) }()

	schema, err := o.schemas.FindSchema(ctx, typeID)
	if err != nil {
		return "", err
	}

	values, err := o.coercer.Coerce(schema, raw)
	if err != nil {
		kind := "arity"
		if k, ok := apperrors.Normalize(err).Metadata["kind"].(string); ok {
			kind = k
		}
		metrics.ArgumentValidationFailures.WithLabelValues(kind).Inc()
		return "", err
	}

	resp, err := o.api.Create(ctx, models.CreateRequest{Type: schema.TypeID, Arguments: values})
	if err != nil {
		return "", err
	}
	if !resp.OK {
		return "", apperrors.NewServerRejectedError(OpCreate, resp.Message)
	}

	o.logger.Info("notification created", map[string]interface{}{
		"uuid": resp.UUID,
		"type": schema.TypeID,
	})
	return resp.UUID, nil
}

// ClassifiedRow is an occurrence row with its passed/upcoming status.
type ClassifiedRow struct {
	models.OccurrenceRow
	Status temporal.Status `json:"status"`
}

// Inspection is the detail view of one notification.
type Inspection struct {
	Notification models.NotificationRecord `json:"notification"`
	Rows         []ClassifiedRow           `json:"rows"`
}

// Inspect loads a notification and classifies its rows against the clock.
func (o *Orchestrator) Inspect(ctx context.Context, uuid string) (result *Inspection, err error) {
	start := time.Now()
	defer func() { o.record(ctx, OpInspect, start, err) }()

	if uuid == "" {
		return nil, apperrors.NewMissingPreconditionError("notification uuid")
	}
	if o.isDeleted(uuid) {
		return nil, apperrors.NewNotificationNotFoundError(uuid)
	}

	info, err := o.api.Info(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if !info.OK {
		return nil, apperrors.NewServerRejectedError(OpInspect, info.Message)
	}

	now := o.now()
	rows := make([]ClassifiedRow, len(info.Rows))
	for i, r := range info.Rows {
		status, cerr := temporal.ClassifyStatus(r.UTCDatetime, now)
		if cerr != nil {
			status = StatusUnknown
		}
		rows[i] = ClassifiedRow{OccurrenceRow: r, Status: status}
	}
	return &Inspection{Notification: info.Notification, Rows: rows}, nil
}

// BrowseQuery selects what Browse lists. ShowAll keeps every occurrence
// instead of the first per notification.
type BrowseQuery struct {
	UUID    string
	Content string
	ShowAll bool
}

// Browse fetches the listing and commits it as the displayed state. If a newer
// Browse was issued while this one was in flight, the response is discarded
// and a STALE_RESPONSE error is returned.
func (o *Orchestrator) Browse(ctx context.Context, q BrowseQuery) (rows []models.OccurrenceRow, err error) {
	start := time.Now()
	defer func() { o.record(ctx, OpBrowse, start, err) }()

	seq := o.seq.Next()
	fetched, err := o.api.List(ctx, models.ListParams{UUID: q.UUID, Content: q.Content})
	if !o.seq.IsLatest(seq) {
		return nil, o.discard(seq)
	}
	if err != nil {
		return nil, err
	}

	rows = listing.Apply(fetched, listing.Query{
		Dedupe:  !q.ShowAll,
		Sort:    true,
		Content: q.Content,
	})

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.seq.IsLatest(seq) {
		return nil, o.discard(seq)
	}
	for id := range o.tombstones {
		rows = listing.RemoveUUID(rows, id)
	}
	o.displayed = rows
	return cloneRows(rows), nil
}

// Displayed returns the last committed listing.
func (o *Orchestrator) Displayed() []models.OccurrenceRow {
	o.mu.Lock()
	defer o.mu.Unlock()
	return cloneRows(o.displayed)
}

func (o *Orchestrator) discard(seq uint64) error {
	metrics.StaleResponsesDiscarded.Inc()
	latest := o.seq.Latest()
	o.logger.Debug("discarding stale list response", map[string]interface{}{
		"sequence": seq,
		"latest":   latest,
	})
	return apperrors.NewStaleResponseError(seq, latest)
}

func (o *Orchestrator) isDeleted(uuid string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, gone := o.tombstones[uuid]
	return gone
}

func (o *Orchestrator) record(ctx context.Context, op string, start time.Time, err error) {
	o.obs.RecordOperation(ctx, op, outcomeOf(err), time.Since(start))
}

func outcomeOf(err error) string {
	switch apperrors.CodeOf(err) {
	case "":
		if err != nil {
			return observability.OutcomeError
		}
		return observability.OutcomeOK
	case apperrors.ErrCodeServerRejected:
		return observability.OutcomeRejected
	case apperrors.ErrCodeValidationFailed, apperrors.ErrCodeMissingPrecondition, apperrors.ErrCodeSchemaNotFound:
		return observability.OutcomeInvalid
	case apperrors.ErrCodeStaleResponse:
		return observability.OutcomeStale
	default:
		return observability.OutcomeError
	}
}

func cloneRows(rows []models.OccurrenceRow) []models.OccurrenceRow {
	if rows == nil {
		return nil
	}
	out := make([]models.OccurrenceRow, len(rows))
	copy(out, rows)
	return out
}
