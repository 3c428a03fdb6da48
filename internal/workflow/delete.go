package workflow

import (
	"context"
	"fmt"
	"time"

	apperrors "dn-client/internal/common/errors"
	"dn-client/internal/listing"
	"dn-client/internal/models"

	"github.com/google/uuid"
)

// DeleteIntent is a pending, single-use request to delete one notification.
type DeleteIntent struct {
	ID          string                 `json:"id"`
	UUID        string                 `json:"uuid"`
	Rows        []models.OccurrenceRow `json:"rows"`
	RequestedAt time.Time              `json:"requestedAt"`
}

// Describe returns the confirmation prompt for the intent.
func (d *DeleteIntent) Describe() string {
	switch len(d.Rows) {
	case 0:
		return fmt.Sprintf("Delete notification %s?", d.UUID)
	case 1:
		return fmt.Sprintf("Delete notification %s and its 1 listed occurrence?", d.UUID)
	default:
		return fmt.Sprintf("Delete notification %s and its %d listed occurrences?", d.UUID, len(d.Rows))
	}
}

// RequestDelete records the intent to delete id. Nothing is sent until the
// intent is confirmed.
func (o *Orchestrator) RequestDelete(id string) (*DeleteIntent, error) {
	if id == "" {
		return nil, apperrors.NewMissingPreconditionError("notification uuid")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewMissingPreconditionError("notification uuid").
			WithMetadata("uuid", id)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, gone := o.tombstones[id]; gone {
		return nil, apperrors.NewNotificationNotFoundError(id)
	}

	var rows []models.OccurrenceRow
	for _, r := range o.displayed {
		if r.UUID == id {
			rows = append(rows, r)
		}
	}
	intent := &DeleteIntent{
		ID:          uuid.New().String(),
		UUID:        id,
		Rows:        rows,
		RequestedAt: o.now().UTC(),
	}
	o.intents[intent.ID] = intent
	return intent, nil
}

// CancelDelete discards a pending intent.
func (o *Orchestrator) CancelDelete(intent *DeleteIntent) {
	if intent == nil {
		return
	}
	o.mu.Lock()
	delete(o.intents, intent.ID)
	o.mu.Unlock()
}

// ConfirmDelete issues the delete for a pending intent. On success the uuid is
// tombstoned for the rest of the session and its rows leave the displayed
// listing. On failure the intent stays pending so it can be confirmed again.
func (o *Orchestrator) ConfirmDelete(ctx context.Context, intent *DeleteIntent) (err error) {
	start := time.Now()
	defer func() { o.record(ctx, OpDelete, start, err) }()

	if intent == nil {
		return apperrors.NewMissingPreconditionError("delete confirmation")
	}
	o.mu.Lock()
	_, pending := o.intents[intent.ID]
	o.mu.Unlock()
	if !pending {
		return apperrors.NewMissingPreconditionError("delete confirmation")
	}

	resp, err := o.api.Delete(ctx, intent.UUID)
	if err != nil {
		return err
	}
	if !resp.OK {
		return apperrors.NewServerRejectedError(OpDelete, resp.Message)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, still := o.intents[intent.ID]; !still {
		// A concurrent confirm already completed this intent.
		return nil
	}
	delete(o.intents, intent.ID)
	o.tombstones[intent.UUID] = struct{}{}
	o.displayed = listing.RemoveUUID(o.displayed, intent.UUID)

	o.logger.Info("notification deleted", map[string]interface{}{"uuid": intent.UUID})
	return nil
}
