package workflow

import (
	"context"
	"encoding/json"
	"strconv"

	"dn-client/internal/arguments"
	apperrors "dn-client/internal/common/errors"
	"dn-client/internal/models"
	"dn-client/internal/temporal"
)

// naiveLayout renders a DATETIME argument back into the form a user types.
const naiveLayout = "2006-01-02T15:04:05"

// Prefill returns raw values for typeID taken from an existing notification.
// The source arguments are turned back into user input (instants become local
// wall times) and rebound onto the target schema, so positions whose kind
// differs start empty.
func (o *Orchestrator) Prefill(ctx context.Context, sourceUUID, typeID string) ([]models.RawValue, error) {
	target, err := o.schemas.FindSchema(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if sourceUUID == "" {
		return arguments.NewForm(target), nil
	}

	inspection, err := o.Inspect(ctx, sourceUUID)
	if err != nil {
		return nil, err
	}
	source, err := o.schemas.FindSchema(ctx, inspection.Notification.Type)
	if err != nil {
		return nil, err
	}

	values := make([]models.RawValue, len(source.Arguments))
	for i, spec := range source.Arguments {
		if i >= len(inspection.Notification.Arguments) {
			break
		}
		v, err := o.toRaw(spec.Kind, inspection.Notification.Arguments[i])
		if err != nil {
			return nil, apperrors.NewDecodeFailedError(OpInspect, err)
		}
		values[i] = v
	}
	return arguments.Rebind(values, source, target), nil
}

func (o *Orchestrator) toRaw(kind models.ArgumentKind, raw json.RawMessage) (models.RawValue, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return x, nil
	case float64:
		if kind == models.KindInteger {
			return strconv.FormatInt(int64(x), 10), nil
		}
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case string:
		if kind == models.KindDatetime {
			if t, err := temporal.ParseInstant(x); err == nil {
				return t.In(o.coercer.Location).Format(naiveLayout), nil
			}
		}
		return x, nil
	default:
		return string(raw), nil
	}
}
