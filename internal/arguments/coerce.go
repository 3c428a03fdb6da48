// Package arguments validates raw form values against a notification type
// schema and coerces them into canonical wire values.
package arguments

import (
	"fmt"
	"time"

	apperrors "dn-client/internal/common/errors"
	"dn-client/internal/models"
)

// Coercer validates and coerces raw values. Datetime arguments are read as
// wall time in Location.
type Coercer struct {
	Location *time.Location
}

// NewCoercer returns a Coercer for loc; nil means the process local zone.
func NewCoercer(loc *time.Location) *Coercer {
	if loc == nil {
		loc = time.Local
	}
	return &Coercer{Location: loc}
}

// Coerce walks schema.Arguments in order and stops at the first invalid
// position. The returned error is a VALIDATION_FAILED StandardError carrying
// the position, the label and the label-qualified message.
func (c *Coercer) Coerce(schema models.NotificationTypeSchema, raw []models.RawValue) ([]models.TypedArgumentValue, error) {
	if len(raw) != len(schema.Arguments) {
		return nil, apperrors.NewValidationFailedError(-1, schema.TypeID,
			fmt.Sprintf("%s expects %d arguments, got %d.", schema.TypeID, len(schema.Arguments), len(raw)))
	}

	out := make([]models.TypedArgumentValue, len(raw))
	for i, spec := range schema.Arguments {
		r, ok := rules[spec.Kind]
		if !ok {
			return nil, positionError(i, spec, fmt.Sprintf("has unsupported type %q.", spec.Kind))
		}
		if msg := r.validate(raw[i]); msg != "" {
			return nil, positionError(i, spec, msg)
		}
		v, msg := r.coerce(raw[i], c.Location)
		if msg != "" {
			return nil, positionError(i, spec, msg)
		}
		out[i] = v
	}
	return out, nil
}

// Validate reports the first invalid position, or nil.
func (c *Coercer) Validate(schema models.NotificationTypeSchema, raw []models.RawValue) error {
	_, err := c.Coerce(schema, raw)
	return err
}

func positionError(i int, spec models.ArgumentSpec, msg string) error {
	return apperrors.NewValidationFailedError(i, spec.Label, qualify(spec.Label, msg)).
		WithMetadata("kind", string(spec.Kind))
}

// NewForm returns an empty raw value sequence for schema.
func NewForm(schema models.NotificationTypeSchema) []models.RawValue {
	return make([]models.RawValue, len(schema.Arguments))
}

// Rebind re-initializes values entered for schema from so they fit schema to.
// A value is carried over only when the argument kind at the same position is
// unchanged; every other position starts empty.
func Rebind(values []models.RawValue, from, to models.NotificationTypeSchema) []models.RawValue {
	out := NewForm(to)
	for i, spec := range to.Arguments {
		if i >= len(values) || i >= len(from.Arguments) {
			break
		}
		if from.Arguments[i].Kind == spec.Kind {
			out[i] = values[i]
		}
	}
	return out
}
