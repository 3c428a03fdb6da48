package arguments

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"dn-client/internal/models"
	"dn-client/internal/temporal"
)

// rule is the validate/coerce pair for one argument kind. validate returns a
// message (without the label) when raw is unacceptable; coerce may still fail
// for inputs validate cannot see through, such as an unparseable datetime.
type rule struct {
	validate func(raw models.RawValue) string
	coerce   func(raw models.RawValue, loc *time.Location) (models.TypedArgumentValue, string)
}

// rules is the single registration site for argument kinds.
var rules = map[models.ArgumentKind]rule{
	models.KindDatetime: {validate: validateDatetime, coerce: coerceDatetime},
	models.KindText:     {validate: validateText, coerce: textCoercer(models.KindText)},
	models.KindTextarea: {validate: validateText, coerce: textCoercer(models.KindTextarea)},
	models.KindInteger:  {validate: validateInteger, coerce: coerceInteger},
	models.KindFloat:    {validate: validateFloat, coerce: coerceFloat},
	models.KindBoolean:  {validate: func(models.RawValue) string { return "" }, coerce: coerceBoolean},
}

const (
	msgRequired = "is required."
	msgDatetime = "must be a date and time (YYYY-MM-DDTHH:MM)."
	msgText     = "must be text."
	msgInteger  = "must be an integer."
	msgFloat    = "must be a number."
)

func asString(raw models.RawValue) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	default:
		return "", false
	}
}

func validateDatetime(raw models.RawValue) string {
	s, ok := asString(raw)
	if !ok {
		return msgDatetime
	}
	if strings.TrimSpace(s) == "" {
		return msgRequired
	}
	return ""
}

func coerceDatetime(raw models.RawValue, loc *time.Location) (models.TypedArgumentValue, string) {
	s, _ := asString(raw)
	instant, err := temporal.LocalToUTCInstant(s, loc)
	if err != nil {
		return models.TypedArgumentValue{}, msgDatetime
	}
	return models.InstantValue(instant), ""
}

func validateText(raw models.RawValue) string {
	s, ok := asString(raw)
	if !ok {
		return msgText
	}
	if strings.TrimSpace(s) == "" {
		return msgRequired
	}
	return ""
}

// textCoercer keeps the original, untrimmed string.
func textCoercer(kind models.ArgumentKind) func(models.RawValue, *time.Location) (models.TypedArgumentValue, string) {
	return func(raw models.RawValue, _ *time.Location) (models.TypedArgumentValue, string) {
		s, _ := asString(raw)
		return models.TextValue(kind, s), ""
	}
}

// parseFinite converts raw to a finite float64.
func parseFinite(raw models.RawValue) (float64, bool) {
	s, ok := asString(raw)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseInteger(raw models.RawValue) (int64, bool) {
	if s, ok := asString(raw); ok {
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return i, true
		}
	}
	f, ok := parseFinite(raw)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func validateInteger(raw models.RawValue) string {
	if _, ok := parseInteger(raw); !ok {
		return msgInteger
	}
	return ""
}

func coerceInteger(raw models.RawValue, _ *time.Location) (models.TypedArgumentValue, string) {
	i, ok := parseInteger(raw)
	if !ok {
		return models.TypedArgumentValue{}, msgInteger
	}
	return models.IntegerValue(i), ""
}

func validateFloat(raw models.RawValue) string {
	if _, ok := parseFinite(raw); !ok {
		return msgFloat
	}
	return ""
}

func coerceFloat(raw models.RawValue, _ *time.Location) (models.TypedArgumentValue, string) {
	f, ok := parseFinite(raw)
	if !ok {
		return models.TypedArgumentValue{}, msgFloat
	}
	return models.FloatValue(f), ""
}

// coerceBoolean never fails. Absent and falsy values become false; strings
// follow strconv.ParseBool plus the checkbox words on/off and yes/no, and any
// other non-empty string counts as true.
func coerceBoolean(raw models.RawValue, _ *time.Location) (models.TypedArgumentValue, string) {
	switch v := raw.(type) {
	case bool:
		return models.FlagValue(v), ""
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		switch s {
		case "", "off", "no":
			return models.FlagValue(false), ""
		case "on", "yes":
			return models.FlagValue(true), ""
		}
		if b, err := strconv.ParseBool(s); err == nil {
			return models.FlagValue(b), ""
		}
		return models.FlagValue(true), ""
	default:
		return models.FlagValue(false), ""
	}
}

func qualify(label, msg string) string {
	if label == "" {
		label = "Value"
	}
	return fmt.Sprintf("%s %s", label, msg)
}
