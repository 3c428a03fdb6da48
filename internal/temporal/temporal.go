// Package temporal converts between naive local datetimes entered by a user
// and the UTC instants exchanged with the notification service.
package temporal

import (
	"fmt"
	"strings"
	"time"
)

// InstantLayout is the canonical wire format. It is fixed width and zero
// padded, so lexicographic order of formatted instants is chronological.
const InstantLayout = "2006-01-02T15:04:05Z"

// DisplayLayout is used when rendering an instant for a person.
const DisplayLayout = "Mon 02 Jan 2006 15:04 MST"

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// Status classifies an occurrence relative to now.
type Status string

const (
	StatusPassed   Status = "passed"
	StatusUpcoming Status = "upcoming"
)

// LocalToUTCInstant interprets naive (YYYY-MM-DDTHH:MM[:SS[.fff]]) in loc and
// returns the instant in InstantLayout. Input that already carries a zone
// designator is converted as-is. Sub-second precision is dropped.
//
// Wall times that do not exist or occur twice in loc (DST transitions) are
// resolved the way time.Date resolves them.
func LocalToUTCInstant(naive string, loc *time.Location) (string, error) {
	s := strings.TrimSpace(naive)
	if s == "" {
		return "", fmt.Errorf("empty datetime")
	}
	if loc == nil {
		loc = time.Local
	}
	s = normalize(s)

	if hasZone(s) {
		t, err := parseZoned(s)
		if err != nil {
			return "", fmt.Errorf("parse datetime %q: %w", naive, err)
		}
		return FormatInstant(t), nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return FormatInstant(t), nil
		}
	}
	return "", fmt.Errorf("parse datetime %q: expected YYYY-MM-DDTHH:MM[:SS]", naive)
}

// FormatInstant renders t in the canonical UTC wire format.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// ParseInstant parses a wire instant. Naive values are read as UTC, matching
// the service's own parser.
func ParseInstant(instant string) (time.Time, error) {
	s := strings.TrimSpace(instant)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty instant")
	}
	s = normalize(s)

	if hasZone(s) {
		t, err := parseZoned(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse instant %q: %w", instant, err)
		}
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse instant %q: not ISO-8601", instant)
}

// ClassifyStatus returns StatusPassed when instant <= now and StatusUpcoming
// otherwise.
func ClassifyStatus(instant string, now time.Time) (Status, error) {
	t, err := ParseInstant(instant)
	if err != nil {
		return "", err
	}
	if t.After(now) {
		return StatusUpcoming, nil
	}
	return StatusPassed, nil
}

// FormatLocalDisplay renders instant in loc. Unparseable input is returned
// unchanged so the caller can still show something.
func FormatLocalDisplay(instant string, loc *time.Location) string {
	t, err := ParseInstant(instant)
	if err != nil {
		return instant
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayLayout)
}

// normalize uses T as the date/time separator and an upper-case Z designator.
func normalize(s string) string {
	s = strings.Replace(s, " ", "T", 1)
	if strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "Z"
	}
	return s
}

// parseZoned accepts a zoned instant with or without seconds.
func parseZoned(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range zonedLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// hasZone reports whether s ends in Z or a numeric offset after the time part.
func hasZone(s string) bool {
	if strings.HasSuffix(s, "Z") {
		return true
	}
	tIdx := strings.IndexByte(s, 'T')
	if tIdx < 0 {
		return false
	}
	clock := s[tIdx+1:]
	return strings.ContainsAny(clock, "+-")
}
