// Package listing deduplicates, orders and searches occurrence rows.
//
// All functions are pure: they never modify their input slice and always
// return a new one.
package listing

import (
	"regexp"
	"sort"
	"strings"

	"dn-client/internal/models"
)

var nonWord = regexp.MustCompile(`\W`)

// Query selects which steps Apply runs. Steps always run in the order
// dedup, sort, filter.
type Query struct {
	Dedupe  bool
	Sort    bool
	Content string
}

// Apply runs the requested steps over rows.
func Apply(rows []models.OccurrenceRow, q Query) []models.OccurrenceRow {
	out := clone(rows)
	if q.Dedupe {
		out = DedupeByUUID(out)
	}
	if q.Sort {
		out = SortByDatetimeDesc(out)
	}
	return FilterContent(out, q.Content)
}

// DedupeByUUID keeps the first row seen for each uuid, preserving the order
// of first appearance.
func DedupeByUUID(rows []models.OccurrenceRow) []models.OccurrenceRow {
	seen := make(map[string]struct{}, len(rows))
	out := make([]models.OccurrenceRow, 0, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.UUID]; dup {
			continue
		}
		seen[r.UUID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// SortByDatetimeDesc orders rows newest first by comparing utc_datetime as
// strings. This relies on the fixed-width ISO-8601 wire format, where
// lexicographic and chronological order coincide. Ties keep input order.
func SortByDatetimeDesc(rows []models.OccurrenceRow) []models.OccurrenceRow {
	out := clone(rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UTCDatetime > out[j].UTCDatetime
	})
	return out
}

// FilterContent keeps rows whose content matches query. Every query token
// must be a substring of at least one content token. A blank query keeps
// everything; empty content never matches a non-blank query.
func FilterContent(rows []models.OccurrenceRow, query string) []models.OccurrenceRow {
	want := Tokenize(query)
	if len(want) == 0 {
		return clone(rows)
	}

	out := make([]models.OccurrenceRow, 0, len(rows))
	for _, r := range rows {
		if Matches(Tokenize(r.Content), want) {
			out = append(out, r)
		}
	}
	return out
}

// Tokenize lower-cases s, turns every non-word character into whitespace and
// splits on whitespace runs.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(nonWord.ReplaceAllString(strings.ToLower(s), " "))
}

// Matches reports whether every query token is contained in some content token.
func Matches(contentTokens, queryTokens []string) bool {
	if len(queryTokens) == 0 {
		return true
	}
	if len(contentTokens) == 0 {
		return false
	}
	for _, q := range queryTokens {
		found := false
		for _, c := range contentTokens {
			if strings.Contains(c, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// RemoveUUID drops every row belonging to uuid.
func RemoveUUID(rows []models.OccurrenceRow, uuid string) []models.OccurrenceRow {
	out := make([]models.OccurrenceRow, 0, len(rows))
	for _, r := range rows {
		if r.UUID != uuid {
			out = append(out, r)
		}
	}
	return out
}

func clone(rows []models.OccurrenceRow) []models.OccurrenceRow {
	out := make([]models.OccurrenceRow, len(rows))
	copy(out, rows)
	return out
}
