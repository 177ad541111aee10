// Package text provides pure cleaning helpers for scraped field values.
package text

import (
	"strings"
	"time"
)

// isoOffsetLayout renders UTC with an explicit +00:00 offset instead of Z.
const isoOffsetLayout = "2006-01-02T15:04:05.999999999-07:00"

// parseLayouts are tried in order when normalizing a publication datetime.
var parseLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Clean collapses all internal whitespace (including newlines and tabs)
// to single spaces and trims the result.
func Clean(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// CleanJoin cleans each value, drops empties, and joins the rest with
// single spaces.
func CleanJoin(values []string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if cleaned := Clean(v); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return strings.Join(parts, " ")
}

// CleanList cleans every entry, drops empties, and de-duplicates while
// preserving first-occurrence order.
func CleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		cleaned := Clean(v)
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
	}
	return out
}

// NormalizeDatetime cleans raw and attempts a strict ISO-8601 parse,
// mapping a trailing Z to an explicit UTC offset first. On success the
// timestamp is re-rendered UTC-normalized with an explicit offset. A
// cleaned value that does not parse is returned unchanged; callers must
// not treat that as a failure.
func NormalizeDatetime(raw string) string {
	value := Clean(raw)
	if value == "" {
		return ""
	}

	candidate := value
	if strings.HasSuffix(candidate, "Z") {
		candidate = strings.TrimSuffix(candidate, "Z") + "+00:00"
	}

	for _, layout := range parseLayouts {
		ts, err := time.ParseInLocation(layout, candidate, time.UTC)
		if err != nil {
			continue
		}
		return ts.UTC().Format(isoOffsetLayout)
	}
	return value
}
