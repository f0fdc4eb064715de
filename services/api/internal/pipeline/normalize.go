package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/relvacode/iso8601"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
)

var fallbackLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.UnixDate,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
}

// ParseTimestamp parses a backend timestamp. Bare integers are epoch seconds
// or milliseconds; anything else is tried as ISO 8601, then a few common
// layouts. The boolean is false when nothing matched.
func ParseTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n <= 0 {
			return time.Time{}, false
		}
		// 1e11 seconds is far in the future; anything larger is milliseconds.
		if n >= 1e11 {
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}

	if t, err := iso8601.ParseString(s); err == nil {
		return t, true
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalize flattens history entries into one event per present medium.
// Entry order is preserved and media follow the fixed air, water, soil order.
// Entries without a medium, or with no value for it, emit nothing for that
// medium. The result does not depend on wall-clock time.
func Normalize(history []models.HistoryLogEntry) []models.NormalizedEvent {
	events := make([]models.NormalizedEvent, 0, len(history)*len(models.Kinds))
	for _, entry := range history {
		ts := string(entry.Timestamp)
		parsed, _ := ParseTimestamp(ts)

		for _, kind := range models.Kinds {
			reading := entry.Reading(kind)
			if !reading.Defined() {
				continue
			}
			events = append(events, NormalizeReading(kind, reading, ts, parsed))
		}
	}
	return events
}

// NormalizeReading builds the flat event for a single reading.
func NormalizeReading(kind models.SensorKind, r *models.RawReading, ts string, parsed time.Time) models.NormalizedEvent {
	return models.NormalizedEvent{
		Timestamp: ts,
		Time:      parsed,
		Kind:      kind,
		Value:     r.Value.Value,
		Unit:      r.Unit,
		Display:   r.Display(),
		Location:  r.LocationOrDefault(),
		Status:    r.StatusOrDefault(),
	}
}
