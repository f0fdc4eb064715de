package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Defaults applied to readings that omit optional fields.
const (
	DefaultStatus   = "Normal"
	DefaultLocation = "N/A"
)

// Payload models the JSON document returned by the read endpoint.
type Payload struct {
	Current Current           `json:"current"`
	History []HistoryLogEntry `json:"history"`
}

// Current is the latest reading per medium.
type Current struct {
	Air       *RawReading `json:"air,omitempty"`
	Water     *RawReading `json:"water,omitempty"`
	Soil      *RawReading `json:"soil,omitempty"`
	Timestamp Timestamp   `json:"timestamp,omitempty"`
}

// Reading returns the current reading for kind, or nil when absent.
func (c Current) Reading(kind SensorKind) *RawReading {
	switch kind {
	case KindAir:
		return c.Air
	case KindWater:
		return c.Water
	case KindSoil:
		return c.Soil
	}
	return nil
}

// HistoryLogEntry holds the readings captured at one timestamp.
type HistoryLogEntry struct {
	Timestamp Timestamp   `json:"timestamp"`
	Air       *RawReading `json:"air,omitempty"`
	Water     *RawReading `json:"water,omitempty"`
	Soil      *RawReading `json:"soil,omitempty"`
}

// Reading returns the entry's reading for kind, or nil when absent.
func (e HistoryLogEntry) Reading(kind SensorKind) *RawReading {
	switch kind {
	case KindAir:
		return e.Air
	case KindWater:
		return e.Water
	case KindSoil:
		return e.Soil
	}
	return nil
}

// RawReading is a single medium's reading as the backend delivers it.
type RawReading struct {
	Value    Number `json:"value"`
	Unit     string `json:"unit"`
	Status   string `json:"status,omitempty"`
	Location string `json:"location,omitempty"`
	Label    string `json:"label,omitempty"`
}

// Defined reports whether the reading exists and carries a value.
func (r *RawReading) Defined() bool {
	return r != nil && r.Value.Present
}

// StatusOrDefault returns the backend status, "Normal" when empty.
func (r *RawReading) StatusOrDefault() Severity {
	if r == nil || strings.TrimSpace(r.Status) == "" {
		return DefaultStatus
	}
	return Severity(r.Status)
}

// LocationOrDefault returns the reading location, "N/A" when empty.
func (r *RawReading) LocationOrDefault() string {
	if r == nil || strings.TrimSpace(r.Location) == "" {
		return DefaultLocation
	}
	return r.Location
}

// Display renders "<value> <unit>".
func (r *RawReading) Display() string {
	return r.Value.String() + " " + r.Unit
}

// Number is a reading value that may arrive as a JSON number or as a numeric
// string. Raw keeps the literal text for display.
type Number struct {
	Value   float64
	Raw     string
	Present bool
	Invalid bool
}

// NewNumber wraps a float as a present, valid Number.
func NewNumber(v float64) Number {
	return Number{Value: v, Raw: strconv.FormatFloat(v, 'f', -1, 64), Present: true}
}

// String returns the literal text, falling back to the shortest float form.
func (n Number) String() string {
	if n.Raw != "" {
		return n.Raw
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// UnmarshalJSON accepts numbers, numeric strings and null. Malformed values,
// NaN and infinities are kept as present but invalid, with a zero Value.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}

	text := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = Number{Raw: text, Present: true, Invalid: true}
			return nil
		}
		text = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*n = Number{Raw: text, Present: true, Invalid: true}
		return nil
	}
	*n = Number{Value: f, Raw: text, Present: true}
	return nil
}

// MarshalJSON writes a JSON number, or null when the value is absent.
// Invalid and non-finite values are written as their text.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Present {
		return []byte("null"), nil
	}
	if n.Invalid || math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return json.Marshal(n.String())
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// Timestamp is the backend's textual timestamp. Numeric epoch values are
// accepted and kept as their decimal text.
type Timestamp string

// UnmarshalJSON accepts strings, numbers and null.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Timestamp(s)
		return nil
	}
	*t = Timestamp(b)
	return nil
}

// NormalizedEvent is one medium's reading at one timestamp, flattened.
type NormalizedEvent struct {
	Timestamp string     `json:"timestamp"`
	Time      time.Time  `json:"-"`
	Kind      SensorKind `json:"sensor"`
	Value     float64    `json:"value"`
	Unit      string     `json:"unit"`
	Display   string     `json:"display"`
	Location  string     `json:"location"`
	Status    Severity   `json:"status"`
}

// TimeKnown reports whether the event timestamp could be parsed.
func (e NormalizedEvent) TimeKnown() bool {
	return !e.Time.IsZero()
}

// AlertRecord is a derived, non-persisted alert.
type AlertRecord struct {
	Kind       SensorKind `json:"kind"`
	Sensor     string     `json:"sensor"`
	Location   string     `json:"location"`
	Status     Severity   `json:"status"`
	Message    string     `json:"message"`
	ObservedAt time.Time  `json:"observed_at"`
}

// SensorLocation describes where a physical sensor sits on the site map.
type SensorLocation struct {
	ID       string     `json:"id"`
	Kind     SensorKind `json:"kind"`
	Top      string     `json:"top"`
	Left     string     `json:"left"`
	Location string     `json:"location"`
}
