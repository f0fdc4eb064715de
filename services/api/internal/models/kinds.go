package models

import (
	"fmt"
	"strings"
)

// SensorKind identifies a monitored medium.
type SensorKind int

const (
	KindAir SensorKind = iota + 1
	KindWater
	KindSoil
)

// Kinds lists media in their fixed rendering order.
var Kinds = []SensorKind{KindAir, KindWater, KindSoil}

type kindInfo struct {
	label    string
	slug     string
	key      string
	sensor   string
	location string
}

var kindTable = map[SensorKind]kindInfo{
	KindAir:   {label: "Aire", slug: "aire", key: "air", sensor: "Calidad del Aire", location: "Sector A"},
	KindWater: {label: "Agua", slug: "agua", key: "water", sensor: "Calidad del Agua", location: "Pozo B"},
	KindSoil:  {label: "Suelo", slug: "suelo", key: "soil", sensor: "Calidad del Suelo", location: "Zona C"},
}

// Label is the display name ("Aire").
func (k SensorKind) Label() string { return kindTable[k].label }

// Slug is the lower-case page parameter ("aire").
func (k SensorKind) Slug() string { return kindTable[k].slug }

// Key is the backend JSON key ("air").
func (k SensorKind) Key() string { return kindTable[k].key }

// SensorName is the alert heading for the medium.
func (k SensorKind) SensorName() string { return kindTable[k].sensor }

// Region is the site area reported on alerts derived from current readings.
func (k SensorKind) Region() string { return kindTable[k].location }

// Valid reports whether k is one of the known media.
func (k SensorKind) Valid() bool {
	_, ok := kindTable[k]
	return ok
}

func (k SensorKind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return k.Label()
}

// MarshalText encodes the kind as its label.
func (k SensorKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid sensor kind %d", int(k))
	}
	return []byte(k.Label()), nil
}

// UnmarshalText accepts any form ParseKind does.
func (k *SensorKind) UnmarshalText(b []byte) error {
	parsed, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("unknown sensor kind %q", string(b))
	}
	*k = parsed
	return nil
}

// ParseKind matches a label, slug or JSON key case-insensitively.
func ParseKind(s string) (SensorKind, bool) {
	s = strings.TrimSpace(s)
	for _, k := range Kinds {
		info := kindTable[k]
		if strings.EqualFold(s, info.label) || strings.EqualFold(s, info.slug) || strings.EqualFold(s, info.key) {
			return k, true
		}
	}
	return 0, false
}

// Severity is the backend-supplied status label.
type Severity string

const (
	SeverityNormal Severity = "Normal"
	SeverityAlert  Severity = "Alerta"
	SeverityDanger Severity = "Peligro"
)

// IsNormal compares case-insensitively; an empty label counts as normal.
func (s Severity) IsNormal() bool {
	return strings.TrimSpace(string(s)) == "" || strings.EqualFold(string(s), string(SeverityNormal))
}

// Rank orders tiers Normal < Alerta < Peligro. Unknown non-normal labels rank
// with Alerta.
func (s Severity) Rank() int {
	switch {
	case s.IsNormal():
		return 0
	case strings.EqualFold(string(s), string(SeverityDanger)):
		return 2
	default:
		return 1
	}
}

// Class is the lower-case css class used by the views.
func (s Severity) Class() string {
	if strings.TrimSpace(string(s)) == "" {
		return "normal"
	}
	return strings.ToLower(string(s))
}
