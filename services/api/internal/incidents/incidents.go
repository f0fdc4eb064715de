// Package incidents keeps the site's manually reported incident log.
package incidents

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
)

var (
	// ErrNotFound is returned when no incident has the requested id.
	ErrNotFound = errors.New("incident not found")
	// ErrInvalid wraps validation failures on incoming incidents.
	ErrInvalid = errors.New("invalid incident")
	// ErrDuplicate is returned by stores when an id is already taken.
	ErrDuplicate = errors.New("duplicate incident id")
)

// Status is the lifecycle state of an incident.
type Status string

const (
	StatusOpen       Status = "Abierta"
	StatusInProgress Status = "En Progreso"
	StatusClosed     Status = "Cerrada"
)

// Statuses lists every lifecycle state.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusClosed}

// AllStatuses is the filter value that matches every incident.
const AllStatuses = "Todos"

// ParseStatus matches a status label case-insensitively.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// Class is the css class for the status tag ("status-en-progreso").
func (s Status) Class() string {
	return "status-" + strings.ReplaceAll(strings.ToLower(string(s)), " ", "-")
}

// Priority is the reported severity of an incident.
type Priority string

const (
	PriorityLow      Priority = "Baja"
	PriorityMedium   Priority = "Media"
	PriorityHigh     Priority = "Alta"
	PriorityCritical Priority = "Crítica"
)

// Priorities lists the severities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// ParsePriority matches a severity label case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	s = strings.TrimSpace(s)
	for _, p := range Priorities {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return "", false
}

// Class is the css class for the severity tag ("status-crítica").
func (p Priority) Class() string {
	return "status-" + strings.ToLower(string(p))
}

// Incident is one entry of the log.
type Incident struct {
	ID          string            `json:"id"`
	SensorKind  models.SensorKind `json:"sensorType"`
	Location    string            `json:"location"`
	Severity    Priority          `json:"severity"`
	Description string            `json:"description"`
	Status      Status            `json:"status"`
	Date        time.Time         `json:"date"`
}

const summaryLimit = 100

// Summary returns the description cut to 100 characters, with "..." appended
// when it was longer.
func (i Incident) Summary() string {
	if utf8.RuneCountInString(i.Description) <= summaryLimit {
		return i.Description
	}
	return string([]rune(i.Description)[:summaryLimit]) + "..."
}

// DisplayDate formats Date the way the log page shows it.
func (i Incident) DisplayDate() string {
	return i.Date.Format("2/1/2006, 15:04:05")
}

// Draft is the user-supplied part of a new incident.
type Draft struct {
	SensorKind  string `json:"sensorType"`
	Location    string `json:"location"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}
