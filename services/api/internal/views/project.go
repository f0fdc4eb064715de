package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/pipeline"
)

// Placeholders and fixed view texts.
const (
	NotAvailable     = "N/A"
	AllFilter        = "Todos"
	DefaultChartSize = 10

	FetchFailedMessage = "Error: Falló la conexión con la API."
	NoAlertsMessage    = "No hay alertas activas."
)

// Series is the chart payload for one medium, oldest point first.
type Series struct {
	Kind   models.SensorKind `json:"kind"`
	Times  []string          `json:"labels"`
	Values []float64         `json:"values"`
	Unit   string            `json:"unit"`
}

// ChartSeries takes the first limit events of kind (the feed is newest
// first) and returns them in ascending time order. The unit comes from the
// newest matching event. No match yields empty, non-nil slices.
func ChartSeries(events []models.NormalizedEvent, kind models.SensorKind, limit int) Series {
	if limit <= 0 {
		limit = DefaultChartSize
	}

	picked := make([]models.NormalizedEvent, 0, limit)
	for _, ev := range events {
		if ev.Kind != kind {
			continue
		}
		picked = append(picked, ev)
		if len(picked) == limit {
			break
		}
	}

	s := Series{Kind: kind, Times: make([]string, 0, len(picked)), Values: make([]float64, 0, len(picked))}
	if len(picked) == 0 {
		return s
	}
	s.Unit = picked[0].Unit

	for i := len(picked) - 1; i >= 0; i-- {
		s.Times = append(s.Times, clockLabel(picked[i]))
		s.Values = append(s.Values, picked[i].Value)
	}
	return s
}

func clockLabel(ev models.NormalizedEvent) string {
	if !ev.TimeKnown() {
		return NotAvailable
	}
	return ev.Time.Format("15:04:05")
}

// TableRow is one line of the history table.
type TableRow struct {
	Kind        models.SensorKind `json:"sensor"`
	Date        string            `json:"date"`
	Value       string            `json:"value"`
	Location    string            `json:"location"`
	Status      models.Severity   `json:"status"`
	StatusClass string            `json:"status_class"`
}

// TableRows projects events into table rows, keeping only kind matches when
// filter names a medium. "Todos", "all" or an empty filter keep everything.
// Unknown filters match nothing.
func TableRows(events []models.NormalizedEvent, filter string) []TableRow {
	kind, all := parseFilter(filter)

	rows := make([]TableRow, 0, len(events))
	for _, ev := range events {
		if !all && ev.Kind != kind {
			continue
		}
		rows = append(rows, TableRow{
			Kind:        ev.Kind,
			Date:        tableDate(ev),
			Value:       ev.Display,
			Location:    ev.Location,
			Status:      ev.Status,
			StatusClass: ev.Status.Class(),
		})
	}
	return rows
}

func parseFilter(filter string) (models.SensorKind, bool) {
	f := strings.TrimSpace(filter)
	if f == "" || strings.EqualFold(f, AllFilter) || strings.EqualFold(f, "all") {
		return 0, true
	}
	kind, _ := models.ParseKind(f)
	return kind, false
}

func tableDate(ev models.NormalizedEvent) string {
	if !ev.TimeKnown() {
		if ev.Timestamp == "" {
			return NotAvailable
		}
		return ev.Timestamp
	}
	return ev.Time.Format("2/1/2006, 15:04:05")
}

// Paginate slices rows for a 1-based page and returns the page count.
func Paginate(rows []TableRow, page, limit int) ([]TableRow, int) {
	if limit <= 0 {
		return rows, 1
	}
	if page <= 0 {
		page = 1
	}
	pages := (len(rows) + limit - 1) / limit
	start := (page - 1) * limit
	if start >= len(rows) {
		return []TableRow{}, pages
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], pages
}

// MapPoint is a sensor marker joined with its medium's current reading.
type MapPoint struct {
	ID       string            `json:"id"`
	Kind     models.SensorKind `json:"kind"`
	Status   models.Severity   `json:"status"`
	Class    string            `json:"class"`
	Top      string            `json:"top"`
	Left     string            `json:"left"`
	Value    string            `json:"value"`
	Location string            `json:"location"`
}

// InfoBox is the detail payload shown for a focused map point.
type InfoBox struct {
	SensorID string          `json:"sensor_id"`
	Title    string          `json:"title"`
	Value    string          `json:"value"`
	Status   models.Severity `json:"status"`
	Location string          `json:"location"`
	Danger   bool            `json:"danger"`
}

// MapView bundles every point with the preselected info box.
type MapView struct {
	Points []MapPoint `json:"points"`
	Focus  *InfoBox   `json:"focus,omitempty"`
}

// MapPoints joins each location with the current reading of its kind. The
// focus is the first soil sensor, else the first sensor listed.
func MapPoints(locations []models.SensorLocation, cur models.Current) MapView {
	view := MapView{Points: make([]MapPoint, 0, len(locations))}
	for _, loc := range locations {
		status, value := readingState(cur.Reading(loc.Kind))
		view.Points = append(view.Points, MapPoint{
			ID:       loc.ID,
			Kind:     loc.Kind,
			Status:   status,
			Class:    loc.Kind.Slug() + " " + status.Class(),
			Top:      loc.Top,
			Left:     loc.Left,
			Value:    value,
			Location: loc.Location,
		})
	}

	if focus, ok := FocusLocation(locations); ok {
		box := InfoBoxFor(focus, cur)
		view.Focus = &box
	}
	return view
}

// FocusLocation picks the sensor the info box starts on.
func FocusLocation(locations []models.SensorLocation) (models.SensorLocation, bool) {
	if len(locations) == 0 {
		return models.SensorLocation{}, false
	}
	for _, loc := range locations {
		if loc.Kind == models.KindSoil {
			return loc, true
		}
	}
	return locations[0], true
}

// InfoBoxFor builds the detail box for one sensor location.
func InfoBoxFor(loc models.SensorLocation, cur models.Current) InfoBox {
	status, value := readingState(cur.Reading(loc.Kind))
	return InfoBox{
		SensorID: loc.ID,
		Title:    fmt.Sprintf("Sensor %s (%s)", strings.ToUpper(loc.Kind.Slug()), strings.ToUpper(loc.ID)),
		Value:    value,
		Status:   status,
		Location: loc.Location,
		Danger:   status.Rank() == models.SeverityDanger.Rank(),
	}
}

func readingState(r *models.RawReading) (models.Severity, string) {
	if r == nil {
		return models.SeverityNormal, NotAvailable
	}
	value := NotAvailable
	if r.Defined() {
		value = strings.TrimSpace(r.Display())
	}
	return r.StatusOrDefault(), value
}

// Card is a quality summary for one medium.
type Card struct {
	Kind   models.SensorKind `json:"kind"`
	Value  string            `json:"value"`
	Unit   string            `json:"unit"`
	Status string            `json:"status"`
	Class  string            `json:"class"`
}

// QualityCards returns a card per medium with a defined current value.
// Media without one are left out so renderers keep their previous card.
func QualityCards(cur models.Current) []Card {
	cards := make([]Card, 0, len(models.Kinds))
	for _, kind := range models.Kinds {
		r := cur.Reading(kind)
		if !r.Defined() {
			continue
		}
		status := r.Status
		if strings.TrimSpace(status) == "" {
			status = NotAvailable
		}
		cards = append(cards, Card{
			Kind:   kind,
			Value:  r.Value.String(),
			Unit:   r.Unit,
			Status: status,
			Class:  models.Severity(r.Status).Class(),
		})
	}
	return cards
}

// Status is the one-line indicator shown above the dashboard.
type Status struct {
	Message   string    `json:"message"`
	OK        bool      `json:"ok"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// StatusLine formats the last-update line from the current snapshot's
// timestamp. ok is false when the timestamp is missing or unparsable.
func StatusLine(cur models.Current) (Status, bool) {
	t, ok := pipeline.ParseTimestamp(string(cur.Timestamp))
	if !ok {
		return Status{}, false
	}
	return Status{
		Message:   "Última actualización: " + t.Format("02/01/06, 3:04:05") + meridiem(t),
		OK:        true,
		UpdatedAt: t,
	}, true
}

func meridiem(t time.Time) string {
	if t.Hour() < 12 {
		return " a. m."
	}
	return " p. m."
}

// FailedStatus is rendered when a fetch fails.
func FailedStatus() Status {
	return Status{Message: FetchFailedMessage}
}

// Detail is the per-medium page: recent chart points and recent alerts.
type Detail struct {
	Kind          models.SensorKind    `json:"kind"`
	Title         string               `json:"title"`
	Current       InfoBox              `json:"current"`
	Chart         Series               `json:"chart"`
	Alerts        []models.AlertRecord `json:"alerts"`
	WindowMinutes float64              `json:"window_minutes"`
	EmptyMessage  string               `json:"empty_message,omitempty"`
}

// SensorDetail projects the detail page for kind. Missing data renders
// "N/A" placeholders rather than an error.
func SensorDetail(events []models.NormalizedEvent, cur models.Current, kind models.SensorKind, window time.Duration, chartSize int, now time.Time) Detail {
	d := Detail{
		Kind:          kind,
		Title:         "Detalle del Sensor de " + kind.Label(),
		Chart:         ChartSeries(events, kind, chartSize),
		Alerts:        pipeline.AlertsFromHistory(events, kind, window, now),
		WindowMinutes: window.Minutes(),
	}

	status, value := readingState(cur.Reading(kind))
	d.Current = InfoBox{
		Title:    "Sensor " + strings.ToUpper(kind.Slug()),
		Value:    value,
		Status:   status,
		Location: cur.Reading(kind).LocationOrDefault(),
		Danger:   status.Rank() == models.SeverityDanger.Rank(),
	}

	if len(d.Alerts) == 0 {
		d.EmptyMessage = fmt.Sprintf("No se encontraron alertas para %s en los últimos %s minutos.", kind.Label(), formatMinutes(window))
	}
	return d
}

func formatMinutes(d time.Duration) string {
	m := d.Minutes()
	if m == float64(int64(m)) {
		return fmt.Sprintf("%d", int64(m))
	}
	return fmt.Sprintf("%.1f", m)
}
