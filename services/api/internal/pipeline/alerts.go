package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
)

// DefaultAlertWindow is how far back history alerts are reported.
const DefaultAlertWindow = 2 * time.Minute

// AlertsFromCurrent emits one alert per medium whose current status is not
// Normal, stamped with now.
func AlertsFromCurrent(cur models.Current, now time.Time) []models.AlertRecord {
	alerts := make([]models.AlertRecord, 0, len(models.Kinds))
	for _, kind := range models.Kinds {
		r := cur.Reading(kind)
		if r == nil || models.Severity(r.Status).IsNormal() {
			continue
		}
		alerts = append(alerts, models.AlertRecord{
			Kind:       kind,
			Sensor:     kind.SensorName(),
			Location:   kind.Region(),
			Status:     models.Severity(r.Status),
			Message:    CurrentAlertMessage(r),
			ObservedAt: now,
		})
	}
	return alerts
}

// CurrentAlertMessage renders "<label> (<value><unit>) está en nivel de <status>.".
func CurrentAlertMessage(r *models.RawReading) string {
	return fmt.Sprintf("%s (%s%s) está en nivel de %s.", r.Label, r.Value.String(), r.Unit, r.Status)
}

// AlertsFromHistory returns the non-normal events of kind observed within
// window before now. Events with an unknown time are skipped. There is no cap
// on the number returned.
func AlertsFromHistory(events []models.NormalizedEvent, kind models.SensorKind, window time.Duration, now time.Time) []models.AlertRecord {
	cutoff := now.Add(-window)
	alerts := make([]models.AlertRecord, 0)
	for _, ev := range events {
		if ev.Kind != kind || ev.Status.IsNormal() {
			continue
		}
		if !ev.TimeKnown() || ev.Time.Before(cutoff) {
			continue
		}
		alerts = append(alerts, models.AlertRecord{
			Kind:       ev.Kind,
			Sensor:     ev.Kind.SensorName(),
			Location:   ev.Location,
			Status:     ev.Status,
			Message:    fmt.Sprintf("%s en %s: Valor %s", strings.ToUpper(string(ev.Status)), ev.Location, ev.Display),
			ObservedAt: ev.Time,
		})
	}
	return alerts
}
