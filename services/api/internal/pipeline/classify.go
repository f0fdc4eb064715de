package pipeline

import "github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"

// DefaultAlertRatio is the fraction of the danger threshold where a reading
// starts to alert.
const DefaultAlertRatio = 0.7

// Threshold is a per-medium danger limit with its alerting ratio.
type Threshold struct {
	Limit      float64
	AlertRatio float64
}

// Classify maps a value onto a severity tier: Peligro above the threshold,
// Alerta above ratio*threshold, Normal otherwise. Both bounds are strict.
func Classify(value float64, t Threshold) models.Severity {
	ratio := t.AlertRatio
	if ratio <= 0 {
		ratio = DefaultAlertRatio
	}
	switch {
	case value > t.Limit:
		return models.SeverityDanger
	case value > ratio*t.Limit:
		return models.SeverityAlert
	default:
		return models.SeverityNormal
	}
}
