package pipeline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/pipeline"
)

func TestAlertsFromCurrentMessage(t *testing.T) {
	value := 45.0
	status := pipeline.Classify(value, pipeline.Threshold{Limit: 40, AlertRatio: 0.7})
	require.Equal(t, models.SeverityDanger, status)

	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	cur := models.Current{
		Air:   &models.RawReading{Value: models.NewNumber(value), Unit: "µg/m³", Status: string(status), Label: "PM2.5"},
		Water: &models.RawReading{Value: models.NewNumber(0.05), Unit: "mg/L", Status: "normal", Label: "Metales"},
	}

	alerts := pipeline.AlertsFromCurrent(cur, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, "PM2.5 (45µg/m³) está en nivel de Peligro.", alerts[0].Message)
	assert.Equal(t, models.KindAir, alerts[0].Kind)
	assert.Equal(t, "Calidad del Aire", alerts[0].Sensor)
	assert.Equal(t, "Sector A", alerts[0].Location)
	assert.Equal(t, now, alerts[0].ObservedAt)
}

func TestAlertsFromCurrentEmpty(t *testing.T) {
	assert.Empty(t, pipeline.AlertsFromCurrent(models.Current{}, time.Now()))
}

func TestAlertsFromHistoryWindow(t *testing.T) {
	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	at := func(ago time.Duration) time.Time { return now.Add(-ago) }

	events := []models.NormalizedEvent{
		{Kind: models.KindSoil, Status: "PELIGRO", Time: at(119 * time.Second), Location: "Zona C1", Display: "1300 ppm"},
		{Kind: models.KindSoil, Status: "Alerta", Time: at(121 * time.Second), Location: "Zona C2", Display: "900 ppm"},
		{Kind: models.KindSoil, Status: "Normal", Time: at(10 * time.Second)},
		{Kind: models.KindAir, Status: "Peligro", Time: at(10 * time.Second)},
		{Kind: models.KindSoil, Status: "Alerta", Timestamp: "garbage"},
		{Kind: models.KindSoil, Status: "Alerta", Time: at(2 * time.Minute), Location: "Zona C3", Display: "850 ppm"},
	}

	alerts := pipeline.AlertsFromHistory(events, models.KindSoil, pipeline.DefaultAlertWindow, now)
	require.Len(t, alerts, 2)
	assert.Equal(t, "PELIGRO en Zona C1: Valor 1300 ppm", alerts[0].Message)
	assert.Equal(t, "ALERTA en Zona C3: Valor 850 ppm", alerts[1].Message)
}

func TestAlertsFromHistoryNoMatches(t *testing.T) {
	alerts := pipeline.AlertsFromHistory(nil, models.KindWater, time.Minute, time.Now())
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}
