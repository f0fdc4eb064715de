package views_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/views"
)

var base = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

// newestFirst builds n events per kind, newest first, interleaving media.
func newestFirst(n int) []models.NormalizedEvent {
	events := make([]models.NormalizedEvent, 0, n*3)
	for i := 0; i < n; i++ {
		ts := base.Add(-time.Duration(i) * time.Minute)
		for _, kind := range models.Kinds {
			v := float64(100*int(kind) + i)
			events = append(events, models.NormalizedEvent{
				Timestamp: ts.Format(time.RFC3339),
				Time:      ts,
				Kind:      kind,
				Value:     v,
				Unit:      kind.Key() + "-unit",
				Display:   fmt.Sprintf("%v %s-unit", v, kind.Key()),
				Location:  "L" + kind.Slug(),
				Status:    models.SeverityNormal,
			})
		}
	}
	return events
}

func TestChartSeriesEmpty(t *testing.T) {
	s := views.ChartSeries(nil, models.KindAir, 10)
	assert.Equal(t, []string{}, s.Times)
	assert.Equal(t, []float64{}, s.Values)
	assert.Equal(t, "", s.Unit)
}

func TestChartSeriesTakesNewestAndAscends(t *testing.T) {
	s := views.ChartSeries(newestFirst(15), models.KindWater, 10)

	require.Len(t, s.Values, 10)
	require.Len(t, s.Times, 10)
	assert.Equal(t, "water-unit", s.Unit)
	assert.Equal(t, 209.0, s.Values[0])
	assert.Equal(t, 200.0, s.Values[9])
	assert.Equal(t, "09:51:00", s.Times[0])
	assert.Equal(t, "10:00:00", s.Times[9])
}

func TestChartSeriesUnknownTime(t *testing.T) {
	events := []models.NormalizedEvent{{Kind: models.KindSoil, Value: 3, Unit: "ppm", Timestamp: "???"}}
	s := views.ChartSeries(events, models.KindSoil, 0)
	assert.Equal(t, []string{"N/A"}, s.Times)
	assert.Equal(t, []float64{3}, s.Values)
}

func TestTableRowsFilter(t *testing.T) {
	events := newestFirst(4)

	water := views.TableRows(events, "Agua")
	require.Len(t, water, 4)
	for i, row := range water {
		assert.Equal(t, models.KindWater, row.Kind)
		assert.Equal(t, fmt.Sprintf("%v water-unit", 200+i), row.Value)
	}

	assert.Len(t, views.TableRows(events, "Todos"), 12)
	assert.Len(t, views.TableRows(events, ""), 12)
	assert.Len(t, views.TableRows(events, "suelo"), 4)
	assert.Empty(t, views.TableRows(events, "fuego"))
}

func TestTableRowsDate(t *testing.T) {
	rows := views.TableRows([]models.NormalizedEvent{
		{Kind: models.KindAir, Time: base, Timestamp: "x"},
		{Kind: models.KindAir, Timestamp: "ayer"},
		{Kind: models.KindAir},
	}, views.AllFilter)

	assert.Equal(t, "17/10/2026, 10:00:00", rows[0].Date)
	assert.Equal(t, "ayer", rows[1].Date)
	assert.Equal(t, "N/A", rows[2].Date)
	assert.Equal(t, "normal", rows[2].StatusClass)
}

func TestPaginate(t *testing.T) {
	rows := views.TableRows(newestFirst(5), views.AllFilter)

	page, pages := views.Paginate(rows, 2, 4)
	assert.Equal(t, 4, pages)
	assert.Equal(t, rows[4:8], page)

	last, _ := views.Paginate(rows, 4, 4)
	assert.Len(t, last, 3)

	beyond, _ := views.Paginate(rows, 9, 4)
	assert.Empty(t, beyond)
}

var layout = []models.SensorLocation{
	{ID: "aire1", Kind: models.KindAir, Top: "30%", Left: "60%", Location: "Sector A1"},
	{ID: "suelo1", Kind: models.KindSoil, Top: "70%", Left: "30%", Location: "Zona C1"},
	{ID: "agua1", Kind: models.KindWater, Top: "85%", Left: "5%", Location: "Pozo B1"},
}

func TestMapPointsJoinAndFocus(t *testing.T) {
	cur := models.Current{
		Soil: &models.RawReading{Value: models.NewNumber(1300), Unit: "ppm", Status: "Peligro"},
		Air:  &models.RawReading{Value: models.NewNumber(12), Unit: "µg/m³"},
	}

	view := views.MapPoints(layout, cur)
	require.Len(t, view.Points, 3)

	assert.Equal(t, models.SeverityNormal, view.Points[0].Status)
	assert.Equal(t, "12 µg/m³", view.Points[0].Value)
	assert.Equal(t, "suelo peligro", view.Points[1].Class)
	assert.Equal(t, "N/A", view.Points[2].Value)
	assert.Equal(t, models.SeverityNormal, view.Points[2].Status)

	require.NotNil(t, view.Focus)
	assert.Equal(t, "Sensor SUELO (SUELO1)", view.Focus.Title)
	assert.Equal(t, "1300 ppm", view.Focus.Value)
	assert.Equal(t, "Zona C1", view.Focus.Location)
	assert.True(t, view.Focus.Danger)
}

func TestMapPointsFocusFallsBackToFirst(t *testing.T) {
	view := views.MapPoints(layout[:1], models.Current{})
	require.NotNil(t, view.Focus)
	assert.Equal(t, "aire1", view.Focus.SensorID)

	empty := views.MapPoints(nil, models.Current{})
	assert.Nil(t, empty.Focus)
	assert.Empty(t, empty.Points)
}

func TestQualityCardsSkipUndefined(t *testing.T) {
	cur := models.Current{
		Air:   &models.RawReading{Value: models.NewNumber(45), Unit: "µg/m³", Status: "Peligro"},
		Water: &models.RawReading{Unit: "mg/L", Status: "Normal"},
		Soil:  &models.RawReading{Value: models.NewNumber(300), Unit: "ppm"},
	}

	cards := views.QualityCards(cur)
	require.Len(t, cards, 2)
	assert.Equal(t, views.Card{Kind: models.KindAir, Value: "45", Unit: "µg/m³", Status: "Peligro", Class: "peligro"}, cards[0])
	assert.Equal(t, "N/A", cards[1].Status)
	assert.Equal(t, "normal", cards[1].Class)
}

func TestStatusLine(t *testing.T) {
	st, ok := views.StatusLine(models.Current{Timestamp: "2026-10-17T10:02:03Z"})
	require.True(t, ok)
	assert.Equal(t, "Última actualización: 17/10/26, 10:02:03 a. m.", st.Message)
	assert.True(t, st.OK)

	st, ok = views.StatusLine(models.Current{Timestamp: "2026-10-17T00:05:00Z"})
	require.True(t, ok)
	assert.Equal(t, "Última actualización: 17/10/26, 12:05:00 a. m.", st.Message)

	st, ok = views.StatusLine(models.Current{Timestamp: "2026-10-17T15:30:09Z"})
	require.True(t, ok)
	assert.Equal(t, "Última actualización: 17/10/26, 3:30:09 p. m.", st.Message)

	_, ok = views.StatusLine(models.Current{})
	assert.False(t, ok)
	assert.Equal(t, "Error: Falló la conexión con la API.", views.FailedStatus().Message)
}

func TestSensorDetail(t *testing.T) {
	events := newestFirst(3)
	events[0].Status = models.SeverityDanger

	d := views.SensorDetail(events, models.Current{}, models.KindAir, 2*time.Minute, 10, base)
	assert.Equal(t, "Detalle del Sensor de Aire", d.Title)
	assert.Len(t, d.Chart.Values, 3)
	require.Len(t, d.Alerts, 1)
	assert.Empty(t, d.EmptyMessage)
	assert.Equal(t, "N/A", d.Current.Value)
	assert.Equal(t, "N/A", d.Current.Location)

	soil := views.SensorDetail(events, models.Current{}, models.KindSoil, 2*time.Minute, 10, base)
	assert.Empty(t, soil.Alerts)
	assert.Equal(t, "No se encontraron alertas para Suelo en los últimos 2 minutos.", soil.EmptyMessage)
}
