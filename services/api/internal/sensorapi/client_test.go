package sensorapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/sensorapi"
)

func TestFetchPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"current": {"air": {"value": "12.500", "unit": "µg/m³", "status": "Normal", "label": "PM2.5"}, "timestamp": "2026-10-17T10:00:00Z"},
			"history": [{"timestamp": "2026-10-17T10:00:00Z", "soil": {"value": 300, "unit": "ppm"}}]
		}`)
	}))
	defer srv.Close()

	c := sensorapi.New(srv.URL, srv.URL, time.Second)
	payload, err := c.FetchPayload(context.Background())
	require.NoError(t, err)

	require.NotNil(t, payload.Current.Air)
	assert.Equal(t, 12.5, payload.Current.Air.Value.Value)
	assert.Equal(t, "12.500", payload.Current.Air.Value.String())
	assert.Nil(t, payload.Current.Water)
	assert.Equal(t, models.Timestamp("2026-10-17T10:00:00Z"), payload.Current.Timestamp)
	require.Len(t, payload.History, 1)
	assert.True(t, payload.History[0].Soil.Defined())
}

func TestFetchPayloadStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := sensorapi.New(srv.URL, srv.URL, time.Second).FetchPayload(context.Background())

	var fe *sensorapi.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "read", fe.Op)
	assert.Equal(t, http.StatusBadGateway, fe.StatusCode)
}

func TestFetchPayloadDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>not json</html>`)
	}))
	defer srv.Close()

	_, err := sensorapi.New(srv.URL, srv.URL, time.Second).FetchPayload(context.Background())

	var fe *sensorapi.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Zero(t, fe.StatusCode)
	assert.ErrorContains(t, err, "decode payload")
}

func TestFetchPayloadTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := sensorapi.New(url, url, time.Second).FetchPayload(context.Background())

	var fe *sensorapi.FetchError
	assert.True(t, errors.As(err, &fe))
}

func TestWriteReadings(t *testing.T) {
	var got map[string]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := sensorapi.New(srv.URL, srv.URL, time.Second)
	err := c.WriteReadings(context.Background(), sensorapi.WriteRequest{
		Air:   models.RawReading{Value: models.NewNumber(45), Unit: "µg/m³", Status: "Peligro", Location: "Sector A1", Label: "PM2.5"},
		Water: models.RawReading{Value: models.NewNumber(0.1), Unit: "mg/L", Status: "Normal", Location: "Pozo B1", Label: "Metales"},
		Soil:  models.RawReading{Value: models.NewNumber(300), Unit: "ppm", Status: "Normal", Location: "Zona C1", Label: "pH/Metales"},
	})
	require.NoError(t, err)

	assert.Equal(t, 45.0, got["air"]["value"])
	assert.Equal(t, "Peligro", got["air"]["status"])
	assert.Equal(t, "Pozo B1", got["water"]["location"])
	assert.Equal(t, "pH/Metales", got["soil"]["label"])
}

func TestWriteReadingsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := sensorapi.New(srv.URL, srv.URL, time.Second).WriteReadings(context.Background(), sensorapi.WriteRequest{})

	var fe *sensorapi.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "write", fe.Op)
	assert.Equal(t, http.StatusBadRequest, fe.StatusCode)
}
