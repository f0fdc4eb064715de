package sensorapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
)

// FetchError reports a transport failure or a non-2xx answer from the
// sensor API. StatusCode is zero for transport and decode failures.
type FetchError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteRequest is the body posted to the write endpoint.
type WriteRequest struct {
	Air   models.RawReading `json:"air"`
	Water models.RawReading `json:"water"`
	Soil  models.RawReading `json:"soil"`
}

// Client talks to the remote read and write endpoints.
type Client struct {
	http     *resty.Client
	readURL  string
	writeURL string
}

// New builds a client with the given per-request timeout.
func New(readURL, writeURL string, timeout time.Duration) *Client {
	http := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: http, readURL: readURL, writeURL: writeURL}
}

// FetchPayload retrieves the current snapshot and history.
func (c *Client) FetchPayload(ctx context.Context) (models.Payload, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.readURL)
	if err != nil {
		return models.Payload{}, &FetchError{Op: "read", URL: c.readURL, Err: err}
	}
	if !resp.IsSuccess() {
		return models.Payload{}, &FetchError{Op: "read", URL: c.readURL, StatusCode: resp.StatusCode()}
	}

	var payload models.Payload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return models.Payload{}, &FetchError{Op: "read", URL: c.readURL, Err: fmt.Errorf("decode payload: %w", err)}
	}
	return payload, nil
}

// WriteReadings posts one reading per medium.
func (c *Client) WriteReadings(ctx context.Context, req WriteRequest) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(req).Post(c.writeURL)
	if err != nil {
		return &FetchError{Op: "write", URL: c.writeURL, Err: err}
	}
	if !resp.IsSuccess() {
		return &FetchError{Op: "write", URL: c.writeURL, StatusCode: resp.StatusCode()}
	}
	return nil
}
