// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package scrobble

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mdblist-scrobbler/internal/config"
	"github.com/tomtom215/mdblist-scrobbler/internal/logging"
	"github.com/tomtom215/mdblist-scrobbler/internal/metrics"
)

// DefaultTimeout bounds a single scrobble request.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 4 << 10

// logBodyLimit caps payload and response text in log lines.
const logBodyLimit = 200

// ErrNotConfigured is returned when the base URL or API key is missing.
var ErrNotConfigured = errors.New("mdblist: base URL or API key not configured")

// StatusError is returned for responses with status >= 400.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mdblist %s returned status %d", e.Endpoint, e.StatusCode)
}

// Scrobbler sends one payload to one endpoint.
// Both Client and BreakerClient implement it.
type Scrobbler interface {
	Scrobble(ctx context.Context, endpoint string, payload *Payload) error
}

var _ Scrobbler = (*Client)(nil)

// Client posts scrobble payloads to MDBList.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client from the mdblist config section. A zero timeout
// falls back to DefaultTimeout.
func NewClient(cfg *config.MDBListConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// URL composes the request URL for endpoint, API key included.
func (c *Client) URL(endpoint string) string {
	return c.baseURL + endpoint + "?apikey=" + url.QueryEscape(c.apiKey)
}

// Scrobble posts payload to endpoint. Responses with status >= 400 yield a
// *StatusError; transport failures are returned wrapped.
func (c *Client) Scrobble(ctx context.Context, endpoint string, payload *Payload) error {
	if c.baseURL == "" || c.apiKey == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode scrobble payload: %w", err)
	}

	reqURL := c.URL(endpoint)
	logging.Ctx(ctx).Info().
		Str("url", logging.RedactQuery(reqURL)).
		Str("payload", logging.Truncate(string(body), logBodyLimit)).
		Msg("Sending scrobble")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create scrobble request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordScrobbleRequest(endpoint, metrics.ResultTransport, time.Since(start))
		return fmt.Errorf("mdblist %s request failed: %w", endpoint, scrubURL(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		metrics.RecordScrobbleRequest(endpoint, metrics.ResultHTTPError, time.Since(start))
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	metrics.RecordScrobbleRequest(endpoint, metrics.ResultSuccess, time.Since(start))

	logging.Ctx(ctx).Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Scrobble accepted")
	return nil
}

// scrubURL replaces the URL inside a *url.Error with its redacted form so
// the API key never reaches a log line or notification.
func scrubURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return &url.Error{Op: uerr.Op, URL: logging.RedactQuery(uerr.URL), Err: uerr.Err}
	}
	return err
}
