// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mdblist-scrobbler/internal/logging"
	"github.com/tomtom215/mdblist-scrobbler/internal/metrics"
	"github.com/tomtom215/mdblist-scrobbler/internal/scrobble"
)

const (
	msgURLNotConfigured = "MDBList API URL not configured!"
	msgKeyNotConfigured = "MDBList API key not configured!"
)

// logTextLimit caps payload and body text in failure logs.
const logTextLimit = 200

// SendRequest builds and sends the request for ev. Failures are logged and
// shown as a notification; nothing is returned or retried. It must run on
// the Serve goroutine, or before Serve starts.
func (m *Monitor) SendRequest(ctx context.Context, ev scrobble.Event) {
	log := logging.Ctx(ctx).With().Str("event", ev.String()).Logger()

	if !m.cfg.EventEnabled(ev.String()) {
		log.Debug().Msg("Event disabled, not sending")
		metrics.RecordPayloadSkipped(skipEventDisabled)
		return
	}

	payload := m.BuildPayload(ctx, ev)
	if payload == nil {
		return
	}

	if m.cfg.BaseURL() == "" {
		log.Error().Msg(msgURLNotConfigured)
		metrics.RecordPayloadSkipped(skipNotConfigured)
		m.notifier.notify(ctx, msgURLNotConfigured)
		return
	}
	if strings.TrimSpace(m.cfg.MDBList.APIKey) == "" {
		log.Error().Msg(msgKeyNotConfigured)
		metrics.RecordPayloadSkipped(skipNotConfigured)
		m.notifier.notify(ctx, msgKeyNotConfigured)
		return
	}

	endpoint, ok := ev.Endpoint()
	if !ok {
		metrics.RecordPayloadSkipped(skipNoEndpoint)
		return
	}

	err := m.scrobbler.Scrobble(ctx, endpoint, payload)
	if err == nil {
		log.Debug().Str("endpoint", endpoint).Float64("progress", payload.Progress).Msg("Scrobble sent")
		return
	}
	m.reportFailure(ctx, ev, endpoint, payload, err)
}

func (m *Monitor) reportFailure(ctx context.Context, ev scrobble.Event, endpoint string, payload *scrobble.Payload, err error) {
	log := logging.Ctx(ctx).With().Str("event", ev.String()).Str("endpoint", endpoint).Logger()

	var statusErr *scrobble.StatusError
	switch {
	case errors.As(err, &statusErr):
		log.Error().
			Int("status", statusErr.StatusCode).
			Str("payload", payloadText(payload)).
			Str("body", logging.Truncate(statusErr.Body, logTextLimit)).
			Msg("MDBList request failed")
		m.notifier.notify(ctx, fmt.Sprintf("MDBList error %d: %s", statusErr.StatusCode, statusErr.Body))
	case errors.Is(err, scrobble.ErrNotConfigured):
		log.Error().Err(err).Msg("MDBList API not configured")
		m.notifier.notify(ctx, msgKeyNotConfigured)
	case errors.Is(err, scrobble.ErrRejected):
		log.Error().Err(err).Msg("MDBList API unavailable, request not sent")
		m.notifier.notify(ctx, "MDBList unavailable, "+ev.String()+" not sent")
	case isTimeout(err):
		log.Error().Err(err).Msg("MDBList request timed out")
		m.notifier.notify(ctx, "HTTP request timed out for "+endpoint)
	default:
		log.Error().Err(err).Msg("HTTP request failed")
		m.notifier.notify(ctx, "HTTP request failed for "+endpoint)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func payloadText(payload *scrobble.Payload) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return logging.Truncate(string(data), logTextLimit)
}
