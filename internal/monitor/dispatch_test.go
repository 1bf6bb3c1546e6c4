// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package monitor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/mdblist-scrobbler/internal/config"
	"github.com/tomtom215/mdblist-scrobbler/internal/metrics"
	"github.com/tomtom215/mdblist-scrobbler/internal/scrobble"
)

func TestSendRequestGates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(cfg *config.Config)
		event      scrobble.Event
		wantNotify string
	}{
		{
			name:   "event disabled",
			mutate: func(cfg *config.Config) { cfg.Event.Start = false },
			event:  scrobble.EventStart,
		},
		{
			name:   "interval disabled",
			mutate: func(cfg *config.Config) { cfg.Event.Interval = false },
			event:  scrobble.EventInterval,
		},
		{
			name:   "unknown event",
			mutate: func(*config.Config) {},
			event:  scrobble.Event("rewind"),
		},
		{
			name:       "missing base URL",
			mutate:     func(cfg *config.Config) { cfg.MDBList.URL = "  " },
			event:      scrobble.EventStart,
			wantNotify: "MDBList API URL not configured!",
		},
		{
			name:       "missing API key",
			mutate:     func(cfg *config.Config) { cfg.MDBList.APIKey = "" },
			event:      scrobble.EventStop,
			wantNotify: "MDBList API key not configured!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newFakeAPI(t, http.StatusOK)
			cfg := testConfig(api.URL)
			tt.mutate(cfg)
			host := playingHost(movieItem(), 10, 100)
			m := newTestMonitor(cfg, host)
			m.item = movieItem()

			m.SendRequest(context.Background(), tt.event)

			if n := len(api.recorded()); n != 0 {
				t.Errorf("requests = %d, want 0", n)
			}
			msgs := host.messages()
			switch {
			case tt.wantNotify == "" && len(msgs) != 0:
				t.Errorf("notifications = %v, want none", msgs)
			case tt.wantNotify != "" && (len(msgs) != 1 || msgs[0] != tt.wantNotify):
				t.Errorf("notifications = %v, want [%s]", msgs, tt.wantNotify)
			}
		})
	}
}

func TestSendRequestEndpoints(t *testing.T) {
	t.Parallel()

	want := map[scrobble.Event]string{
		scrobble.EventStart:    "/scrobble/start",
		scrobble.EventResume:   "/scrobble/start",
		scrobble.EventSeek:     "/scrobble/start",
		scrobble.EventInterval: "/scrobble/start",
		scrobble.EventPause:    "/scrobble/pause",
		scrobble.EventStop:     "/scrobble/stop",
		scrobble.EventEnd:      "/scrobble/stop",
	}

	for ev, path := range want {
		t.Run(ev.String(), func(t *testing.T) {
			t.Parallel()

			api := newFakeAPI(t, http.StatusOK)
			m := newTestMonitor(testConfig(api.URL+"/"), playingHost(movieItem(), 10, 100))
			m.item = movieItem()

			m.SendRequest(context.Background(), ev)

			reqs := api.recorded()
			if len(reqs) != 1 {
				t.Fatalf("requests = %d, want 1", len(reqs))
			}
			if reqs[0].Path != path {
				t.Errorf("path = %s, want %s", reqs[0].Path, path)
			}
		})
	}
}

func TestSendRequestHTTPError(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusInternalServerError)
	host := playingHost(movieItem(), 10, 100)
	m := newTestMonitor(testConfig(api.URL), host)
	m.item = movieItem()

	m.SendRequest(context.Background(), scrobble.EventStart)

	msgs := host.messages()
	if len(msgs) != 1 {
		t.Fatalf("notifications = %v, want 1", msgs)
	}
	if !strings.Contains(msgs[0], "500") {
		t.Errorf("notification %q does not mention status", msgs[0])
	}
	if n := len([]rune(msgs[0])); n > notificationLimit {
		t.Errorf("notification length = %d, want <= %d", n, notificationLimit)
	}
}

func TestSendRequestTransportError(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK)
	baseURL := api.URL
	api.Close()

	host := playingHost(movieItem(), 10, 100)
	m := newTestMonitor(testConfig(baseURL), host)
	m.item = movieItem()

	m.SendRequest(context.Background(), scrobble.EventPause)

	msgs := host.messages()
	if len(msgs) != 1 || msgs[0] != "HTTP request failed for /scrobble/pause" {
		t.Fatalf("notifications = %v", msgs)
	}
	if strings.Contains(msgs[0], "secret") {
		t.Error("notification leaks API key")
	}
}

// rejectingScrobbler fails every send the way an open breaker does.
type rejectingScrobbler struct{}

func (rejectingScrobbler) Scrobble(context.Context, string, *scrobble.Payload) error {
	return fmt.Errorf("%w: circuit open", scrobble.ErrRejected)
}

func TestSendRequestBreakerRejected(t *testing.T) {
	t.Parallel()

	host := playingHost(movieItem(), 10, 100)
	m := New(testConfig("http://mdblist.test"), host, rejectingScrobbler{}, "1.2.0")
	m.item = movieItem()

	m.SendRequest(context.Background(), scrobble.EventSeek)

	msgs := host.messages()
	if len(msgs) != 1 || msgs[0] != "MDBList unavailable, seek not sent" {
		t.Errorf("notifications = %v", msgs)
	}
}

func TestNotificationThrottle(t *testing.T) {
	t.Parallel()

	host := &fakeHost{}
	n := newThrottledNotifier(host, &config.NotificationsConfig{Enabled: true, Rate: 0.001, Burst: 2})
	before := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("throttled"))

	for i := range 5 {
		n.notify(context.Background(), fmt.Sprintf("message %d", i))
	}

	if msgs := host.messages(); len(msgs) != 2 {
		t.Errorf("shown = %v, want 2", msgs)
	}
	if got := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("throttled")) - before; got < 3 {
		t.Errorf("throttled counter grew by %v, want >= 3", got)
	}
}

func TestNotificationDisabled(t *testing.T) {
	t.Parallel()

	host := &fakeHost{}
	n := newThrottledNotifier(host, &config.NotificationsConfig{Enabled: false})
	n.notify(context.Background(), "hidden")

	if msgs := host.messages(); len(msgs) != 0 {
		t.Errorf("shown = %v, want none", msgs)
	}
}

func TestNotificationTruncated(t *testing.T) {
	t.Parallel()

	host := &fakeHost{}
	n := newThrottledNotifier(host, &config.NotificationsConfig{Enabled: true})
	n.notify(context.Background(), strings.Repeat("x", 120))

	msgs := host.messages()
	if len(msgs) != 1 || len(msgs[0]) > notificationLimit {
		t.Errorf("shown = %v, want one message <= %d chars", msgs, notificationLimit)
	}
}
