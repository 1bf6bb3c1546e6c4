// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package monitor

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/mdblist-scrobbler/internal/config"
	"github.com/tomtom215/mdblist-scrobbler/internal/logging"
	"github.com/tomtom215/mdblist-scrobbler/internal/metrics"
)

// NotificationTitle is the heading of every on-screen notification.
const NotificationTitle = "MDBList Scrobbler"

// notificationLimit is the maximum length of a notification message.
const notificationLimit = 50

// notifyTimeout bounds a single GUI.ShowNotification call.
const notifyTimeout = 5 * time.Second

// throttledNotifier forwards messages to the host, dropping those that
// exceed the configured token bucket. A nil limiter means unthrottled.
type throttledNotifier struct {
	host    Notifier
	enabled bool
	limiter *rate.Limiter
}

func newThrottledNotifier(host Notifier, cfg *config.NotificationsConfig) *throttledNotifier {
	n := &throttledNotifier{
		host:    host,
		enabled: cfg.Enabled,
	}
	if cfg.Rate > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		n.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), burst)
	}
	return n
}

// notify truncates message and shows it. Failures are logged, never returned.
func (n *throttledNotifier) notify(ctx context.Context, message string) {
	if !n.enabled {
		metrics.NotificationsTotal.WithLabelValues("disabled").Inc()
		return
	}
	if n.limiter != nil && !n.limiter.Allow() {
		metrics.NotificationsTotal.WithLabelValues("throttled").Inc()
		logging.Ctx(ctx).Debug().Str("message", message).Msg("Notification throttled")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	if err := n.host.Notify(ctx, NotificationTitle, logging.Truncate(message, notificationLimit)); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to show notification")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("shown").Inc()
}
