// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package config

import (
	"strings"
	"time"

	"github.com/tomtom215/mdblist-scrobbler/internal/models"
)

// Config holds all scrobbler settings.
type Config struct {
	Kodi          KodiConfig          `koanf:"kodi"`
	MDBList       MDBListConfig       `koanf:"mdblist"`
	MediaType     MediaTypeConfig     `koanf:"mediatype"`
	Event         EventConfig         `koanf:"event"`
	Interval      int                 `koanf:"interval" validate:"min=1"` // seconds between "still watching" sends
	Notifications NotificationsConfig `koanf:"notifications"`
	Breaker       BreakerConfig       `koanf:"breaker"`
	Metrics       MetricsConfig       `koanf:"metrics"`
	Logging       LoggingConfig       `koanf:"logging"`
}

// KodiConfig describes how to reach the Kodi JSON-RPC interface.
type KodiConfig struct {
	URL          string        `koanf:"url" validate:"required"`    // HTTP endpoint, e.g. http://127.0.0.1:8080/jsonrpc
	WebSocketURL string        `koanf:"ws_url" validate:"required"` // notification socket, e.g. ws://127.0.0.1:9090/jsonrpc
	Username     string        `koanf:"username"`
	Password     string        `koanf:"password"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
	PlayerID     int           `koanf:"player_id" validate:"gte=0"` // used when no active video player is reported

	ReconnectMin time.Duration `koanf:"reconnect_min" validate:"gt=0"`
	ReconnectMax time.Duration `koanf:"reconnect_max" validate:"gt=0"`
}

// MDBListConfig holds the scrobble API settings.
type MDBListConfig struct {
	URL     string        `koanf:"url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// MediaTypeConfig enables scrobbling per media type.
type MediaTypeConfig struct {
	Movie   bool `koanf:"movie"`
	Episode bool `koanf:"episode"`
}

// EventConfig enables scrobbling per playback event.
type EventConfig struct {
	Start    bool `koanf:"start"`
	Pause    bool `koanf:"pause"`
	Resume   bool `koanf:"resume"`
	Stop     bool `koanf:"stop"`
	End      bool `koanf:"end"`
	Seek     bool `koanf:"seek"`
	Interval bool `koanf:"interval"`
}

// NotificationsConfig throttles failure notifications shown in Kodi.
// Rate is notifications per second; 0 disables throttling.
type NotificationsConfig struct {
	Enabled bool    `koanf:"enabled"`
	Rate    float64 `koanf:"rate" validate:"gte=0"`
	Burst   int     `koanf:"burst" validate:"gte=0"`
}

// BreakerConfig configures the circuit breaker around the MDBList API.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MinRequests  uint32        `koanf:"min_requests" validate:"gte=1"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gt=0,lte=1"`
	Window       time.Duration `koanf:"window" validate:"gt=0"`  // closed-state counting window
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"` // open -> half-open delay
	MaxHalfOpen  uint32        `koanf:"max_half_open" validate:"gte=1"`
}

// MetricsConfig controls the metrics and health HTTP listener.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr" validate:"omitempty,hostname_port"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Load reads the configuration from defaults, the optional config file and
// the environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IntervalDuration returns the interval setting as a duration.
func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

// MediaTypeEnabled reports whether scrobbling is enabled for mt. Types
// without a setting are never enabled.
func (c *Config) MediaTypeEnabled(mt models.MediaType) bool {
	switch mt {
	case models.MediaTypeMovie:
		return c.MediaType.Movie
	case models.MediaTypeEpisode:
		return c.MediaType.Episode
	default:
		return false
	}
}

// EventEnabled reports whether the named event is enabled. Names are the
// event.* setting keys: start, pause, resume, stop, end, seek, interval.
func (c *Config) EventEnabled(event string) bool {
	switch strings.ToLower(event) {
	case "start":
		return c.Event.Start
	case "pause":
		return c.Event.Pause
	case "resume":
		return c.Event.Resume
	case "stop":
		return c.Event.Stop
	case "end":
		return c.Event.End
	case "seek":
		return c.Event.Seek
	case "interval":
		return c.Event.Interval
	default:
		return false
	}
}

// BaseURL returns the MDBList base URL without trailing slashes.
func (c *Config) BaseURL() string {
	return strings.TrimRight(strings.TrimSpace(c.MDBList.URL), "/")
}
