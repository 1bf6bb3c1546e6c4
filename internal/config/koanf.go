// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/mdblist-scrobbler/config.yaml",
	"/etc/mdblist-scrobbler/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultMDBListURL is the public MDBList API.
const DefaultMDBListURL = "https://api.mdblist.com"

// defaultConfig returns a Config with every default applied. Defaults are
// loaded first, then overridden by the config file and the environment.
func defaultConfig() *Config {
	return &Config{
		Kodi: KodiConfig{
			URL:          "http://127.0.0.1:8080/jsonrpc",
			WebSocketURL: "ws://127.0.0.1:9090/jsonrpc",
			Timeout:      5 * time.Second,
			PlayerID:     1,
			ReconnectMin: time.Second,
			ReconnectMax: 32 * time.Second,
		},
		MDBList: MDBListConfig{
			URL:     DefaultMDBListURL,
			APIKey:  "",
			Timeout: 10 * time.Second,
		},
		MediaType: MediaTypeConfig{
			Movie:   true,
			Episode: true,
		},
		Event: EventConfig{
			Start:    true,
			Pause:    true,
			Resume:   true,
			Stop:     true,
			End:      true,
			Seek:     true,
			Interval: true,
		},
		Interval: 60,
		Notifications: NotificationsConfig{
			Enabled: true,
			Rate:    0.2, // one every 5s once the burst is spent
			Burst:   3,
		},
		Breaker: BreakerConfig{
			Enabled:      true,
			MinRequests:  10,
			FailureRatio: 0.6,
			Window:       time.Minute,
			Timeout:      2 * time.Minute,
			MaxHalfOpen:  1,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    "127.0.0.1:9464",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using koanf with layered sources:
//  1. Defaults (from defaultConfig())
//  2. Config file (if found)
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// MDBLIST_API_KEY -> mdblist.api_key, EVENT_SEEK -> event.seek
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	"kodi_url":           "kodi.url",
	"kodi_ws_url":        "kodi.ws_url",
	"kodi_username":      "kodi.username",
	"kodi_password":      "kodi.password",
	"kodi_timeout":       "kodi.timeout",
	"kodi_player_id":     "kodi.player_id",
	"kodi_reconnect_min": "kodi.reconnect_min",
	"kodi_reconnect_max": "kodi.reconnect_max",

	"mdblist_url":     "mdblist.url",
	"mdblist_api_key": "mdblist.api_key",
	"mdblist_apikey":  "mdblist.api_key",
	"mdblist_timeout": "mdblist.timeout",

	"mediatype_movie":   "mediatype.movie",
	"mediatype_episode": "mediatype.episode",

	"event_start":    "event.start",
	"event_pause":    "event.pause",
	"event_resume":   "event.resume",
	"event_stop":     "event.stop",
	"event_end":      "event.end",
	"event_seek":     "event.seek",
	"event_interval": "event.interval",

	"scrobble_interval": "interval",

	"notify_enabled": "notifications.enabled",
	"notify_rate":    "notifications.rate",
	"notify_burst":   "notifications.burst",

	"breaker_enabled":       "breaker.enabled",
	"breaker_min_requests":  "breaker.min_requests",
	"breaker_failure_ratio": "breaker.failure_ratio",
	"breaker_window":        "breaker.window",
	"breaker_timeout":       "breaker.timeout",
	"breaker_max_half_open": "breaker.max_half_open",

	"metrics_enabled": "metrics.enabled",
	"metrics_addr":    "metrics.addr",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped names return "" and are skipped so unrelated environment
// variables never leak into the config.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
