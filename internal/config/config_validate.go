// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package config

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/tomtom215/mdblist-scrobbler/internal/validation"
)

// Validate checks field constraints and the cross-field rules the struct
// tags cannot express.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := validateURL(c.Kodi.URL, "kodi.url", "http", "https"); err != nil {
		return err
	}
	if err := validateURL(c.Kodi.WebSocketURL, "kodi.ws_url", "ws", "wss"); err != nil {
		return err
	}
	if c.Kodi.ReconnectMin > c.Kodi.ReconnectMax {
		return fmt.Errorf("kodi.reconnect_min (%s) must not exceed kodi.reconnect_max (%s)",
			c.Kodi.ReconnectMin, c.Kodi.ReconnectMax)
	}

	// An empty MDBList URL is allowed; the monitor reports it per request.
	if c.MDBList.URL != "" {
		if err := validateURL(c.MDBList.URL, "mdblist.url", "http", "https"); err != nil {
			return err
		}
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required when metrics.enabled=true")
	}

	return nil
}

// validateURL checks that rawURL parses, uses one of schemes, has a host and
// carries no query string.
func validateURL(rawURL, fieldName string, schemes ...string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if !slices.Contains(schemes, parsed.Scheme) {
		return fmt.Errorf("%s scheme must be one of %v, got: %q", fieldName, schemes, parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsed.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsed.RawQuery)
	}

	return nil
}
