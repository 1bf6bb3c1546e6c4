// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package logging

import (
	"net/url"
	"strings"
)

// RedactedValue replaces secret values in log output.
const RedactedValue = "[REDACTED]"

// sensitiveParams are query parameter names whose values never reach a log line.
var sensitiveParams = map[string]struct{}{
	"apikey":   {},
	"api_key":  {},
	"token":    {},
	"password": {},
}

// RedactQuery returns rawURL with the values of sensitive query parameters
// replaced. Unparseable input is redacted entirely.
//
//	logging.RedactQuery("https://api.mdblist.com/scrobble/start?apikey=abc")
//	// https://api.mdblist.com/scrobble/start?apikey=[REDACTED]
func RedactQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return RedactedValue
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), RedactedValue)
		}
	}
	if u.RawQuery == "" {
		return u.String()
	}

	parts := strings.Split(u.RawQuery, "&")
	for i, part := range parts {
		name, _, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		key, err := url.QueryUnescape(name)
		if err != nil {
			key = name
		}
		if _, ok := sensitiveParams[strings.ToLower(key)]; ok {
			parts[i] = name + "=" + RedactedValue
		}
	}
	u.RawQuery = strings.Join(parts, "&")
	return u.String()
}

// SanitizeToken masks a secret to its first and last 4 characters so that
// two keys can be told apart in logs without revealing either.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return RedactedValue
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// Truncate shortens s to at most n runes. A cut string ends in "..." which
// counts towards n. n <= 0 returns s unchanged.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
