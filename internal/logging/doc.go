// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

// Package logging wraps zerolog as the process-wide structured logger.
//
// The scrobbler runs headless next to Kodi, so everything it does is visible
// only through its log stream. The package provides:
//
//   - A global logger configured once from the logging section of the config
//   - JSON output by default, console output for interactive use
//   - Per-event correlation IDs so every line caused by one playback callback
//     can be grouped
//   - An slog adapter so suture's event hook logs through zerolog
//   - Helpers that keep the MDBList API key and long bodies out of log lines
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("event", "start").Msg("Sending scrobble")
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Error().Err(err).Msg("Scrobble failed")
//
// # Levels
//
//	trace, debug, info (default), warn, error, fatal, panic, disabled
//
// Unknown level names fall back to info.
//
// # Conventions
//
// Always terminate log chains with .Msg() or .Send(). Prefer typed fields over
// Msgf. Never log a URL carrying the API key without passing it through
// RedactQuery first.
package logging
