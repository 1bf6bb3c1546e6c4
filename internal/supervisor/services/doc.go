// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

// Package services adapts blocking components to suture.Service.
//
// kodi.Listener and monitor.Monitor already follow the
// Serve(ctx) error contract and are added to the tree directly; only the
// HTTP server needs a wrapper.
package services
