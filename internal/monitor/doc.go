// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

/*
Package monitor implements the playback session state machine.

The Monitor receives Kodi player callbacks through the PlayerListener
interface, loads metadata for the current item, tracks playback timing and
turns every transition into at most one MDBList scrobble request.

# Concurrency

All callbacks and interval ticks are queued onto one buffered channel and
handled by the goroutine running Serve. Only that goroutine reads or writes
the session snapshot, so no locking is needed around it. PlayerListener
methods never block: when the queue is full the event is dropped and a
warning is logged.

Interval ticks carry the generation of the timer that produced them. Each
start or stop of the timer bumps the generation, so a tick that was queued
before a pause or stop is discarded instead of emitting afterwards.

# Transitions

	Start        fetch metadata, capture timing, send start, (re)start timer
	Pause        capture timing, send pause, stop timer
	Resume       send resume, (re)start timer
	Stop / End   send stop, stop timer, clear metadata
	Seek         capture timing, send seek
	Tick         capture timing, send interval

Every transition except Start is a no-op while no metadata is loaded.

# Usage

	mon := monitor.New(cfg, kodiClient, scrobbler, version)
	listener := kodi.NewListener(&cfg.Kodi, mon)
	go mon.Serve(ctx)
	go listener.Serve(ctx)
*/
package monitor
