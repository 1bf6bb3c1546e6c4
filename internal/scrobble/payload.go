// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package scrobble

import (
	"math"

	"github.com/tomtom215/mdblist-scrobbler/internal/ids"
)

// Payload is the JSON body of a scrobble request. Exactly one of Movie and
// Show is set.
//
//	{"movie":{"ids":{"imdb":"tt0133093"}},"progress":42.5,"app_version":"1.0.0"}
//	{"show":{"ids":{"tvdb":"81189"},"season":{"number":1,"episode":{"number":2}}},"progress":10,"app_version":"1.0.0"}
type Payload struct {
	Movie      *MovieRef `json:"movie,omitempty"`
	Show       *ShowRef  `json:"show,omitempty"`
	Progress   float64   `json:"progress"`
	AppVersion string    `json:"app_version"`
}

// MovieRef identifies a movie.
type MovieRef struct {
	IDs ids.Set `json:"ids"`
}

// ShowRef identifies an episode through its parent show.
type ShowRef struct {
	IDs    ids.Set   `json:"ids"`
	Season SeasonRef `json:"season"`
}

// SeasonRef is the season of a ShowRef.
type SeasonRef struct {
	Number  int        `json:"number"`
	Episode EpisodeRef `json:"episode"`
}

// EpisodeRef is the episode of a SeasonRef.
type EpisodeRef struct {
	Number int `json:"number"`
}

// NewMoviePayload builds a movie payload.
func NewMoviePayload(movieIDs ids.Set, progress float64, appVersion string) *Payload {
	return &Payload{
		Movie:      &MovieRef{IDs: movieIDs},
		Progress:   progress,
		AppVersion: appVersion,
	}
}

// NewEpisodePayload builds an episode payload keyed by the show's ids.
func NewEpisodePayload(showIDs ids.Set, season, episode int, progress float64, appVersion string) *Payload {
	return &Payload{
		Show: &ShowRef{
			IDs: showIDs,
			Season: SeasonRef{
				Number:  season,
				Episode: EpisodeRef{Number: episode},
			},
		},
		Progress:   progress,
		AppVersion: appVersion,
	}
}

// Progress returns the watched percentage for the given position and
// duration in seconds.
//
// Negative inputs count as zero and both values are truncated to whole
// seconds before dividing. The result is rounded to two decimals and capped
// at 100. ok is false when the duration is zero, since progress is unknown.
func Progress(current, total float64) (progress float64, ok bool) {
	cur := wholeSeconds(current)
	tot := wholeSeconds(total)
	if tot == 0 {
		return 0, false
	}

	p := math.Round(cur/tot*100*100) / 100
	return math.Min(p, 100), true
}

func wholeSeconds(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return math.Trunc(v)
}
