// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package monitor

import (
	"context"

	"github.com/tomtom215/mdblist-scrobbler/internal/models"
)

// PlayerListener receives player callbacks from the host. Times and offsets
// are in milliseconds.
type PlayerListener interface {
	OnAVStarted()
	OnPlayBackPaused()
	OnPlayBackResumed()
	OnPlayBackStopped()
	OnPlayBackEnded()
	OnPlayBackSeek(timeMs, offsetMs int64)
	OnPlayBackSeekChapter(chapter int)
}

// Player reports the state of the host's video player.
type Player interface {
	IsPlaying(ctx context.Context) (bool, error)
	PlaybackTimes(ctx context.Context) (current, total float64, err error)
}

// Library resolves metadata for the playing item.
type Library interface {
	// CurrentItem returns nil, nil when nothing is loaded.
	CurrentItem(ctx context.Context) (*models.Item, error)
	TVShow(ctx context.Context, tvShowID int) (*models.TVShow, error)
}

// Notifier shows a message on the host's screen.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// Host is everything the monitor needs from Kodi. *kodi.Client implements it.
type Host interface {
	Player
	Library
	Notifier
}
