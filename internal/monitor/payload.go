// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package monitor

import (
	"context"

	"github.com/tomtom215/mdblist-scrobbler/internal/ids"
	"github.com/tomtom215/mdblist-scrobbler/internal/logging"
	"github.com/tomtom215/mdblist-scrobbler/internal/metrics"
	"github.com/tomtom215/mdblist-scrobbler/internal/models"
	"github.com/tomtom215/mdblist-scrobbler/internal/scrobble"
)

// Skip reasons recorded in scrobbler_payload_skipped_total.
const (
	skipEventDisabled     = "event_disabled"
	skipNoMetadata        = "no_metadata"
	skipMediaTypeDisabled = "media_type_disabled"
	skipUnsupportedType   = "unsupported_media_type"
	skipNoProgress        = "no_progress"
	skipNoIDs             = "no_ids"
	skipNotConfigured     = "not_configured"
	skipNoEndpoint        = "no_endpoint"
)

// BuildPayload builds the scrobble body for ev from the current session, or
// returns nil when the session is not eligible. It must run on the Serve
// goroutine, or before Serve starts.
func (m *Monitor) BuildPayload(ctx context.Context, ev scrobble.Event) *scrobble.Payload {
	log := logging.Ctx(ctx).With().Str("event", ev.String()).Logger()

	item := m.item
	if item == nil {
		metrics.RecordPayloadSkipped(skipNoMetadata)
		return nil
	}
	if !item.Type.Supported() {
		log.Debug().Str("type", item.Type.String()).Msg("Media type is not scrobbled")
		metrics.RecordPayloadSkipped(skipUnsupportedType)
		return nil
	}
	if !m.cfg.MediaTypeEnabled(item.Type) {
		log.Debug().Str("type", item.Type.String()).Msg("Scrobbling disabled for media type")
		metrics.RecordPayloadSkipped(skipMediaTypeDisabled)
		return nil
	}

	current, total := m.timing(ctx)
	if current == nil || total == nil {
		log.Debug().Msg("No playback timing available")
		metrics.RecordPayloadSkipped(skipNoProgress)
		return nil
	}
	progress, ok := scrobble.Progress(*current, *total)
	if !ok {
		log.Debug().Float64("current", *current).Float64("total", *total).Msg("Cannot compute progress")
		metrics.RecordPayloadSkipped(skipNoProgress)
		return nil
	}

	switch item.Type {
	case models.MediaTypeEpisode:
		showIDs := ids.Normalize(item.ShowUniqueIDs(), models.MediaTypeEpisode)
		if showIDs.Empty() {
			log.Warn().Str("show", item.ShowTitle).Msg("No usable show ids for episode")
			metrics.RecordPayloadSkipped(skipNoIDs)
			return nil
		}
		return scrobble.NewEpisodePayload(showIDs, item.Season, item.Episode, progress, m.version)
	case models.MediaTypeMovie:
		movieIDs := ids.Normalize(item.UniqueIDs, models.MediaTypeMovie)
		if movieIDs.Empty() {
			log.Warn().Str("title", item.Title).Msg("No usable ids for movie")
			metrics.RecordPayloadSkipped(skipNoIDs)
			return nil
		}
		return scrobble.NewMoviePayload(movieIDs, progress, m.version)
	default:
		metrics.RecordPayloadSkipped(skipUnsupportedType)
		return nil
	}
}

// timing prefers live host values while playing and falls back to the
// captured snapshot.
func (m *Monitor) timing(ctx context.Context) (current, total *float64) {
	playing, err := m.host.IsPlaying(ctx)
	if err == nil && playing {
		cur, tot, err := m.host.PlaybackTimes(ctx)
		if err == nil {
			return &cur, &tot
		}
		logging.Ctx(ctx).Debug().Err(err).Msg("Failed to query playback time, using snapshot")
	}
	return m.current, m.total
}
