// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tomtom215/mdblist-scrobbler/internal/config"
	"github.com/tomtom215/mdblist-scrobbler/internal/interval"
	"github.com/tomtom215/mdblist-scrobbler/internal/logging"
	"github.com/tomtom215/mdblist-scrobbler/internal/metrics"
	"github.com/tomtom215/mdblist-scrobbler/internal/models"
	"github.com/tomtom215/mdblist-scrobbler/internal/scrobble"
)

// queueSize is the capacity of the player event queue.
const queueSize = 64

// event is one queued player callback or interval tick.
type event struct {
	kind scrobble.Event
	// gen is the timer generation of an interval tick.
	gen uint64

	// Seek details, logged only.
	timeMs   int64
	offsetMs int64
	chapter  int
}

var _ PlayerListener = (*Monitor)(nil)

// Monitor is the playback session state machine. It implements
// PlayerListener; Serve must be running for queued events to be handled.
type Monitor struct {
	cfg       *config.Config
	host      Host
	scrobbler scrobble.Scrobbler
	version   string
	notifier  *throttledNotifier
	period    time.Duration
	timer     *interval.Timer
	events    chan event
	active    atomic.Bool

	// Session state below is owned by the Serve goroutine.
	item     *models.Item
	current  *float64
	total    *float64
	timerGen uint64
}

// New creates a monitor. version is reported as app_version in payloads.
func New(cfg *config.Config, host Host, scrobbler scrobble.Scrobbler, version string) *Monitor {
	return &Monitor{
		cfg:       cfg,
		host:      host,
		scrobbler: scrobbler,
		version:   version,
		notifier:  newThrottledNotifier(host, &cfg.Notifications),
		period:    cfg.IntervalDuration(),
		timer:     interval.New(),
		events:    make(chan event, queueSize),
	}
}

// String implements fmt.Stringer for supervisor logging.
func (m *Monitor) String() string {
	return "playback-monitor"
}

// Active reports whether item metadata is currently loaded.
func (m *Monitor) Active() bool {
	return m.active.Load()
}

// Serve handles queued events until ctx is canceled. The interval timer is
// stopped before Serve returns.
func (m *Monitor) Serve(ctx context.Context) error {
	ctx = logging.ContextWithLogger(ctx, logging.WithComponent("monitor"))
	logging.Ctx(ctx).Info().Dur("interval", m.period).Msg("Playback monitor started")
	defer m.stopTimer()

	for {
		select {
		case <-ctx.Done():
			logging.Ctx(ctx).Info().Msg("Playback monitor stopping")
			return ctx.Err()
		case ev := <-m.events:
			m.handle(ctx, ev)
		}
	}
}

func (m *Monitor) OnAVStarted()       { m.enqueue(event{kind: scrobble.EventStart}) }
func (m *Monitor) OnPlayBackPaused()  { m.enqueue(event{kind: scrobble.EventPause}) }
func (m *Monitor) OnPlayBackResumed() { m.enqueue(event{kind: scrobble.EventResume}) }
func (m *Monitor) OnPlayBackStopped() { m.enqueue(event{kind: scrobble.EventStop}) }
func (m *Monitor) OnPlayBackEnded()   { m.enqueue(event{kind: scrobble.EventEnd}) }

func (m *Monitor) OnPlayBackSeek(timeMs, offsetMs int64) {
	m.enqueue(event{kind: scrobble.EventSeek, timeMs: timeMs, offsetMs: offsetMs})
}

func (m *Monitor) OnPlayBackSeekChapter(chapter int) {
	m.enqueue(event{kind: scrobble.EventSeek, chapter: chapter})
}

// enqueue never blocks. It runs on listener and timer goroutines.
func (m *Monitor) enqueue(ev event) {
	select {
	case m.events <- ev:
	default:
		metrics.PlayerEventsDropped.WithLabelValues("queue_full").Inc()
		logging.Warn().Str("event", ev.kind.String()).Msg("Player event queue full, dropping event")
	}
}

func (m *Monitor) handle(ctx context.Context, ev event) {
	if ev.kind == scrobble.EventInterval && ev.gen != m.timerGen {
		metrics.PlayerEventsDropped.WithLabelValues("stale_tick").Inc()
		return
	}

	ctx = logging.ContextWithNewCorrelationID(ctx)
	metrics.PlayerEventsTotal.WithLabelValues(ev.kind.String()).Inc()

	evt := logging.Ctx(ctx).Debug().Str("event", ev.kind.String())
	if ev.kind == scrobble.EventSeek {
		evt = evt.Int64("time_ms", ev.timeMs).Int64("offset_ms", ev.offsetMs).Int("chapter", ev.chapter)
	}
	evt.Msg("Handling player event")

	switch ev.kind {
	case scrobble.EventStart:
		m.onStart(ctx)
	case scrobble.EventPause:
		if m.item == nil {
			return
		}
		m.updateTime(ctx)
		m.SendRequest(ctx, scrobble.EventPause)
		m.stopTimer()
	case scrobble.EventResume:
		if m.item == nil {
			return
		}
		m.SendRequest(ctx, scrobble.EventResume)
		m.startTimer(ctx)
	case scrobble.EventStop, scrobble.EventEnd:
		if m.item == nil {
			return
		}
		m.SendRequest(ctx, ev.kind)
		m.stopTimer()
		m.clearSession()
	case scrobble.EventSeek, scrobble.EventInterval:
		if m.item == nil {
			return
		}
		m.updateTime(ctx)
		m.SendRequest(ctx, ev.kind)
	}
}

func (m *Monitor) onStart(ctx context.Context) {
	m.clearSession()
	m.fetchMetadata(ctx)
	m.updateTime(ctx)
	if m.item != nil {
		m.SendRequest(ctx, scrobble.EventStart)
	}
	m.startTimer(ctx)
}

// startTimer (re)starts the interval timer under a new generation.
func (m *Monitor) startTimer(ctx context.Context) {
	m.timer.Stop()
	m.timerGen++
	gen := m.timerGen
	if err := m.timer.Start(m.period, func() {
		m.enqueue(event{kind: scrobble.EventInterval, gen: gen})
	}); err != nil {
		logging.Ctx(ctx).Error().Err(err).Dur("interval", m.period).Msg("Failed to start interval timer")
	}
}

// stopTimer stops the timer and invalidates ticks already queued.
func (m *Monitor) stopTimer() {
	m.timer.Stop()
	m.timerGen++
}

// fetchMetadata loads the current item and, for episodes, the parent show.
// Any failed query leaves the session without metadata.
func (m *Monitor) fetchMetadata(ctx context.Context) {
	log := logging.Ctx(ctx)

	item, err := m.host.CurrentItem(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to get current item")
		return
	}
	if item == nil {
		log.Debug().Msg("No item loaded in player")
		return
	}

	if item.IsEpisode() {
		show, err := m.host.TVShow(ctx, item.TVShowID)
		if err != nil {
			log.Warn().Err(err).Int("tvshowid", item.TVShowID).Msg("Failed to get TV show details")
			return
		}
		item.Show = show
	}

	m.setItem(item)
	log.Info().
		Str("type", item.Type.String()).
		Str("title", item.Title).
		Str("show", item.ShowTitle).
		Int("season", item.Season).
		Int("episode", item.Episode).
		Msg("Playback session started")
}

// updateTime captures host timing. The snapshot is only overwritten while the
// host reports active playback.
func (m *Monitor) updateTime(ctx context.Context) {
	playing, err := m.host.IsPlaying(ctx)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Failed to query player state")
		return
	}
	if !playing {
		return
	}

	current, total, err := m.host.PlaybackTimes(ctx)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Failed to query playback time")
		return
	}
	m.current, m.total = &current, &total
}

func (m *Monitor) setItem(item *models.Item) {
	m.item = item
	m.active.Store(item != nil)
	metrics.SetSessionActive(item != nil)
}

func (m *Monitor) clearSession() {
	m.setItem(nil)
	m.current, m.total = nil, nil
}
