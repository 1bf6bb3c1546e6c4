// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package kodi

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/mdblist-scrobbler/internal/config"
	"github.com/tomtom215/mdblist-scrobbler/internal/logging"
	"github.com/tomtom215/mdblist-scrobbler/internal/metrics"
	"github.com/tomtom215/mdblist-scrobbler/internal/models"
	"github.com/tomtom215/mdblist-scrobbler/internal/monitor"
)

// Player notifications handled by the listener.
const (
	NotifyAVStart = "Player.OnAVStart"
	NotifyPause   = "Player.OnPause"
	NotifyResume  = "Player.OnResume"
	NotifyStop    = "Player.OnStop"
	NotifySeek    = "Player.OnSeek"
)

const (
	handshakeTimeout = 10 * time.Second
	writeWait        = time.Second
	maxMessageSize   = 1 << 20
	defaultPingEvery = 30 * time.Second
	defaultPongWait  = 90 * time.Second
)

// notification is a server-initiated JSON-RPC message.
type notification struct {
	Method string `json:"method"`
	Params struct {
		Sender string          `json:"sender"`
		Data   json.RawMessage `json:"data"`
	} `json:"params"`
}

type stopData struct {
	End bool `json:"end"`
}

type seekData struct {
	Player struct {
		Time       models.PlaybackTime `json:"time"`
		SeekOffset models.PlaybackTime `json:"seekoffset"`
	} `json:"player"`
}

// Listener receives Kodi notifications over WebSocket and forwards player
// events to a monitor.PlayerListener. It reconnects until its context ends.
type Listener struct {
	url          string
	username     string
	password     string
	reconnectMin time.Duration
	reconnectMax time.Duration
	pingEvery    time.Duration
	pongWait     time.Duration

	player    monitor.PlayerListener
	dialer    *websocket.Dialer
	connected atomic.Bool
}

// NewListener creates a listener for the kodi config section.
func NewListener(cfg *config.KodiConfig, player monitor.PlayerListener) *Listener {
	minDelay, maxDelay := cfg.ReconnectMin, cfg.ReconnectMax
	if minDelay <= 0 {
		minDelay = time.Second
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Listener{
		url:          cfg.WebSocketURL,
		username:     cfg.Username,
		password:     cfg.Password,
		reconnectMin: minDelay,
		reconnectMax: maxDelay,
		pingEvery:    defaultPingEvery,
		pongWait:     defaultPongWait,
		player:       player,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

// String implements fmt.Stringer for supervisor logging.
func (l *Listener) String() string {
	return "kodi-listener"
}

// IsConnected reports whether the notification socket is currently open.
func (l *Listener) IsConnected() bool {
	return l.connected.Load()
}

// Serve connects and reads notifications until ctx is canceled. Lost
// connections are retried with a delay that doubles from reconnect_min up
// to reconnect_max and resets once a message has been received.
func (l *Listener) Serve(ctx context.Context) error {
	ctx = logging.ContextWithLogger(ctx, logging.WithComponent("kodi-listener"))
	log := logging.Ctx(ctx)
	delay := l.reconnectMin

	for {
		received, err := l.listen(ctx)
		if ctx.Err() != nil {
			log.Info().Msg("Kodi listener stopping")
			return ctx.Err()
		}
		if received {
			delay = l.reconnectMin
		}

		log.Warn().Err(err).Dur("delay", delay).Msg("Kodi notification connection lost, reconnecting")
		metrics.KodiListenerReconnects.Inc()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, l.reconnectMax)
	}
}

// listen runs one connection. received reports whether any message was read.
func (l *Listener) listen(ctx context.Context) (received bool, err error) {
	conn, err := l.dial(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = conn.Close() }()

	l.setConnected(true)
	defer l.setConnected(false)
	logging.Ctx(ctx).Info().Str("url", logging.RedactQuery(l.url)).Msg("Connected to Kodi notifications")

	done := make(chan struct{})
	defer close(done)
	go l.keepAlive(ctx, conn, done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(l.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(l.pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return received, fmt.Errorf("kodi closed notification socket: %w", err)
			}
			return received, fmt.Errorf("notification read failed: %w", err)
		}
		received = true
		_ = conn.SetReadDeadline(time.Now().Add(l.pongWait))
		l.dispatch(ctx, data)
	}
}

func (l *Listener) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if l.username != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(l.username + ":" + l.password))
		header.Set("Authorization", "Basic "+creds)
	}

	conn, resp, err := l.dialer.DialContext(ctx, l.url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// keepAlive pings the server and closes conn when ctx ends, which unblocks
// the reader.
func (l *Listener) keepAlive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(l.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait),
			)
			_ = conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				logging.Ctx(ctx).Debug().Err(err).Msg("Ping failed")
				_ = conn.Close()
				return
			}
		}
	}
}

// dispatch maps one notification onto the player listener. Responses and
// unrelated notifications are ignored.
func (l *Listener) dispatch(ctx context.Context, data []byte) {
	var n notification
	if err := json.Unmarshal(data, &n); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Failed to parse Kodi message")
		return
	}
	if n.Method == "" {
		return
	}
	metrics.KodiNotificationsReceived.WithLabelValues(n.Method).Inc()

	switch n.Method {
	case NotifyAVStart:
		l.player.OnAVStarted()
	case NotifyPause:
		l.player.OnPlayBackPaused()
	case NotifyResume:
		l.player.OnPlayBackResumed()
	case NotifyStop:
		var d stopData
		if len(n.Params.Data) > 0 {
			if err := json.Unmarshal(n.Params.Data, &d); err != nil {
				logging.Ctx(ctx).Debug().Err(err).Msg("Failed to parse OnStop data")
			}
		}
		if d.End {
			l.player.OnPlayBackEnded()
		} else {
			l.player.OnPlayBackStopped()
		}
	case NotifySeek:
		var d seekData
		if len(n.Params.Data) > 0 {
			if err := json.Unmarshal(n.Params.Data, &d); err != nil {
				logging.Ctx(ctx).Debug().Err(err).Msg("Failed to parse OnSeek data")
			}
		}
		l.player.OnPlayBackSeek(millis(d.Player.Time), millis(d.Player.SeekOffset))
	default:
		logging.Ctx(ctx).Trace().Str("method", n.Method).Msg("Ignoring Kodi notification")
	}
}

func millis(t models.PlaybackTime) int64 {
	return int64(math.Round(t.TotalSeconds() * 1000))
}

func (l *Listener) setConnected(connected bool) {
	l.connected.Store(connected)
	metrics.SetListenerConnected(connected)
}
