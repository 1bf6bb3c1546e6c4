// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package kodi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/mdblist-scrobbler/internal/config"
)

// recordingPlayer captures listener callbacks as strings.
type recordingPlayer struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingPlayer) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *recordingPlayer) OnAVStarted()       { r.add("start") }
func (r *recordingPlayer) OnPlayBackPaused()  { r.add("pause") }
func (r *recordingPlayer) OnPlayBackResumed() { r.add("resume") }
func (r *recordingPlayer) OnPlayBackStopped() { r.add("stop") }
func (r *recordingPlayer) OnPlayBackEnded()   { r.add("end") }
func (r *recordingPlayer) OnPlayBackSeek(timeMs, offsetMs int64) {
	r.add(fmt.Sprintf("seek %d %d", timeMs, offsetMs))
}
func (r *recordingPlayer) OnPlayBackSeekChapter(chapter int) {
	r.add(fmt.Sprintf("chapter %d", chapter))
}

func (r *recordingPlayer) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recordingPlayer) waitFor(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if got := r.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %v", n, r.snapshot())
	return nil
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  string
		want []string
	}{
		{
			name: "av start",
			msg:  `{"jsonrpc":"2.0","method":"Player.OnAVStart","params":{"data":{"item":{"id":1,"type":"movie"},"player":{"playerid":1,"speed":1}},"sender":"xbmc"}}`,
			want: []string{"start"},
		},
		{
			name: "pause",
			msg:  `{"jsonrpc":"2.0","method":"Player.OnPause","params":{"data":{"player":{"playerid":1,"speed":0}},"sender":"xbmc"}}`,
			want: []string{"pause"},
		},
		{
			name: "resume",
			msg:  `{"jsonrpc":"2.0","method":"Player.OnResume","params":{"data":{},"sender":"xbmc"}}`,
			want: []string{"resume"},
		},
		{
			name: "stop",
			msg:  `{"jsonrpc":"2.0","method":"Player.OnStop","params":{"data":{"end":false,"item":{"type":"movie"}},"sender":"xbmc"}}`,
			want: []string{"stop"},
		},
		{
			name: "end",
			msg:  `{"jsonrpc":"2.0","method":"Player.OnStop","params":{"data":{"end":true},"sender":"xbmc"}}`,
			want: []string{"end"},
		},
		{
			name: "stop without data",
			msg:  `{"jsonrpc":"2.0","method":"Player.OnStop","params":{"sender":"xbmc"}}`,
			want: []string{"stop"},
		},
		{
			name: "seek",
			msg:  `{"jsonrpc":"2.0","method":"Player.OnSeek","params":{"data":{"player":{"playerid":1,"seekoffset":{"hours":0,"minutes":0,"seconds":30,"milliseconds":0},"time":{"hours":0,"minutes":1,"seconds":1,"milliseconds":250}}},"sender":"xbmc"}}`,
			want: []string{"seek 61250 30000"},
		},
		{
			name: "backward seek",
			msg:  `{"jsonrpc":"2.0","method":"Player.OnSeek","params":{"data":{"player":{"seekoffset":{"hours":0,"minutes":0,"seconds":-10,"milliseconds":0},"time":{"hours":0,"minutes":0,"seconds":5,"milliseconds":0}}},"sender":"xbmc"}}`,
			want: []string{"seek 5000 -10000"},
		},
		{
			name: "unrelated notification",
			msg:  `{"jsonrpc":"2.0","method":"VideoLibrary.OnUpdate","params":{"data":{},"sender":"xbmc"}}`,
		},
		{
			name: "response without method",
			msg:  `{"jsonrpc":"2.0","id":1,"result":"OK"}`,
		},
		{
			name: "garbage",
			msg:  `not json`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			player := &recordingPlayer{}
			l := NewListener(&config.KodiConfig{WebSocketURL: "ws://127.0.0.1:1/jsonrpc"}, player)
			l.dispatch(context.Background(), []byte(tt.msg))

			got := player.snapshot()
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("events = %v, want %v", got, tt.want)
			}
		})
	}
}

// wsServer serves each connection with the next script in order. A script
// writes messages and then closes the connection; the last script holds the
// connection open until the client goes away.
type wsServer struct {
	*httptest.Server
	conns atomic.Int32
	auth  atomic.Value // string
}

func newWSServer(t *testing.T, scripts ...[]string) *wsServer {
	t.Helper()
	upgrader := websocket.Upgrader{}
	s := &wsServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); ok {
			s.auth.Store(user + ":" + pass)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		n := int(s.conns.Add(1)) - 1
		if n >= len(scripts) {
			n = len(scripts) - 1
		}
		for _, msg := range scripts[n] {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
		if n < len(scripts)-1 {
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "restart"))
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *wsServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http") + "/jsonrpc"
}

func TestListenerServe(t *testing.T) {
	t.Parallel()

	srv := newWSServer(t,
		[]string{`{"jsonrpc":"2.0","method":"Player.OnAVStart","params":{"data":{},"sender":"xbmc"}}`},
		[]string{
			`{"jsonrpc":"2.0","method":"Player.OnPause","params":{"data":{},"sender":"xbmc"}}`,
			`{"jsonrpc":"2.0","method":"Player.OnStop","params":{"data":{"end":true},"sender":"xbmc"}}`,
		},
	)

	player := &recordingPlayer{}
	l := NewListener(&config.KodiConfig{
		WebSocketURL: srv.wsURL(),
		Username:     "kodi",
		Password:     "hunter2",
		ReconnectMin: 10 * time.Millisecond,
		ReconnectMax: 20 * time.Millisecond,
	}, player)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Serve(ctx) }()

	got := player.waitFor(t, 3)
	if fmt.Sprint(got) != "[start pause end]" {
		t.Errorf("events = %v", got)
	}
	if n := srv.conns.Load(); n < 2 {
		t.Errorf("connections = %d, want a reconnect", n)
	}
	if auth, _ := srv.auth.Load().(string); auth != "kodi:hunter2" {
		t.Errorf("basic auth = %q", auth)
	}

	deadline := time.Now().Add(time.Second)
	for !l.IsConnected() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !l.IsConnected() {
		t.Error("IsConnected() = false on open connection")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
	if l.IsConnected() {
		t.Error("IsConnected() = true after shutdown")
	}
}

func TestListenerRetriesDialFailures(t *testing.T) {
	t.Parallel()

	player := &recordingPlayer{}
	l := NewListener(&config.KodiConfig{
		WebSocketURL: "ws://127.0.0.1:1/jsonrpc",
		ReconnectMin: 5 * time.Millisecond,
		ReconnectMax: 10 * time.Millisecond,
	}, player)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := l.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
	if l.IsConnected() {
		t.Error("IsConnected() = true without a server")
	}
}

func TestNewListenerDelayBounds(t *testing.T) {
	t.Parallel()

	l := NewListener(&config.KodiConfig{ReconnectMin: 0, ReconnectMax: 0}, &recordingPlayer{})
	if l.reconnectMin != time.Second || l.reconnectMax != time.Second {
		t.Errorf("delays = %v..%v, want 1s..1s", l.reconnectMin, l.reconnectMax)
	}
}
