// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*HTTPServerService)(nil)

// stubServer fails Serve or Shutdown on demand.
type stubServer struct {
	serveErr    error
	shutdownErr error
	shutdowns   atomic.Int32
	stop        chan struct{}
}

func newStubServer() *stubServer {
	return &stubServer{stop: make(chan struct{})}
}

func (s *stubServer) Serve(ln net.Listener) error {
	defer func() { _ = ln.Close() }()
	if s.serveErr != nil {
		return s.serveErr
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(context.Context) error {
	s.shutdowns.Add(1)
	close(s.stop)
	return s.shutdownErr
}

func TestNewHTTPServerServiceDefaults(t *testing.T) {
	t.Parallel()

	for _, timeout := range []time.Duration{0, -5 * time.Second} {
		svc := NewHTTPServerService(newStubServer(), "127.0.0.1:0", timeout)
		if svc.shutdownTimeout != 10*time.Second {
			t.Errorf("timeout %v: got %v, want 10s", timeout, svc.shutdownTimeout)
		}
	}
	if got := NewHTTPServerService(newStubServer(), "", time.Second).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHTTPServerServiceServesAndShutsDown(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	server := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}

	svc := NewHTTPServerService(server, "127.0.0.1:0", time.Second)
	addrCh := make(chan string, 1)
	svc.listen = func(network, addr string) (net.Listener, error) {
		ln, err := net.Listen(network, addr)
		if err == nil {
			addrCh <- ln.Addr().String()
		}
		return ln, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	addr := <-addrCh
	resp, err := http.Get("http://" + addr + "/ping")
	if err != nil {
		t.Fatalf("GET /ping: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("body = %q, want pong", body)
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestHTTPServerServiceListenError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()

	svc := NewHTTPServerService(newStubServer(), ln.Addr().String(), time.Second)
	if err := svc.Serve(context.Background()); err == nil {
		t.Fatal("Serve() on a bound port returned nil")
	}
}

func TestHTTPServerServiceServeError(t *testing.T) {
	t.Parallel()

	want := errors.New("accept failed")
	server := newStubServer()
	server.serveErr = want

	err := NewHTTPServerService(server, "127.0.0.1:0", time.Second).Serve(context.Background())
	if !errors.Is(err, want) {
		t.Errorf("Serve() = %v, want %v", err, want)
	}
}

func TestHTTPServerServiceShutdownError(t *testing.T) {
	t.Parallel()

	want := errors.New("shutdown timeout")
	server := newStubServer()
	server.shutdownErr = want
	svc := NewHTTPServerService(server, "127.0.0.1:0", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, want) {
			t.Errorf("Serve() = %v, want %v", err, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if n := server.shutdowns.Load(); n != 1 {
		t.Errorf("Shutdown calls = %d, want 1", n)
	}
}
