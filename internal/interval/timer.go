// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

// Package interval provides a cancellable, restartable periodic callback used
// to emit "still watching" scrobble events while playback continues.
//
// A Timer runs at most one background goroutine. Stop blocks until that
// goroutine has exited, so once Stop returns the callback will not be invoked
// again. The callback runs on the timer goroutine and must not call Stop on
// the same Timer.
package interval

import (
	"errors"
	"sync"
	"time"
)

// ErrAlreadyRunning is returned by Start when the timer has not been stopped.
var ErrAlreadyRunning = errors.New("interval timer already running")

// ErrInvalidInterval is returned by Start for non-positive intervals.
var ErrInvalidInterval = errors.New("interval must be positive")

// Timer invokes a callback once per interval until stopped.
type Timer struct {
	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// New creates a stopped timer.
func New() *Timer {
	return &Timer{}
}

// Start schedules fn to run every d on a background goroutine. The first
// invocation happens after one full interval.
func (t *Timer) Start(d time.Duration, fn func()) error {
	if d <= 0 {
		return ErrInvalidInterval
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		return ErrAlreadyRunning
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	t.stop = stop
	t.done = done

	go run(d, fn, stop, done)
	return nil
}

func run(d time.Duration, fn func(), stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A tick and a stop may be ready together; stop wins.
			select {
			case <-stop:
				return
			default:
			}
			fn()
		}
	}
}

// Stop cancels the timer and waits for its goroutine to exit. It is safe to
// call on a timer that was never started or is already stopped.
func (t *Timer) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether the timer is currently scheduled.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}
