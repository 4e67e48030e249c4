// Package frameloop drives the per-frame update tick of a viewer session.
// All listeners run sequentially on the loop goroutine in registration
// order, so per-frame state shared between them needs no synchronization.
package frameloop

import (
	"sync"
	"time"
)

// Clock exposes the loop's current session time to components that need a
// time source without depending on the concrete loop type.
type Clock interface {
	// Now returns the current session time.
	Now() time.Time
}

// Mode describes how the loop paces frames.
type Mode int

const (
	// RealTime paces frames with a wall-clock ticker.
	RealTime Mode = iota
	// Accelerated steps frames as fast as the listeners can run.
	Accelerated
)

// Listener is invoked once per frame with the session time and the frame
// delta in seconds.
type Listener func(now time.Time, dt float64)

// Loop is a fixed-step frame driver. It implements Clock.
type Loop struct {
	mu        sync.RWMutex
	StartTime time.Time
	Frame     time.Duration
	Mode      Mode

	currentTime time.Time
	frameCount  uint64

	listeners []Listener
}

// NewLoop constructs a loop stepping by frame from start.
func NewLoop(start time.Time, frame time.Duration, mode Mode) *Loop {
	if frame <= 0 {
		frame = time.Second / 60
	}
	return &Loop{
		StartTime:   start,
		Frame:       frame,
		Mode:        mode,
		currentTime: start,
	}
}

// Now returns the current session time. Implements Clock.
func (l *Loop) Now() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentTime
}

// FrameCount returns the number of frames run so far.
func (l *Loop) FrameCount() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frameCount
}

// AddListener registers a callback invoked on every frame, after all
// previously registered listeners. Must be called before Start.
func (l *Loop) AddListener(fn Listener) {
	l.listeners = append(l.listeners, fn)
}

// Start runs the loop for the given session duration in a separate
// goroutine and returns a channel closed when it finishes. A duration of
// zero or less runs a single frame.
func (l *Loop) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		l.mu.Lock()
		now := l.StartTime
		l.currentTime = now
		l.mu.Unlock()

		dt := l.Frame.Seconds()
		elapsed := time.Duration(0)

		var ticker *time.Ticker
		if l.Mode == RealTime {
			ticker = time.NewTicker(l.Frame)
			defer ticker.Stop()
		}

		for {
			if ticker != nil {
				<-ticker.C
			}
			now = now.Add(l.Frame)
			elapsed += l.Frame

			l.mu.Lock()
			l.currentTime = now
			l.frameCount++
			l.mu.Unlock()

			for _, fn := range l.listeners {
				fn(now, dt)
			}

			if elapsed >= duration {
				return
			}
		}
	}()
	return done
}
