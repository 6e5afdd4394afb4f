package sdk

import (
	"context"
	"sync"
	"time"
)

// streamIdleMonitor drops a notification stream connection that has gone
// silent. SSE servers heartbeat with ping frames, so a window with no frames
// at all means the connection is dead even though the read still blocks.
type streamIdleMonitor struct {
	idle     time.Duration
	activity chan struct{}
	done     chan struct{}
	cancel   context.CancelFunc

	mu       sync.Mutex
	timedOut bool

	stopOnce sync.Once
}

func newStreamIdleMonitor(idle time.Duration, cancel context.CancelFunc) *streamIdleMonitor {
	return &streamIdleMonitor{
		idle:     idle,
		activity: make(chan struct{}, 1),
		done:     make(chan struct{}),
		cancel:   cancel,
	}
}

// Start begins monitoring. It is a no-op when no idle window is configured.
func (m *streamIdleMonitor) Start() {
	if m.idle <= 0 {
		return
	}
	go m.run()
}

func (m *streamIdleMonitor) run() {
	timer := time.NewTimer(m.idle)
	defer timer.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-m.activity:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(m.idle)
		case <-timer.C:
			m.mu.Lock()
			m.timedOut = true
			m.mu.Unlock()
			m.cancel()
			return
		}
	}
}

// SignalActivity resets the idle timer. Call on every received frame,
// heartbeats included.
func (m *streamIdleMonitor) SignalActivity() {
	select {
	case m.activity <- struct{}{}:
	default:
	}
}

// Stop terminates the monitor goroutine.
func (m *streamIdleMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

// TimedOut reports whether the monitor cancelled the connection.
func (m *streamIdleMonitor) TimedOut() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timedOut
}
