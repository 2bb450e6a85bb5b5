package pipeline

import (
	"sync"
	"time"
)

// changeBuffer accumulates changed log paths and releases them in one batch
// once no change has arrived for the debounce window.
type changeBuffer struct {
	window time.Duration

	mu      sync.Mutex
	pending []string
	seen    map[string]bool
	timer   *time.Timer
}

func newChangeBuffer(window time.Duration) *changeBuffer {
	return &changeBuffer{window: window, seen: make(map[string]bool)}
}

// add records a change to path and restarts the debounce timer.
func (b *changeBuffer) add(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.seen[path] {
		b.seen[path] = true
		b.pending = append(b.pending, path)
	}
	if b.timer == nil {
		b.timer = time.NewTimer(b.window)
		return
	}
	if !b.timer.Stop() {
		select {
		case <-b.timer.C:
		default:
		}
	}
	b.timer.Reset(b.window)
}

// flushCh returns the timer's channel, or nil if no timer is active.
func (b *changeBuffer) flushCh() <-chan time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer == nil {
		return nil
	}
	return b.timer.C
}

// drain returns the pending paths in first-change order and resets the buffer.
func (b *changeBuffer) drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	paths := b.pending
	b.pending = nil
	clear(b.seen)
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	return paths
}
