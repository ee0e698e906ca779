// Package timer implements the question and session countdown.
package timer

import (
	"context"
	"sync"
	"time"
)

// Key identifies one countdown instance. Every Reset issues a new key so
// ticks scheduled for an older instance can be told apart.
type Key uint64

// Countdown counts down from a duration and reports expiry exactly once
// per instance.
type Countdown struct {
	mu       sync.Mutex
	now      func() time.Time
	key      Key
	duration time.Duration
	deadline time.Time
	running  bool
	expired  bool
	held     bool
}

// New returns a stopped countdown. A nil clock uses time.Now.
func New(now func() time.Time) *Countdown {
	if now == nil {
		now = time.Now
	}
	return &Countdown{now: now}
}

// Reset starts a fresh countdown of d and returns its key. Earlier keys
// become stale.
func (c *Countdown) Reset(d time.Duration) Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key++
	c.duration = d
	c.deadline = c.now().Add(d)
	c.running = true
	c.expired = false
	c.held = false
	return c.key
}

// Cancel stops the countdown. The current key is invalidated.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key++
	c.running = false
	c.held = false
}

// Hold postpones expiry. A deadline that passes while held is reported
// by the first Tick after Release, so it is never lost.
func (c *Countdown) Hold() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = true
}

// Release ends a Hold.
func (c *Countdown) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = false
}

// Key returns the key of the current instance.
func (c *Countdown) Key() Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}

// Active reports whether a countdown is running and has not expired.
func (c *Countdown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running && !c.expired
}

// Duration returns the length the current instance started from, the
// full scale of a countdown bar.
func (c *Countdown) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// Remaining returns the time left, rounded up to whole seconds so the
// display never shows 0 while the countdown is still live.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || c.expired {
		return 0
	}
	left := c.deadline.Sub(c.now())
	if left <= 0 {
		return 0
	}
	return (left + time.Second - 1) / time.Second * time.Second
}

// Tick checks the instance identified by key and reports true exactly
// once, on the first call after its deadline that is not held. Stale
// keys return false.
func (c *Countdown) Tick(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key != c.key || !c.running || c.expired || c.held {
		return false
	}
	if c.now().Before(c.deadline) {
		return false
	}
	c.expired = true
	c.running = false
	return true
}

// Run drives the instance identified by key from a ticker until it
// expires, becomes stale or ctx is done. onTick receives the remaining
// time after every interval; onExpire runs at most once.
func (c *Countdown) Run(ctx context.Context, key Key, interval time.Duration, onTick func(time.Duration), onExpire func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.Tick(key) {
				if onExpire != nil {
					onExpire()
				}
				return
			}
			if c.Key() != key || !c.Active() {
				return
			}
			if onTick != nil {
				onTick(c.Remaining())
			}
		}
	}
}
