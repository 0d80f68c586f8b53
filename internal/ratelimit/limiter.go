package ratelimit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Xenthio/AIChaos/internal/metrics"
)

// Limiter tracks the last accepted command per author identity and rejects
// authors inside the cooldown window. Author identities are per platform; the
// same human on two platforms has two independent cooldowns.
type Limiter struct {
	mu           sync.Mutex
	window       time.Duration
	clock        clockwork.Clock
	lastAccepted map[string]time.Time
}

// New creates a Limiter with the given cooldown window.
func New(window time.Duration, clock clockwork.Clock) *Limiter {
	return &Limiter{
		window:       window,
		clock:        clock,
		lastAccepted: make(map[string]time.Time),
	}
}

// Window returns the configured cooldown window.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// OnCooldown reports whether the author accepted a command less than one
// window ago.
func (l *Limiter) OnCooldown(author string) bool {
	return l.Remaining(author) > 0
}

// Remaining returns how long the author must still wait, or 0 when they may
// send a command now.
func (l *Limiter) Remaining(author string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	accepted, ok := l.lastAccepted[author]
	if !ok {
		return 0
	}
	remaining := l.window - l.clock.Since(accepted)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MarkAccepted records that the author's command was dispatched successfully,
// starting a fresh cooldown window.
func (l *Limiter) MarkAccepted(author string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastAccepted[author] = l.clock.Now()
	metrics.CooldownEntries.Set(float64(len(l.lastAccepted)))
}

// Len returns the number of authors currently tracked, including entries
// whose window already elapsed but were not swept yet.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lastAccepted)
}

// EvictExpired drops entries whose cooldown elapsed and returns the count.
// Without sweeping, the map grows with every distinct author seen during a
// long session.
func (l *Limiter) EvictExpired() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	evicted := 0
	for author, accepted := range l.lastAccepted {
		if now.Sub(accepted) >= l.window {
			delete(l.lastAccepted, author)
			evicted++
		}
	}
	metrics.CooldownEntries.Set(float64(len(l.lastAccepted)))
	return evicted
}

// StartEvictionTimer starts a background goroutine that periodically sweeps
// expired entries. It returns a stop function that cleans up the goroutine.
func (l *Limiter) StartEvictionTimer(interval time.Duration) func() {
	ticker := l.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.Chan():
				evicted := l.EvictExpired()
				if evicted > 0 {
					slog.Debug("Evicted expired cooldown entries",
						"count", evicted,
						"remaining", l.Len(),
					)
					metrics.CooldownEvictions.Add(float64(evicted))
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}
