package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

type LimitExceededError struct {
	RetryAfter time.Duration
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded, try again in %s", e.RetryAfter)
}

// Limiter counts hits per key inside a trailing window. Each key holds the
// ordered timestamps of its admitted hits; aged entries are dropped on every
// hit, so the window slides rather than resetting on a fixed boundary.
type Limiter struct {
	limit  int
	window time.Duration

	mu   sync.Mutex
	hits map[string][]time.Time

	now func() time.Time
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}

	go l.cleanup()

	return l
}

// Hit records one event for key, or returns *LimitExceededError when the key
// already has limit events inside the window. The retry-after estimate is the
// time until the oldest retained event ages out, floored at one second.
func (l *Limiter) Hit(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	q := l.hits[key]
	kept := 0
	for kept < len(q) && q[kept].Before(cutoff) {
		kept++
	}
	q = q[kept:]

	if len(q) >= l.limit {
		if len(q) > l.limit {
			q = q[len(q)-l.limit:]
		}
		l.hits[key] = q

		retry := q[0].Add(l.window).Sub(now)
		if retry < time.Second {
			retry = time.Second
		}
		return &LimitExceededError{RetryAfter: retry.Round(time.Second)}
	}

	l.hits[key] = append(q, now)
	return nil
}

// Remaining reports how many hits key can still make inside the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	count := 0
	for _, ts := range l.hits[key] {
		if !ts.Before(cutoff) {
			count++
		}
	}

	if count >= l.limit {
		return 0
	}
	return l.limit - count
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		cutoff := l.now().Add(-l.window)

		for key, q := range l.hits {
			if len(q) == 0 || q[len(q)-1].Before(cutoff) {
				delete(l.hits, key)
			}
		}

		l.mu.Unlock()
	}
}
