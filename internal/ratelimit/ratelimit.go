package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	sweepInterval = 3 * time.Minute
	idleTTL       = 5 * time.Minute
)

// PerKey is a token-bucket limiter keyed by client address. A bucket is
// created the first time a key is seen; keys that stay idle are swept by a
// background goroutine so the map does not grow without bound.
type PerKey struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	entries map[string]*entry
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewPerKey(rps float64, burst int) *PerKey {
	l := &PerKey{
		rps:     rate.Limit(rps),
		burst:   burst,
		entries: make(map[string]*entry),
	}
	go l.sweep()
	return l
}

// Allow reports whether one more request from key fits in its bucket.
// The bucket itself is safe for concurrent use, so the map lock is held
// only for the lookup.
func (l *PerKey) Allow(key string) bool {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = time.Now()
	l.mu.Unlock()

	return e.limiter.Allow()
}

func (l *PerKey) sweep() {
	for {
		time.Sleep(sweepInterval)
		l.evictIdle(time.Now())
	}
}

func (l *PerKey) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) >= idleTTL {
			delete(l.entries, k)
		}
	}
}
