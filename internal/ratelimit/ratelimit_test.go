package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBurst(t *testing.T) {
	l := NewPerKey(1, 3)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
}

func TestKeysDoNotShareBuckets(t *testing.T) {
	l := NewPerKey(1, 1)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestEvictIdle(t *testing.T) {
	l := NewPerKey(1, 3)
	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")

	l.evictIdle(time.Now())
	l.mu.Lock()
	remaining := len(l.entries)
	l.mu.Unlock()
	assert.Equal(t, 2, remaining)

	l.evictIdle(time.Now().Add(idleTTL))
	l.mu.Lock()
	remaining = len(l.entries)
	l.mu.Unlock()
	assert.Equal(t, 0, remaining)
}
