package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedReturnsConstantInstant(t *testing.T) {
	at := time.Date(2024, 5, 4, 10, 30, 0, 0, time.FixedZone("JST", 9*3600))
	c := NewFixed(at)

	assert.Equal(t, at.UTC(), c.Now())
	assert.Equal(t, c.Now(), c.Now())
	assert.Equal(t, time.UTC, c.Now().Location())
}

func TestSystemIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, System{}.Now().Location())
}
