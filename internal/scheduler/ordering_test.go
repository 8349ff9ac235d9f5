package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Front keys must sort ahead of all build-time keys (which are small
// positive integers) and ahead of any earlier front key.
func TestFrontKeySortsAheadOfQueue(t *testing.T) {
	now := time.Now()
	key := FrontKey(now, 42)
	assert.Less(t, key, int64(0))
	assert.Less(t, key, int64(1)) // smallest build-time key
}

func TestFrontKeyLaterPromotionWinsOverEarlier(t *testing.T) {
	earlier := FrontKey(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), 1)
	later := FrontKey(time.Date(2026, 3, 2, 10, 0, 1, 0, time.UTC), 1)
	assert.Less(t, later, earlier)
}

func TestFrontKeyJitterStaysWithinMillisecond(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	a := FrontKey(at, 1)
	b := FrontKey(at, 999)
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	assert.Less(t, diff, int64(1000))
}

func TestBackKey(t *testing.T) {
	assert.Equal(t, int64(43), BackKey(42))
	assert.Equal(t, int64(1), BackKey(0))
}
