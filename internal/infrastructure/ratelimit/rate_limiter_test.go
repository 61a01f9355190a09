package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(limits map[string]Limit) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(limits)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }
	return rl, &clock
}

func TestRateLimiter_ExhaustsAndRefills(t *testing.T) {
	rl, clock := newTestLimiter(map[string]Limit{
		ActionSendMessage: {Burst: 2, Refill: 1, Interval: time.Second},
	})

	ok, _ := rl.Allow("p1", ActionSendMessage)
	assert.True(t, ok)
	ok, _ = rl.Allow("p1", ActionSendMessage)
	assert.True(t, ok)

	ok, wait := rl.Allow("p1", ActionSendMessage)
	assert.False(t, ok)
	assert.InDelta(t, float64(time.Second), float64(wait), float64(time.Millisecond))

	*clock = clock.Add(2 * time.Second)
	ok, _ = rl.Allow("p1", ActionSendMessage)
	assert.True(t, ok)
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(map[string]Limit{
		ActionTyping: {Burst: 1, Refill: 1, Interval: time.Minute},
	})

	ok, _ := rl.Allow("p1", ActionTyping)
	assert.True(t, ok)
	ok, _ = rl.Allow("p1", ActionTyping)
	assert.False(t, ok)

	ok, _ = rl.Allow("p2", ActionTyping)
	assert.True(t, ok)

	// unknown actions fall back to the default bucket
	ok, _ = rl.Allow("p1", "other")
	assert.True(t, ok)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl, clock := newTestLimiter(nil)

	rl.Allow("p1", ActionComment)
	*clock = clock.Add(2 * time.Hour)
	rl.Allow("p2", ActionComment)

	assert.Equal(t, 1, rl.Cleanup(time.Hour))
	assert.Len(t, rl.buckets, 1)
}

func TestRateLimiter_DeniedAttemptsDoNotConsume(t *testing.T) {
	rl, clock := newTestLimiter(map[string]Limit{
		ActionCreatePost: {Burst: 1, Refill: 2, Interval: 10 * time.Second},
	})

	ok, _ := rl.Allow("p1", ActionCreatePost)
	assert.True(t, ok)

	for i := 0; i < 3; i++ {
		ok, wait := rl.Allow("p1", ActionCreatePost)
		assert.False(t, ok)
		assert.Equal(t, 5*time.Second, wait)
	}

	*clock = clock.Add(4 * time.Second)
	ok, wait := rl.Allow("p1", ActionCreatePost)
	assert.False(t, ok)
	assert.InDelta(t, float64(time.Second), float64(wait), float64(time.Millisecond))

	*clock = clock.Add(2 * time.Second)
	ok, _ = rl.Allow("p1", ActionCreatePost)
	assert.True(t, ok)
}
