package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionSendMessage = "send_message"
	ActionTyping      = "typing"
	ActionCreatePost  = "create_post"
	ActionComment     = "comment"
)

// Limit describes a token bucket: Burst tokens, refilled by Refill every Interval.
type Limit struct {
	Burst    int
	Refill   int
	Interval time.Duration
}

// DefaultLimits are the per-action buckets used when none are configured.
var DefaultLimits = map[string]Limit{
	// 10 messages per minute
	ActionSendMessage: {Burst: 10, Refill: 1, Interval: 6 * time.Second},
	// 30 typing events per minute
	ActionTyping:     {Burst: 30, Refill: 1, Interval: 2 * time.Second},
	ActionCreatePost: {Burst: 5, Refill: 1, Interval: 12 * time.Second},
	ActionComment:    {Burst: 20, Refill: 1, Interval: 3 * time.Second},
}

var fallbackLimit = Limit{Burst: 20, Refill: 1, Interval: 3 * time.Second}

// bucket pairs a limiter with the last time its key was seen.
type bucket struct {
	limiter  *rate.Limiter
	lastUsed time.Time
	mutex    sync.Mutex
}

func newBucket(limit Limit, now time.Time) *bucket {
	refill := limit.Refill
	if refill <= 0 {
		refill = 1
	}
	return &bucket{
		limiter:  rate.NewLimiter(rate.Every(limit.Interval/time.Duration(refill)), limit.Burst),
		lastUsed: now,
	}
}

// allow consumes a token if one is available, otherwise reports how long until the next one.
func (b *bucket) allow(now time.Time) (bool, time.Duration) {
	b.mutex.Lock()
	b.lastUsed = now
	b.mutex.Unlock()

	reservation := b.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, 0
	}
	if wait := reservation.DelayFrom(now); wait > 0 {
		reservation.CancelAt(now)
		return false, wait
	}
	return true, 0
}

func (b *bucket) idleSince(now time.Time) time.Duration {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return now.Sub(b.lastUsed)
}

// RateLimiter keeps one bucket per participant and action.
type RateLimiter struct {
	limits  map[string]Limit
	buckets map[string]*bucket
	mutex   sync.RWMutex
	now     func() time.Time
}

func NewRateLimiter(limits map[string]Limit) *RateLimiter {
	if limits == nil {
		limits = DefaultLimits
	}
	return &RateLimiter{
		limits:  limits,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (rl *RateLimiter) limitFor(action string) Limit {
	if limit, ok := rl.limits[action]; ok {
		return limit
	}
	return fallbackLimit
}

// Allow checks if a participant action is allowed
func (rl *RateLimiter) Allow(participantID, action string) (bool, time.Duration) {
	key := participantID + ":" + action
	now := rl.now()

	rl.mutex.RLock()
	entry, exists := rl.buckets[key]
	rl.mutex.RUnlock()

	if !exists {
		rl.mutex.Lock()
		if entry, exists = rl.buckets[key]; !exists {
			entry = newBucket(rl.limitFor(action), now)
			rl.buckets[key] = entry
		}
		rl.mutex.Unlock()
	}

	return entry.allow(now)
}

// Cleanup removes buckets unused for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	removed := 0
	for key, entry := range rl.buckets {
		if entry.idleSince(now) > maxIdle {
			delete(rl.buckets, key)
			removed++
		}
	}
	return removed
}

// StartCleanupRoutine runs Cleanup periodically until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			}
		}
	}()
}
