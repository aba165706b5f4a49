package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LocalLimiter keeps one token bucket per user in process memory.
type LocalLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	idle     time.Duration
	clients  map[int64]*clientEntry
	lastScan time.Time
	now      func() time.Time
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter allows limitPerMinute updates per user with an equal burst.
func NewLocalLimiter(limitPerMinute int) *LocalLimiter {
	if limitPerMinute <= 0 {
		limitPerMinute = 30
	}
	return &LocalLimiter{
		limit:   rate.Every(time.Minute / time.Duration(limitPerMinute)),
		burst:   limitPerMinute,
		idle:    10 * time.Minute,
		clients: map[int64]*clientEntry{},
		now:     time.Now,
	}
}

// Allow takes one token from the user's bucket.
func (l *LocalLimiter) Allow(_ context.Context, userID int64) bool {
	return l.bucket(userID).AllowN(l.now(), 1)
}

func (l *LocalLimiter) bucket(userID int64) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastScan) > l.idle {
		// drop buckets that have been idle long enough to be full again
		for k, e := range l.clients {
			if now.Sub(e.lastSeen) > l.idle {
				delete(l.clients, k)
			}
		}
		l.lastScan = now
	}
	if e, ok := l.clients[userID]; ok {
		e.lastSeen = now
		return e.limiter
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.clients[userID] = &clientEntry{limiter: limiter, lastSeen: now}
	return limiter
}
