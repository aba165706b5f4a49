package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// KEYS[1] counter, ARGV[1] window in ms, ARGV[2] limit.
// Returns 1 when the event fits, 0 when the window is exhausted.
var userWindowScript = redis.NewScript(`
local used = redis.call("INCR", KEYS[1])
if used == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if used > tonumber(ARGV[2]) then
  return 0
end
return 1
`)

// Limiter decides whether one more update from a user fits the quota.
type Limiter interface {
	Allow(ctx context.Context, userID int64) bool
}

// UserWindow counts updates per user in fixed windows stored in Redis, so
// every bot replica sees the same counters.
type UserWindow struct {
	client  *redis.Client
	prefix  string
	limit   int
	window  time.Duration
	timeout time.Duration
	now     func() time.Time
}

// NewUserWindow allows limit updates per user in each window.
func NewUserWindow(client *redis.Client, prefix string, limit int, window time.Duration) (*UserWindow, error) {
	if client == nil {
		return nil, errors.New("ratelimit: redis client is required")
	}
	if limit <= 0 || window < time.Millisecond {
		return nil, errors.New("ratelimit: limit and window must be positive")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "adsbot:ratelimit"
	}
	return &UserWindow{
		client:  client,
		prefix:  prefix,
		limit:   limit,
		window:  window,
		timeout: 500 * time.Millisecond,
		now:     time.Now,
	}, nil
}

// Allow reports whether the update fits the user's current window.
// Redis errors let the update through so an outage does not silence the bot.
func (w *UserWindow) Allow(ctx context.Context, userID int64) bool {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	ok, err := userWindowScript.Run(ctx, w.client, []string{w.key(userID)}, w.window.Milliseconds(), w.limit).Int()
	if err != nil {
		slog.Warn("rate limit check failed", "user_id", userID, "err", err)
		return true
	}
	return ok == 1
}

func (w *UserWindow) key(userID int64) string {
	slot := w.now().UnixMilli() / w.window.Milliseconds()
	return w.prefix + ":" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(slot, 10)
}
