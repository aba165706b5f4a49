package conversation

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps sessions in Redis as JSON with TTL.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSessionStore builds a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client, prefix string, ttl time.Duration) *RedisSessionStore {
	if prefix == "" {
		prefix = "adsbot:session"
	}
	return &RedisSessionStore{client: client, prefix: prefix, ttl: ttl}
}

// Get loads the session of userID.
func (s *RedisSessionStore) Get(userID int64) (Session, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err == redis.Nil {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, false, err
	}
	return sess, true, nil
}

// Save writes the session and refreshes its TTL.
func (s *RedisSessionStore) Save(sess Session) error {
	sess.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.client.Set(ctx, s.key(sess.UserID), raw, s.ttl).Err()
}

// Delete removes the session of userID.
func (s *RedisSessionStore) Delete(userID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}

func (s *RedisSessionStore) key(userID int64) string {
	return s.prefix + ":" + strconv.FormatInt(userID, 10)
}
