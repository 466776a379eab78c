package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "quote-bot:session:"

// RedisRepo keeps sessions in redis. Every write refreshes the TTL, so idle
// sessions expire on their own.
type RedisRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRepo(rdb *redis.Client, ttl time.Duration) *RedisRepo {
	return &RedisRepo{rdb: rdb, ttl: ttl}
}

// OpenRedis connects from a redis:// URL and checks the server answers.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func (r *RedisRepo) Get(ctx context.Context, sessionID string) (State, error) {
	raw, err := r.rdb.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewState(sessionID), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("get dialog state: %w", err)
	}
	st := NewState(sessionID)
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("decode dialog state: %w", err)
	}
	st.SessionID = sessionID
	return st, nil
}

func (r *RedisRepo) Set(ctx context.Context, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode dialog state: %w", err)
	}
	return r.rdb.Set(ctx, redisKeyPrefix+st.SessionID, raw, r.ttl).Err()
}

func (r *RedisRepo) Reset(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, redisKeyPrefix+sessionID).Err()
}
