package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tutravel/intake-bot/internal/entity"
)

const keyPrefix = "intake:session:"

// DefaultTTL bounds how long an abandoned conversation survives. A session
// that expires mid-flow simply restarts from the language question.
const DefaultTTL = 24 * time.Hour

// RedisStore keeps sessions in Redis as JSON, so the bot can run more than
// one replica behind the webhook. Same copy semantics as the memory store:
// what GetOrCreate returns is detached until Save.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: rdb, ttl: DefaultTTL}, nil
}

func (s *RedisStore) GetOrCreate(ctx context.Context, sender string) (*entity.Session, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sender).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return s.create(ctx, sender)
		}
		return nil, fmt.Errorf("redis session get: %w", err)
	}

	var session entity.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("redis session decode: %w", err)
	}
	return &session, nil
}

// create claims the key with SETNX so two racing first messages from the
// same sender agree on a single session.
func (s *RedisStore) create(ctx context.Context, sender string) (*entity.Session, error) {
	created := entity.NewSession(sender)
	raw, err := json.Marshal(created)
	if err != nil {
		return nil, fmt.Errorf("redis session encode: %w", err)
	}

	set, err := s.client.SetNX(ctx, keyPrefix+sender, raw, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis session setnx: %w", err)
	}
	if set {
		return created, nil
	}

	// Lost the race; whoever won wrote the session.
	return s.GetOrCreate(ctx, sender)
}

func (s *RedisStore) Save(ctx context.Context, session *entity.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis session encode: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+session.Sender, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis session set: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, sender string) error {
	if err := s.client.Del(ctx, keyPrefix+sender).Err(); err != nil {
		return fmt.Errorf("redis session del: %w", err)
	}
	return nil
}

// Ping exposes the connection check for the health endpoint.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
