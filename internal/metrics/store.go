package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCounterStoreDown wraps transport failures to the counter store.
var ErrCounterStoreDown = errors.New("counter store unavailable")

// CounterStore is the thin adapter over Redis exposing exactly the
// primitives the update engine composes. All operations carry a short
// per-call timeout so a slow counter store cannot stall a mutation.
type CounterStore struct {
	client *redis.Client
}

type CounterConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func DefaultCounterConfig() *CounterConfig {
	return &CounterConfig{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func NewCounterStore(config *CounterConfig) *CounterStore {
	if config == nil {
		config = DefaultCounterConfig()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	return &CounterStore{client: rdb}
}

// NewCounterStoreFromClient wraps an existing client; the caller keeps
// ownership of its lifecycle. Used by tests and the maintenance worker.
func NewCounterStoreFromClient(client *redis.Client) *CounterStore {
	return &CounterStore{client: client}
}

func (s *CounterStore) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 3*time.Second)
}

func (s *CounterStore) Incr(key string) error {
	ctx, cancel := s.opCtx()
	defer cancel()
	return s.wrap(s.client.Incr(ctx, key).Err())
}

func (s *CounterStore) Decr(key string) error {
	ctx, cancel := s.opCtx()
	defer cancel()
	return s.wrap(s.client.Decr(ctx, key).Err())
}

func (s *CounterStore) IncrByFloat(key string, amount float64) error {
	ctx, cancel := s.opCtx()
	defer cancel()
	return s.wrap(s.client.IncrByFloat(ctx, key, amount).Err())
}

// GetInt returns the integer value at key, or 0 when the key is absent.
func (s *CounterStore) GetInt(key string) (int64, error) {
	ctx, cancel := s.opCtx()
	defer cancel()
	value, err := s.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return value, s.wrap(err)
}

// GetFloat returns the float value at key, or 0 when the key is absent.
func (s *CounterStore) GetFloat(key string) (float64, error) {
	ctx, cancel := s.opCtx()
	defer cancel()
	value, err := s.client.Get(ctx, key).Float64()
	if err == redis.Nil {
		return 0, nil
	}
	return value, s.wrap(err)
}

func (s *CounterStore) ZIncrBy(set string, amount float64, member string) error {
	ctx, cancel := s.opCtx()
	defer cancel()
	return s.wrap(s.client.ZIncrBy(ctx, set, amount, member).Err())
}

// ZRevRange returns members of the sorted set with their scores, highest
// first, over the inclusive [start, stop] rank range.
func (s *CounterStore) ZRevRange(set string, start, stop int64) ([]redis.Z, error) {
	ctx, cancel := s.opCtx()
	defer cancel()
	members, err := s.client.ZRevRangeWithScores(ctx, set, start, stop).Result()
	return members, s.wrap(err)
}

func (s *CounterStore) Expire(key string, ttl time.Duration) error {
	ctx, cancel := s.opCtx()
	defer cancel()
	return s.wrap(s.client.Expire(ctx, key, ttl).Err())
}

// ScanKeys walks the keyspace for keys matching pattern. Scans get a longer
// deadline than point operations since they touch the whole keyspace.
func (s *CounterStore) ScanKeys(pattern string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, s.wrap(iter.Err())
}

func (s *CounterStore) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.wrap(s.client.Del(ctx, keys...).Err())
}

func (s *CounterStore) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.wrap(s.client.Ping(ctx).Err())
}

func (s *CounterStore) Close() error {
	return s.client.Close()
}

func (s *CounterStore) wrap(err error) error {
	if err == nil || err == redis.Nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrCounterStoreDown, err)
}
