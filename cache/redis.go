package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hlra-health/profilesync/profiles"
)

const (
	RedisKeyPrefix = "profilesync:profiles:"

	redisPingTimeout = 2 * time.Second
)

var RedisModule = fx.Provide(
	NewRedisConfig,
	NewRedisClient,
)

type RedisConfig struct {
	Addr     string        `envconfig:"PROFILESYNC_REDIS_ADDR" default:"localhost:6379"`
	Password string        `envconfig:"PROFILESYNC_REDIS_PASSWORD"`
	DB       int           `envconfig:"PROFILESYNC_REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"PROFILESYNC_REDIS_TTL" default:"720h"`
}

func NewRedisConfig() (*RedisConfig, error) {
	cfg := &RedisConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func NewRedisClient(cfg *RedisConfig, lifecycle fx.Lifecycle) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

// RedisCache stores the profile set of each account as a JSON string. The cache is
// bypassed when redis is unreachable at startup. Runtime failures are returned to the
// caller and logged once.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger

	warnedUnavailable atomic.Bool
}

var _ profiles.Cache = &RedisCache{}

func NewRedisCache(client *redis.Client, cfg *RedisConfig, logger *zap.SugaredLogger) *RedisCache {
	r := &RedisCache{client: client, logger: logger}
	if cfg != nil {
		r.ttl = cfg.TTL
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		r.warnUnavailableOnce(err)
		r.client = nil
	}
	return r
}

func RedisKey(accountId string) string {
	return RedisKeyPrefix + accountId
}

func (r *RedisCache) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *RedisCache) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warnw("redis unavailable, bypassing cache", "error", err)
	}
}

func (r *RedisCache) Load(ctx context.Context, accountId string) (*profiles.ProfileSet, error) {
	if r.isUnavailable() {
		return nil, nil
	}
	data, err := r.client.Get(ctx, RedisKey(accountId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.warnUnavailableOnce(err)
		return nil, fmt.Errorf("unable to load cached profiles of account %s: %w", accountId, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	set := &profiles.ProfileSet{}
	if err := json.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("unable to decode cached profiles of account %s: %w", accountId, err)
	}
	return set, nil
}

func (r *RedisCache) Save(ctx context.Context, set profiles.ProfileSet) error {
	if err := validateAccountId(set.AccountId); err != nil {
		return err
	}
	if r.isUnavailable() {
		return nil
	}
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("unable to encode profiles of account %s: %w", set.AccountId, err)
	}
	if err := r.client.Set(ctx, RedisKey(set.AccountId), data, r.ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return fmt.Errorf("unable to cache profiles of account %s: %w", set.AccountId, err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, accountId string) error {
	if r.isUnavailable() {
		return nil
	}
	if err := r.client.Del(ctx, RedisKey(accountId)).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return fmt.Errorf("unable to delete cached profiles of account %s: %w", accountId, err)
	}
	return nil
}
