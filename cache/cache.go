package cache

import (
	"fmt"
	"regexp"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hlra-health/profilesync/config"
	"github.com/hlra-health/profilesync/profiles"
)

var Module = fx.Provide(New)

var accountIdPattern = regexp.MustCompile(`^[A-Za-z0-9._@-]{1,128}$`)

type Params struct {
	fx.In

	Config      *config.Config
	Logger      *zap.SugaredLogger
	Lifecycle   fx.Lifecycle
	Database    *mongo.Database `optional:"true"`
	Redis       *redis.Client   `optional:"true"`
	RedisConfig *RedisConfig    `optional:"true"`
}

// New returns the cache backend selected by the configuration
func New(p Params) (profiles.Cache, error) {
	switch p.Config.CacheBackend {
	case config.CacheBackendMemory:
		return NewMemoryCache(), nil
	case config.CacheBackendFile, "":
		return NewFileCache(p.Config.CacheDirectory, p.Logger)
	case config.CacheBackendRedis:
		if p.Redis == nil {
			return nil, fmt.Errorf("redis cache backend requires a redis client")
		}
		return NewRedisCache(p.Redis, p.RedisConfig, p.Logger), nil
	case config.CacheBackendMongo:
		if p.Database == nil {
			return nil, fmt.Errorf("mongo cache backend requires a database")
		}
		return NewMongoCache(p.Database, p.Logger, p.Lifecycle)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", p.Config.CacheBackend)
	}
}

func validateAccountId(accountId string) error {
	if !accountIdPattern.MatchString(accountId) || accountId == "." || accountId == ".." {
		return fmt.Errorf("%w: invalid account id %q", profiles.ErrValidation, accountId)
	}
	return nil
}
