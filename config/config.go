package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	CacheBackendFile   = "file"
	CacheBackendRedis  = "redis"
	CacheBackendMongo  = "mongo"
	CacheBackendMemory = "memory"
)

type Config struct {
	HttpAddress string `envconfig:"PROFILESYNC_HTTP_ADDR" default:":8080"`

	RemoteBaseUrl        string        `envconfig:"PROFILESYNC_REMOTE_BASE_URL" default:"http://localhost:8000"`
	RemoteRequestTimeout time.Duration `envconfig:"PROFILESYNC_REMOTE_REQUEST_TIMEOUT" default:"15s"`

	DefaultProfileName string `envconfig:"PROFILESYNC_DEFAULT_PROFILE_NAME" default:"My Profile"`

	CacheBackend   string `envconfig:"PROFILESYNC_CACHE_BACKEND" default:"file"`
	CacheDirectory string `envconfig:"PROFILESYNC_CACHE_DIR" default:".profilesync"`

	BreakerThreshold     int           `envconfig:"PROFILESYNC_BREAKER_THRESHOLD" default:"3"`
	BreakerFailureWindow time.Duration `envconfig:"PROFILESYNC_BREAKER_FAILURE_WINDOW" default:"30s"`
	BreakerCooldown      time.Duration `envconfig:"PROFILESYNC_BREAKER_COOLDOWN" default:"60s"`

	NotificationDedupWindow   time.Duration `envconfig:"PROFILESYNC_NOTIFICATION_DEDUP_WINDOW" default:"5m"`
	NotificationInboxCapacity int           `envconfig:"PROFILESYNC_NOTIFICATION_INBOX_CAPACITY" default:"100"`
}

func New() *Config {
	return &Config{}
}

func (c *Config) LoadFromEnv() error {
	return envconfig.Process("", c)
}

func NewConfig() (*Config, error) {
	cfg := New()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}
