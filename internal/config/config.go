package config

import (
	"github.com/caarlos0/env/v11"
	apperrors "github.com/jrsteele09/go-club-sync/internal/errors"
	"github.com/pkg/errors"
)

type Config interface {
	EnvConfig
	FeedConfig
	CacheConfig
	SinkConfig
}

type EnvConfig interface {
	GetEnv() string
	GetService() string
	GetSource() string
	GetVersion() string
	GetLogLevel() string
	GetLogFormat() string
	GetOperation() string
}

type mainConfig struct {
	EnvVars
	Feed
	Cache
	Sink
}

// Load reads the configuration from the process environment. It fails fast
// when no club id is configured.
func Load() (Config, error) {
	return load(env.Options{})
}

// LoadFrom reads the configuration from the given variables instead of the
// process environment.
func LoadFrom(environment map[string]string) (Config, error) {
	return load(env.Options{Environment: environment})
}

func load(opts env.Options) (Config, error) {
	c := mainConfig{}
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return nil, errors.Wrap(err, "[config.Load] parse env")
	}
	if c.ClubID == "" {
		return nil, errors.Wrap(apperrors.ErrMissingClubID, "[config.Load] DD_CLUB_ID")
	}
	if c.PageSize <= 0 {
		return nil, errors.Errorf("[config.Load] PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.MaxRetries < 0 {
		return nil, errors.Errorf("[config.Load] MAX_RETRIES must not be negative, got %d", c.MaxRetries)
	}
	return c, nil
}
