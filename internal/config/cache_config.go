package config

import "fmt"

type CacheConfig interface {
	GetCacheBucket() string
	GetActivitiesKey() string
	GetOAuthKey() string
}

type Cache struct {
	Bucket        string `env:"CACHE_BUCKET_NAME" envDefault:"dd-cycling-club"`
	ActivitiesKey string `env:"CACHE_ACTIVITIES_KEY"`
	OAuthKey      string `env:"CACHE_OAUTH_KEY" envDefault:"oauth.json"`
	// Env mirrors ENV so the activities key can vary per environment.
	Env string `env:"ENV"`
}

var _ CacheConfig = Cache{}

func (c Cache) GetCacheBucket() string {
	return c.Bucket
}

// GetActivitiesKey returns CACHE_ACTIVITIES_KEY when set, otherwise
// activities.json, or activities-<ENV>.json when ENV is set.
func (c Cache) GetActivitiesKey() string {
	if c.ActivitiesKey != "" {
		return c.ActivitiesKey
	}
	if c.Env != "" {
		return fmt.Sprintf("activities-%s.json", c.Env)
	}
	return "activities.json"
}

func (c Cache) GetOAuthKey() string {
	return c.OAuthKey
}
