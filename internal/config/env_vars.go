package config

import "fmt"

type EnvVars struct {
	Env       string `env:"ENV"`
	Service   string `env:"SERVICE" envDefault:"dd-cycling-club"`
	Source    string `env:"SOURCE" envDefault:"strava"`
	Version   string `env:"VERSION"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Operation string `env:"SYNC_OPERATION"`
}

var _ EnvConfig = EnvVars{}

// GetEnv returns the deployment environment, empty when unset.
func (e EnvVars) GetEnv() string {
	return e.Env
}

func (e EnvVars) GetService() string {
	return e.Service
}

func (e EnvVars) GetSource() string {
	return e.Source
}

func (e EnvVars) GetVersion() string {
	return e.Version
}

// GetLogLevel defaults to debug in staging and info everywhere else.
func (e EnvVars) GetLogLevel() string {
	if e.LogLevel != "" {
		return e.LogLevel
	}
	if e.Env == "staging" {
		return "debug"
	}
	return "info"
}

func (e EnvVars) GetLogFormat() string {
	return e.LogFormat
}

// GetOperation names the sync the Lambda entry point runs: "members" or "activities".
func (e EnvVars) GetOperation() string {
	return e.Operation
}

// GetTags returns the Datadog tag string attached to every forwarded log.
func (e EnvVars) GetTags() string {
	return fmt.Sprintf("env:%s,version:%s", e.Env, e.Version)
}
