package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

type Engine struct {
	EventBuffer int `env:"EVENT_BUFFER, default=10"`
	QueryBuffer int `env:"QUERY_BUFFER, default=10"`
	// zero means one goroutine per parallel action
	Concurrency int `env:"CONCURRENCY, default=0"`
}

type Config struct {
	// Skip is the raw SKIP list of qualified action ids, separated by
	// commas or newlines.
	Skip       string `env:"SKIP"`
	LogLevel   string `env:"BEAUTYTIPS_LOG_LEVEL, default=warn"`
	ConfigPath string `env:"BEAUTYTIPS_CONFIG, default=beautytips.toml"`
	Reporter   string `env:"BEAUTYTIPS_REPORTER, default=terminal"`
	Engine     Engine `env:",prefix=BEAUTYTIPS_ENGINE_"`
}

func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	})
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
