package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Identity IdentityConfig `yaml:"identity"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings for the runtime
// storage.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// IdentityConfig holds settings for the external identity-lookup
// service.
type IdentityConfig struct {
	BaseURL string        `yaml:"base_url" env:"IDENTITY_BASE_URL" env-default:"https://api.launchpad.net/1.0"`
	Timeout time.Duration `yaml:"timeout"  env:"IDENTITY_TIMEOUT"  env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
