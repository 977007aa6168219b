package config

import (
	"encoding/json"
	Errors "errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// JSONConfig structure based on config.json, every field can be overridden from the environment
type JSONConfig struct {
	Origin  string        `json:"origin" env:"SOCIAL_ORIGIN"`
	Port    string        `json:"port" env:"SOCIAL_PORT"`
	Version string        `json:"version" env:"SOCIAL_VERSION"`
	Storage StorageConfig `json:"storage" envPrefix:"SOCIAL_STORAGE_"`
	Redis   RedisConfig   `json:"redis" envPrefix:"SOCIAL_REDIS_"`
	Auth    AuthConfig    `json:"auth" envPrefix:"SOCIAL_AUTH_"`
}

// StorageConfig selects and configures the backend holding follows, messages and users
type StorageConfig struct {
	Driver      string   `json:"driver" env:"DRIVER"`
	SQLitePath  string   `json:"sqlitePath" env:"SQLITE_PATH"`
	ScyllaHosts []string `json:"scyllaHosts" env:"SCYLLA_HOSTS" envSeparator:","`
	Keyspace    string   `json:"keyspace" env:"KEYSPACE"`
	Timeout     Duration `json:"timeout" env:"TIMEOUT"`
}

// RedisConfig configures the user summary cache
type RedisConfig struct {
	Enabled      bool     `json:"enabled" env:"ENABLED"`
	Addr         string   `json:"addr" env:"ADDR"`
	Password     string   `json:"password" env:"PASSWORD"`
	DB           int      `json:"db" env:"DB"`
	UserCacheTTL Duration `json:"userCacheTTL" env:"USER_CACHE_TTL"`
}

// AuthConfig points at the key verifying access tokens
type AuthConfig struct {
	PublicKeyPath string `json:"publicKeyPath" env:"PUBLIC_KEY_PATH"`
}

const (
	DriverSQLite = "sqlite"
	DriverScylla = "scylla"
)

// Duration reads "5s" style strings from json and env
type Duration time.Duration

// UnmarshalJSON accepts a duration string
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(raw))
}

// UnmarshalText is used by the env overlay
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads the json file at path (a missing file leaves the defaults), overlays the environment and validates the result
func Load(path string) (JSONConfig, error) {

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return JSONConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case Errors.Is(err, os.ErrNotExist):
		default:
			return JSONConfig{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return JSONConfig{}, fmt.Errorf("config: env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return JSONConfig{}, err
	}
	return cfg, nil
}

// Validate checks the fields the server cannot start without
func (c JSONConfig) Validate() error {
	if c.Port == "" {
		return Errors.New("config: port is required")
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return Errors.New("config: storage.sqlitePath is required for the sqlite driver")
		}
	case DriverScylla:
		if len(c.Storage.ScyllaHosts) == 0 {
			return Errors.New("config: storage.scyllaHosts is required for the scylla driver")
		}
		if c.Storage.Keyspace == "" {
			return Errors.New("config: storage.keyspace is required for the scylla driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return Errors.New("config: redis.addr is required when the cache is enabled")
	}
	if c.Auth.PublicKeyPath == "" {
		return Errors.New("config: auth.publicKeyPath is required")
	}
	return nil
}

func defaults() JSONConfig {
	return JSONConfig{
		Port:    ":3000",
		Version: "/v1",
		Storage: StorageConfig{
			Driver:     DriverSQLite,
			SQLitePath: "social.db",
			Keyspace:   "socialdb",
			Timeout:    Duration(5 * time.Second),
		},
		Redis: RedisConfig{
			Addr:         "127.0.0.1:6379",
			UserCacheTTL: Duration(10 * time.Minute),
		},
		Auth: AuthConfig{
			PublicKeyPath: "./jwt_key.pub",
		},
	}
}
