// Package config loads the canopy CLI configuration file.
// Flags override file values; the file is optional and every field has a
// usable default, so `canopy` works against a local CMS out of the box.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks when --config is not given.
const DefaultPath = "canopy.yaml"

// Duration wraps time.Duration so YAML values can use Go duration strings
// ("10s", "1m30s"), which yaml.v3 does not decode natively.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// RedisConfig selects the redis cache backend.
type RedisConfig struct {
	Addr     string   `yaml:"addr"`
	Password string   `yaml:"password,omitempty"`
	DB       int      `yaml:"db,omitempty"`
	TTL      Duration `yaml:"ttl,omitempty"`
}

// CacheConfig picks the cache backend. Backend is "memory" or "redis".
type CacheConfig struct {
	Backend string      `yaml:"backend"`
	Redis   RedisConfig `yaml:"redis,omitempty"`
}

// Config models canopy.yaml.
type Config struct {
	BaseURL  string      `yaml:"base_url"`
	Token    string      `yaml:"token,omitempty"`
	Timeout  Duration    `yaml:"timeout"`
	Retries  int         `yaml:"retries"`
	PageSize int         `yaml:"page_size"`
	Cache    CacheConfig `yaml:"cache"`
	LogLevel string      `yaml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:  "http://localhost:1337",
		Timeout:  Duration(10 * time.Second),
		Retries:  2,
		PageSize: 10,
		Cache:    CacheConfig{Backend: "memory"},
		LogLevel: "info",
	}
}

// Load reads the config file at path, layering it over the defaults.
// A missing file at the default path is fine; a missing file at an
// explicitly requested path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	if c.Retries < 0 {
		return errors.New("retries must not be negative")
	}
	if c.PageSize <= 0 {
		return errors.New("page_size must be positive")
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return errors.New("cache.redis.addr is required for the redis backend")
	}
	return nil
}
