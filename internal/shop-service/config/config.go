// Package config loads the shop service settings: defaults, then an optional
// YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`

	DB    DBConfig    `yaml:"db"`
	Redis RedisConfig `yaml:"redis"`
	OTel  OTelConfig  `yaml:"otel"`

	LogLevel       string `yaml:"log_level"`
	SeedSampleData bool   `yaml:"seed_sample_data"`
}

type DBConfig struct {
	Driver        string        `yaml:"driver"`
	DSN           string        `yaml:"dsn"`
	LogLevel      string        `yaml:"log_level"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	PingInterval  time.Duration `yaml:"ping_interval"`
}

// RedisConfig: an empty Addr disables idempotent order placement.
type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

type OTelConfig struct {
	ServiceName string `yaml:"service_name"`
	Exporter    string `yaml:"exporter"`
	Endpoint    string `yaml:"endpoint"`
}

func Default() Config {
	return Config{
		HTTPAddr: ":8080",
		GRPCAddr: ":9090",
		DB: DBConfig{
			Driver:        "sqlite",
			DSN:           "./data/shop.db",
			LogLevel:      "warn",
			SlowThreshold: 200 * time.Millisecond,
			PingInterval:  10 * time.Second,
		},
		Redis: RedisConfig{
			IdempotencyTTL: 24 * time.Hour,
		},
		OTel: OTelConfig{
			ServiceName: "shop-service",
			Exporter:    "otlp",
			Endpoint:    "localhost:4317",
		},
		LogLevel: "info",
	}
}

// Load reads path when it is non-empty and exists, then applies the
// environment. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.GRPCAddr = getEnv("GRPC_ADDR", c.GRPCAddr)
	c.DB.Driver = getEnv("DB_DRIVER", c.DB.Driver)
	c.DB.DSN = getEnv("DB_DSN", c.DB.DSN)
	c.DB.LogLevel = getEnv("DB_LOG_LEVEL", c.DB.LogLevel)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.OTel.ServiceName = getEnv("OTEL_SERVICE_NAME", c.OTel.ServiceName)
	c.OTel.Exporter = getEnv("OTEL_EXPORTER", c.OTel.Exporter)
	c.OTel.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTel.Endpoint)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	var err error
	if c.Redis.IdempotencyTTL, err = getDuration("IDEMPOTENCY_TTL", c.Redis.IdempotencyTTL); err != nil {
		return err
	}
	if c.DB.SlowThreshold, err = getDuration("DB_SLOW_THRESHOLD", c.DB.SlowThreshold); err != nil {
		return err
	}
	if v := os.Getenv("SEED_SAMPLE_DATA"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: SEED_SAMPLE_DATA: %w", err)
		}
		c.SeedSampleData = b
	}
	return nil
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unsupported db driver %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("config: db dsn is required")
	}
	if c.HTTPAddr == "" {
		return errors.New("config: http addr is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
