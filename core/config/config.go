// Package config loads function configuration from the environment. Every
// Lambda in this repo reads the same variables; a function ignores the
// ones it has no use for.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/snirkop89/ppe-lambdas/core/logger"
)

const (
	BackendEventBridge = "eventbridge"
	BackendKafka       = "kafka"
	BackendJournal     = "journal"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"orders"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	EventBus EventBus `envPrefix:"EVENT_BUS_"`
}

type EventBus struct {
	Backend string `env:"BACKEND" envDefault:"eventbridge"`

	// EventBridge
	Name   string `env:"NAME" envDefault:"default"`
	Region string `env:"REGION"`

	// Kafka
	KafkaServers string `env:"KAFKA_SERVERS" envDefault:"localhost:9092"`
	KafkaTopic   string `env:"KAFKA_TOPIC" envDefault:"OrderSubmitted"`

	// Journal
	JournalPath string        `env:"JOURNAL_PATH" envDefault:"/tmp/order-events"`
	JournalTTL  time.Duration `env:"JOURNAL_TTL" envDefault:"168h"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return load(env.Options{})
}

// LoadFrom reads the configuration from vars instead of the process
// environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.EventBus.Backend {
	case BackendEventBridge:
		if c.EventBus.Name == "" {
			return fmt.Errorf("config: EVENT_BUS_NAME is required for the %s backend", c.EventBus.Backend)
		}
	case BackendKafka:
		if c.EventBus.KafkaServers == "" || c.EventBus.KafkaTopic == "" {
			return fmt.Errorf("config: EVENT_BUS_KAFKA_SERVERS and EVENT_BUS_KAFKA_TOPIC are required for the %s backend", c.EventBus.Backend)
		}
	case BackendJournal:
		if c.EventBus.JournalPath == "" {
			return fmt.Errorf("config: EVENT_BUS_JOURNAL_PATH is required for the %s backend", c.EventBus.Backend)
		}
	default:
		return fmt.Errorf("config: unknown event bus backend %q", c.EventBus.Backend)
	}
	return nil
}

// Level returns the parsed log level. Validate has already rejected bad
// values, so this falls back to info only for a zero Config.
func (c Config) Level() slog.Level {
	l, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}
