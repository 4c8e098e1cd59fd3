// Package eventbus delivers domain events to a message bus. EventBridge is
// used in AWS, Kafka and a local badger journal are used elsewhere.
package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/dgraph-io/badger/v4"
	v1 "github.com/snirkop89/ppe-lambdas/api/v1"
	"github.com/snirkop89/ppe-lambdas/core/config"
)

// Bus accepts a single event and returns the id the bus assigned to it.
type Bus interface {
	PutEvent(ctx context.Context, ev v1.DomainEvent) (string, error)
}

// New builds the backend selected by cfg. The returned func releases any
// connection or file handle the backend holds.
func New(ctx context.Context, cfg config.EventBus, log *slog.Logger) (Bus, func(), error) {
	switch cfg.Backend {
	case config.BackendEventBridge:
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("load aws config: %w", err)
		}
		log.Debug("Using EventBridge event bus", "bus", cfg.Name)
		return NewEventBridge(eventbridge.NewFromConfig(awsCfg), cfg.Name), func() {}, nil

	case config.BackendKafka:
		p, err := NewKafka(&kafka.ConfigMap{
			"bootstrap.servers": cfg.KafkaServers,
		}, cfg.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("Using Kafka event bus", "servers", cfg.KafkaServers, "topic", cfg.KafkaTopic)
		return p, p.Close, nil

	case config.BackendJournal:
		// Lambda only allows writes under /tmp, which the default path honours.
		db, err := badger.Open(badger.DefaultOptions(cfg.JournalPath).WithLogger(nil))
		if err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
		j := NewJournal(db, cfg.JournalTTL)
		log.Debug("Using journal event bus", "path", cfg.JournalPath)
		return j, func() {
			if err := db.Close(); err != nil {
				log.Error("closing journal", "error", err)
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown event bus backend %q", cfg.Backend)
}
