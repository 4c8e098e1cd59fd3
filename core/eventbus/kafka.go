package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	v1 "github.com/snirkop89/ppe-lambdas/api/v1"
)

type Kafka struct {
	Client *kafka.Producer
	topic  string
}

func NewKafka(config *kafka.ConfigMap, topic string) (*Kafka, error) {
	p, err := kafka.NewProducer(config)
	if err != nil {
		return nil, fmt.Errorf("new kafka producer: %w", err)
	}
	return &Kafka{
		Client: p,
		topic:  topic,
	}, nil
}

// PutEvent produces the event wrapped in a PublishedEvent envelope and
// waits for the broker to acknowledge it.
func (p *Kafka) PutEvent(ctx context.Context, ev v1.DomainEvent) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("publish event: %w", err)
	}
	published := ev.Publish()
	msg, err := newKafkaMessage(p.topic, published)
	if err != nil {
		return "", fmt.Errorf("publish event: %w", err)
	}

	delivery := make(chan kafka.Event, 1)
	if err := p.Client.Produce(msg, delivery); err != nil {
		return "", fmt.Errorf("publish event: %w", err)
	}

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("publish event: %w", ctx.Err())
	case e := <-delivery:
		m, ok := e.(*kafka.Message)
		if !ok {
			return "", fmt.Errorf("publish event: unexpected delivery event %v", e)
		}
		if m.TopicPartition.Error != nil {
			return "", fmt.Errorf("publish event: %w", m.TopicPartition.Error)
		}
	}
	return published.Header.ID, nil
}

func (p *Kafka) Close() {
	p.Client.Flush(5000)
	p.Client.Close()
}

func newKafkaMessage(topic string, ev v1.PublishedEvent) (*kafka.Message, error) {
	value, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(ev.DetailType),
		Value:          value,
		Headers: []kafka.Header{
			{Key: "source", Value: []byte(ev.Source)},
			{Key: "detail-type", Value: []byte(ev.DetailType)},
			{Key: "event-id", Value: []byte(ev.Header.ID)},
		},
	}, nil
}
