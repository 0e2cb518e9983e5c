package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"signalfeed/config"
	"signalfeed/logging"
)

// Kafka publishes snapshots as JSON messages on a single topic
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafka connects a synchronous producer to the configured brokers
func NewKafka(cfg config.KafkaConfig) (*Kafka, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaWithProducer(producer, cfg.Topic), nil
}

// NewKafkaWithProducer wraps an existing producer
func NewKafkaWithProducer(producer sarama.SyncProducer, topic string) *Kafka {
	if topic == "" {
		topic = config.DefaultKafkaTopic
	}
	return &Kafka{producer: producer, topic: topic}
}

// Publish sends snap keyed by its category
func (k *Kafka) Publish(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	partition, offset, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(snap.Key()),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}

	logging.Logger.Debug("snapshot published", "topic", k.topic, "partition", partition, "offset", offset, "count", snap.Count)
	return nil
}

// Close flushes and closes the producer
func (k *Kafka) Close() error {
	logging.Logger.Info("closing kafka producer")
	return k.producer.Close()
}
