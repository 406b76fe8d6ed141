package broker

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/sampleloop/inventory-service/config"
)

// KafkaConsumer is a thin wrapper around a kafka-go Reader bound to one
// topic and consumer group.
type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewConsumer(cfg *config.KafkaConfig) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topic,
			GroupID: cfg.GroupID,
		}),
	}
}

func (c *KafkaConsumer) ReadMessage(ctx context.Context) (kafka.Message, error) {
	return c.reader.ReadMessage(ctx)
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
