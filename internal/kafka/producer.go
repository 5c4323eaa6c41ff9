package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// Producer streams API audit records to a single topic. The sink is
// optional: the audit middleware only publishes when one is wired in.
type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer}
}

// PublishAuditRecord serializes the record and writes it keyed by
// request path, so per-path ordering is preserved within a partition.
func (p *Producer) PublishAuditRecord(key string, record interface{}) error {
	msgBytes, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(key),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
