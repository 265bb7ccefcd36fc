package events

import (
	"context"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
}

func (p *kafkaPublisher) Publish(ctx context.Context, event *TransactionCompleted) error {
	data, err := event.encode()
	if err != nil {
		return err
	}
	// keyed by account so events of one account stay ordered within a partition
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AccountID),
		Value: data,
	}); err != nil {
		return errors.Wrapf(err, "Failed to publish event of transaction %v", event.TransactionID)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewKafkaPublisher returns a publisher that writes events to a kafka topic
func NewKafkaPublisher(brokers []string, topic string) Publisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}
