package events

//go:generate mockgen -destination=mock_events/publisher.go -package=mock_events github.com/evgeny-myasishchev/bank-ledger/pkg/events Publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/diag"
)

var logger = diag.CreateLogger()

// TransactionCompleted is published after a balance mutation is committed
type TransactionCompleted struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func (e *TransactionCompleted) encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to encode event of transaction %v", e.TransactionID)
	}
	return data, nil
}

// Publisher delivers ledger events to a broker
type Publisher interface {
	Publish(ctx context.Context, event *TransactionCompleted) error
	Close() error
}

// Supported publisher drivers
const (
	DriverNone  = "none"
	DriverKafka = "kafka"
	DriverNATS  = "nats"
)

// PublisherConfig selects and configures a publisher
type PublisherConfig struct {
	Driver       string
	KafkaBrokers []string
	KafkaTopic   string
	NATSURL      string
	NATSSubject  string
}

// NewPublisher creates a publisher for the configured driver
func NewPublisher(cfg PublisherConfig) (Publisher, error) {
	switch cfg.Driver {
	case DriverNone, "":
		return NewNoopPublisher(), nil
	case DriverKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case DriverNATS:
		return NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
	}
	return nil, errors.Errorf("Unknown events driver: %v", cfg.Driver)
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, event *TransactionCompleted) error {
	logger.Debug(ctx, "Skipping event of transaction %v", event.TransactionID)
	return nil
}

func (noopPublisher) Close() error {
	return nil
}

// NewNoopPublisher returns a publisher that drops events
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}
