package events

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/version"
)

type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

type natsPublisher struct {
	conn    natsConn
	subject string
}

func (p *natsPublisher) Publish(ctx context.Context, event *TransactionCompleted) error {
	data, err := event.encode()
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.Wrapf(err, "Failed to publish event of transaction %v", event.TransactionID)
	}
	return nil
}

func (p *natsPublisher) Close() error {
	return p.conn.Drain()
}

// NewNATSPublisher connects to nats and returns a publisher for the subject
func NewNATSPublisher(url string, subject string) (Publisher, error) {
	conn, err := nats.Connect(url, nats.Name(version.AppName))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to connect to nats %v", url)
	}
	return &natsPublisher{conn: conn, subject: subject}, nil
}
