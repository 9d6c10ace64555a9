package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kasuboski/snatcher/pkg/logger"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const subjectPrefix = "snatcher."

// Publisher is the part of *nats.Conn used to send events
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATS publishes every event as json on snatcher.<event type>
type NATS struct {
	publisher Publisher
}

func NewNATS(publisher Publisher) *NATS {
	return &NATS{publisher: publisher}
}

func Subject(eventType string) string {
	return subjectPrefix + eventType
}

func (n *NATS) Notify(ctx context.Context, event Event) error {
	subject := Subject(event.Type)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := n.publisher.Publish(subject, data); err != nil {
		logger.FromCtx(ctx).Errorw("failed to publish event", "subject", subject, "id", event.ID, zap.Error(err))
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logger.FromCtx(ctx).Debugw("event published", "subject", subject, "id", event.ID)
	return nil
}

// Connect opens a nats connection that keeps reconnecting and logs its state changes
func Connect(ctx context.Context, url, name string) (*nats.Conn, error) {
	log := logger.FromCtx(ctx)

	opts := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warnw("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infow("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("nats connection closed")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	log.Infow("connected to nats", "url", url)
	return nc, nil
}
