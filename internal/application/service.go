package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-address-dispatch/internal/domain/event"
)

// EventPublisher is satisfied by helpers.RabbitPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// publish sends e best effort; a broken broker never fails the request.
func publish(ctx context.Context, pub EventPublisher, logger *logrus.Logger, e event.Event) {
	if pub == nil {
		return
	}
	if err := pub.PublishJSON(ctx, e); err != nil && logger != nil {
		logger.WithError(err).WithField("event", e.Type).Warn("publish event failed")
	}
}

func nowUTC() time.Time { return time.Now().UTC() }
