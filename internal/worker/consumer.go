package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-address-dispatch/internal/domain/event"
	"github.com/oksasatya/go-address-dispatch/pkg/apperror"
	"github.com/oksasatya/go-address-dispatch/pkg/mailer"
	"github.com/oksasatya/go-address-dispatch/pkg/mailer/templates"
)

// ErrBadMessage marks a delivery that can never succeed. It is dropped, not
// requeued.
var ErrBadMessage = errors.New("bad message")

// Reindexer refreshes one address in the search index.
type Reindexer interface {
	Reindex(ctx context.Context, id string) error
}

// Consumer handles one event delivery at a time.
type Consumer struct {
	Index   Reindexer
	Mail    mailer.Sender // nil disables welcome mails
	AppName string
	Logger  *logrus.Logger
}

// Handle decodes body and dispatches it by event type. A returned error
// wrapping ErrBadMessage means drop; any other error means retry.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var e event.Event
	if err := json.Unmarshal(body, &e); err != nil {
		return fmt.Errorf("%w: %v", ErrBadMessage, err)
	}

	switch {
	case event.IsAddressEvent(e.Type):
		return c.reindex(ctx, e)
	case e.Type == event.UserRegistered:
		return c.welcome(ctx, e)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrBadMessage, e.Type)
	}
}

func (c *Consumer) reindex(ctx context.Context, e event.Event) error {
	if e.AddressID == "" {
		return fmt.Errorf("%w: address event without address_id", ErrBadMessage)
	}
	if c.Index == nil {
		return nil
	}
	err := c.Index.Reindex(ctx, e.AddressID)
	if apperror.IsKind(err, apperror.KindNotFound) {
		return fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	return err
}

func (c *Consumer) welcome(ctx context.Context, e event.Event) error {
	if e.Email == "" {
		return fmt.Errorf("%w: user event without email", ErrBadMessage)
	}
	if c.Mail == nil {
		return nil
	}
	job, err := mailer.WelcomeJob(e.Email, templates.Data{
		AppName:      c.AppName,
		Name:         e.Name,
		Email:        e.Email,
		RegisteredAt: e.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("%w: render welcome: %v", ErrBadMessage, err)
	}
	if err := c.Mail.Send(ctx, job); err != nil {
		return err
	}
	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{"user_id": e.UserID}).Info("welcome email sent")
	}
	return nil
}
