package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-address-dispatch/config"
	"github.com/oksasatya/go-address-dispatch/internal/container"
	"github.com/oksasatya/go-address-dispatch/internal/worker"
	"github.com/oksasatya/go-address-dispatch/pkg/helpers"
	"github.com/oksasatya/go-address-dispatch/pkg/mailer"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("init: %v", err)
	}
	defer c.Close()

	consumer := &worker.Consumer{AppName: cfg.AppName, Logger: logger}
	if c.AddressSvc.Search != nil {
		consumer.Index = c.AddressSvc
	} else {
		logger.Warn("elasticsearch not configured; address events are acknowledged without indexing")
	}
	if cfg.MailSendEnabled {
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
			logger.Fatal("Mailgun not configured")
		}
		consumer.Mail = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	} else {
		logger.Info("MAIL_SEND_ENABLED=false; welcome emails are skipped")
	}

	conn, ch, err := helpers.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	tag := cfg.AppName + "-worker"
	msgs, err := ch.Consume(cfg.RabbitMQEventsQueue, tag, false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			handle(ctx, consumer, logger, msg)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEventsQueue).Info("worker listening")
	<-ctx.Done()
	logger.Info("shutting down worker")
	_ = ch.Cancel(tag, false)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}

func handle(ctx context.Context, consumer *worker.Consumer, logger *logrus.Logger, msg amqp.Delivery) {
	hctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := consumer.Handle(hctx, msg.Body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, worker.ErrBadMessage):
		logger.WithError(err).Warn("dropping message")
		_ = msg.Nack(false, false)
	default:
		logger.WithError(err).Error("handling failed, requeueing")
		_ = msg.Nack(false, true)
	}
}
