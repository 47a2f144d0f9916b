package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/mpopescu/skybooker/config"
	"github.com/mpopescu/skybooker/internal/email"
	"github.com/mpopescu/skybooker/internal/kafka"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	logrus.WithField("topic", cfg.Kafka.NotificationsTopic).Info("worker started")

	if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var event kafka.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logrus.WithError(err).Warn("decode event")
			return nil
		}
		return emailSender.Send(ctx, event)
	}); err != nil && ctx.Err() == nil {
		logrus.WithError(err).Error("consumer stopped")
	}

	logrus.Info("worker stopped")
}
