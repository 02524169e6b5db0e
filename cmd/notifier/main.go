package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aditpras/storefront/cmd/config"
	"github.com/aditpras/storefront/thirdparty/rabbitmq"
	"github.com/aditpras/storefront/utils/logger"
	"go.uber.org/zap"
)

// The notifier worker drains the order confirmation queue and hands each
// message to the mail delivery API.
func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment); err != nil {
		panic(err)
	}
	defer logger.Close()

	consumer, err := rabbitmq.NewConsumer(
		cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password,
		cfg.Notifier.MailAPIURL, cfg.Notifier.MailAPIKey,
	)
	if err != nil {
		logger.Fatal("err connect rabbitmq", zap.Error(err))
	}
	defer func() {
		_ = consumer.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal("err start consumer", zap.Error(err))
	}
	logger.Info("notifier consumer running")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("notifier consumer shutting down")
}
