package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/stawicover/agency-api/kafka"
	"github.com/stawicover/agency-api/pkg/logger"
	"github.com/stawicover/agency-api/pkg/tracing"
)

// The notifier consumes terminal payment events and fans them out to the
// notification channels (for now structured logs; SMS/email hook in here).
func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "agency-notifier")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	groupID := getEnv("KAFKA_GROUP_ID", "agency-notifier")

	consumer, err := kafka.NewConsumer(brokers, groupID, []string{kafka.TopicPaymentResults})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	consumer.RegisterHandler(kafka.EventTypePaymentCompleted, func(ctx context.Context, event kafka.PaymentResultEvent) error {
		logger.Info(ctx).
			Str("reference", event.Reference).
			Str("receipt", event.ReceiptNumber).
			Float64("amount", event.Amount).
			Uint("user_id", event.UserID).
			Msg("Payment completed - sending confirmation")
		return nil
	})

	consumer.RegisterHandler(kafka.EventTypePaymentFailed, func(ctx context.Context, event kafka.PaymentResultEvent) error {
		logger.Info(ctx).
			Str("reference", event.Reference).
			Str("result_desc", event.ResultDesc).
			Uint("user_id", event.UserID).
			Msg("Payment failed - sending failure notice")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Consumer stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down notifier")
	cancel()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
