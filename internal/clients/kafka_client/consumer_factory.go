package kafka_client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

var consumerRegistry = make(map[string]func(context.Context, *kafka.Consumer))

func RegisterConsumer(topic string, consumerFunc func(context.Context, *kafka.Consumer)) {
	consumerRegistry[topic] = consumerFunc
}

// StartConsumer runs the consumer registered for the configured topic
// until the context is cancelled.
func StartConsumer(ctx context.Context, cfg KafkaConfig) error {
	consumerFunc, exists := consumerRegistry[cfg.Topic]
	if !exists {
		return fmt.Errorf("[ConsumerFactory] No consumer found for topic: %s", cfg.Topic)
	}

	consumer, err := NewConsumer(cfg)
	if err != nil {
		return fmt.Errorf("[ConsumerFactory] Failed to initialize Kafka consumer: %w", err)
	}
	defer consumer.Close()

	slog.Info("[ConsumerFactory] Starting consumer for topic...", slog.String("topic", cfg.Topic))
	consumerFunc(ctx, consumer)

	return nil
}

// StartAllConsumers runs every registered consumer concurrently, one
// consumer per topic, and blocks until all of them return. The first
// startup error is returned after the rest have wound down.
func StartAllConsumers(ctx context.Context, cfg KafkaConfig) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(consumerRegistry))

	for topic := range consumerRegistry {
		topicCfg := cfg
		topicCfg.Topic = topic

		wg.Add(1)
		go func(c KafkaConfig) {
			defer wg.Done()
			if err := StartConsumer(ctx, c); err != nil {
				errCh <- err
			}
		}(topicCfg)
	}

	wg.Wait()
	close(errCh)
	return <-errCh
}
