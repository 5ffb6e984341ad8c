package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newstrader/newstrader/config"
	"github.com/newstrader/newstrader/internal/analysis"
	"github.com/newstrader/newstrader/internal/clients/kafka_client"
	"github.com/newstrader/newstrader/internal/consumers"
	"github.com/newstrader/newstrader/internal/db"
	"github.com/newstrader/newstrader/internal/lexicon"
	"github.com/newstrader/newstrader/internal/logging"
	"github.com/newstrader/newstrader/internal/sentiment"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for {
		err := db.InitDB()
		if err == nil {
			break
		}
		slog.Warn("DB init failed, retrying...", slog.String("error", err.Error()))
		time.Sleep(5 * time.Second)
	}
	defer db.CloseDB()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("[Main] Failed to ensure schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if os.Getenv("ARCHIVE_RESULTS") == "true" {
		db.InitDynamoDB()
	}

	store := db.NewStore(db.DB)
	engine := analysis.NewEngine(store, lexicon.Load(), sentiment.NewScorer())

	kafka_client.RegisterConsumer(kafka_client.KAFKA_TOPIC_NEWS_ANALYSIS,
		consumers.NewNewsAnalysisConsumer(engine))
	kafka_client.RegisterConsumer(kafka_client.KAFKA_TOPIC_ARTICLE_ANALYSIS,
		consumers.NewArticleAnalysisConsumer(engine))

	cfg := kafka_client.GetKafkaConfig()
	if err := kafka_client.StartAllConsumers(ctx, cfg); err != nil {
		slog.Error("[Main] Failed to start consumers",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}
