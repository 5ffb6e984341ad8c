package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newstrader/newstrader/config"
	"github.com/newstrader/newstrader/internal/api"
	"github.com/newstrader/newstrader/internal/clients/kafka_client"
	"github.com/newstrader/newstrader/internal/db"
	"github.com/newstrader/newstrader/internal/logging"
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

	if err := db.InitDB(); err != nil {
		slog.Error("[Main] Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.CloseDB()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("[Main] Failed to ensure schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg := kafka_client.GetKafkaConfig()
	for {
		err := kafka_client.InitProducer(cfg)
		if err == nil {
			break
		}

		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		time.Sleep(5 * time.Second)
	}
	defer kafka_client.CloseProducer()

	addr := config.GetEnv("API_ADDR", ":8080")
	srv := api.NewServer(db.NewStore(db.DB), kafka_client.Publisher{})

	if err := srv.Run(ctx, addr); err != nil {
		slog.Error("[Main] API server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
