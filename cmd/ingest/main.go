package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/newstrader/newstrader/config"
	"github.com/newstrader/newstrader/internal/clients"
	"github.com/newstrader/newstrader/internal/clients/kafka_client"
	"github.com/newstrader/newstrader/internal/db"
	"github.com/newstrader/newstrader/internal/dispatch"
	"github.com/newstrader/newstrader/internal/ingestion"
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

	if err := db.InitDB(); err != nil {
		slog.Error("[Main] Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.CloseDB()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("[Main] Failed to ensure schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	clients.InitValkey()
	defer clients.CloseValkey()

	store := db.NewStore(db.DB)
	dispatcher := dispatch.NewDispatcher(kafka_client.Publisher{}, clients.GetValkeyClient())
	newsFetcher := ingestion.NewNewsFetcher(store, dispatcher)
	quoteFetcher := ingestion.NewQuoteFetcher(store)

	symbols := strings.Split(config.GetEnv("WATCH_SYMBOLS", "AAPL,MSFT,GOOG,TSLA"), ",")

	newsInterval, err := strconv.Atoi(os.Getenv("NEWS_FETCH_INTERVAL"))
	if err != nil {
		newsInterval = 1800 // 30 minutes (in seconds)
	}
	quoteInterval, err := strconv.Atoi(os.Getenv("QUOTE_FETCH_INTERVAL"))
	if err != nil {
		quoteInterval = 300 // 5 minutes (in seconds)
	}

	newsTicker := time.NewTicker(time.Duration(newsInterval) * time.Second)
	quoteTicker := time.NewTicker(time.Duration(quoteInterval) * time.Second)
	defer newsTicker.Stop()
	defer quoteTicker.Stop()

	fetchAllNews := func() {
		for _, symbol := range symbols {
			if _, err := newsFetcher.FetchAndStore(ctx, strings.TrimSpace(symbol), 10); err != nil {
				slog.Error("[Ingest] News fetch failed",
					slog.String("symbol", symbol),
					slog.String("error", err.Error()))
			}
		}
	}

	// initial run before the tickers kick in
	fetchAllNews()
	if err := quoteFetcher.FetchAndStore(ctx, symbols); err != nil {
		slog.Error("[Ingest] Quote fetch failed", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-newsTicker.C:
			fetchAllNews()
		case <-quoteTicker.C:
			if err := quoteFetcher.FetchAndStore(ctx, symbols); err != nil {
				slog.Error("[Ingest] Quote fetch failed", slog.String("error", err.Error()))
			}
		case <-ctx.Done():
			slog.Info("Shutting down ingestion gracefully...")
			return
		}
	}
}
