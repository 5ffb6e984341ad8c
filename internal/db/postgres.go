package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var DB *pgxpool.Pool

func InitDB() error {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("[DB] unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("[DB] failed to ping database: %w", err)
	}

	DB = pool

	slog.Info("[DB] Connected to PostgreSQL successfully")
	return nil
}

func CloseDB() {
	if DB != nil {
		DB.Close()
	}
}

// EnsureSchema creates the tables if they do not exist yet. The
// analysis tables key on the owning item, one row per item, and cascade
// on item deletion.
func EnsureSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS news (
    uuid TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    publisher TEXT NOT NULL DEFAULT '',
    link TEXT NOT NULL DEFAULT '',
    provider_publish_time BIGINT NOT NULL DEFAULT 0,
    news_type TEXT NOT NULL DEFAULT '',
    related_tickers TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS articles (
    id BIGSERIAL PRIMARY KEY,
    ticker TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    pub_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS news_analysis (
    news_uuid TEXT PRIMARY KEY REFERENCES news(uuid) ON DELETE CASCADE,
    sentiment_score DOUBLE PRECISION NOT NULL,
    sentiment_label TEXT NOT NULL,
    combined_score DOUBLE PRECISION NOT NULL,
    relevance TEXT NOT NULL,
    keyword_score DOUBLE PRECISION NOT NULL,
    ticker_count INTEGER NOT NULL,
    figures_count INTEGER NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS article_analysis (
    article_id BIGINT PRIMARY KEY REFERENCES articles(id) ON DELETE CASCADE,
    sentiment_score DOUBLE PRECISION NOT NULL,
    sentiment_label TEXT NOT NULL,
    combined_score DOUBLE PRECISION NOT NULL,
    relevance TEXT NOT NULL,
    keyword_score DOUBLE PRECISION NOT NULL,
    ticker_count INTEGER NOT NULL,
    figures_count INTEGER NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS quotes (
    id BIGSERIAL PRIMARY KEY,
    symbol TEXT NOT NULL,
    price NUMERIC NOT NULL,
    open NUMERIC NOT NULL DEFAULT 0,
    day_high NUMERIC NOT NULL DEFAULT 0,
    day_low NUMERIC NOT NULL DEFAULT 0,
    volume BIGINT NOT NULL DEFAULT 0,
    market_time TIMESTAMPTZ NOT NULL,
    fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	if _, err := DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("[DB] failed to ensure schema: %w", err)
	}

	slog.Info("[DB] Schema ensured")
	return nil
}
