package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/newstrader/newstrader/internal/analysis"
	"github.com/newstrader/newstrader/internal/models"
)

// Store is the Postgres-backed item store used by the analysis engine
// and the HTTP surface.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetNewsByUUID(ctx context.Context, uuid string) (*models.News, error) {
	query := `
        SELECT uuid, title, publisher, link, provider_publish_time, news_type, related_tickers, created_at
        FROM news WHERE uuid = $1
    `

	var n models.News
	err := s.pool.QueryRow(ctx, query, uuid).Scan(
		&n.UUID, &n.Title, &n.Publisher, &n.Link,
		&n.ProviderPublishTime, &n.NewsType, &n.RelatedTickers, &n.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, analysis.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query news %s: %w", uuid, err)
	}

	return &n, nil
}

func (s *Store) GetArticleByID(ctx context.Context, id int64) (*models.Article, error) {
	query := `
        SELECT id, ticker, title, content, pub_date
        FROM articles WHERE id = $1
    `

	var a models.Article
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Ticker, &a.Title, &a.Content, &a.PubDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, analysis.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query article %d: %w", id, err)
	}

	return &a, nil
}

// InsertNews stores a fetched news item. Re-ingesting an existing uuid
// is a no-op; created reports whether a new row was written, so the
// caller only dispatches analysis for genuinely new items.
func (s *Store) InsertNews(ctx context.Context, n models.News) (created bool, err error) {
	query := `
        INSERT INTO news (uuid, title, publisher, link, provider_publish_time, news_type, related_tickers)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (uuid) DO NOTHING
    `

	tag, err := s.pool.Exec(ctx, query,
		n.UUID, n.Title, n.Publisher, n.Link,
		n.ProviderPublishTime, n.NewsType, n.RelatedTickers,
	)
	if err != nil {
		return false, fmt.Errorf("insert news %s: %w", n.UUID, err)
	}

	return tag.RowsAffected() > 0, nil
}

// InsertArticle stores an article and returns its generated id.
func (s *Store) InsertArticle(ctx context.Context, a models.Article) (int64, error) {
	query := `
        INSERT INTO articles (ticker, title, content, pub_date)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `

	var id int64
	err := s.pool.QueryRow(ctx, query, a.Ticker, a.Title, a.Content, a.PubDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert article: %w", err)
	}

	return id, nil
}

// UpsertNewsAnalysis atomically inserts or fully replaces the analysis
// row for a news item. The primary key on news_uuid makes concurrent
// re-analysis race-free; last writer wins.
func (s *Store) UpsertNewsAnalysis(ctx context.Context, a models.NewsAnalysis) (models.NewsAnalysis, error) {
	query := `
        INSERT INTO news_analysis
            (news_uuid, sentiment_score, sentiment_label, combined_score, relevance, keyword_score, ticker_count, figures_count, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        ON CONFLICT (news_uuid) DO UPDATE SET
            sentiment_score = EXCLUDED.sentiment_score,
            sentiment_label = EXCLUDED.sentiment_label,
            combined_score  = EXCLUDED.combined_score,
            relevance       = EXCLUDED.relevance,
            keyword_score   = EXCLUDED.keyword_score,
            ticker_count    = EXCLUDED.ticker_count,
            figures_count   = EXCLUDED.figures_count,
            updated_at      = NOW()
    `

	_, err := s.pool.Exec(ctx, query,
		a.NewsUUID, a.SentimentScore, a.SentimentLabel, a.CombinedScore,
		a.Relevance, a.KeywordScore, a.TickerCount, a.FiguresCount,
	)
	if err != nil {
		return models.NewsAnalysis{}, fmt.Errorf("upsert news analysis %s: %w", a.NewsUUID, err)
	}

	return a, nil
}

// UpsertArticleAnalysis mirrors UpsertNewsAnalysis for articles.
func (s *Store) UpsertArticleAnalysis(ctx context.Context, a models.ArticleAnalysis) (models.ArticleAnalysis, error) {
	query := `
        INSERT INTO article_analysis
            (article_id, sentiment_score, sentiment_label, combined_score, relevance, keyword_score, ticker_count, figures_count, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        ON CONFLICT (article_id) DO UPDATE SET
            sentiment_score = EXCLUDED.sentiment_score,
            sentiment_label = EXCLUDED.sentiment_label,
            combined_score  = EXCLUDED.combined_score,
            relevance       = EXCLUDED.relevance,
            keyword_score   = EXCLUDED.keyword_score,
            ticker_count    = EXCLUDED.ticker_count,
            figures_count   = EXCLUDED.figures_count,
            updated_at      = NOW()
    `

	_, err := s.pool.Exec(ctx, query,
		a.ArticleID, a.SentimentScore, a.SentimentLabel, a.CombinedScore,
		a.Relevance, a.KeywordScore, a.TickerCount, a.FiguresCount,
	)
	if err != nil {
		return models.ArticleAnalysis{}, fmt.Errorf("upsert article analysis %d: %w", a.ArticleID, err)
	}

	return a, nil
}

func (s *Store) GetNewsAnalysis(ctx context.Context, uuid string) (*models.NewsAnalysis, error) {
	query := `
        SELECT news_uuid, sentiment_score, sentiment_label, combined_score, relevance, keyword_score, ticker_count, figures_count
        FROM news_analysis WHERE news_uuid = $1
    `

	var a models.NewsAnalysis
	err := s.pool.QueryRow(ctx, query, uuid).Scan(
		&a.NewsUUID, &a.SentimentScore, &a.SentimentLabel, &a.CombinedScore,
		&a.Relevance, &a.KeywordScore, &a.TickerCount, &a.FiguresCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, analysis.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query news analysis %s: %w", uuid, err)
	}

	return &a, nil
}

func (s *Store) GetArticleAnalysis(ctx context.Context, id int64) (*models.ArticleAnalysis, error) {
	query := `
        SELECT article_id, sentiment_score, sentiment_label, combined_score, relevance, keyword_score, ticker_count, figures_count
        FROM article_analysis WHERE article_id = $1
    `

	var a models.ArticleAnalysis
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&a.ArticleID, &a.SentimentScore, &a.SentimentLabel, &a.CombinedScore,
		&a.Relevance, &a.KeywordScore, &a.TickerCount, &a.FiguresCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, analysis.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query article analysis %d: %w", id, err)
	}

	return &a, nil
}

// InsertQuote appends a market snapshot.
func (s *Store) InsertQuote(ctx context.Context, q models.Quote) error {
	query := `
        INSERT INTO quotes (symbol, price, open, day_high, day_low, volume, market_time)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := s.pool.Exec(ctx, query,
		q.Symbol, q.Price, q.Open, q.DayHigh, q.DayLow, q.Volume, q.MarketTime,
	)
	if err != nil {
		return fmt.Errorf("insert quote %s: %w", q.Symbol, err)
	}

	return nil
}
