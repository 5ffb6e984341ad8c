// Package analysis turns ingested items into persisted sentiment
// analysis rows.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/newstrader/newstrader/internal/lexicon"
	"github.com/newstrader/newstrader/internal/models"
)

// ErrNotFound is returned when analysis is requested for an item that
// does not exist. Jobs failing this way are not retried.
var ErrNotFound = errors.New("item not found")

// Thresholds and weights for the two pipelines. News items label off
// the combined score; articles label off the model score, matching the
// per-type formulas the engine commits to.
const (
	newsLabelThreshold    = 0.2
	articleLabelThreshold = 0.1

	articleKeywordWeight = 0.4
	articleModelWeight   = 0.2
	articleTickerWeight  = 0.1
	articleFiguresWeight = 0.3
)

var figuresPattern = regexp.MustCompile(`\d+[\d,.]*%?`)

// ItemStore loads items and upserts their analysis rows. Upserts are
// atomic insert-or-replace keyed by the owning item, so concurrent
// re-analysis of the same item can never produce duplicate rows.
type ItemStore interface {
	GetNewsByUUID(ctx context.Context, uuid string) (*models.News, error)
	GetArticleByID(ctx context.Context, id int64) (*models.Article, error)
	UpsertNewsAnalysis(ctx context.Context, a models.NewsAnalysis) (models.NewsAnalysis, error)
	UpsertArticleAnalysis(ctx context.Context, a models.ArticleAnalysis) (models.ArticleAnalysis, error)
}

// ModelScorer is the general-purpose polarity model, compound score
// in [-1, 1].
type ModelScorer interface {
	Score(text string) float64
}

// Engine combines the lexicon and model scores for one item and
// persists the result. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	store   ItemStore
	lexicon *lexicon.Store
	model   ModelScorer
}

func NewEngine(store ItemStore, lex *lexicon.Store, model ModelScorer) *Engine {
	return &Engine{
		store:   store,
		lexicon: lex,
		model:   model,
	}
}

// AnalyzeNews scores a news item by its title and upserts the result.
// Running it twice for unchanged input leaves a single identical row.
func (e *Engine) AnalyzeNews(ctx context.Context, uuid string) (models.NewsAnalysis, error) {
	news, err := e.store.GetNewsByUUID(ctx, uuid)
	if err != nil {
		return models.NewsAnalysis{}, fmt.Errorf("load news %s: %w", uuid, err)
	}

	title := news.Title
	keywordScore := e.lexicon.Score(title)
	modelScore := e.model.Score(title)
	combined := (keywordScore + modelScore) / 2

	tickerCount := len(news.RelatedTickers)
	figuresCount := CountFigures(title)

	result := models.NewsAnalysis{
		NewsUUID: news.UUID,
		Analysis: models.Analysis{
			SentimentScore: keywordScore,
			SentimentLabel: labelFor(combined, newsLabelThreshold),
			CombinedScore:  combined,
			Relevance:      relevanceFor(tickerCount, figuresCount),
			KeywordScore:   keywordScore,
			TickerCount:    tickerCount,
			FiguresCount:   figuresCount,
		},
	}

	saved, err := e.store.UpsertNewsAnalysis(ctx, result)
	if err != nil {
		return models.NewsAnalysis{}, fmt.Errorf("upsert news analysis %s: %w", uuid, err)
	}

	slog.Info("[AnalysisEngine] News analyzed",
		slog.String("uuid", news.UUID),
		slog.Float64("keyword_score", keywordScore),
		slog.Float64("model_score", modelScore),
		slog.String("label", saved.SentimentLabel),
		slog.String("relevance", saved.Relevance))

	return saved, nil
}

// AnalyzeArticle scores an article by title plus content and upserts
// the result.
func (e *Engine) AnalyzeArticle(ctx context.Context, id int64) (models.ArticleAnalysis, error) {
	art, err := e.store.GetArticleByID(ctx, id)
	if err != nil {
		return models.ArticleAnalysis{}, fmt.Errorf("load article %d: %w", id, err)
	}

	text := art.Title + " " + art.Content
	keywordScore := e.lexicon.Score(text)
	modelScore := e.model.Score(text)

	tickerCount := CountTickerMentions(text, art.Ticker)
	figuresCount := CountFigures(text)

	combined := articleKeywordWeight*keywordScore +
		articleModelWeight*modelScore +
		articleTickerWeight*float64(tickerCount) +
		articleFiguresWeight*float64(figuresCount)

	result := models.ArticleAnalysis{
		ArticleID: art.ID,
		Analysis: models.Analysis{
			SentimentScore: modelScore,
			SentimentLabel: labelFor(modelScore, articleLabelThreshold),
			CombinedScore:  combined,
			Relevance:      relevanceFor(tickerCount, figuresCount),
			KeywordScore:   keywordScore,
			TickerCount:    tickerCount,
			FiguresCount:   figuresCount,
		},
	}

	saved, err := e.store.UpsertArticleAnalysis(ctx, result)
	if err != nil {
		return models.ArticleAnalysis{}, fmt.Errorf("upsert article analysis %d: %w", id, err)
	}

	slog.Info("[AnalysisEngine] Article analyzed",
		slog.Int64("id", art.ID),
		slog.String("ticker", art.Ticker),
		slog.Float64("keyword_score", keywordScore),
		slog.Float64("model_score", modelScore),
		slog.String("label", saved.SentimentLabel),
		slog.String("relevance", saved.Relevance))

	return saved, nil
}

// CountFigures counts numeric figures, optionally with separators and a
// trailing percent sign.
func CountFigures(text string) int {
	return len(figuresPattern.FindAllString(text, -1))
}

// CountTickerMentions counts case-insensitive occurrences of the ticker
// symbol in text.
func CountTickerMentions(text, ticker string) int {
	if ticker == "" {
		return 0
	}
	return strings.Count(strings.ToUpper(text), strings.ToUpper(ticker))
}

func labelFor(score, threshold float64) string {
	switch {
	case score > threshold:
		return models.SentimentPositive
	case score < -threshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// relevanceFor is high only when both signals are present, medium when
// exactly one is, low otherwise.
func relevanceFor(tickerCount, figuresCount int) string {
	switch {
	case tickerCount > 0 && figuresCount > 0:
		return models.RelevanceHigh
	case tickerCount > 0 || figuresCount > 0:
		return models.RelevanceMedium
	default:
		return models.RelevanceLow
	}
}
