package models

import "time"

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

const (
	RelevanceHigh   = "high"
	RelevanceMedium = "medium"
	RelevanceLow    = "low"
)

// Analysis holds the scoring output for a single item. Every field is
// rewritten on each run; rows are never partially updated.
type Analysis struct {
	SentimentScore float64 `json:"sentiment_score" dynamodbav:"sentiment_score"`
	SentimentLabel string  `json:"sentiment_label" dynamodbav:"sentiment_label"`
	CombinedScore  float64 `json:"combined_score" dynamodbav:"combined_score"`
	Relevance      string  `json:"relevance" dynamodbav:"relevance"`
	KeywordScore   float64 `json:"keyword_score" dynamodbav:"keyword_score"`
	TickerCount    int     `json:"ticker_count" dynamodbav:"ticker_count"`
	FiguresCount   int     `json:"figures_count" dynamodbav:"figures_count"`
}

// NewsAnalysis is the one-to-one analysis row for a news item.
type NewsAnalysis struct {
	NewsUUID string `json:"news_uuid"`
	Analysis
}

// ArticleAnalysis is the one-to-one analysis row for an article.
type ArticleAnalysis struct {
	ArticleID int64 `json:"article_id"`
	Analysis
}

// NewsAnalysisJob is the payload carried on the news analysis topic.
// Jobs carry only the identifier; the worker reloads the item.
type NewsAnalysisJob struct {
	NewsUUID string `json:"news_uuid"`
}

// ArticleAnalysisJob is the payload carried on the article analysis topic.
type ArticleAnalysisJob struct {
	ArticleID int64 `json:"article_id"`
}

// ArchivedAnalysis is the warehouse record batch-written to DynamoDB
// after a successful upsert. Rows expire via the expires_at TTL.
type ArchivedAnalysis struct {
	ItemKind string `json:"item_kind" dynamodbav:"item_kind"`
	ItemID   string `json:"item_id" dynamodbav:"item_id"`
	Analysis
	AnalyzedAt time.Time `json:"analyzed_at" dynamodbav:"analyzed_at"`
	ExpiresAt  int64     `json:"expires_at" dynamodbav:"expires_at"`
}
