package models

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchivedAnalysisWarehouseAttributes(t *testing.T) {
	item, err := attributevalue.MarshalMap(ArchivedAnalysis{
		ItemKind: "news",
		ItemID:   "n1",
		Analysis: Analysis{
			SentimentScore: 0.4,
			SentimentLabel: SentimentPositive,
			CombinedScore:  0.3,
			Relevance:      RelevanceHigh,
			KeywordScore:   0.2,
			TickerCount:    1,
			FiguresCount:   2,
		},
		AnalyzedAt: time.Now().UTC(),
		ExpiresAt:  1234567890,
	})
	require.NoError(t, err)

	// every attribute lands under its snake_case name, embedded scoring
	// fields included
	for _, key := range []string{
		"item_kind", "item_id",
		"sentiment_score", "sentiment_label", "combined_score",
		"relevance", "keyword_score", "ticker_count", "figures_count",
		"analyzed_at", "expires_at",
	} {
		assert.Contains(t, item, key)
	}
	assert.NotContains(t, item, "SentimentScore")
}
