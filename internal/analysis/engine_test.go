package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newstrader/newstrader/internal/lexicon"
	"github.com/newstrader/newstrader/internal/models"
)

type fakeModel struct {
	score float64
}

func (f fakeModel) Score(string) float64 { return f.score }

type fakeStore struct {
	news     map[string]*models.News
	articles map[int64]*models.Article

	newsAnalyses    map[string]models.NewsAnalysis
	articleAnalyses map[int64]models.ArticleAnalysis

	upsertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		news:            make(map[string]*models.News),
		articles:        make(map[int64]*models.Article),
		newsAnalyses:    make(map[string]models.NewsAnalysis),
		articleAnalyses: make(map[int64]models.ArticleAnalysis),
	}
}

func (s *fakeStore) GetNewsByUUID(_ context.Context, uuid string) (*models.News, error) {
	n, ok := s.news[uuid]
	if !ok {
		return nil, ErrNotFound
	}
	return n, nil
}

func (s *fakeStore) GetArticleByID(_ context.Context, id int64) (*models.Article, error) {
	a, ok := s.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *fakeStore) UpsertNewsAnalysis(_ context.Context, a models.NewsAnalysis) (models.NewsAnalysis, error) {
	if s.upsertErr != nil {
		return models.NewsAnalysis{}, s.upsertErr
	}
	s.newsAnalyses[a.NewsUUID] = a
	return a, nil
}

func (s *fakeStore) UpsertArticleAnalysis(_ context.Context, a models.ArticleAnalysis) (models.ArticleAnalysis, error) {
	if s.upsertErr != nil {
		return models.ArticleAnalysis{}, s.upsertErr
	}
	s.articleAnalyses[a.ArticleID] = a
	return a, nil
}

func testLexicon() *lexicon.Store {
	return lexicon.New(
		[]string{"profit", "growth", "strong"},
		[]string{"loss", "decline"},
	)
}

func TestAnalyzeNewsScoresAndCounts(t *testing.T) {
	store := newFakeStore()
	store.news["n1"] = &models.News{
		UUID:           "n1",
		Title:          "AAPL up 5% this quarter",
		RelatedTickers: []string{"AAPL", "MSFT"},
	}
	engine := NewEngine(store, testLexicon(), fakeModel{score: 0})

	got, err := engine.AnalyzeNews(context.Background(), "n1")
	require.NoError(t, err)

	assert.Equal(t, 2, got.TickerCount)
	assert.Equal(t, 1, got.FiguresCount)
	assert.Equal(t, models.RelevanceHigh, got.Relevance)
	assert.Equal(t, 0.0, got.KeywordScore)
	assert.Equal(t, models.SentimentNeutral, got.SentimentLabel)
}

func TestAnalyzeNewsPositiveTitle(t *testing.T) {
	store := newFakeStore()
	store.news["n1"] = &models.News{
		UUID:  "n1",
		Title: "Company reports strong profit growth",
	}
	engine := NewEngine(store, testLexicon(), fakeModel{score: 0.5})

	got, err := engine.AnalyzeNews(context.Background(), "n1")
	require.NoError(t, err)

	// keyword score is (3-0)/3, combined averages in the model score
	assert.Equal(t, 1.0, got.KeywordScore)
	assert.Equal(t, 1.0, got.SentimentScore)
	assert.InDelta(t, 0.75, got.CombinedScore, 1e-9)
	assert.Equal(t, models.SentimentPositive, got.SentimentLabel)
	assert.Equal(t, models.RelevanceLow, got.Relevance)
}

func TestAnalyzeNewsNegativeTitle(t *testing.T) {
	store := newFakeStore()
	store.news["n1"] = &models.News{
		UUID:  "n1",
		Title: "Revenue decline amid heavy loss",
	}
	engine := NewEngine(store, testLexicon(), fakeModel{score: -0.4})

	got, err := engine.AnalyzeNews(context.Background(), "n1")
	require.NoError(t, err)

	assert.Equal(t, -1.0, got.KeywordScore)
	assert.InDelta(t, -0.7, got.CombinedScore, 1e-9)
	assert.Equal(t, models.SentimentNegative, got.SentimentLabel)
}

func TestAnalyzeNewsNeutralWithinThreshold(t *testing.T) {
	store := newFakeStore()
	store.news["n1"] = &models.News{
		UUID:  "n1",
		Title: "Company schedules annual meeting",
	}
	engine := NewEngine(store, testLexicon(), fakeModel{score: 0.05})

	got, err := engine.AnalyzeNews(context.Background(), "n1")
	require.NoError(t, err)

	assert.Equal(t, 0.0, got.KeywordScore)
	assert.Equal(t, models.SentimentNeutral, got.SentimentLabel)
}

func TestAnalyzeNewsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.news["n1"] = &models.News{
		UUID:           "n1",
		Title:          "Strong growth, shares up 12%",
		RelatedTickers: []string{"TSLA"},
	}
	engine := NewEngine(store, testLexicon(), fakeModel{score: 0.3})

	first, err := engine.AnalyzeNews(context.Background(), "n1")
	require.NoError(t, err)
	second, err := engine.AnalyzeNews(context.Background(), "n1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, store.newsAnalyses, 1)
}

func TestAnalyzeNewsNotFound(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, testLexicon(), fakeModel{})

	_, err := engine.AnalyzeNews(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.newsAnalyses)
}

func TestAnalyzeNewsUpsertFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.news["n1"] = &models.News{UUID: "n1", Title: "title"}
	store.upsertErr = errors.New("connection lost")
	engine := NewEngine(store, testLexicon(), fakeModel{})

	_, err := engine.AnalyzeNews(context.Background(), "n1")
	require.ErrorContains(t, err, "connection lost")
}

func TestAnalyzeArticleFormula(t *testing.T) {
	store := newFakeStore()
	store.articles[7] = &models.Article{
		ID:      7,
		Ticker:  "AAPL",
		Title:   "AAPL posts strong profit",
		Content: "Revenue rose 12% as aapl shipped 5,000,000 units.",
	}
	engine := NewEngine(store, testLexicon(), fakeModel{score: 0.5})

	got, err := engine.AnalyzeArticle(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 2, got.TickerCount)
	assert.Equal(t, 2, got.FiguresCount)
	assert.Equal(t, 1.0, got.KeywordScore)

	// 0.4*1.0 + 0.2*0.5 + 0.1*2 + 0.3*2
	assert.InDelta(t, 1.3, got.CombinedScore, 1e-9)

	// articles label off the model score
	assert.Equal(t, 0.5, got.SentimentScore)
	assert.Equal(t, models.SentimentPositive, got.SentimentLabel)
	assert.Equal(t, models.RelevanceHigh, got.Relevance)
}

func TestAnalyzeArticleNeutralModel(t *testing.T) {
	store := newFakeStore()
	store.articles[7] = &models.Article{
		ID:      7,
		Ticker:  "XYZ",
		Title:   "Quarterly filing published",
		Content: "No figures were disclosed by the company.",
	}
	engine := NewEngine(store, testLexicon(), fakeModel{score: 0.05})

	got, err := engine.AnalyzeArticle(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, models.SentimentNeutral, got.SentimentLabel)
	assert.Equal(t, 0, got.TickerCount)
	assert.Equal(t, 0, got.FiguresCount)
	assert.Equal(t, models.RelevanceLow, got.Relevance)
}

func TestAnalyzeArticleNotFound(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, testLexicon(), fakeModel{})

	_, err := engine.AnalyzeArticle(context.Background(), 404)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.articleAnalyses)
}

func TestCountFigures(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"no numbers here", 0},
		{"up 5% today", 1},
		{"1,234.56 in revenue and 12 units", 2},
		{"Q3 numbers: 100% growth", 2},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CountFigures(tc.text), "text %q", tc.text)
	}
}

func TestCountTickerMentions(t *testing.T) {
	assert.Equal(t, 2, CountTickerMentions("AAPL rises; analysts like aapl", "AAPL"))
	assert.Equal(t, 0, CountTickerMentions("no mention at all", "AAPL"))
	assert.Equal(t, 0, CountTickerMentions("anything", ""))
}

func TestRelevanceMonotonicity(t *testing.T) {
	assert.Equal(t, models.RelevanceHigh, relevanceFor(1, 1))
	assert.Equal(t, models.RelevanceMedium, relevanceFor(1, 0))
	assert.Equal(t, models.RelevanceMedium, relevanceFor(0, 3))
	assert.Equal(t, models.RelevanceLow, relevanceFor(0, 0))
}
