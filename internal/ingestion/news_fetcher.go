// Package ingestion pulls news and quotes from the finance feed and
// stores them, emitting creation events for newly seen items.
package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/newstrader/newstrader/internal/db"
	"github.com/newstrader/newstrader/internal/dispatch"
	"github.com/newstrader/newstrader/internal/models"
)

const yahooSearchURL = "https://query1.finance.yahoo.com/v1/finance/search"

type searchResponse struct {
	News []searchNews `json:"news"`
}

type searchNews struct {
	UUID                string   `json:"uuid"`
	Title               string   `json:"title"`
	Publisher           string   `json:"publisher"`
	Link                string   `json:"link"`
	ProviderPublishTime int64    `json:"providerPublishTime"`
	Type                string   `json:"type"`
	RelatedTickers      []string `json:"relatedTickers"`
}

type NewsFetcher struct {
	client     *resty.Client
	store      *db.Store
	dispatcher *dispatch.Dispatcher
}

func NewNewsFetcher(store *db.Store, dispatcher *dispatch.Dispatcher) *NewsFetcher {
	client := resty.New()
	client.SetTimeout(60 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	return &NewsFetcher{
		client:     client,
		store:      store,
		dispatcher: dispatcher,
	}
}

// FetchAndStore pulls recent news for symbol, inserts unseen items and
// dispatches an analysis job for each newly created row. Returns the
// number of new items stored.
func (f *NewsFetcher) FetchAndStore(ctx context.Context, symbol string, newsCount int) (int, error) {
	if newsCount <= 0 {
		newsCount = 10
	}

	var result searchResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":         symbol,
			"newsCount": fmt.Sprintf("%d", newsCount),
		}).
		SetResult(&result).
		Get(yahooSearchURL)
	if err != nil {
		return 0, fmt.Errorf("[NewsFetcher] fetch news for %s: %w", symbol, err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("[NewsFetcher] fetch news for %s: status %d", symbol, resp.StatusCode())
	}

	created := 0
	for _, item := range result.News {
		news := models.News{
			UUID:                item.UUID,
			Title:               item.Title,
			Publisher:           item.Publisher,
			Link:                item.Link,
			ProviderPublishTime: item.ProviderPublishTime,
			NewsType:            item.Type,
			RelatedTickers:      item.RelatedTickers,
		}
		if news.UUID == "" {
			news.UUID = uuid.NewString()
		}

		isNew, err := f.store.InsertNews(ctx, news)
		if err != nil {
			return created, err
		}
		if !isNew {
			continue
		}
		created++

		// only freshly created items trigger analysis
		evt := dispatch.ItemCreated{Kind: dispatch.KindNews, ID: news.UUID}
		if err := f.dispatcher.HandleItemCreated(ctx, evt); err != nil {
			return created, err
		}
	}

	slog.Info("[NewsFetcher] Fetched news",
		slog.String("symbol", symbol),
		slog.Int("received", len(result.News)),
		slog.Int("created", created))

	return created, nil
}
