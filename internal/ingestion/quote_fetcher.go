package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"github.com/newstrader/newstrader/internal/db"
	"github.com/newstrader/newstrader/internal/models"
)

type QuoteFetcher struct {
	store    *db.Store
	getQuote func(symbol string) (*finance.Quote, error)
}

func NewQuoteFetcher(store *db.Store) *QuoteFetcher {
	return &QuoteFetcher{store: store, getQuote: quote.Get}
}

// FetchAndStore pulls a market snapshot per symbol. A failing symbol is
// logged and skipped; the rest of the batch still goes through.
func (f *QuoteFetcher) FetchAndStore(ctx context.Context, symbols []string) error {
	var failed int
	for _, symbol := range symbols {
		q, err := f.getQuote(symbol)
		if err != nil {
			slog.Error("[QuoteFetcher] Failed to fetch quote",
				slog.String("symbol", symbol),
				slog.String("error", err.Error()))
			failed++
			continue
		}
		if q == nil {
			// the feed answers unknown symbols with no data and no error
			slog.Warn("[QuoteFetcher] No quote returned for symbol",
				slog.String("symbol", symbol))
			failed++
			continue
		}

		snapshot := models.Quote{
			Symbol:     symbol,
			Price:      decimal.NewFromFloat(q.RegularMarketPrice),
			Open:       decimal.NewFromFloat(q.RegularMarketOpen),
			DayHigh:    decimal.NewFromFloat(q.RegularMarketDayHigh),
			DayLow:     decimal.NewFromFloat(q.RegularMarketDayLow),
			Volume:     int64(q.RegularMarketVolume),
			MarketTime: time.Unix(int64(q.RegularMarketTime), 0),
		}

		if err := f.store.InsertQuote(ctx, snapshot); err != nil {
			slog.Error("[QuoteFetcher] Failed to store quote",
				slog.String("symbol", symbol),
				slog.String("error", err.Error()))
			failed++
		}
	}

	if failed == len(symbols) && len(symbols) > 0 {
		return fmt.Errorf("[QuoteFetcher] all %d symbols failed", failed)
	}
	return nil
}
