package ingestion

import (
	"context"
	"errors"
	"testing"

	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAndStoreSkipsSymbolWithoutQuote(t *testing.T) {
	// unknown symbols come back as (nil, nil); the fetcher must treat
	// that as a failed symbol instead of dereferencing the quote
	f := &QuoteFetcher{getQuote: func(string) (*finance.Quote, error) {
		return nil, nil
	}}

	err := f.FetchAndStore(context.Background(), []string{"ZZZZ"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 1 symbols failed")
}

func TestFetchAndStoreAllSymbolsFailing(t *testing.T) {
	f := &QuoteFetcher{getQuote: func(string) (*finance.Quote, error) {
		return nil, errors.New("feed unavailable")
	}}

	err := f.FetchAndStore(context.Background(), []string{"AAPL", "MSFT"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 symbols failed")
}

func TestFetchAndStoreNoSymbols(t *testing.T) {
	f := &QuoteFetcher{getQuote: func(string) (*finance.Quote, error) {
		return nil, nil
	}}

	assert.NoError(t, f.FetchAndStore(context.Background(), nil))
}
