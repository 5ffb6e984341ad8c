package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a market snapshot for a single symbol.
type Quote struct {
	Symbol     string          `json:"symbol"`
	Price      decimal.Decimal `json:"price"`
	Open       decimal.Decimal `json:"open"`
	DayHigh    decimal.Decimal `json:"day_high"`
	DayLow     decimal.Decimal `json:"day_low"`
	Volume     int64           `json:"volume"`
	MarketTime time.Time       `json:"market_time"`
}
