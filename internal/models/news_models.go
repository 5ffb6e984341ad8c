package models

import "time"

// News is a headline-shaped item pulled from the finance search feed.
// Analysis for news runs against the title only.
type News struct {
	UUID                string    `json:"uuid"`
	Title               string    `json:"title"`
	Publisher           string    `json:"publisher"`
	Link                string    `json:"link"`
	ProviderPublishTime int64     `json:"provider_publish_time"`
	NewsType            string    `json:"news_type"`
	RelatedTickers      []string  `json:"related_tickers"`
	CreatedAt           time.Time `json:"created_at"`
}

// Article is a full-text item tied to a single ticker. Analysis for
// articles runs against title and content together.
type Article struct {
	ID      int64     `json:"id"`
	Ticker  string    `json:"ticker"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	PubDate time.Time `json:"pub_date"`
}
