package kafka_client

import "time"

const (
	KAFKA_TOPIC_NEWS_ANALYSIS    = "news-analysis-jobs"    // title-only scoring jobs, keyed by news uuid
	KAFKA_TOPIC_ARTICLE_ANALYSIS = "article-analysis-jobs" // title+content scoring jobs, keyed by article id
)

const (
	MAX_RETRIES = 5
	RETRY_DELAY = 2 * time.Second
)
