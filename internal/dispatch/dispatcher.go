// Package dispatch turns item-creation events into queued analysis jobs.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/newstrader/newstrader/internal/clients/kafka_client"
	"github.com/newstrader/newstrader/internal/models"
)

type ItemKind string

const (
	KindNews    ItemKind = "news"
	KindArticle ItemKind = "article"
)

// ItemCreated is published by the ingestion path after a new item row
// is inserted. It never fires for updates to existing rows.
type ItemCreated struct {
	Kind ItemKind
	ID   string
}

// Publisher hands a job payload to the task queue. Fire-and-forget:
// the dispatcher never waits for job completion.
type Publisher interface {
	Publish(topic string, key string, payload interface{}) error
}

// Deduper suppresses duplicate enqueues for recently dispatched items.
// Purely an optimization: the engine upsert is idempotent regardless.
type Deduper interface {
	IsEnqueued(ctx context.Context, kind, id string) bool
	MarkEnqueued(ctx context.Context, kind, id string) error
}

// Dispatcher subscribes to ItemCreated events and schedules one
// analysis job per item, carrying only the item identifier.
type Dispatcher struct {
	pub   Publisher
	dedup Deduper
}

// NewDispatcher builds a Dispatcher. dedup may be nil.
func NewDispatcher(pub Publisher, dedup Deduper) *Dispatcher {
	return &Dispatcher{pub: pub, dedup: dedup}
}

// HandleItemCreated enqueues the analysis job for a newly created item.
// An enqueue failure is logged at error level and returned to the
// caller; it is never dropped silently.
func (d *Dispatcher) HandleItemCreated(ctx context.Context, evt ItemCreated) error {
	if d.dedup != nil && d.dedup.IsEnqueued(ctx, string(evt.Kind), evt.ID) {
		slog.Debug("[Dispatcher] Item already enqueued, skipping",
			slog.String("kind", string(evt.Kind)),
			slog.String("id", evt.ID))
		return nil
	}

	topic, payload, err := jobFor(evt)
	if err != nil {
		return err
	}

	if err := d.pub.Publish(topic, evt.ID, payload); err != nil {
		slog.Error("[Dispatcher] Failed to enqueue analysis job",
			slog.String("kind", string(evt.Kind)),
			slog.String("id", evt.ID),
			slog.String("error", err.Error()))
		return fmt.Errorf("enqueue %s analysis for %s: %w", evt.Kind, evt.ID, err)
	}

	if d.dedup != nil {
		if err := d.dedup.MarkEnqueued(ctx, string(evt.Kind), evt.ID); err != nil {
			slog.Warn("[Dispatcher] Failed to mark item as enqueued",
				slog.String("id", evt.ID),
				slog.String("error", err.Error()))
		}
	}

	slog.Info("[Dispatcher] Analysis job enqueued",
		slog.String("kind", string(evt.Kind)),
		slog.String("id", evt.ID))
	return nil
}

func jobFor(evt ItemCreated) (topic string, payload interface{}, err error) {
	switch evt.Kind {
	case KindNews:
		return kafka_client.KAFKA_TOPIC_NEWS_ANALYSIS, models.NewsAnalysisJob{NewsUUID: evt.ID}, nil
	case KindArticle:
		id, convErr := strconv.ParseInt(evt.ID, 10, 64)
		if convErr != nil {
			return "", nil, fmt.Errorf("invalid article id %q: %w", evt.ID, convErr)
		}
		return kafka_client.KAFKA_TOPIC_ARTICLE_ANALYSIS, models.ArticleAnalysisJob{ArticleID: id}, nil
	default:
		return "", nil, fmt.Errorf("unknown item kind %q", evt.Kind)
	}
}
