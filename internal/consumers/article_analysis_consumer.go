package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/newstrader/newstrader/internal/analysis"
	"github.com/newstrader/newstrader/internal/clients/kafka_client"
	"github.com/newstrader/newstrader/internal/dispatch"
	"github.com/newstrader/newstrader/internal/models"
	"github.com/newstrader/newstrader/internal/utils"
)

// NewArticleAnalysisConsumer returns the worker loop for the article
// analysis topic. Same offset discipline as the news consumer.
func NewArticleAnalysisConsumer(engine *analysis.Engine) func(context.Context, *kafka.Consumer) {
	return func(ctx context.Context, consumer *kafka.Consumer) {
		iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
		committer := kafka_client.NewCommitHandler(ctx, consumer)

		ticker := time.NewTicker(utils.ARCHIVE_TIMEOUT)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Warn("[ArticleAnalysisConsumer] Consumer shutting down...")
				flushArchive(context.Background())
				return
			case <-ticker.C:
				flushArchive(ctx)
			default:
				msg, err := iterator.Next()
				if err != nil {
					slog.Error("[ArticleAnalysisConsumer] Failed to read message",
						slog.String("error", err.Error()))
					continue
				}
				if msg == nil {
					continue
				}

				switch processArticleJob(ctx, engine, msg.Value) {
				case outcomeCommit:
					commit(committer, msg)
				case outcomeRetry:
					rewind(consumer, msg)
					time.Sleep(kafka_client.RETRY_DELAY)
				}
			}
		}
	}
}

// processArticleJob runs one job and reports what to do with its offset.
func processArticleJob(ctx context.Context, engine *analysis.Engine, payload []byte) jobOutcome {
	var job models.ArticleAnalysisJob
	if err := json.Unmarshal(payload, &job); err != nil {
		slog.Warn("[ArticleAnalysisConsumer] Dropping malformed payload",
			slog.String("error", err.Error()))
		return outcomeCommit
	}

	result, err := engine.AnalyzeArticle(ctx, job.ArticleID)
	if errors.Is(err, analysis.ErrNotFound) {
		slog.Error("[ArticleAnalysisConsumer] Article does not exist, dropping job",
			slog.Int64("id", job.ArticleID))
		return outcomeCommit
	}
	if err != nil {
		slog.Error("[ArticleAnalysisConsumer] Analysis failed",
			slog.Int64("id", job.ArticleID),
			slog.String("error", err.Error()))
		return outcomeRetry
	}

	bufferForArchive(ctx, models.ArchivedAnalysis{
		ItemKind: string(dispatch.KindArticle),
		ItemID:   fmt.Sprintf("%d", result.ArticleID),
		Analysis: result.Analysis,
	})

	return outcomeCommit
}
