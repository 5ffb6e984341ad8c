package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/newstrader/newstrader/internal/analysis"
	"github.com/newstrader/newstrader/internal/clients/kafka_client"
	"github.com/newstrader/newstrader/internal/dispatch"
	"github.com/newstrader/newstrader/internal/models"
	"github.com/newstrader/newstrader/internal/utils"
)

// jobOutcome decides what happens to a message's offset after its job ran.
type jobOutcome int

const (
	// outcomeCommit marks the job consumed: it succeeded, or it can
	// never succeed.
	outcomeCommit jobOutcome = iota
	// outcomeRetry leaves the job unconsumed so the broker redelivers it.
	outcomeRetry
)

// NewNewsAnalysisConsumer returns the worker loop for the news analysis
// topic. Offsets are committed only after a durable upsert, or when the
// job can never succeed (missing item, malformed payload). A transient
// failure rewinds the partition to the failed message before polling
// again; otherwise a later success on the same partition would commit
// past the failed offset and lose the job.
func NewNewsAnalysisConsumer(engine *analysis.Engine) func(context.Context, *kafka.Consumer) {
	return func(ctx context.Context, consumer *kafka.Consumer) {
		iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
		committer := kafka_client.NewCommitHandler(ctx, consumer)

		ticker := time.NewTicker(utils.ARCHIVE_TIMEOUT)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Warn("[NewsAnalysisConsumer] Consumer shutting down...")
				flushArchive(context.Background())
				return
			case <-ticker.C:
				flushArchive(ctx)
			default:
				msg, err := iterator.Next()
				if err != nil {
					slog.Error("[NewsAnalysisConsumer] Failed to read message",
						slog.String("error", err.Error()))
					continue
				}
				if msg == nil {
					// idle poll; loop around so the flush ticker gets its turn
					continue
				}

				switch processNewsJob(ctx, engine, msg.Value) {
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

// processNewsJob runs one job and reports what to do with its offset.
func processNewsJob(ctx context.Context, engine *analysis.Engine, payload []byte) jobOutcome {
	var job models.NewsAnalysisJob
	if err := json.Unmarshal(payload, &job); err != nil {
		slog.Warn("[NewsAnalysisConsumer] Dropping malformed payload",
			slog.String("error", err.Error()))
		return outcomeCommit
	}

	result, err := engine.AnalyzeNews(ctx, job.NewsUUID)
	if errors.Is(err, analysis.ErrNotFound) {
		slog.Error("[NewsAnalysisConsumer] News item does not exist, dropping job",
			slog.String("uuid", job.NewsUUID))
		return outcomeCommit
	}
	if err != nil {
		slog.Error("[NewsAnalysisConsumer] Analysis failed",
			slog.String("uuid", job.NewsUUID),
			slog.String("error", err.Error()))
		return outcomeRetry
	}

	bufferForArchive(ctx, models.ArchivedAnalysis{
		ItemKind: string(dispatch.KindNews),
		ItemID:   result.NewsUUID,
		Analysis: result.Analysis,
	})

	return outcomeCommit
}

func commit(committer *kafka_client.KafkaCommitHandler, msg *kafka.Message) {
	if err := committer.Commit(msg); err != nil {
		slog.Warn("[Consumer] Failed to commit offset",
			slog.String("error", err.Error()))
	}
}

// rewind seeks the partition back to the failed message so it is the
// next delivery on that partition.
func rewind(consumer *kafka.Consumer, msg *kafka.Message) {
	if err := consumer.Seek(msg.TopicPartition, 0); err != nil {
		slog.Warn("[Consumer] Failed to rewind to failed offset",
			slog.String("error", err.Error()))
	}
}
