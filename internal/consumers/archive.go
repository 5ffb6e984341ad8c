package consumers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/newstrader/newstrader/internal/db"
	"github.com/newstrader/newstrader/internal/models"
	"github.com/newstrader/newstrader/internal/utils"
)

var archiveBuffer = utils.NewBatchBuffer[models.ArchivedAnalysis]()

func archiveEnabled() bool {
	return os.Getenv("ARCHIVE_RESULTS") == "true"
}

func bufferForArchive(ctx context.Context, record models.ArchivedAnalysis) {
	if !archiveEnabled() {
		return
	}

	record.AnalyzedAt = time.Now().UTC()
	archiveBuffer.Add(record)

	if archiveBuffer.Size() >= utils.ARCHIVE_BATCH_SIZE {
		flushArchive(ctx)
	}
}

func flushArchive(ctx context.Context) {
	batch := archiveBuffer.GetAndClear()
	if len(batch) == 0 {
		return
	}

	for i := 0; i < 3; i++ {
		err := db.BatchArchiveAnalyses(ctx, batch)
		if err == nil {
			return
		}
		slog.Error("[Archive] Failed to write analysis results to warehouse",
			slog.String("error", err.Error()),
			slog.Int("attempt", i+1))
		time.Sleep(2 * time.Second)
	}
}
