package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/newstrader/newstrader/internal/clients"
	"github.com/newstrader/newstrader/internal/models"
)

const ANALYSIS_RESULTS_TABLE_NAME = "AnalysisResults"

// Warehouse rows are for dashboards and expire after a week; the
// Postgres row stays the system of record.
const ARCHIVE_TTL = 7 * 24 * time.Hour

var dbClient *dynamodb.Client

func InitDynamoDB() {
	dbClient = clients.GetDynamoDBClient()
}

// BatchArchiveAnalyses batch-writes analysis results to the warehouse
// table, retrying unprocessed items with backoff.
func BatchArchiveAnalyses(ctx context.Context, results []models.ArchivedAnalysis) error {
	if len(results) == 0 {
		return nil
	}
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	expirationTime := time.Now().Add(ARCHIVE_TTL).Unix()

	const maxBatchSize = 25
	for i := 0; i < len(results); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:

			end := i + maxBatchSize
			if end > len(results) {
				end = len(results)
			}

			writeRequests := make([]types.WriteRequest, 0, maxBatchSize)
			for _, result := range results[i:end] {
				result.ExpiresAt = expirationTime
				item, err := attributevalue.MarshalMap(result)
				if err != nil {
					return fmt.Errorf("[DynamoDB] Failed to marshal analysis result: %w", err)
				}
				writeRequests = append(writeRequests, types.WriteRequest{
					PutRequest: &types.PutRequest{Item: item},
				})
			}

			out, err := dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					ANALYSIS_RESULTS_TABLE_NAME: writeRequests,
				},
			})
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to batch write analysis results: %w", err)
			}

			retryCount := 0
			backoffDuration := time.Millisecond * 500
			for len(out.UnprocessedItems) > 0 && retryCount < 3 {
				time.Sleep(backoffDuration)
				backoffDuration *= 2
				slog.Warn("[DynamoDB] Retrying unprocessed items...",
					slog.Int("retry_attempt", retryCount+1),
					slog.Int("remaining_items", len(out.UnprocessedItems[ANALYSIS_RESULTS_TABLE_NAME])),
				)

				out, err = dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
					RequestItems: out.UnprocessedItems,
				})
				if err != nil {
					return fmt.Errorf("[DynamoDB] Failed to retry batch write: %w", err)
				}
				retryCount++
			}

			if len(out.UnprocessedItems) > 0 {
				slog.Error("[DynamoDB] Some items were not written even after retries",
					slog.Int("remaining_items", len(out.UnprocessedItems[ANALYSIS_RESULTS_TABLE_NAME])))
			}
		}
	}

	slog.Info("[DynamoDB] Archived analysis results",
		slog.Int("count", len(results)))
	return nil
}
