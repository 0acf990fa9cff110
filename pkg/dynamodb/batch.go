package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	batchSize       = 25
	batchMaxRetries = 3
)

// BatchPut writes items in chunks of 25, retrying unprocessed items.
func BatchPut(ctx context.Context, client API, table string, items []map[string]types.AttributeValue) error {
	reqs := make([]types.WriteRequest, 0, len(items))
	for _, it := range items {
		reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: it}})
	}
	return batchWrite(ctx, client, table, reqs)
}

// BatchDelete removes items by key in chunks of 25, retrying unprocessed keys.
func BatchDelete(ctx context.Context, client API, table string, keys []map[string]types.AttributeValue) error {
	reqs := make([]types.WriteRequest, 0, len(keys))
	for _, k := range keys {
		reqs = append(reqs, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: k}})
	}
	return batchWrite(ctx, client, table, reqs)
}

func batchWrite(ctx context.Context, client API, table string, reqs []types.WriteRequest) error {
	for start := 0; start < len(reqs); start += batchSize {
		end := start + batchSize
		if end > len(reqs) {
			end = len(reqs)
		}
		pending := map[string][]types.WriteRequest{table: reqs[start:end]}

		for attempt := 0; len(pending[table]) > 0; attempt++ {
			if attempt > batchMaxRetries {
				return fmt.Errorf("batch write: %d items unprocessed after %d retries", len(pending[table]), batchMaxRetries)
			}
			if attempt > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(attempt) * 300 * time.Millisecond):
				}
			}
			out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return fmt.Errorf("batch write failed: %w", err)
			}
			pending = out.UnprocessedItems
			if pending == nil {
				break
			}
		}
	}
	return nil
}
