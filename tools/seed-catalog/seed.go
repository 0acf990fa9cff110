package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	ddb "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/dynamodb"
)

type Tables struct {
	Categories string
	Products   string
	Inventory  string
}

// Write batch-puts the catalog, categories first. Existing items with the
// same keys are replaced.
func Write(ctx context.Context, client ddb.API, tables Tables, cat Catalog) error {
	if err := put(ctx, client, tables.Categories, cat.Categories); err != nil {
		return err
	}
	if err := put(ctx, client, tables.Products, cat.Products); err != nil {
		return err
	}
	return put(ctx, client, tables.Inventory, cat.Inventory)
}

func put[T any](ctx context.Context, client ddb.API, table string, records []T) error {
	if len(records) == 0 {
		return nil
	}
	items := make([]map[string]types.AttributeValue, 0, len(records))
	for _, r := range records {
		item, err := attributevalue.MarshalMap(r)
		if err != nil {
			return fmt.Errorf("marshal %s item: %w", table, err)
		}
		items = append(items, item)
	}
	if err := ddb.BatchPut(ctx, client, table, items); err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}
	return nil
}
