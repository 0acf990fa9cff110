package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	ddb "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/dynamodb"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/config"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/order-service/repository"
)

// These tests run only when RUN_LOCALSTACK_INTEGRATION=true and the service
// tables exist at AWS_ENDPOINT_URL.
func skipUnlessLocalStack(t *testing.T) {
	if os.Getenv("RUN_LOCALSTACK_INTEGRATION") != "true" {
		t.Skip("skipping localstack integration test; set RUN_LOCALSTACK_INTEGRATION=true to run")
	}
}

func TestCommitDecrementsStock_LocalStack(t *testing.T) {
	skipUnlessLocalStack(t)
	ctx := context.Background()

	client, err := ddb.NewClient(ctx)
	require.NoError(t, err)
	tables := repository.Tables{
		Orders:    config.GetEnv("ORDERS_TABLE", "Orders"),
		Products:  config.GetEnv("PRODUCTS_TABLE", "Products"),
		Cart:      config.GetEnv("CART_TABLE", "Cart"),
		Inventory: config.GetEnv("INVENTORY_TABLE", "Inventory"),
	}

	productID := fmt.Sprintf("it-product-%d", time.Now().UnixNano())
	item, err := attributevalue.MarshalMap(models.Product{ProductID: productID, Name: "Brake pad", Price: 25, Stock: 3})
	require.NoError(t, err)
	_, err = client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &tables.Products, Item: item})
	require.NoError(t, err)

	repo := repository.NewDynamoOrderRepository(client, tables)
	order := &models.Order{UserID: "it-user", OrderID: models.NewID("order", time.Now()), Status: models.OrderPending}

	_, err = repo.Commit(ctx, repository.Placement{
		Order:      order,
		Decrements: []repository.Decrement{{ProductID: productID, Quantity: 2}},
	})
	require.NoError(t, err)

	p, err := repo.Product(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)

	_, err = repo.Commit(ctx, repository.Placement{
		Order:      &models.Order{UserID: "it-user", OrderID: models.NewID("order", time.Now())},
		Decrements: []repository.Decrement{{ProductID: productID, Quantity: 2}},
	})
	var conflict *repository.StockConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestSNSPublish_LocalStack(t *testing.T) {
	skipUnlessLocalStack(t)

	cfg, err := awspkg.LoadAWSConfig(context.Background())
	require.NoError(t, err)
	topic := os.Getenv("ORDER_SNS_TOPIC_ARN")
	if topic == "" {
		t.Fatalf("ORDER_SNS_TOPIC_ARN must be set for integration test")
	}
	require.NoError(t, awspkg.NewSNSClient(cfg).Publish(context.Background(), topic, []byte(`{"type":"order.created"}`)))
}
