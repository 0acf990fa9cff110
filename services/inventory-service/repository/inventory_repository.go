package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	ddb "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/dynamodb"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
)

// LocationIndex is the inventory GSI keyed by locationId.
const LocationIndex = "location-index"

var (
	ErrNotFound = errors.New("inventory record not found")
	// ErrQuantityChanged means another writer changed the record since it was read.
	ErrQuantityChanged = errors.New("inventory quantity changed concurrently")
)

// InventoryRepository stores one record per (productId, locationId).
type InventoryRepository interface {
	List(ctx context.Context) ([]models.InventoryRecord, error)
	ListByLocation(ctx context.Context, locationID string) ([]models.InventoryRecord, error)
	ListForProduct(ctx context.Context, productID string) ([]models.InventoryRecord, error)
	Get(ctx context.Context, productID, locationID string) (*models.InventoryRecord, error)
	// Save writes rec if the stored quantity still equals prevQty, or if no
	// record exists when prevQty is nil.
	Save(ctx context.Context, rec *models.InventoryRecord, prevQty *int) error
	Product(ctx context.Context, productID string) (*models.Product, error)
}

type Tables struct {
	Inventory string
	Products  string
}

// DynamoInventoryRepository implements InventoryRepository using DynamoDB
type DynamoInventoryRepository struct {
	client ddb.API
	tables Tables
}

func NewDynamoInventoryRepository(client ddb.API, tables Tables) *DynamoInventoryRepository {
	return &DynamoInventoryRepository{client: client, tables: tables}
}

func (r *DynamoInventoryRepository) List(ctx context.Context) ([]models.InventoryRecord, error) {
	records := make([]models.InventoryRecord, 0)
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: &r.tables.Inventory})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan inventory failed: %w", err)
		}
		var batch []models.InventoryRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal inventory: %w", err)
		}
		records = append(records, batch...)
	}
	return records, nil
}

func (r *DynamoInventoryRepository) ListByLocation(ctx context.Context, locationID string) ([]models.InventoryRecord, error) {
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:              &r.tables.Inventory,
		IndexName:              sdkaws.String(LocationIndex),
		KeyConditionExpression: sdkaws.String("locationId = :locationId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":locationId": &types.AttributeValueMemberS{Value: locationID},
		},
	})
}

func (r *DynamoInventoryRepository) ListForProduct(ctx context.Context, productID string) ([]models.InventoryRecord, error) {
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:              &r.tables.Inventory,
		KeyConditionExpression: sdkaws.String("productId = :productId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":productId": &types.AttributeValueMemberS{Value: productID},
		},
	})
}

func (r *DynamoInventoryRepository) query(ctx context.Context, input *dynamodb.QueryInput) ([]models.InventoryRecord, error) {
	records := make([]models.InventoryRecord, 0)
	p := dynamodb.NewQueryPaginator(r.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query inventory failed: %w", err)
		}
		var batch []models.InventoryRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal inventory: %w", err)
		}
		records = append(records, batch...)
	}
	return records, nil
}

func (r *DynamoInventoryRepository) Get(ctx context.Context, productID, locationID string) (*models.InventoryRecord, error) {
	var rec models.InventoryRecord
	if err := r.get(ctx, r.tables.Inventory, ddb.Key("productId", productID, "locationId", locationID), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *DynamoInventoryRepository) Product(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	if err := r.get(ctx, r.tables.Products, ddb.Key("productId", productID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DynamoInventoryRepository) get(ctx context.Context, table string, key map[string]types.AttributeValue, out interface{}) error {
	res, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &table, Key: key})
	if err != nil {
		return fmt.Errorf("dynamodb GetItem on %s failed: %w", table, err)
	}
	if len(res.Item) == 0 {
		return ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return fmt.Errorf("unmarshal %s item: %w", table, err)
	}
	return nil
}

func (r *DynamoInventoryRepository) Save(ctx context.Context, rec *models.InventoryRecord, prevQty *int) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	input := &dynamodb.PutItemInput{TableName: &r.tables.Inventory, Item: item}
	if prevQty == nil {
		input.ConditionExpression = sdkaws.String("attribute_not_exists(productId)")
	} else {
		input.ConditionExpression = sdkaws.String("#quantity = :prev")
		input.ExpressionAttributeNames = map[string]string{"#quantity": "quantity"}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":prev": &types.AttributeValueMemberN{Value: strconv.Itoa(*prevQty)},
		}
	}

	_, err = r.client.PutItem(ctx, input)
	if ddb.IsConditionFailed(err) {
		return ErrQuantityChanged
	}
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}
