package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	ddb "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/dynamodb"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
)

const (
	VehicleModelIndex = "VehicleModelIndex"
	stockQueryLimit   = 100
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict means the stock record changed since it was read.
	ErrVersionConflict = errors.New("stock record was modified concurrently")
)

// PartsRepository reads and writes parts keyed by (userId, partId).
type PartsRepository interface {
	List(ctx context.Context, userID string) ([]models.Part, error)
	ListByVehicleModel(ctx context.Context, userID, vehicleModel string) ([]models.Part, error)
	// ScanAll returns every part, or only userID's when it is non-empty.
	ScanAll(ctx context.Context, userID string) ([]models.Part, error)
	Get(ctx context.Context, userID, partID string) (*models.Part, error)
	Put(ctx context.Context, part *models.Part) error
	Delete(ctx context.Context, userID, partID string) error
	SetCurrentStock(ctx context.Context, userID, partID string, quantity int, now time.Time) (*models.Part, error)
}

// StockRepository keeps per-vehicle-model stock records keyed by
// (partId, vehicleModel).
type StockRepository interface {
	ListForPart(ctx context.Context, partID string) ([]models.StockRecord, error)
	Get(ctx context.Context, partID, vehicleModel string) (*models.StockRecord, error)
	// Save writes rec if the stored version still equals expectedVersion;
	// expectedVersion 0 means the record must not exist yet.
	Save(ctx context.Context, rec *models.StockRecord, expectedVersion int) error
}

type DynamoPartsRepository struct {
	client ddb.API
	table  string
}

func NewDynamoPartsRepository(client ddb.API, table string) *DynamoPartsRepository {
	return &DynamoPartsRepository{client: client, table: table}
}

func (r *DynamoPartsRepository) List(ctx context.Context, userID string) ([]models.Part, error) {
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:              &r.table,
		KeyConditionExpression: sdkaws.String("userId = :userId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
}

// ListByVehicleModel queries the vehicle model index. The index spans all
// users, so results are filtered to the caller.
func (r *DynamoPartsRepository) ListByVehicleModel(ctx context.Context, userID, vehicleModel string) ([]models.Part, error) {
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:              &r.table,
		IndexName:              sdkaws.String(VehicleModelIndex),
		KeyConditionExpression: sdkaws.String("vehicleModel = :model"),
		FilterExpression:       sdkaws.String("userId = :userId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":model":  &types.AttributeValueMemberS{Value: vehicleModel},
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
}

func (r *DynamoPartsRepository) query(ctx context.Context, input *dynamodb.QueryInput) ([]models.Part, error) {
	parts := make([]models.Part, 0)
	p := dynamodb.NewQueryPaginator(r.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query parts failed: %w", err)
		}
		var batch []models.Part
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal parts: %w", err)
		}
		parts = append(parts, batch...)
	}
	return parts, nil
}

func (r *DynamoPartsRepository) ScanAll(ctx context.Context, userID string) ([]models.Part, error) {
	input := &dynamodb.ScanInput{TableName: &r.table}
	if userID != "" {
		input.FilterExpression = sdkaws.String("userId = :userId")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		}
	}

	parts := make([]models.Part, 0)
	p := dynamodb.NewScanPaginator(r.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan parts failed: %w", err)
		}
		var batch []models.Part
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal parts: %w", err)
		}
		parts = append(parts, batch...)
	}
	return parts, nil
}

func (r *DynamoPartsRepository) Get(ctx context.Context, userID, partID string) (*models.Part, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.table,
		Key:       ddb.Key("userId", userID, "partId", partID),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var part models.Part
	if err := attributevalue.UnmarshalMap(out.Item, &part); err != nil {
		return nil, fmt.Errorf("unmarshal part: %w", err)
	}
	return &part, nil
}

func (r *DynamoPartsRepository) Put(ctx context.Context, part *models.Part) error {
	item, err := attributevalue.MarshalMap(part)
	if err != nil {
		return fmt.Errorf("marshal part: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (r *DynamoPartsRepository) Delete(ctx context.Context, userID, partID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &r.table,
		Key:       ddb.Key("userId", userID, "partId", partID),
	})
	if err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}

// SetCurrentStock mirrors a stock adjustment onto the part and returns the
// updated part.
func (r *DynamoPartsRepository) SetCurrentStock(ctx context.Context, userID, partID string, quantity int, now time.Time) (*models.Part, error) {
	set, err := ddb.BuildSet(map[string]interface{}{
		"currentStock": quantity,
		"updatedAt":    models.Timestamp(now),
	})
	if err != nil {
		return nil, err
	}
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.table,
		Key:                       ddb.Key("userId", userID, "partId", partID),
		UpdateExpression:          sdkaws.String(set.Expression),
		ConditionExpression:       sdkaws.String("attribute_exists(partId)"),
		ExpressionAttributeNames:  set.Names,
		ExpressionAttributeValues: set.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if ddb.IsConditionFailed(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("dynamodb UpdateItem failed: %w", err)
	}
	var part models.Part
	if err := attributevalue.UnmarshalMap(out.Attributes, &part); err != nil {
		return nil, fmt.Errorf("unmarshal part: %w", err)
	}
	return &part, nil
}

type DynamoStockRepository struct {
	client ddb.API
	table  string
}

func NewDynamoStockRepository(client ddb.API, table string) *DynamoStockRepository {
	return &DynamoStockRepository{client: client, table: table}
}

func (r *DynamoStockRepository) ListForPart(ctx context.Context, partID string) ([]models.StockRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &r.table,
		KeyConditionExpression: sdkaws.String("partId = :partId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":partId": &types.AttributeValueMemberS{Value: partID},
		},
		Limit: sdkaws.Int32(stockQueryLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("query stock failed: %w", err)
	}
	records := make([]models.StockRecord, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, fmt.Errorf("unmarshal stock: %w", err)
	}
	return records, nil
}

func (r *DynamoStockRepository) Get(ctx context.Context, partID, vehicleModel string) (*models.StockRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            ddb.Key("partId", partID, "vehicleModel", vehicleModel),
		ConsistentRead: sdkaws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var rec models.StockRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal stock record: %w", err)
	}
	return &rec, nil
}

func (r *DynamoStockRepository) Save(ctx context.Context, rec *models.StockRecord, expectedVersion int) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal stock record: %w", err)
	}
	input := &dynamodb.PutItemInput{TableName: &r.table, Item: item}
	if expectedVersion == 0 {
		input.ConditionExpression = sdkaws.String("attribute_not_exists(partId)")
	} else {
		input.ConditionExpression = sdkaws.String("#version = :expected")
		input.ExpressionAttributeNames = map[string]string{"#version": "version"}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: fmt.Sprint(expectedVersion)},
		}
	}

	_, err = r.client.PutItem(ctx, input)
	if ddb.IsConditionFailed(err) {
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}
