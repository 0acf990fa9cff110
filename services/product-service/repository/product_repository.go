package repository

import (
	"context"
	"errors"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	ddb "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/dynamodb"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
)

// CategoryIndex is the products GSI keyed by category.
const CategoryIndex = "category-index"

var ErrNotFound = errors.New("record not found")

// ProductRepository defines the product operations used by product-service.
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, category string) ([]models.Product, error)
	Get(ctx context.Context, productID string) (*models.Product, error)
	Put(ctx context.Context, product *models.Product) error
	// Update sets the given attributes on an existing product and returns the
	// stored result. ErrNotFound when the product does not exist.
	Update(ctx context.Context, productID string, fields map[string]interface{}) (*models.Product, error)
	Delete(ctx context.Context, productID string) error
}

type DynamoProductRepository struct {
	client ddb.API
	table  string
}

func NewDynamoProductRepository(client ddb.API, table string) *DynamoProductRepository {
	return &DynamoProductRepository{client: client, table: table}
}

func (r *DynamoProductRepository) List(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: &r.table})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan products failed: %w", err)
		}
		var batch []models.Product
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal products: %w", err)
		}
		products = append(products, batch...)
	}
	return products, nil
}

// ListByCategory queries the category index, newest first.
func (r *DynamoProductRepository) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products := make([]models.Product, 0)
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              &r.table,
		IndexName:              sdkaws.String(CategoryIndex),
		KeyConditionExpression: sdkaws.String("category = :category"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":category": &types.AttributeValueMemberS{Value: category},
		},
		ScanIndexForward: sdkaws.Bool(false),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query products by category failed: %w", err)
		}
		var batch []models.Product
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal products: %w", err)
		}
		products = append(products, batch...)
	}
	return products, nil
}

func (r *DynamoProductRepository) Get(ctx context.Context, productID string) (*models.Product, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.table,
		Key:       ddb.Key("productId", productID),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var product models.Product
	if err := attributevalue.UnmarshalMap(out.Item, &product); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &product, nil
}

func (r *DynamoProductRepository) Put(ctx context.Context, product *models.Product) error {
	item, err := attributevalue.MarshalMap(product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (r *DynamoProductRepository) Update(ctx context.Context, productID string, fields map[string]interface{}) (*models.Product, error) {
	set, err := ddb.BuildSet(fields)
	if err != nil {
		return nil, err
	}
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.table,
		Key:                       ddb.Key("productId", productID),
		UpdateExpression:          sdkaws.String(set.Expression),
		ConditionExpression:       sdkaws.String("attribute_exists(productId)"),
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
	var product models.Product
	if err := attributevalue.UnmarshalMap(out.Attributes, &product); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &product, nil
}

func (r *DynamoProductRepository) Delete(ctx context.Context, productID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &r.table,
		Key:       ddb.Key("productId", productID),
	})
	if err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}
