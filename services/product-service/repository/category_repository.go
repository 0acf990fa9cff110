package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	ddb "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/dynamodb"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, categoryID string) (*models.Category, error)
	Put(ctx context.Context, category *models.Category) error
}

type DynamoCategoryRepository struct {
	client ddb.API
	table  string
}

func NewDynamoCategoryRepository(client ddb.API, table string) *DynamoCategoryRepository {
	return &DynamoCategoryRepository{client: client, table: table}
}

func (r *DynamoCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: &r.table})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan categories failed: %w", err)
		}
		var batch []models.Category
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal categories: %w", err)
		}
		categories = append(categories, batch...)
	}
	return categories, nil
}

func (r *DynamoCategoryRepository) Get(ctx context.Context, categoryID string) (*models.Category, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.table,
		Key:       ddb.Key("categoryId", categoryID),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var category models.Category
	if err := attributevalue.UnmarshalMap(out.Item, &category); err != nil {
		return nil, fmt.Errorf("unmarshal category: %w", err)
	}
	return &category, nil
}

func (r *DynamoCategoryRepository) Put(ctx context.Context, category *models.Category) error {
	item, err := attributevalue.MarshalMap(category)
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}
