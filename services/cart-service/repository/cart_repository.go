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

var ErrNotFound = errors.New("record not found")

// CartRepository stores one item per (userId, cartItemId).
type CartRepository interface {
	List(ctx context.Context, userID string) ([]models.CartItem, error)
	// FindByProduct returns the user's line for productID, or nil.
	FindByProduct(ctx context.Context, userID, productID string) (*models.CartItem, error)
	Get(ctx context.Context, userID, cartItemID string) (*models.CartItem, error)
	Put(ctx context.Context, item *models.CartItem) error
	// UpdateQuantity returns ErrNotFound when the line does not exist.
	UpdateQuantity(ctx context.Context, userID, cartItemID string, quantity int, updatedAt string) (*models.CartItem, error)
	Delete(ctx context.Context, userID, cartItemID string) error
	DeleteMany(ctx context.Context, userID string, cartItemIDs []string) error
	Product(ctx context.Context, productID string) (*models.Product, error)
}

type Tables struct {
	Cart     string
	Products string
}

type DynamoCartRepository struct {
	client ddb.API
	tables Tables
}

func NewDynamoCartRepository(client ddb.API, tables Tables) *DynamoCartRepository {
	return &DynamoCartRepository{client: client, tables: tables}
}

func (r *DynamoCartRepository) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:              &r.tables.Cart,
		KeyConditionExpression: sdkaws.String("userId = :userId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
}

func (r *DynamoCartRepository) FindByProduct(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	items, err := r.query(ctx, &dynamodb.QueryInput{
		TableName:              &r.tables.Cart,
		KeyConditionExpression: sdkaws.String("userId = :userId"),
		FilterExpression:       sdkaws.String("productId = :productId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId":    &types.AttributeValueMemberS{Value: userID},
			":productId": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (r *DynamoCartRepository) query(ctx context.Context, input *dynamodb.QueryInput) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	p := dynamodb.NewQueryPaginator(r.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query cart failed: %w", err)
		}
		var batch []models.CartItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal cart items: %w", err)
		}
		items = append(items, batch...)
	}
	return items, nil
}

func (r *DynamoCartRepository) Get(ctx context.Context, userID, cartItemID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.get(ctx, r.tables.Cart, ddb.Key("userId", userID, "cartItemId", cartItemID), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *DynamoCartRepository) Product(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	if err := r.get(ctx, r.tables.Products, ddb.Key("productId", productID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DynamoCartRepository) get(ctx context.Context, table string, key map[string]types.AttributeValue, out interface{}) error {
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

func (r *DynamoCartRepository) Put(ctx context.Context, item *models.CartItem) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal cart item: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.tables.Cart, Item: av}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (r *DynamoCartRepository) UpdateQuantity(ctx context.Context, userID, cartItemID string, quantity int, updatedAt string) (*models.CartItem, error) {
	set, err := ddb.BuildSet(map[string]interface{}{
		"quantity":  quantity,
		"updatedAt": updatedAt,
	})
	if err != nil {
		return nil, err
	}
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.tables.Cart,
		Key:                       ddb.Key("userId", userID, "cartItemId", cartItemID),
		UpdateExpression:          sdkaws.String(set.Expression),
		ConditionExpression:       sdkaws.String("attribute_exists(cartItemId)"),
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
	var item models.CartItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, fmt.Errorf("unmarshal cart item: %w", err)
	}
	return &item, nil
}

func (r *DynamoCartRepository) Delete(ctx context.Context, userID, cartItemID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &r.tables.Cart,
		Key:       ddb.Key("userId", userID, "cartItemId", cartItemID),
	})
	if err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}

// DeleteMany batch-deletes lines in chunks of 25.
func (r *DynamoCartRepository) DeleteMany(ctx context.Context, userID string, cartItemIDs []string) error {
	if len(cartItemIDs) == 0 {
		return nil
	}
	keys := make([]map[string]types.AttributeValue, 0, len(cartItemIDs))
	for _, id := range cartItemIDs {
		keys = append(keys, ddb.Key("userId", userID, "cartItemId", id))
	}
	if err := ddb.BatchDelete(ctx, r.client, r.tables.Cart, keys); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
