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

// MaxTransactItems is the DynamoDB limit on actions per transaction.
const MaxTransactItems = 100

var (
	ErrNotFound    = errors.New("record not found")
	ErrOrderExists = errors.New("order already exists")
	// ErrInvalidDecrement rejects a stock decrement that is not positive.
	ErrInvalidDecrement = errors.New("stock decrement must be positive")
)

// StockConflictError reports the decrement whose condition failed.
type StockConflictError struct {
	ProductID  string
	LocationID string
}

func (e *StockConflictError) Error() string {
	if e.LocationID != "" {
		return fmt.Sprintf("insufficient stock for %s at %s", e.ProductID, e.LocationID)
	}
	return fmt.Sprintf("insufficient stock for %s", e.ProductID)
}

// Decrement removes Quantity units from a product's stock, or from its
// inventory record at LocationID when that is set.
type Decrement struct {
	ProductID  string
	LocationID string
	Quantity   int
}

// Placement is everything one order commits atomically.
type Placement struct {
	Order      *models.Order
	Decrements []Decrement
	CartItems  []models.CartItem
}

type Tables struct {
	Orders    string
	Products  string
	Cart      string
	Inventory string
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	CartItems(ctx context.Context, userID string) ([]models.CartItem, error)
	Product(ctx context.Context, productID string) (*models.Product, error)
	Inventory(ctx context.Context, productID, locationID string) (*models.InventoryRecord, error)
	// Commit writes the order, applies every decrement and deletes as many
	// cart lines as fit in one transaction. It returns the cart lines that did
	// not fit.
	Commit(ctx context.Context, p Placement) (leftover []models.CartItem, err error)
	DeleteCartItems(ctx context.Context, items []models.CartItem) error
	ListOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error)
}

// DynamoOrderRepository implements OrderRepository using DynamoDB
type DynamoOrderRepository struct {
	client ddb.API
	tables Tables
	now    func() time.Time
}

func NewDynamoOrderRepository(client ddb.API, tables Tables) *DynamoOrderRepository {
	return &DynamoOrderRepository{client: client, tables: tables, now: time.Now}
}

func (r *DynamoOrderRepository) CartItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	input := &dynamodb.QueryInput{
		TableName:              &r.tables.Cart,
		KeyConditionExpression: sdkaws.String("userId = :userId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
	}
	var items []models.CartItem
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

func (r *DynamoOrderRepository) Product(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	if err := r.get(ctx, r.tables.Products, ddb.Key("productId", productID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DynamoOrderRepository) Inventory(ctx context.Context, productID, locationID string) (*models.InventoryRecord, error) {
	var rec models.InventoryRecord
	if err := r.get(ctx, r.tables.Inventory, ddb.Key("productId", productID, "locationId", locationID), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *DynamoOrderRepository) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	var o models.Order
	if err := r.get(ctx, r.tables.Orders, ddb.Key("userId", userID, "orderId", orderID), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *DynamoOrderRepository) get(ctx context.Context, table string, key map[string]types.AttributeValue, dst interface{}) error {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &table, Key: key})
	if err != nil {
		return fmt.Errorf("dynamodb GetItem on %s failed: %w", table, err)
	}
	if len(out.Item) == 0 {
		return ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(out.Item, dst); err != nil {
		return fmt.Errorf("unmarshal item: %w", err)
	}
	return nil
}

// ListOrders returns the user's orders newest first. Order IDs embed the
// creation time, so the sort key order is chronological.
func (r *DynamoOrderRepository) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	input := &dynamodb.QueryInput{
		TableName:              &r.tables.Orders,
		KeyConditionExpression: sdkaws.String("userId = :userId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: sdkaws.Bool(false),
	}
	orders := make([]models.Order, 0)
	p := dynamodb.NewQueryPaginator(r.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query orders failed: %w", err)
		}
		var batch []models.Order
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal orders: %w", err)
		}
		orders = append(orders, batch...)
	}
	return orders, nil
}

// action records what each transaction slot was for, so a cancellation
// reason can be traced back to a product.
type action struct {
	order bool
	dec   *Decrement
}

func (r *DynamoOrderRepository) Commit(ctx context.Context, p Placement) ([]models.CartItem, error) {
	orderItem, err := attributevalue.MarshalMap(p.Order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}
	now := &types.AttributeValueMemberS{Value: models.Timestamp(r.now())}

	items := []types.TransactWriteItem{{
		Put: &types.Put{
			TableName:           &r.tables.Orders,
			Item:                orderItem,
			ConditionExpression: sdkaws.String("attribute_not_exists(orderId)"),
		},
	}}
	actions := []action{{order: true}}

	for i := range p.Decrements {
		d := &p.Decrements[i]
		if d.Quantity <= 0 {
			return nil, fmt.Errorf("decrement of %s by %d: %w", d.ProductID, d.Quantity, ErrInvalidDecrement)
		}
		qty := &types.AttributeValueMemberN{Value: fmt.Sprint(d.Quantity)}

		if d.LocationID == "" {
			items = append(items, types.TransactWriteItem{Update: &types.Update{
				TableName:           &r.tables.Products,
				Key:                 ddb.Key("productId", d.ProductID),
				UpdateExpression:    sdkaws.String("SET #stock = #stock - :q, #updatedAt = :now"),
				ConditionExpression: sdkaws.String("attribute_exists(productId) AND #stock >= :q"),
				ExpressionAttributeNames: map[string]string{
					"#stock":     "stock",
					"#updatedAt": "updatedAt",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{":q": qty, ":now": now},
			}})
		} else {
			items = append(items, types.TransactWriteItem{Update: &types.Update{
				TableName:           &r.tables.Inventory,
				Key:                 ddb.Key("productId", d.ProductID, "locationId", d.LocationID),
				UpdateExpression:    sdkaws.String("SET #qty = #qty - :q, #updatedAt = :now"),
				ConditionExpression: sdkaws.String("attribute_exists(productId) AND #qty >= :q"),
				ExpressionAttributeNames: map[string]string{
					"#qty":       "quantity",
					"#updatedAt": "updatedAt",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{":q": qty, ":now": now},
			}})
		}
		actions = append(actions, action{dec: d})
	}

	if len(items) > MaxTransactItems {
		return nil, fmt.Errorf("order needs %d writes, more than the %d a transaction allows", len(items), MaxTransactItems)
	}

	var leftover []models.CartItem
	for i, ci := range p.CartItems {
		if len(items) == MaxTransactItems {
			leftover = p.CartItems[i:]
			break
		}
		items = append(items, types.TransactWriteItem{Delete: &types.Delete{
			TableName: &r.tables.Cart,
			Key:       ddb.Key("userId", ci.UserID, "cartItemId", ci.CartItemID),
		}})
		actions = append(actions, action{})
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems:      items,
		ClientRequestToken: sdkaws.String(p.Order.OrderID),
	})
	if err != nil {
		for _, idx := range ddb.FailedConditions(err) {
			if idx >= len(actions) {
				continue
			}
			a := actions[idx]
			switch {
			case a.order:
				return nil, ErrOrderExists
			case a.dec != nil:
				return nil, &StockConflictError{ProductID: a.dec.ProductID, LocationID: a.dec.LocationID}
			}
		}
		return nil, fmt.Errorf("commit order transaction: %w", err)
	}
	return leftover, nil
}

func (r *DynamoOrderRepository) DeleteCartItems(ctx context.Context, items []models.CartItem) error {
	if len(items) == 0 {
		return nil
	}
	keys := make([]map[string]types.AttributeValue, 0, len(items))
	for _, ci := range items {
		keys = append(keys, ddb.Key("userId", ci.UserID, "cartItemId", ci.CartItemID))
	}
	return ddb.BatchDelete(ctx, r.client, r.tables.Cart, keys)
}
