package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/cart-service/repository"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/logger"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/pricing"
)

type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartLine is a stored line with its product, or a nil product when the
// product has since been deleted.
type CartLine struct {
	models.CartItem
	Product *models.Product `json:"product"`
}

// CartView is the priced cart. Lines without a product do not count towards
// the totals, and a cart with nothing priced has zero totals.
type CartView struct {
	Items []CartLine `json:"items"`
	pricing.Totals
	ItemCount int `json:"itemCount"`
}

type CartService struct {
	repo repository.CartRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewCartService(repo repository.CartRepository, log *zap.Logger) *CartService {
	return &CartService{repo: repo, log: log, now: time.Now}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to get cart", err)
	}

	products := make(map[string]*models.Product)
	view := &CartView{Items: make([]CartLine, 0, len(items)), ItemCount: len(items)}
	priced := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		p, seen := products[item.ProductID]
		if !seen {
			p, err = s.repo.Product(ctx, item.ProductID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				p = nil
			case err != nil:
				return nil, apperrors.Internal("Failed to get cart", err)
			}
			products[item.ProductID] = p
		}
		view.Items = append(view.Items, CartLine{CartItem: item, Product: p})
		if p != nil {
			priced = append(priced, pricing.Line{UnitPrice: p.Price, Quantity: item.Quantity})
		}
	}
	// no shipping charge on an empty cart
	if len(priced) > 0 {
		view.Totals = pricing.QuoteLines(priced)
	}
	return view, nil
}

// AddItem adds quantity of a product, merging into an existing line for the
// same product. created reports whether a new line was written.
func (s *CartService) AddItem(ctx context.Context, userID string, req *AddItemRequest) (item *models.CartItem, created bool, err error) {
	if req.ProductID == "" {
		return nil, false, apperrors.InvalidInput("Product ID is required")
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	product, err := s.product(ctx, req.ProductID)
	if err != nil {
		return nil, false, err
	}
	if product.Stock < qty {
		return nil, false, apperrors.InvalidInput("Insufficient stock available")
	}

	existing, err := s.repo.FindByProduct(ctx, userID, req.ProductID)
	if err != nil {
		return nil, false, apperrors.Internal("Failed to add item to cart", err)
	}
	ts := models.Timestamp(s.now())

	if existing != nil {
		newQty := existing.Quantity + qty
		if product.Stock < newQty {
			return nil, false, apperrors.InvalidInput("Insufficient stock available")
		}
		updated, err := s.repo.UpdateQuantity(ctx, userID, existing.CartItemID, newQty, ts)
		if err != nil {
			return nil, false, apperrors.Internal("Failed to add item to cart", err)
		}
		return updated, false, nil
	}

	item = &models.CartItem{
		UserID:     userID,
		CartItemID: models.NewID("cart", s.now()),
		ProductID:  req.ProductID,
		Quantity:   qty,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	if err := s.repo.Put(ctx, item); err != nil {
		return nil, false, apperrors.Internal("Failed to add item to cart", err)
	}
	logger.For(ctx, s.log).Debug("cart line created",
		zap.String("user_id", userID), zap.String("cart_item_id", item.CartItemID))
	return item, true, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, cartItemID string, req *UpdateItemRequest) (*models.CartItem, error) {
	if req.Quantity < 1 {
		return nil, apperrors.InvalidInput("Valid quantity is required")
	}

	existing, err := s.repo.Get(ctx, userID, cartItemID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Cart item not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to update cart item", err)
	}

	product, err := s.product(ctx, existing.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Stock < req.Quantity {
		return nil, apperrors.InvalidInput("Insufficient stock available")
	}

	updated, err := s.repo.UpdateQuantity(ctx, userID, cartItemID, req.Quantity, models.Timestamp(s.now()))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Cart item not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to update cart item", err)
	}
	return updated, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, cartItemID string) error {
	if err := s.repo.Delete(ctx, userID, cartItemID); err != nil {
		return apperrors.Internal("Failed to remove cart item", err)
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return apperrors.Internal("Failed to clear cart", err)
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.CartItemID)
	}
	if err := s.repo.DeleteMany(ctx, userID, ids); err != nil {
		return apperrors.Internal("Failed to clear cart", err)
	}
	return nil
}

// RemoveOrdered drops the lines an order consumed. Lines already gone are
// ignored by the store.
func (s *CartService) RemoveOrdered(ctx context.Context, userID string, cartItemIDs []string) error {
	if userID == "" || len(cartItemIDs) == 0 {
		return nil
	}
	return s.repo.DeleteMany(ctx, userID, cartItemIDs)
}

func (s *CartService) product(ctx context.Context, productID string) (*models.Product, error) {
	p, err := s.repo.Product(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to load product", err)
	}
	return p, nil
}
