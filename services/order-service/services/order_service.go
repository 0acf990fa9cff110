package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/idempotency"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/logger"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/pricing"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/telemetry"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/order-service/repository"
)

const EventOrderCreated = "order.created"

// MaxOrderQuantity caps the units of one product a single order may take,
// summed across its lines.
const MaxOrderQuantity = 100000

type OrderItemRequest struct {
	ProductID  string `json:"productId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"min=1,max=100000"`
	LocationID string `json:"locationId,omitempty"`
}

// PlaceOrderRequest places the listed items, or the caller's cart when Items
// is empty.
type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"omitempty,dive"`
	ShippingAddress models.Address     `json:"shippingAddress"`
	BillingAddress  *models.Address    `json:"billingAddress,omitempty"`
}

// OrderCreatedEvent is published after an order commits.
type OrderCreatedEvent struct {
	Type      string             `json:"type"`
	OrderID   string             `json:"orderId"`
	UserID    string             `json:"userId"`
	Items     []models.OrderItem `json:"items"`
	Total     float64            `json:"total"`
	CreatedAt string             `json:"createdAt"`
	// CartItemIDs lists the cart lines the order consumed, so the cart
	// service can drop any the commit left behind.
	CartItemIDs []string `json:"cartItemIds,omitempty"`
}

// EventProducer is satisfied by the kafka producer.
type EventProducer interface {
	Publish(ctx context.Context, key string, v interface{}) error
}

type OrderService struct {
	repo        repository.OrderRepository
	idem        idempotency.Store
	producer    EventProducer
	snsClient   awspkg.SNSPublisher
	snsTopicArn string
	metrics     awspkg.MetricsRecorder
	log         *zap.Logger
	now         func() time.Time
}

type Option func(*OrderService)

func WithIdempotency(store idempotency.Store) Option {
	return func(s *OrderService) { s.idem = store }
}

func WithProducer(p EventProducer) Option {
	return func(s *OrderService) { s.producer = p }
}

func WithSNS(client awspkg.SNSPublisher, topicArn string) Option {
	return func(s *OrderService) {
		s.snsClient = client
		s.snsTopicArn = topicArn
	}
}

func WithMetrics(m awspkg.MetricsRecorder) Option {
	return func(s *OrderService) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *OrderService) { s.now = now }
}

func NewOrderService(repo repository.OrderRepository, log *zap.Logger, opts ...Option) *OrderService {
	s := &OrderService{
		repo: repo,
		idem: idempotency.Nop{},
		log:  log,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// line is one requested product at one (optional) location.
type line struct {
	productID  string
	locationID string
	quantity   int
}

// PlaceOrder validates the items against current stock, prices them and
// commits the order, the stock decrements and the cart clear in one
// transaction. created is false when idemKey replays an earlier order.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, idemKey string, req *PlaceOrderRequest) (order *models.Order, created bool, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "order.place")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	log := logger.For(ctx, s.log).With(zap.String("user_id", userID))

	if idemKey != "" {
		existingID, reserved, rerr := s.idem.Reserve(ctx, userID, idemKey)
		switch {
		case errors.Is(rerr, idempotency.ErrInProgress):
			return nil, false, apperrors.Conflict("an order with this idempotency key is already being placed")
		case rerr != nil:
			log.Warn("idempotency store unavailable, placing without it", zap.Error(rerr))
			idemKey = ""
		case !reserved:
			existing, gerr := s.repo.GetOrder(ctx, userID, existingID)
			if gerr != nil {
				return nil, false, apperrors.Internal("Failed to load order", gerr)
			}
			log.Info("idempotent replay", zap.String("order_id", existingID))
			return existing, false, nil
		}
	}

	order, cartIDs, err := s.place(ctx, userID, idemKey, req)
	if idemKey != "" {
		if err != nil {
			s.idem.Release(ctx, userID, idemKey)
		} else if cerr := s.idem.Complete(ctx, userID, idemKey, order.OrderID); cerr != nil {
			log.Warn("failed to record idempotency result", zap.Error(cerr))
		}
	}
	if err != nil {
		s.count(ctx, awspkg.MetricOrdersRejected, apperrors.KindOf(err).String())
		return nil, false, err
	}

	span.SetAttributes(
		attribute.String("order.id", order.OrderID),
		attribute.Int("order.items", len(order.Items)),
	)
	s.count(ctx, awspkg.MetricOrdersPlaced, "")
	log.Info("order placed", zap.String("order_id", order.OrderID), zap.Float64("total", order.Total))

	s.publishCreated(ctx, order, cartIDs)
	return order, true, nil
}

// place returns the committed order and the IDs of the cart lines it consumed.
func (s *OrderService) place(ctx context.Context, userID, idemKey string, req *PlaceOrderRequest) (*models.Order, []string, error) {
	var (
		lines []line
		cart  []models.CartItem
	)
	if len(req.Items) > 0 {
		for _, it := range req.Items {
			lines = append(lines, line{productID: it.ProductID, locationID: it.LocationID, quantity: it.Quantity})
		}
	} else {
		var err error
		cart, err = s.repo.CartItems(ctx, userID)
		if err != nil {
			return nil, nil, apperrors.Internal("Failed to read cart", err)
		}
		for _, ci := range cart {
			lines = append(lines, line{productID: ci.ProductID, quantity: ci.Quantity})
		}
	}
	if len(lines) == 0 {
		return nil, nil, apperrors.InvalidInput("empty order")
	}

	products, err := s.checkStock(ctx, lines)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	ts := models.Timestamp(now)
	items := make([]models.OrderItem, 0, len(lines))
	priced := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		p := products[l.productID]
		items = append(items, models.OrderItem{
			ProductID:  l.productID,
			Name:       p.Name,
			Price:      p.Price,
			Quantity:   l.quantity,
			ItemTotal:  pricing.LineTotal(p.Price, l.quantity),
			LocationID: l.locationID,
		})
		priced = append(priced, pricing.Line{UnitPrice: p.Price, Quantity: l.quantity})
	}
	totals := pricing.QuoteLines(priced)

	billing := req.ShippingAddress
	if req.BillingAddress != nil && !req.BillingAddress.IsZero() {
		billing = *req.BillingAddress
	}
	order := &models.Order{
		UserID:          userID,
		OrderID:         models.NewID("order", now),
		OrderDate:       ts,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Shipping:        totals.Shipping,
		Total:           totals.Total,
		Status:          models.OrderPending,
		PaymentStatus:   "pending",
		IdempotencyKey:  idemKey,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}

	leftover, err := s.repo.Commit(ctx, repository.Placement{
		Order:      order,
		Decrements: decrements(lines),
		CartItems:  cart,
	})
	if err != nil {
		var conflict *repository.StockConflictError
		if errors.As(err, &conflict) {
			s.count(ctx, awspkg.MetricStockConflicts, "")
			return nil, nil, apperrors.Conflict("insufficient stock for %s", conflict.ProductID)
		}
		return nil, nil, apperrors.Internal("Failed to place order", err)
	}

	if len(leftover) > 0 {
		if err := s.repo.DeleteCartItems(ctx, leftover); err != nil {
			logger.For(ctx, s.log).Warn("failed to clear remaining cart items",
				zap.String("order_id", order.OrderID), zap.Int("count", len(leftover)), zap.Error(err))
		}
	}
	cartIDs := make([]string, 0, len(cart))
	for _, ci := range cart {
		cartIDs = append(cartIDs, ci.CartItemID)
	}
	return order, cartIDs, nil
}

// checkStock loads every product once and compares the summed request
// against product stock and, for located lines, the location's inventory.
func (s *OrderService) checkStock(ctx context.Context, lines []line) (map[string]*models.Product, error) {
	perProduct := make(map[string]int)
	perLocation := make(map[[2]string]int)
	for _, l := range lines {
		if l.quantity < 1 || l.quantity > MaxOrderQuantity-perProduct[l.productID] {
			return nil, apperrors.InvalidInput("quantity for %s must be between 1 and %d", l.productID, MaxOrderQuantity)
		}
		perProduct[l.productID] += l.quantity
		if l.locationID != "" {
			perLocation[[2]string{l.productID, l.locationID}] += l.quantity
		}
	}

	products := make(map[string]*models.Product, len(perProduct))
	for _, l := range lines {
		if _, seen := products[l.productID]; seen {
			continue
		}
		p, err := s.repo.Product(ctx, l.productID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("product %s not found", l.productID)
		}
		if err != nil {
			return nil, apperrors.Internal("Failed to load product", err)
		}
		if want := perProduct[l.productID]; p.Stock < want {
			return nil, apperrors.Conflict("insufficient stock for %s (available %d, requested %d)", l.productID, p.Stock, want)
		}
		products[l.productID] = p
	}

	for _, l := range lines {
		key := [2]string{l.productID, l.locationID}
		want, ok := perLocation[key]
		if !ok {
			continue
		}
		delete(perLocation, key)
		rec, err := s.repo.Inventory(ctx, l.productID, l.locationID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("inventory for product %s at %s not found", l.productID, l.locationID)
		}
		if err != nil {
			return nil, apperrors.Internal("Failed to load inventory", err)
		}
		if rec.Quantity < want {
			return nil, apperrors.Conflict("insufficient stock for %s at %s (available %d, requested %d)", l.productID, l.locationID, rec.Quantity, want)
		}
	}
	return products, nil
}

// decrements emits one product decrement per product and one inventory
// decrement per (product, location). A transaction may touch each item only
// once, so repeated lines are summed.
func decrements(lines []line) []repository.Decrement {
	var out []repository.Decrement
	index := make(map[[2]string]int)
	add := func(productID, locationID string, qty int) {
		key := [2]string{productID, locationID}
		if i, ok := index[key]; ok {
			out[i].Quantity += qty
			return
		}
		index[key] = len(out)
		out = append(out, repository.Decrement{ProductID: productID, LocationID: locationID, Quantity: qty})
	}
	for _, l := range lines {
		add(l.productID, "", l.quantity)
		if l.locationID != "" {
			add(l.productID, l.locationID, l.quantity)
		}
	}
	return out
}

// ListOrders returns the caller's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.repo.ListOrders(ctx, userID)
	if err != nil {
		logger.For(ctx, s.log).Error("failed to list orders", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.repo.GetOrder(ctx, userID, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Order not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch order", err)
	}
	return order, nil
}

// publishCreated is best-effort; the order is already committed.
func (s *OrderService) publishCreated(ctx context.Context, order *models.Order, cartIDs []string) {
	evt := OrderCreatedEvent{
		Type:        EventOrderCreated,
		OrderID:     order.OrderID,
		UserID:      order.UserID,
		Items:       order.Items,
		Total:       order.Total,
		CreatedAt:   order.CreatedAt,
		CartItemIDs: cartIDs,
	}
	log := logger.For(ctx, s.log).With(zap.String("order_id", order.OrderID))

	if s.producer != nil {
		if err := s.producer.Publish(ctx, order.OrderID, evt); err != nil {
			log.Warn("kafka publish failed", zap.Error(err))
		}
	}
	if s.snsClient != nil && s.snsTopicArn != "" {
		body, err := json.Marshal(evt)
		if err != nil {
			log.Warn("marshal order event failed", zap.Error(err))
			return
		}
		if err := s.snsClient.Publish(ctx, s.snsTopicArn, body); err != nil {
			log.Warn("SNS publish failed", zap.Error(err))
			s.count(ctx, awspkg.MetricNotificationsFailed, "")
		}
	}
}

func (s *OrderService) count(ctx context.Context, metric, reason string) {
	if s.metrics == nil {
		return
	}
	var dims map[string]string
	if reason != "" {
		dims = map[string]string{"Reason": reason}
	}
	if err := s.metrics.RecordCount(ctx, metric, dims); err != nil {
		s.log.Debug("metric not recorded", zap.String("metric", metric), zap.Error(err))
	}
}
