package models

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type Address struct {
	Street  string `json:"street,omitempty" dynamodbav:"street,omitempty"`
	City    string `json:"city,omitempty" dynamodbav:"city,omitempty"`
	State   string `json:"state,omitempty" dynamodbav:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty" dynamodbav:"zipCode,omitempty"`
	Country string `json:"country,omitempty" dynamodbav:"country,omitempty"`
}

func (a Address) IsZero() bool { return a == Address{} }

// OrderItem is the snapshot of one line at the time the order was placed.
type OrderItem struct {
	ProductID  string  `json:"productId" dynamodbav:"productId"`
	Name       string  `json:"name" dynamodbav:"name"`
	Price      float64 `json:"price" dynamodbav:"price"`
	Quantity   int     `json:"quantity" dynamodbav:"quantity"`
	ItemTotal  float64 `json:"itemTotal" dynamodbav:"itemTotal"`
	LocationID string  `json:"locationId,omitempty" dynamodbav:"locationId,omitempty"`
}

type Order struct {
	UserID          string      `json:"userId" dynamodbav:"userId"`
	OrderID         string      `json:"orderId" dynamodbav:"orderId"`
	OrderDate       string      `json:"orderDate" dynamodbav:"orderDate"`
	Items           []OrderItem `json:"items" dynamodbav:"items"`
	ShippingAddress Address     `json:"shippingAddress" dynamodbav:"shippingAddress"`
	BillingAddress  Address     `json:"billingAddress" dynamodbav:"billingAddress"`
	Subtotal        float64     `json:"subtotal" dynamodbav:"subtotal"`
	Tax             float64     `json:"tax" dynamodbav:"tax"`
	Shipping        float64     `json:"shipping" dynamodbav:"shipping"`
	Total           float64     `json:"total" dynamodbav:"total"`
	Status          OrderStatus `json:"status" dynamodbav:"status"`
	PaymentStatus   string      `json:"paymentStatus" dynamodbav:"paymentStatus"`
	IdempotencyKey  string      `json:"-" dynamodbav:"idempotencyKey,omitempty"`
	CreatedAt       string      `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt       string      `json:"updatedAt" dynamodbav:"updatedAt"`
}
