package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Gateway abstracts checkout-preference creation so the widget purchase
// flow does not care which provider is configured.
type Gateway interface {
	// CreatePreference registers the order with the provider and returns
	// the checkout link to hand to the visitor.
	CreatePreference(ctx context.Context, order *Order) (*Preference, error)

	// Name returns the gateway provider name
	Name() string
}

// Order is what the visitor is buying
type Order struct {
	ID            uuid.UUID   `json:"id"`
	DomainID      uuid.UUID   `json:"domain_id"`
	Reference     string      `json:"reference"`
	CustomerEmail string      `json:"customer_email"`
	Items         []OrderItem `json:"items"`
	TotalAmount   float64     `json:"total_amount"`
	Currency      string      `json:"currency"`
}

// OrderItem is a single line in an order
type OrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

// Preference is the provider's answer: where to send the visitor
type Preference struct {
	ID           string     `json:"id"`
	CheckoutURL  string     `json:"checkout_url,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
}
