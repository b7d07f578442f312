package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kobuai/kobu-ai-be/internal/core/payment"
	"github.com/kobuai/kobu-ai-be/internal/core/session"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
	"github.com/kobuai/kobu-ai-be/internal/shared/utils"
)

// CheckoutRequest is the widget's purchase payload
type CheckoutRequest struct {
	Token     string    `json:"token" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1,lte=99"`
}

// CheckoutService glues the widget purchase flow to the configured
// payment gateway. No webhook reconciliation; the link is the product.
type CheckoutService struct {
	sessions  *session.Manager
	customers repositories.CustomerRepo
	products  repositories.ProductRepo
	gateway   payment.Gateway
}

func NewCheckoutService(
	sessions *session.Manager,
	customers repositories.CustomerRepo,
	products repositories.ProductRepo,
	gateway payment.Gateway,
) *CheckoutService {
	return &CheckoutService{
		sessions:  sessions,
		customers: customers,
		products:  products,
		gateway:   gateway,
	}
}

// Checkout builds an order for one product and asks the gateway for a
// checkout preference.
func (s *CheckoutService) Checkout(ctx context.Context, req *CheckoutRequest) (*payment.Preference, error) {
	customer, err := s.sessions.CustomerFromToken(ctx, s.customers, req.Token)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.DomainID != customer.DomainID || !product.IsActive {
		return nil, repositories.ErrNotFound
	}

	orderID := uuid.New()
	order := &payment.Order{
		ID:            orderID,
		DomainID:      product.DomainID,
		Reference:     fmt.Sprintf("KOBU-%d-%s", time.Now().Unix(), orderID.String()[:8]),
		CustomerEmail: customer.Email,
		Items: []payment.OrderItem{{
			ProductID: product.ID,
			Title:     product.Name,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
		}},
		TotalAmount: product.Price * float64(req.Quantity),
		Currency:    "USD",
	}

	preference, err := s.gateway.CreatePreference(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("create checkout preference: %w", err)
	}

	utils.LogInfo("checkout started", map[string]interface{}{
		"reference": order.Reference,
		"gateway":   s.gateway.Name(),
		"amount":    order.TotalAmount,
	})
	return preference, nil
}
