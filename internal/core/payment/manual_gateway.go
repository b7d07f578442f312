package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ManualGateway is the no-provider fallback: the visitor gets payment
// instructions and the owner settles it out of band.
type ManualGateway struct{}

// NewManualGateway creates a new manual payment gateway
func NewManualGateway() *ManualGateway {
	return &ManualGateway{}
}

// CreatePreference returns instructions instead of a checkout link
func (g *ManualGateway) CreatePreference(_ context.Context, order *Order) (*Preference, error) {
	var sb strings.Builder
	sb.WriteString("Thanks for your order!\n\n")
	for _, item := range order.Items {
		sb.WriteString(fmt.Sprintf("- %dx %s ($%.2f each)\n", item.Quantity, item.Title, item.UnitPrice))
	}
	sb.WriteString(fmt.Sprintf("\nTotal: $%.2f\n", order.TotalAmount))
	sb.WriteString(fmt.Sprintf("Order reference: %s\n", order.Reference))
	sb.WriteString("\nA member of the team will reach out with payment details shortly.")

	return &Preference{
		ID:           uuid.New().String(),
		Instructions: sb.String(),
	}, nil
}

// Name returns the gateway provider name
func (g *ManualGateway) Name() string {
	return "manual"
}
