package payment

import (
	"fmt"
	"log"

	"github.com/kobuai/kobu-ai-be/internal/shared/config"
)

// NewGateway creates a payment gateway based on configuration
func NewGateway(cfg *config.Config) (Gateway, error) {
	switch cfg.PaymentMode {
	case "manual":
		log.Println("💳 Using Manual Payment Gateway")
		return NewManualGateway(), nil

	case "mercadopago":
		if cfg.MercadoPagoAccessToken == "" {
			return nil, fmt.Errorf("MERCADOPAGO_ACCESS_TOKEN is required for mercadopago payment mode")
		}
		log.Println("💳 Using Mercado Pago Payment Gateway")
		return NewMercadoPagoGateway(cfg.MercadoPagoAccessToken, cfg.MercadoPagoSandbox), nil

	default:
		log.Printf("⚠️  Unknown payment mode '%s', defaulting to manual", cfg.PaymentMode)
		return NewManualGateway(), nil
	}
}
