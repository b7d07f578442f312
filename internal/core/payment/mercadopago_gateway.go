package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kobuai/kobu-ai-be/internal/shared/utils"
)

// MercadoPagoGateway creates hosted checkout preferences through the
// Mercado Pago API.
type MercadoPagoGateway struct {
	accessToken string
	sandbox     bool
	baseURL     string
	client      *http.Client
}

// NewMercadoPagoGateway creates a new Mercado Pago payment gateway
func NewMercadoPagoGateway(accessToken string, sandbox bool) *MercadoPagoGateway {
	return &MercadoPagoGateway{
		accessToken: accessToken,
		sandbox:     sandbox,
		baseURL:     "https://api.mercadopago.com",
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type preferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// CreatePreference registers a checkout preference and returns its link
func (g *MercadoPagoGateway) CreatePreference(ctx context.Context, order *Order) (*Preference, error) {
	items := make([]map[string]interface{}, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, map[string]interface{}{
			"id":          item.ProductID.String(),
			"title":       item.Title,
			"quantity":    item.Quantity,
			"unit_price":  item.UnitPrice,
			"currency_id": order.Currency,
		})
	}

	expiresAt := time.Now().Add(time.Hour)
	payload := map[string]interface{}{
		"items": items,
		"payer": map[string]interface{}{
			"email": order.CustomerEmail,
		},
		"external_reference":   order.Reference,
		"expires":              true,
		"expiration_date_to":   expiresAt.Format(time.RFC3339),
		"statement_descriptor": "KOBU AI",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal preference payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Mercado Pago: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read Mercado Pago response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mercado pago returned %d: %s", resp.StatusCode, raw)
	}

	var pref preferenceResponse
	if err := json.Unmarshal(raw, &pref); err != nil {
		return nil, fmt.Errorf("decode Mercado Pago response: %w", err)
	}

	checkoutURL := pref.InitPoint
	if g.sandbox && pref.SandboxInitPoint != "" {
		checkoutURL = pref.SandboxInitPoint
	}

	utils.LogInfo("checkout preference created", map[string]interface{}{
		"reference":  order.Reference,
		"preference": pref.ID,
	})

	return &Preference{
		ID:          pref.ID,
		CheckoutURL: checkoutURL,
		ExpiresAt:   &expiresAt,
	}, nil
}

// Name returns the gateway provider name
func (g *MercadoPagoGateway) Name() string {
	return "mercadopago"
}
