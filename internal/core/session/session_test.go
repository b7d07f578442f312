package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kobuai/kobu-ai-be/internal/models"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
)

type stubCustomers struct {
	customers map[uuid.UUID]*models.Customer
}

func (s *stubCustomers) GetByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	c, ok := s.customers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return c, nil
}

func TestGenerateValidateRoundTrip(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)
	customerID := uuid.New()
	domainID := uuid.New()

	token, expiresAt, err := mgr.Generate(customerID, domainID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	identity, err := mgr.Validate(token)
	require.NoError(t, err)
	require.Equal(t, customerID, identity.CustomerID)
	require.Equal(t, domainID, identity.DomainID)
}

func TestValidateFailures(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)
	customerID := uuid.New()
	domainID := uuid.New()

	expired := NewManager("test-secret", -time.Hour)
	expiredToken, _, err := expired.Generate(customerID, domainID)
	require.NoError(t, err)

	otherSecret := NewManager("other-secret", time.Hour)
	misSigned, _, err := otherSecret.Generate(customerID, domainID)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "expired despite valid signature", token: expiredToken},
		{name: "wrong secret", token: misSigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := mgr.Validate(tt.token)
			require.ErrorIs(t, err, ErrInvalidSession)
			require.Nil(t, identity)
		})
	}
}

func TestExpiryWinsOverSignature(t *testing.T) {
	// Token issued at T with TTL that puts validation past expiry must be
	// invalid even though the signature checks out.
	mgr := NewManager("test-secret", time.Millisecond)
	token, _, err := mgr.Generate(uuid.New(), uuid.New())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = mgr.Validate(token)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestCustomerFromToken(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)
	customer := &models.Customer{ID: uuid.New(), DomainID: uuid.New(), Email: "visitor@example.com"}
	store := &stubCustomers{customers: map[uuid.UUID]*models.Customer{customer.ID: customer}}

	token, _, err := mgr.Generate(customer.ID, customer.DomainID)
	require.NoError(t, err)

	got, err := mgr.CustomerFromToken(context.Background(), store, token)
	require.NoError(t, err)
	require.Equal(t, customer.Email, got.Email)

	// Valid token, vanished record: lookup error passes through
	ghost, _, err := mgr.Generate(uuid.New(), customer.DomainID)
	require.NoError(t, err)
	_, err = mgr.CustomerFromToken(context.Background(), store, ghost)
	require.ErrorIs(t, err, repositories.ErrNotFound)

	// Bad token short-circuits before the lookup
	_, err = mgr.CustomerFromToken(context.Background(), store, "bogus")
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestExpiresSoon(t *testing.T) {
	mgr := NewManager("test-secret", 10*time.Minute)
	token, _, err := mgr.Generate(uuid.New(), uuid.New())
	require.NoError(t, err)

	require.False(t, mgr.ExpiresSoon(token, time.Minute))
	require.True(t, mgr.ExpiresSoon(token, time.Hour))
	require.True(t, mgr.ExpiresSoon("garbage", time.Minute))
}
