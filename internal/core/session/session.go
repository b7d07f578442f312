package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kobuai/kobu-ai-be/internal/models"
)

// ErrInvalidSession covers every expected invalidity: malformed token,
// bad signature, wrong algorithm, expired. Callers treat it as "visitor
// is anonymous", never as a fatal error.
var ErrInvalidSession = errors.New("invalid or expired session")

// Identity is what a valid visitor token resolves to
type Identity struct {
	CustomerID uuid.UUID
	DomainID   uuid.UUID
}

// CustomerLookup is the slice of the customer store the manager needs
type CustomerLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

// Manager issues and validates visitor session tokens. Tokens are HS256
// JWTs binding a customer to a domain with a fixed expiry window; no
// state is kept server-side, so expiry is purely time-based.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate produces a signed token for the customer and its expiry instant
func (m *Manager) Generate(customerID, domainID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)

	claims := jwt.MapClaims{
		"sub":       customerID.String(),
		"domain_id": domainID.String(),
		"exp":       expiresAt.Unix(),
		"iat":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate checks the token and returns the bound identity.
// All failure modes collapse to ErrInvalidSession.
func (m *Manager) Validate(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}

	sub, _ := claims["sub"].(string)
	domainStr, _ := claims["domain_id"].(string)

	customerID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidSession
	}
	domainID, err := uuid.Parse(domainStr)
	if err != nil {
		return nil, ErrInvalidSession
	}

	return &Identity{CustomerID: customerID, DomainID: domainID}, nil
}

// CustomerFromToken validates the token and looks up the bound customer.
// Returns ErrInvalidSession for any token problem; the lookup's ErrNotFound
// passes through so callers can tell a vanished record from a bad token.
func (m *Manager) CustomerFromToken(ctx context.Context, store CustomerLookup, tokenString string) (*models.Customer, error) {
	identity, err := m.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return store.GetByID(ctx, identity.CustomerID)
}

// ExpiresSoon reports whether the token is within threshold of its expiry,
// used to prompt the widget to re-identify rather than fail silently.
func (m *Manager) ExpiresSoon(tokenString string, threshold time.Duration) bool {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return true
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return time.Until(exp.Time) < threshold
}
