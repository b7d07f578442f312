package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kobuai/kobu-ai-be/internal/core/auth"
	"github.com/kobuai/kobu-ai-be/internal/core/realtime"
	"github.com/kobuai/kobu-ai-be/internal/core/session"
	"github.com/kobuai/kobu-ai-be/internal/models"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
)

type wsHandshake struct {
	query  map[string]string
	params map[string]string
}

func (h wsHandshake) Query(key string, _ ...string) string  { return h.query[key] }
func (h wsHandshake) Params(key string, _ ...string) string { return h.params[key] }

func TestAuthorizeRoom(t *testing.T) {
	db := openTestDB(t)

	authService := auth.NewService(db, "test-secret")
	ownerAuth, err := authService.Register(&auth.RegisterRequest{
		Email:    uuid.NewString() + "@example.com",
		Password: "hunter2hunter2",
		FullName: "Owner",
	})
	require.NoError(t, err)
	attackerAuth, err := authService.Register(&auth.RegisterRequest{
		Email:    uuid.NewString() + "@example.com",
		Password: "hunter2hunter2",
		FullName: "Attacker",
	})
	require.NoError(t, err)

	domain := &models.Domain{
		UserID:   uuid.MustParse(ownerAuth.User.ID),
		Name:     "Acme Dental",
		Hostname: uuid.NewString() + ".example.com",
	}
	require.NoError(t, db.Create(domain).Error)

	customerRepo := repositories.NewCustomerRepo(db)
	roomRepo := repositories.NewChatRoomRepo(db)

	customer, err := customerRepo.GetOrCreate(context.Background(), domain.ID, "visitor@example.com")
	require.NoError(t, err)
	room, err := roomRepo.GetOrCreateByCustomer(context.Background(), customer.ID)
	require.NoError(t, err)

	sessions := session.NewManager("session-secret", time.Hour)
	visitorToken, _, err := sessions.Generate(customer.ID, domain.ID)
	require.NoError(t, err)

	handler := NewWSHandler(sessions, authService, customerRepo, roomRepo, realtime.NewHubRelay())

	tests := []struct {
		name    string
		query   map[string]string
		params  map[string]string
		wantErr error
	}{
		{
			name:   "visitor session on its own room",
			query:  map[string]string{"token": visitorToken},
			params: map[string]string{"roomID": room.ID.String()},
		},
		{
			name:    "visitor session cannot watch another room",
			query:   map[string]string{"token": visitorToken},
			params:  map[string]string{"roomID": uuid.NewString()},
			wantErr: errWSRoomMismatch,
		},
		{
			name:   "operator who owns the domain",
			query:  map[string]string{"access_token": ownerAuth.AccessToken},
			params: map[string]string{"roomID": room.ID.String()},
		},
		{
			name:    "operator from another tenant",
			query:   map[string]string{"access_token": attackerAuth.AccessToken},
			params:  map[string]string{"roomID": room.ID.String()},
			wantErr: errWSRoomMismatch,
		},
		{
			name:    "garbage access token",
			query:   map[string]string{"access_token": "not-a-jwt"},
			params:  map[string]string{"roomID": room.ID.String()},
			wantErr: errWSUnauthorized,
		},
		{
			name:    "refresh token is not an operator login",
			query:   map[string]string{"access_token": ownerAuth.RefreshToken},
			params:  map[string]string{"roomID": room.ID.String()},
			wantErr: errWSUnauthorized,
		},
		{
			name:    "no credentials at all",
			query:   map[string]string{},
			params:  map[string]string{"roomID": room.ID.String()},
			wantErr: errWSUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roomID, err := handler.authorizeRoom(context.Background(), wsHandshake{query: tt.query, params: tt.params})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, room.ID, roomID)
		})
	}
}
