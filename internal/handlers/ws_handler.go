package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/kobuai/kobu-ai-be/internal/core/auth"
	"github.com/kobuai/kobu-ai-be/internal/core/realtime"
	"github.com/kobuai/kobu-ai-be/internal/core/session"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
	"github.com/kobuai/kobu-ai-be/internal/shared/utils"
)

var (
	errWSUnauthorized    = errors.New("invalid or expired token")
	errWSRoomUnavailable = errors.New("room unavailable")
	errWSRoomMismatch    = errors.New("room mismatch")
)

// WSHandler streams a room's relay events over a websocket. One
// connection subscribes to exactly one room. Widgets authenticate with
// their session token, dashboard operators with their access token.
type WSHandler struct {
	sessions  *session.Manager
	auth      *auth.Service
	customers repositories.CustomerRepo
	rooms     repositories.ChatRoomRepo
	relay     realtime.Relay
}

func NewWSHandler(
	sessions *session.Manager,
	authService *auth.Service,
	customers repositories.CustomerRepo,
	rooms repositories.ChatRoomRepo,
	relay realtime.Relay,
) *WSHandler {
	return &WSHandler{
		sessions:  sessions,
		auth:      authService,
		customers: customers,
		rooms:     rooms,
		relay:     relay,
	}
}

// wsRequest is the slice of *websocket.Conn the authorization step needs
type wsRequest interface {
	Query(key string, defaultValue ...string) string
	Params(key string, defaultValue ...string) string
}

// authorizeRoom resolves which room this connection may watch. Visitor
// sessions are pinned to their own room regardless of the path; operators
// must own the room's domain.
func (h *WSHandler) authorizeRoom(ctx context.Context, conn wsRequest) (uuid.UUID, error) {
	if accessToken := conn.Query("access_token"); accessToken != "" {
		claims, err := h.auth.ValidateToken(accessToken)
		if err != nil {
			return uuid.Nil, errWSUnauthorized
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return uuid.Nil, errWSUnauthorized
		}
		roomID, err := uuid.Parse(conn.Params("roomID"))
		if err != nil {
			return uuid.Nil, errWSRoomMismatch
		}
		if _, err := h.rooms.GetOwned(ctx, roomID, userID); err != nil {
			return uuid.Nil, errWSRoomMismatch
		}
		return roomID, nil
	}

	customer, err := h.sessions.CustomerFromToken(ctx, h.customers, conn.Query("token"))
	if err != nil {
		return uuid.Nil, errWSUnauthorized
	}
	room, err := h.rooms.GetOrCreateByCustomer(ctx, customer.ID)
	if err != nil {
		return uuid.Nil, errWSRoomUnavailable
	}
	// the token's room is authoritative, not the path
	if conn.Params("roomID") != room.ID.String() {
		return uuid.Nil, errWSRoomMismatch
	}
	return room.ID, nil
}

// Upgrade rejects plain HTTP requests before the websocket handshake
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve returns the websocket connection handler. Tokens arrive as query
// parameters because browsers cannot set headers on websocket handshakes:
// `token` carries a widget session, `access_token` a dashboard login for
// the operator live view.
func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		roomID, err := h.authorizeRoom(ctx, conn)
		if err != nil {
			_ = conn.WriteJSON(fiber.Map{"error": err.Error()})
			return
		}

		sub, err := h.relay.Subscribe(ctx, roomID.String())
		if err != nil {
			utils.LogError("relay subscribe failed", err, map[string]interface{}{
				"room_id": roomID.String(),
			})
			_ = conn.WriteJSON(fiber.Map{"error": "subscription unavailable"})
			return
		}
		defer sub.Close()

		// the read loop only exists to notice the client going away
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					cancel()
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			}
		}
	})
}
