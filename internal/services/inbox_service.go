package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/kobuai/kobu-ai-be/internal/core/realtime"
	"github.com/kobuai/kobu-ai-be/internal/models"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
	"github.com/kobuai/kobu-ai-be/internal/shared/utils"
)

// LiveModePayload is the relay event body for operator takeover/handback
type LiveModePayload struct {
	RoomID uuid.UUID `json:"room_id"`
	Live   bool      `json:"live"`
}

// InboxService is the operator side of conversations: listing rooms,
// reading transcripts, taking over from the bot, and replying by hand.
type InboxService struct {
	rooms    repositories.ChatRoomRepo
	messages repositories.ChatMessageRepo
	relay    realtime.Relay
}

func NewInboxService(rooms repositories.ChatRoomRepo, messages repositories.ChatMessageRepo, relay realtime.Relay) *InboxService {
	return &InboxService{
		rooms:    rooms,
		messages: messages,
		relay:    relay,
	}
}

// ListRooms returns a domain's inbox, most recently active first
func (s *InboxService) ListRooms(ctx context.Context, domainID uuid.UUID) ([]models.RoomPreview, error) {
	return s.rooms.ListByDomain(ctx, domainID)
}

// Transcript returns a room's messages oldest first
func (s *InboxService) Transcript(ctx context.Context, roomID uuid.UUID) ([]models.ChatMessage, error) {
	return s.messages.ListByRoom(ctx, roomID)
}

// ToggleLive flips human takeover on or off and notifies open widgets.
// Two consecutive toggles restore the original routing.
func (s *InboxService) ToggleLive(ctx context.Context, roomID uuid.UUID) (bool, error) {
	live, err := s.rooms.ToggleLive(ctx, roomID)
	if err != nil {
		return false, err
	}

	s.publish(ctx, roomID, realtime.EventLiveMode, LiveModePayload{RoomID: roomID, Live: live})
	return live, nil
}

// MarkSeen flags all of a room's messages as read. Safe to repeat.
func (s *InboxService) MarkSeen(ctx context.Context, roomID uuid.UUID) error {
	return s.messages.MarkSeen(ctx, roomID)
}

// SetFavorite stars or unstars a room in the inbox
func (s *InboxService) SetFavorite(ctx context.Context, roomID uuid.UUID, favorite bool) error {
	return s.rooms.SetFavorite(ctx, roomID, favorite)
}

// SendOperatorMessage persists a human reply as an assistant turn and
// pushes it to the visitor. No bot reply is ever synthesized here.
func (s *InboxService) SendOperatorMessage(ctx context.Context, roomID uuid.UUID, text string) (*models.ChatMessage, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}

	message, err := s.messages.Create(ctx, roomID, models.RoleAssistant, text, nil)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, roomID, realtime.EventMessage, message)
	return message, nil
}

func (s *InboxService) publish(ctx context.Context, roomID uuid.UUID, event string, payload interface{}) {
	if err := s.relay.Publish(ctx, roomID.String(), event, payload); err != nil {
		utils.LogWarn("relay publish failed", map[string]interface{}{
			"room_id": roomID.String(),
			"event":   event,
			"error":   err.Error(),
		})
	}
}
