package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kobuai/kobu-ai-be/internal/core/llm"
	"github.com/kobuai/kobu-ai-be/internal/core/realtime"
	"github.com/kobuai/kobu-ai-be/internal/core/session"
	"github.com/kobuai/kobu-ai-be/internal/models"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
	"github.com/kobuai/kobu-ai-be/internal/shared/utils"
)

// FallbackReply is persisted as the assistant turn when the LLM is down
const FallbackReply = "Sorry, I can't answer right now. A member of the team will get back to you shortly."

const llmTimeout = 10 * time.Second

// Responder generates one assistant turn; satisfied by llm.Client
type Responder interface {
	GenerateReply(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// SessionResponse is handed to the widget after visitor identification
type SessionResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Customer  *models.Customer `json:"customer"`
	RoomID    uuid.UUID        `json:"room_id"`
}

// ChatReply is the server's answer to one visitor turn
type ChatReply struct {
	Messages []models.ChatMessage `json:"messages"`
	Live     bool                 `json:"live"`

	// SessionExpiresSoon tells the widget to prompt re-identification
	// before the token lapses mid-conversation.
	SessionExpiresSoon bool `json:"session_expires_soon"`
}

// reidentifyThreshold is how close to expiry a session may get before
// the widget is told to re-identify
const reidentifyThreshold = time.Hour

// ChatService owns the visitor side of a conversation: identification,
// message persistence, bot-vs-human routing, and relay fan-out.
type ChatService struct {
	sessions  *session.Manager
	domains   repositories.DomainRepo
	customers repositories.CustomerRepo
	rooms     repositories.ChatRoomRepo
	messages  repositories.ChatMessageRepo
	products  repositories.ProductRepo
	llm       Responder
	relay     realtime.Relay
}

func NewChatService(
	sessions *session.Manager,
	domains repositories.DomainRepo,
	customers repositories.CustomerRepo,
	rooms repositories.ChatRoomRepo,
	messages repositories.ChatMessageRepo,
	products repositories.ProductRepo,
	responder Responder,
	relay realtime.Relay,
) *ChatService {
	return &ChatService{
		sessions:  sessions,
		domains:   domains,
		customers: customers,
		rooms:     rooms,
		messages:  messages,
		products:  products,
		llm:       responder,
		relay:     relay,
	}
}

// StartSession identifies a visitor by email under a domain, ensures the
// customer and chat room exist, and issues a session token.
func (s *ChatService) StartSession(ctx context.Context, hostname, email string) (*SessionResponse, error) {
	domain, err := s.domains.GetByHostname(ctx, hostname)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.GetOrCreate(ctx, domain.ID, email)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.GetOrCreateByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.sessions.Generate(customer.ID, domain.ID)
	if err != nil {
		return nil, err
	}

	return &SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Customer:  customer,
		RoomID:    room.ID,
	}, nil
}

// SendVisitorMessage persists the visitor turn, routes bot vs human on
// the room's live flag, and returns the new transcript entries.
//
// Two near-simultaneous visitor messages can each trigger a bot reply;
// that duplicate is accepted rather than serialized per room.
func (s *ChatService) SendVisitorMessage(ctx context.Context, token, text string) (*ChatReply, error) {
	customer, err := s.sessions.CustomerFromToken(ctx, s.customers, token)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.GetOrCreateByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	userTurn, err := s.messages.Create(ctx, room.ID, models.RoleUser, text, nil)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.TouchActivity(ctx, room.ID); err != nil {
		utils.LogWarn("failed to touch room activity", map[string]interface{}{
			"room_id": room.ID.String(), "error": err.Error(),
		})
	}
	s.publish(ctx, room.ID, realtime.EventMessage, userTurn)

	// Re-read the live flag right before routing: an operator may have
	// taken over since the room was loaded.
	current, err := s.rooms.GetByID(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	expiresSoon := s.sessions.ExpiresSoon(token, reidentifyThreshold)
	if current.Live {
		return &ChatReply{
			Messages:           []models.ChatMessage{*userTurn},
			Live:               true,
			SessionExpiresSoon: expiresSoon,
		}, nil
	}

	botTurn, err := s.synthesizeReply(ctx, customer.DomainID, room.ID, text)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, room.ID, realtime.EventMessage, botTurn)

	return &ChatReply{
		Messages:           []models.ChatMessage{*userTurn, *botTurn},
		Live:               false,
		SessionExpiresSoon: expiresSoon,
	}, nil
}

// History returns the visitor's full transcript, oldest first
func (s *ChatService) History(ctx context.Context, token string) ([]models.ChatMessage, error) {
	customer, err := s.sessions.CustomerFromToken(ctx, s.customers, token)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.GetOrCreateByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	return s.messages.ListByRoom(ctx, room.ID)
}

func (s *ChatService) synthesizeReply(ctx context.Context, domainID, roomID uuid.UUID, text string) (*models.ChatMessage, error) {
	prompt, err := s.buildPrompt(ctx, domainID)
	if err != nil {
		return nil, err
	}

	llmCtx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	started := time.Now()
	reply, err := s.llm.GenerateReply(llmCtx, prompt, text)
	if err != nil {
		utils.LogError("bot reply generation failed", err, map[string]interface{}{
			"room_id": roomID.String(),
		})
		reply = FallbackReply
	}
	latency := time.Since(started).Milliseconds()

	return s.messages.Create(ctx, roomID, models.RoleAssistant, reply, &latency)
}

func (s *ChatService) buildPrompt(ctx context.Context, domainID uuid.UUID) (string, error) {
	domain, err := s.domains.GetByID(ctx, domainID)
	if err != nil {
		return "", err
	}

	kb := &llm.Knowledge{
		BusinessName:   domain.Name,
		WelcomeMessage: domain.WelcomeMessage,
	}

	helpDesk, err := s.domains.HelpDesk(ctx, domainID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return "", err
	}
	for _, qa := range helpDesk {
		kb.HelpDesk = append(kb.HelpDesk, llm.QA{Question: qa.Question, Answer: qa.Answer})
	}

	filters, err := s.domains.FilterQuestions(ctx, domainID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return "", err
	}
	for _, q := range filters {
		kb.FilterQuestions = append(kb.FilterQuestions, q.Question)
	}

	catalog, err := s.products.ListActive(ctx, domainID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return "", err
	}
	for _, p := range catalog {
		kb.Products = append(kb.Products, llm.ProductInfo{Name: p.Name, Price: p.Price})
	}

	return llm.BuildSystemPrompt(kb), nil
}

// publish is best-effort: a relay outage must not fail the turn
func (s *ChatService) publish(ctx context.Context, roomID uuid.UUID, event string, payload interface{}) {
	if err := s.relay.Publish(ctx, roomID.String(), event, payload); err != nil {
		utils.LogWarn("relay publish failed", map[string]interface{}{
			"room_id": roomID.String(),
			"event":   event,
			"error":   err.Error(),
		})
	}
}
