package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kobuai/kobu-ai-be/internal/repositories"
	"github.com/kobuai/kobu-ai-be/internal/services"
)

// ConversationHandler is the dashboard inbox: room lists, transcripts,
// takeover, and operator replies. All routes sit behind dashboard auth.
type ConversationHandler struct {
	inbox    *services.InboxService
	domains  repositories.DomainRepo
	rooms    repositories.ChatRoomRepo
	validate *validator.Validate
}

func NewConversationHandler(
	inbox *services.InboxService,
	domains repositories.DomainRepo,
	rooms repositories.ChatRoomRepo,
) *ConversationHandler {
	return &ConversationHandler{
		inbox:    inbox,
		domains:  domains,
		rooms:    rooms,
		validate: validator.New(),
	}
}

// ownedRoom resolves the roomID path parameter and verifies the room's
// domain belongs to the authenticated user. Rooms in other tenants come
// back as ErrNotFound.
func (h *ConversationHandler) ownedRoom(c *fiber.Ctx) (uuid.UUID, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return uuid.Nil, repositories.ErrNotFound
	}
	roomID, err := uuidParam(c, "roomID")
	if err != nil {
		return uuid.Nil, repositories.ErrNotFound
	}
	if _, err := h.rooms.GetOwned(c.Context(), roomID, userID); err != nil {
		return uuid.Nil, err
	}
	return roomID, nil
}

// ListRooms godoc
// @Summary Inbox for one domain, most recently active first
// @Tags Conversations
// @Produce json
// @Param domainID path string true "Domain ID"
// @Success 200 {array} models.RoomPreview
// @Router /conversations/{domainID} [get]
func (h *ConversationHandler) ListRooms(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return badRequest(c, "invalid user")
	}
	domainID, err := uuidParam(c, "domainID")
	if err != nil {
		return badRequest(c, "invalid domain id")
	}

	if _, err := h.domains.GetOwned(c.Context(), domainID, userID); err != nil {
		return respondError(c, err)
	}

	previews, err := h.inbox.ListRooms(c.Context(), domainID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(previews)
}

// Transcript godoc
// @Summary Full transcript for one room
// @Tags Conversations
// @Produce json
// @Param roomID path string true "Room ID"
// @Success 200 {array} models.ChatMessage
// @Router /conversations/rooms/{roomID}/messages [get]
func (h *ConversationHandler) Transcript(c *fiber.Ctx) error {
	roomID, err := h.ownedRoom(c)
	if err != nil {
		return respondError(c, err)
	}

	messages, err := h.inbox.Transcript(c.Context(), roomID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(messages)
}

// ToggleLive godoc
// @Summary Flip human takeover for one room
// @Tags Conversations
// @Produce json
// @Param roomID path string true "Room ID"
// @Success 200 {object} map[string]bool
// @Router /conversations/rooms/{roomID}/toggle-live [post]
func (h *ConversationHandler) ToggleLive(c *fiber.Ctx) error {
	roomID, err := h.ownedRoom(c)
	if err != nil {
		return respondError(c, err)
	}

	live, err := h.inbox.ToggleLive(c.Context(), roomID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"live": live})
}

// MarkSeen godoc
// @Summary Mark all of a room's messages as read
// @Tags Conversations
// @Param roomID path string true "Room ID"
// @Success 204
// @Router /conversations/rooms/{roomID}/seen [post]
func (h *ConversationHandler) MarkSeen(c *fiber.Ctx) error {
	roomID, err := h.ownedRoom(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.inbox.MarkSeen(c.Context(), roomID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type setFavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

// SetFavorite godoc
// @Summary Star or unstar a room in the inbox
// @Tags Conversations
// @Accept json
// @Param roomID path string true "Room ID"
// @Param request body setFavoriteRequest true "Favorite flag"
// @Success 204
// @Router /conversations/rooms/{roomID}/favorite [post]
func (h *ConversationHandler) SetFavorite(c *fiber.Ctx) error {
	roomID, err := h.ownedRoom(c)
	if err != nil {
		return respondError(c, err)
	}

	var req setFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.inbox.SetFavorite(c.Context(), roomID, req.Favorite); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type operatorMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=4000"`
}

// SendMessage godoc
// @Summary Reply to the visitor as a human operator
// @Tags Conversations
// @Accept json
// @Produce json
// @Param roomID path string true "Room ID"
// @Param request body operatorMessageRequest true "Reply payload"
// @Success 201 {object} models.ChatMessage
// @Router /conversations/rooms/{roomID}/messages [post]
func (h *ConversationHandler) SendMessage(c *fiber.Ctx) error {
	roomID, err := h.ownedRoom(c)
	if err != nil {
		return respondError(c, err)
	}

	var req operatorMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	message, err := h.inbox.SendOperatorMessage(c.Context(), roomID, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
