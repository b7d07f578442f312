package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kobuai/kobu-ai-be/internal/core/session"
	"github.com/kobuai/kobu-ai-be/internal/models"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
	"github.com/kobuai/kobu-ai-be/internal/services"
)

// HeaderSessionToken carries the widget session token on GET requests
const HeaderSessionToken = "X-Session-Token"

// WidgetHandler is the unauthenticated surface the embedded widget talks
// to. Visitors are identified by session token, never by dashboard auth.
type WidgetHandler struct {
	chat      *services.ChatService
	bookings  *services.BookingService
	checkout  *services.CheckoutService
	sessions  *session.Manager
	domains   repositories.DomainRepo
	customers repositories.CustomerRepo
	products  repositories.ProductRepo
	validate  *validator.Validate
}

func NewWidgetHandler(
	chat *services.ChatService,
	bookings *services.BookingService,
	checkout *services.CheckoutService,
	sessions *session.Manager,
	domains repositories.DomainRepo,
	customers repositories.CustomerRepo,
	products repositories.ProductRepo,
) *WidgetHandler {
	return &WidgetHandler{
		chat:      chat,
		bookings:  bookings,
		checkout:  checkout,
		sessions:  sessions,
		domains:   domains,
		customers: customers,
		products:  products,
		validate:  validator.New(),
	}
}

// GetConfig godoc
// @Summary Public widget configuration for a hostname
// @Tags Widget
// @Produce json
// @Param hostname path string true "Embedding site hostname"
// @Success 200 {object} models.WidgetConfig
// @Router /widget/{hostname}/config [get]
func (h *WidgetHandler) GetConfig(c *fiber.Ctx) error {
	domain, err := h.domains.GetByHostname(c.Context(), c.Params("hostname"))
	if err != nil {
		return respondError(c, err)
	}

	config := models.WidgetConfig{
		DomainID:        domain.ID,
		Name:            domain.Name,
		IconURL:         domain.IconURL,
		WelcomeMessage:  domain.WelcomeMessage,
		Theme:           domain.Theme,
		HelpdeskEnabled: domain.HelpdeskEnabled,
	}

	if domain.HelpdeskEnabled {
		questions, err := h.domains.HelpDesk(c.Context(), domain.ID)
		if err != nil {
			return respondError(c, err)
		}
		for _, q := range questions {
			config.HelpDesk = append(config.HelpDesk, models.HelpDeskEntry{
				Question: q.Question,
				Answer:   q.Answer,
			})
		}
	}

	filters, err := h.domains.FilterQuestions(c.Context(), domain.ID)
	if err != nil {
		return respondError(c, err)
	}
	config.FilterQuestions = filters

	return c.JSON(config)
}

type startSessionRequest struct {
	Hostname string `json:"hostname" validate:"required,hostname"`
	Email    string `json:"email" validate:"required,email"`
}

// StartSession godoc
// @Summary Identify a visitor and issue a session token
// @Tags Widget
// @Accept json
// @Produce json
// @Param request body startSessionRequest true "Identification payload"
// @Success 200 {object} services.SessionResponse
// @Router /widget/session [post]
func (h *WidgetHandler) StartSession(c *fiber.Ctx) error {
	var req startSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	resp, err := h.chat.StartSession(c.Context(), req.Hostname, req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

type sendMessageRequest struct {
	Token string `json:"token" validate:"required"`
	Text  string `json:"text" validate:"required,min=1,max=4000"`
}

// SendMessage godoc
// @Summary Submit one visitor message and receive the routed reply
// @Tags Widget
// @Accept json
// @Produce json
// @Param request body sendMessageRequest true "Message payload"
// @Success 200 {object} services.ChatReply
// @Router /widget/chat [post]
func (h *WidgetHandler) SendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	reply, err := h.chat.SendVisitorMessage(c.Context(), req.Token, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reply)
}

// History godoc
// @Summary Full transcript for the visitor's room
// @Tags Widget
// @Produce json
// @Param X-Session-Token header string true "Session token"
// @Success 200 {array} models.ChatMessage
// @Router /widget/chat/history [get]
func (h *WidgetHandler) History(c *fiber.Ctx) error {
	token := c.Get(HeaderSessionToken)
	if token == "" {
		return badRequest(c, "missing session token")
	}

	history, err := h.chat.History(c.Context(), token)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(history)
}

// AvailableSlots godoc
// @Summary Open booking slots for one date
// @Tags Widget
// @Produce json
// @Param hostname path string true "Embedding site hostname"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {array} string
// @Router /widget/{hostname}/slots [get]
func (h *WidgetHandler) AvailableSlots(c *fiber.Ctx) error {
	domain, err := h.domains.GetByHostname(c.Context(), c.Params("hostname"))
	if err != nil {
		return respondError(c, err)
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return badRequest(c, "date must be YYYY-MM-DD")
	}

	slots, err := h.bookings.AvailableSlots(c.Context(), domain.ID, date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"date": c.Query("date"), "slots": slots})
}

type createBookingRequest struct {
	Token string `json:"token" validate:"required"`
	models.CreateBookingRequest
}

// CreateBooking godoc
// @Summary Book an appointment slot
// @Tags Widget
// @Accept json
// @Produce json
// @Param request body createBookingRequest true "Booking payload"
// @Success 201 {object} models.Booking
// @Router /widget/booking [post]
func (h *WidgetHandler) CreateBooking(c *fiber.Ctx) error {
	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	customer, err := h.sessions.CustomerFromToken(c.Context(), h.customers, req.Token)
	if err != nil {
		return respondError(c, err)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return badRequest(c, "date must be YYYY-MM-DD")
	}

	booking, err := h.bookings.Create(c.Context(), customer.DomainID, customer.ID, date, req.Slot, req.Answers)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// ListBookings godoc
// @Summary The visitor's own bookings
// @Tags Widget
// @Produce json
// @Param X-Session-Token header string true "Session token"
// @Success 200 {array} models.Booking
// @Router /widget/bookings [get]
func (h *WidgetHandler) ListBookings(c *fiber.Ctx) error {
	token := c.Get(HeaderSessionToken)
	if token == "" {
		return badRequest(c, "missing session token")
	}

	customer, err := h.sessions.CustomerFromToken(c.Context(), h.customers, token)
	if err != nil {
		return respondError(c, err)
	}

	bookings, err := h.bookings.ListForCustomer(c.Context(), customer.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookings)
}

// ListProducts godoc
// @Summary Purchasable catalog shown inside the widget
// @Tags Widget
// @Produce json
// @Param hostname path string true "Embedding site hostname"
// @Success 200 {array} models.Product
// @Router /widget/{hostname}/products [get]
func (h *WidgetHandler) ListProducts(c *fiber.Ctx) error {
	domain, err := h.domains.GetByHostname(c.Context(), c.Params("hostname"))
	if err != nil {
		return respondError(c, err)
	}

	products, err := h.products.ListActive(c.Context(), domain.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// Checkout godoc
// @Summary Start a purchase and return the payment link
// @Tags Widget
// @Accept json
// @Produce json
// @Param request body services.CheckoutRequest true "Checkout payload"
// @Success 200 {object} payment.Preference
// @Router /widget/checkout [post]
func (h *WidgetHandler) Checkout(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	preference, err := h.checkout.Checkout(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(preference)
}
