package handlers

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"github.com/kobuai/kobu-ai-be/internal/models"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
	"github.com/kobuai/kobu-ai-be/internal/services"
)

// BookingHandler is the dashboard side of bookings: listing appointments
// and maintaining the weekly availability schedule.
type BookingHandler struct {
	bookings    *services.BookingService
	domains     repositories.DomainRepo
	bookingRepo repositories.BookingRepo
	validate    *validator.Validate
}

func NewBookingHandler(bookings *services.BookingService, domains repositories.DomainRepo, bookingRepo repositories.BookingRepo) *BookingHandler {
	return &BookingHandler{
		bookings:    bookings,
		domains:     domains,
		bookingRepo: bookingRepo,
		validate:    validator.New(),
	}
}

// List godoc
// @Summary All bookings for one domain
// @Tags Bookings
// @Produce json
// @Param domainID path string true "Domain ID"
// @Success 200 {array} models.Booking
// @Router /domains/{domainID}/bookings [get]
func (h *BookingHandler) List(c *fiber.Ctx) error {
	domain, err := h.ownedDomain(c)
	if err != nil {
		return respondError(c, err)
	}

	bookings, err := h.bookings.ListForDomain(c.Context(), domain.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookings)
}

type upsertScheduleRequest struct {
	DayOfWeek int      `json:"day_of_week" validate:"gte=0,lte=6"`
	Slots     []string `json:"slots" validate:"required,min=1,dive,required"`
	Active    *bool    `json:"active,omitempty"`
}

// UpsertSchedule godoc
// @Summary Set the bookable slots for one weekday
// @Tags Bookings
// @Accept json
// @Produce json
// @Param domainID path string true "Domain ID"
// @Param request body upsertScheduleRequest true "Schedule payload"
// @Success 200 {object} models.AvailabilitySchedule
// @Router /domains/{domainID}/schedule [put]
func (h *BookingHandler) UpsertSchedule(c *fiber.Ctx) error {
	domain, err := h.ownedDomain(c)
	if err != nil {
		return respondError(c, err)
	}

	var req upsertScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	slots, err := json.Marshal(req.Slots)
	if err != nil {
		return badRequest(c, "invalid slots")
	}

	schedule := &models.AvailabilitySchedule{
		DomainID:  domain.ID,
		DayOfWeek: req.DayOfWeek,
		Slots:     datatypes.JSON(slots),
		Active:    true,
	}
	if req.Active != nil {
		schedule.Active = *req.Active
	}

	if err := h.bookingRepo.UpsertSchedule(c.Context(), schedule); err != nil {
		return respondError(c, err)
	}
	return c.JSON(schedule)
}

func (h *BookingHandler) ownedDomain(c *fiber.Ctx) (*models.Domain, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	domainID, err := uuidParam(c, "domainID")
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	return h.domains.GetOwned(c.Context(), domainID, userID)
}
