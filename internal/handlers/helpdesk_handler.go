package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kobuai/kobu-ai-be/internal/models"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
)

// HelpDeskHandler manages a domain's curated Q&A and filter questions
type HelpDeskHandler struct {
	helpdesk repositories.HelpDeskRepo
	domains  repositories.DomainRepo
	validate *validator.Validate
}

func NewHelpDeskHandler(helpdesk repositories.HelpDeskRepo, domains repositories.DomainRepo) *HelpDeskHandler {
	return &HelpDeskHandler{
		helpdesk: helpdesk,
		domains:  domains,
		validate: validator.New(),
	}
}

// ListQuestions godoc
// @Summary Curated Q&A pairs for a domain
// @Tags HelpDesk
// @Produce json
// @Param domainID path string true "Domain ID"
// @Success 200 {array} models.HelpDeskQuestion
// @Router /domains/{domainID}/helpdesk [get]
func (h *HelpDeskHandler) ListQuestions(c *fiber.Ctx) error {
	domain, err := h.ownedDomain(c)
	if err != nil {
		return respondError(c, err)
	}

	questions, err := h.domains.HelpDesk(c.Context(), domain.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(questions)
}

// CreateQuestion godoc
// @Summary Add a Q&A pair
// @Tags HelpDesk
// @Accept json
// @Produce json
// @Param domainID path string true "Domain ID"
// @Param request body models.QuestionRequest true "Question payload"
// @Success 201 {object} models.HelpDeskQuestion
// @Router /domains/{domainID}/helpdesk [post]
func (h *HelpDeskHandler) CreateQuestion(c *fiber.Ctx) error {
	domain, err := h.ownedDomain(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}
	if req.Answer == "" {
		return badRequest(c, "answer is required")
	}

	question := &models.HelpDeskQuestion{
		DomainID: domain.ID,
		Question: req.Question,
		Answer:   req.Answer,
	}
	if err := h.helpdesk.CreateQuestion(c.Context(), question); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// DeleteQuestion godoc
// @Summary Remove a Q&A pair
// @Tags HelpDesk
// @Param domainID path string true "Domain ID"
// @Param id path string true "Question ID"
// @Success 204
// @Router /domains/{domainID}/helpdesk/{id} [delete]
func (h *HelpDeskHandler) DeleteQuestion(c *fiber.Ctx) error {
	if _, err := h.ownedDomain(c); err != nil {
		return respondError(c, err)
	}

	questionID, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid question id")
	}
	if err := h.helpdesk.DeleteQuestion(c.Context(), questionID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListFilterQuestions godoc
// @Summary Qualification questions for a domain
// @Tags HelpDesk
// @Produce json
// @Param domainID path string true "Domain ID"
// @Success 200 {array} models.FilterQuestion
// @Router /domains/{domainID}/filter-questions [get]
func (h *HelpDeskHandler) ListFilterQuestions(c *fiber.Ctx) error {
	domain, err := h.ownedDomain(c)
	if err != nil {
		return respondError(c, err)
	}

	questions, err := h.domains.FilterQuestions(c.Context(), domain.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(questions)
}

// CreateFilterQuestion godoc
// @Summary Add a qualification question
// @Tags HelpDesk
// @Accept json
// @Produce json
// @Param domainID path string true "Domain ID"
// @Param request body models.QuestionRequest true "Question payload"
// @Success 201 {object} models.FilterQuestion
// @Router /domains/{domainID}/filter-questions [post]
func (h *HelpDeskHandler) CreateFilterQuestion(c *fiber.Ctx) error {
	domain, err := h.ownedDomain(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	question := &models.FilterQuestion{
		DomainID: domain.ID,
		Question: req.Question,
	}
	if err := h.helpdesk.CreateFilterQuestion(c.Context(), question); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// DeleteFilterQuestion godoc
// @Summary Remove a qualification question
// @Tags HelpDesk
// @Param domainID path string true "Domain ID"
// @Param id path string true "Question ID"
// @Success 204
// @Router /domains/{domainID}/filter-questions/{id} [delete]
func (h *HelpDeskHandler) DeleteFilterQuestion(c *fiber.Ctx) error {
	if _, err := h.ownedDomain(c); err != nil {
		return respondError(c, err)
	}

	questionID, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid question id")
	}
	if err := h.helpdesk.DeleteFilterQuestion(c.Context(), questionID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *HelpDeskHandler) ownedDomain(c *fiber.Ctx) (*models.Domain, error) {
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
