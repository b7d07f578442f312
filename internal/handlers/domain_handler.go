package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kobuai/kobu-ai-be/internal/core/widget"
	"github.com/kobuai/kobu-ai-be/internal/models"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
	"github.com/kobuai/kobu-ai-be/internal/shared/utils"
)

// DomainHandler manages a user's chatbot tenants from the dashboard
type DomainHandler struct {
	domains       repositories.DomainRepo
	customers     repositories.CustomerRepo
	widgetBaseURL string
	validate      *validator.Validate
}

func NewDomainHandler(domains repositories.DomainRepo, customers repositories.CustomerRepo, widgetBaseURL string) *DomainHandler {
	return &DomainHandler{
		domains:       domains,
		customers:     customers,
		widgetBaseURL: widgetBaseURL,
		validate:      validator.New(),
	}
}

// Create godoc
// @Summary Register a new domain
// @Tags Domains
// @Accept json
// @Produce json
// @Param request body models.CreateDomainRequest true "Domain payload"
// @Success 201 {object} models.Domain
// @Router /domains [post]
func (h *DomainHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return badRequest(c, "invalid user")
	}

	var req models.CreateDomainRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	domain := &models.Domain{
		UserID:   userID,
		Name:     req.Name,
		Hostname: req.Hostname,
		IconURL:  req.IconURL,
	}
	if req.WelcomeMessage != "" {
		domain.WelcomeMessage = req.WelcomeMessage
	}

	if err := h.domains.Create(c.Context(), domain); err != nil {
		return respondError(c, err)
	}

	utils.LogInfo("domain created", map[string]interface{}{
		"domain_id": domain.ID.String(),
		"hostname":  domain.Hostname,
	})
	return c.Status(fiber.StatusCreated).JSON(domain)
}

// List godoc
// @Summary List the user's domains
// @Tags Domains
// @Produce json
// @Success 200 {array} models.Domain
// @Router /domains [get]
func (h *DomainHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return badRequest(c, "invalid user")
	}

	domains, err := h.domains.ListByUser(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(domains)
}

// Get godoc
// @Summary Fetch one of the user's domains
// @Tags Domains
// @Produce json
// @Param id path string true "Domain ID"
// @Success 200 {object} models.Domain
// @Router /domains/{id} [get]
func (h *DomainHandler) Get(c *fiber.Ctx) error {
	domain, err := h.owned(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(domain)
}

// Update godoc
// @Summary Update widget settings for a domain
// @Tags Domains
// @Accept json
// @Produce json
// @Param id path string true "Domain ID"
// @Param request body models.UpdateDomainRequest true "Fields to change"
// @Success 200 {object} models.Domain
// @Router /domains/{id} [put]
func (h *DomainHandler) Update(c *fiber.Ctx) error {
	domain, err := h.owned(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.UpdateDomainRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	if req.Name != nil {
		domain.Name = *req.Name
	}
	if req.Hostname != nil {
		domain.Hostname = *req.Hostname
	}
	if req.IconURL != nil {
		domain.IconURL = *req.IconURL
	}
	if req.WelcomeMessage != nil {
		domain.WelcomeMessage = *req.WelcomeMessage
	}
	if req.Theme != nil {
		domain.Theme = *req.Theme
	}
	if req.HelpdeskEnabled != nil {
		domain.HelpdeskEnabled = *req.HelpdeskEnabled
	}

	if err := h.domains.Update(c.Context(), domain); err != nil {
		return respondError(c, err)
	}
	return c.JSON(domain)
}

// Delete godoc
// @Summary Delete a domain and all of its data
// @Tags Domains
// @Param id path string true "Domain ID"
// @Success 204
// @Router /domains/{id} [delete]
func (h *DomainHandler) Delete(c *fiber.Ctx) error {
	domain, err := h.owned(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.domains.Delete(c.Context(), domain.ID); err != nil {
		return respondError(c, err)
	}

	utils.LogInfo("domain deleted", map[string]interface{}{
		"domain_id": domain.ID.String(),
		"hostname":  domain.Hostname,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCustomers godoc
// @Summary Identified visitors for one domain
// @Tags Domains
// @Produce json
// @Param id path string true "Domain ID"
// @Success 200 {array} models.Customer
// @Router /domains/{id}/customers [get]
func (h *DomainHandler) ListCustomers(c *fiber.Ctx) error {
	domain, err := h.owned(c)
	if err != nil {
		return respondError(c, err)
	}

	customers, err := h.customers.ListByDomain(c.Context(), domain.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customers)
}

// InstallQR godoc
// @Summary PNG QR code linking to the domain's hosted widget page
// @Tags Domains
// @Produce png
// @Param id path string true "Domain ID"
// @Success 200 {file} binary
// @Router /domains/{id}/qr [get]
func (h *DomainHandler) InstallQR(c *fiber.Ctx) error {
	domain, err := h.owned(c)
	if err != nil {
		return respondError(c, err)
	}

	png, err := widget.EmbedQR(h.widgetBaseURL, domain.Hostname)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// owned resolves the :id path parameter to a domain the caller owns
func (h *DomainHandler) owned(c *fiber.Ctx) (*models.Domain, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	domainID, err := uuidParam(c, "id")
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	return h.domains.GetOwned(c.Context(), domainID, userID)
}
