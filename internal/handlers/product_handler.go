package handlers

import (
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kobuai/kobu-ai-be/internal/models"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
)

// ProductHandler manages a domain's catalog from the dashboard
type ProductHandler struct {
	products repositories.ProductRepo
	domains  repositories.DomainRepo
	validate *validator.Validate
}

func NewProductHandler(products repositories.ProductRepo, domains repositories.DomainRepo) *ProductHandler {
	return &ProductHandler{
		products: products,
		domains:  domains,
		validate: validator.New(),
	}
}

// Create godoc
// @Summary Add a product to a domain's catalog
// @Tags Products
// @Accept json
// @Produce json
// @Param domainID path string true "Domain ID"
// @Param request body models.CreateProductRequest true "Product payload"
// @Success 201 {object} models.Product
// @Router /domains/{domainID}/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	domain, err := h.ownedDomain(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	product := &models.Product{
		DomainID:    domain.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.products.Create(c.Context(), product); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// List godoc
// @Summary Paginated catalog with optional search
// @Tags Products
// @Produce json
// @Param domainID path string true "Domain ID"
// @Param search query string false "Name or description search"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 10)"
// @Success 200 {object} models.ProductListResponse
// @Router /domains/{domainID}/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	domain, err := h.ownedDomain(c)
	if err != nil {
		return respondError(c, err)
	}

	filter := models.ProductFilter{
		DomainID:   domain.ID,
		SearchTerm: c.Query("search"),
		Page:       c.QueryInt("page", 1),
		PageSize:   c.QueryInt("page_size", 10),
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	products, total, err := h.products.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ProductListResponse{
		Products:   products,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	})
}

// Update godoc
// @Summary Update a product
// @Tags Products
// @Accept json
// @Produce json
// @Param domainID path string true "Domain ID"
// @Param id path string true "Product ID"
// @Param request body models.UpdateProductRequest true "Fields to change"
// @Success 200 {object} models.Product
// @Router /domains/{domainID}/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	product, err := h.ownedProduct(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.products.Update(c.Context(), product); err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// Delete godoc
// @Summary Remove a product from the catalog
// @Tags Products
// @Param domainID path string true "Domain ID"
// @Param id path string true "Product ID"
// @Success 204
// @Router /domains/{domainID}/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	product, err := h.ownedProduct(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.products.Delete(c.Context(), product.ID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProductHandler) ownedDomain(c *fiber.Ctx) (*models.Domain, error) {
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

// ownedProduct checks both domain ownership and product/domain pairing
func (h *ProductHandler) ownedProduct(c *fiber.Ctx) (*models.Product, error) {
	domain, err := h.ownedDomain(c)
	if err != nil {
		return nil, err
	}

	productID, err := uuidParam(c, "id")
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	product, err := h.products.GetByID(c.Context(), productID)
	if err != nil {
		return nil, err
	}
	if product.DomainID != domain.ID {
		return nil, repositories.ErrNotFound
	}
	return product, nil
}
