package handlers

import (
	"dentlab-backoffice/internal/adapters/http/middleware"
	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/core/services"
	"dentlab-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ServiceHandler handles the service catalog
type ServiceHandler struct {
	catalogService *services.CatalogService
}

// NewServiceHandler creates a new catalog handler
func NewServiceHandler(catalogService *services.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalogService: catalogService}
}

// List handles listing the catalog. Inactive entries are shown to administrators only.
// @Summary List services
// @Tags Services
// @Produce json
// @Security BearerAuth
// @Param all query bool false "Include inactive services (Admin)"
// @Success 200 {object} response.Response
// @Router /services [get]
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	activeOnly := !(c.QueryBool("all", false) && p.Is(domain.RoleAdmin))

	list, err := h.catalogService.List(c.Context(), activeOnly)
	if err != nil {
		return fail(c, err, "list services")
	}

	return response.Success(c, "Services retrieved successfully", fiber.Map{
		"services": list,
	})
}

// Get handles getting a catalog entry
// @Summary Get service
// @Tags Services
// @Produce json
// @Security BearerAuth
// @Param id path int true "Service ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /services/{id} [get]
func (h *ServiceHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid service ID")
	}

	svc, err := h.catalogService.Get(c.Context(), id)
	if err != nil {
		return fail(c, err, "get service")
	}

	return response.Success(c, "Service retrieved successfully", fiber.Map{
		"service": svc,
	})
}

// Create handles adding a catalog entry (Admin only)
// @Summary Create service
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateServiceInput true "Service data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /services [post]
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.CreateServiceInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	svc, err := h.catalogService.Create(c.Context(), p, &req)
	if err != nil {
		return fail(c, err, "create service")
	}

	return response.Created(c, "Service created successfully", fiber.Map{
		"service": svc,
	})
}

// UpdatePriceRequest represents a base price change
type UpdatePriceRequest struct {
	BasePrice int64 `json:"base_price"`
}

// UpdatePrice handles changing a base price (Admin only). Existing orders keep their price.
// @Summary Update service price
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Service ID"
// @Param body body UpdatePriceRequest true "Base price"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /services/{id}/price [put]
func (h *ServiceHandler) UpdatePrice(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid service ID")
	}

	var req UpdatePriceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	svc, err := h.catalogService.UpdatePrice(c.Context(), p, id, req.BasePrice)
	if err != nil {
		return fail(c, err, "update service price")
	}

	return response.Success(c, "Service price updated successfully", fiber.Map{
		"service": svc,
	})
}

// Deactivate handles removing a service from the active catalog (Admin only)
// @Summary Deactivate service
// @Tags Services
// @Produce json
// @Security BearerAuth
// @Param id path int true "Service ID"
// @Success 200 {object} response.Response
// @Router /services/{id} [delete]
func (h *ServiceHandler) Deactivate(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid service ID")
	}

	if err := h.catalogService.Deactivate(c.Context(), p, id); err != nil {
		return fail(c, err, "deactivate service")
	}

	return response.Success(c, "Service deactivated successfully", nil)
}
