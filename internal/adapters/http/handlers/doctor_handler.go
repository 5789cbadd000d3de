package handlers

import (
	"fmt"

	"dentlab-backoffice/internal/adapters/http/middleware"
	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/core/services"
	"dentlab-backoffice/internal/pkg/pagination"
	"dentlab-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// DoctorHandler handles the referring doctor registry
type DoctorHandler struct {
	doctorService  *services.DoctorService
	pricingService *services.PricingService
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(doctorService *services.DoctorService, pricingService *services.PricingService) *DoctorHandler {
	return &DoctorHandler{
		doctorService:  doctorService,
		pricingService: pricingService,
	}
}

// List handles listing doctors
// @Summary List doctors
// @Tags Doctors
// @Produce json
// @Security BearerAuth
// @Param category query string false "REGULAR, VIP or PREMIUM"
// @Param active query bool false "Only active doctors"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /doctors [get]
func (h *DoctorHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	doctors, total, err := h.doctorService.List(c.Context(), &services.ListDoctorsInput{
		ActiveOnly: c.QueryBool("active", false),
		Category:   c.Query("category"),
	}, params)
	if err != nil {
		return fail(c, err, "list doctors")
	}

	return response.Paginated(c, "Doctors retrieved successfully", doctors, params, total)
}

// Get handles getting a doctor profile
// @Summary Get doctor
// @Tags Doctors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Doctor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /doctors/{id} [get]
func (h *DoctorHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid doctor ID")
	}

	doctor, err := h.doctorService.Get(c.Context(), id)
	if err != nil {
		return fail(c, err, "get doctor")
	}

	return response.Success(c, "Doctor retrieved successfully", fiber.Map{
		"doctor": doctor,
	})
}

// Create handles registering a doctor profile (Admin, Front desk)
// @Summary Create doctor
// @Tags Doctors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateDoctorInput true "Doctor data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /doctors [post]
func (h *DoctorHandler) Create(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.CreateDoctorInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	doctor, err := h.doctorService.Create(c.Context(), p, &req)
	if err != nil {
		return fail(c, err, "create doctor")
	}

	return response.Created(c, "Doctor created successfully", fiber.Map{
		"doctor": doctor,
	})
}

// SetCategoryRequest represents a category change
type SetCategoryRequest struct {
	Category string `json:"category"`
}

// SetCategory handles changing a doctor's category, which rewrites the discount
// @Summary Set doctor category
// @Tags Doctors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Doctor ID"
// @Param body body SetCategoryRequest true "Category"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /doctors/{id}/category [put]
func (h *DoctorHandler) SetCategory(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid doctor ID")
	}

	var req SetCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	doctor, err := h.doctorService.SetCategory(c.Context(), p, id, req.Category)
	if err != nil {
		return fail(c, err, "set doctor category")
	}

	return response.Success(c, "Doctor category updated successfully", fiber.Map{
		"doctor": doctor,
	})
}

// SetDiscountRequest represents an explicit discount override
type SetDiscountRequest struct {
	DiscountRate decimal.Decimal `json:"discount_rate"`
}

// SetDiscount handles overriding a doctor's discount (Admin only)
// @Summary Override doctor discount
// @Tags Doctors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Doctor ID"
// @Param body body SetDiscountRequest true "Discount percentage"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /doctors/{id}/discount [put]
func (h *DoctorHandler) SetDiscount(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid doctor ID")
	}

	var req SetDiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	doctor, err := h.doctorService.SetDiscountOverride(c.Context(), p, id, req.DiscountRate)
	if err != nil {
		return fail(c, err, "override discount")
	}

	return response.Success(c, "Doctor discount updated successfully", fiber.Map{
		"doctor": doctor,
	})
}

// Deactivate handles deactivating a doctor (Admin only)
// @Summary Deactivate doctor
// @Tags Doctors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Doctor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /doctors/{id} [delete]
func (h *DoctorHandler) Deactivate(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid doctor ID")
	}

	if err := h.doctorService.Deactivate(c.Context(), p, id); err != nil {
		return fail(c, err, "deactivate doctor")
	}

	return response.Success(c, "Doctor deactivated successfully", nil)
}

// PriceList handles quoting every active service for a doctor.
// Doctors may only read their own price list.
// @Summary Doctor price list
// @Tags Doctors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Doctor ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /doctors/{id}/prices [get]
func (h *DoctorHandler) PriceList(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid doctor ID")
	}
	if p.Is(domain.RoleDoctor) && !p.OwnsDoctor(id) {
		return fail(c, fmt.Errorf("%w: doctors can only view their own prices", domain.ErrForbidden), "get price list")
	}

	quotes, err := h.pricingService.PriceList(c.Context(), id)
	if err != nil {
		return fail(c, err, "get price list")
	}

	return response.Success(c, "Price list retrieved successfully", fiber.Map{
		"prices": quotes,
	})
}
