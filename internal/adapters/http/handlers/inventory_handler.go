package handlers

import (
	"time"

	"dentlab-backoffice/internal/core/services"
	"dentlab-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// InventoryHandler handles lab stock
type InventoryHandler struct {
	inventoryService *services.InventoryService
	alertService     *services.StockAlertService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *services.InventoryService, alertService *services.StockAlertService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		alertService:     alertService,
	}
}

// List handles listing stock with levels
// @Summary List inventory
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	items, err := h.inventoryService.List(c.Context())
	if err != nil {
		return fail(c, err, "list inventory")
	}

	return response.Success(c, "Inventory retrieved successfully", fiber.Map{
		"items": items,
	})
}

// Get handles getting a stock record
// @Summary Get inventory item
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /inventory/{id} [get]
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid item ID")
	}

	item, err := h.inventoryService.Get(c.Context(), id)
	if err != nil {
		return fail(c, err, "get inventory item")
	}

	return response.Success(c, "Item retrieved successfully", fiber.Map{
		"item": item,
	})
}

// Create handles adding a stock record
// @Summary Create inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateItemInput true "Item data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /inventory [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var req services.CreateItemInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	item, err := h.inventoryService.Create(c.Context(), &req)
	if err != nil {
		return fail(c, err, "create inventory item")
	}

	return response.Created(c, "Item created successfully", fiber.Map{
		"item": item,
	})
}

// AdjustQuantityRequest represents a new on-hand quantity
type AdjustQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// AdjustQuantity handles setting the on-hand quantity
// @Summary Adjust quantity
// @Tags Inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Param body body AdjustQuantityRequest true "Quantity"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /inventory/{id}/quantity [put]
func (h *InventoryHandler) AdjustQuantity(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid item ID")
	}

	var req AdjustQuantityRequest
	if err := c.BodyParser(&req); err != nil || req.Quantity == nil {
		return response.BadRequest(c, "quantity is required")
	}

	item, err := h.inventoryService.AdjustQuantity(c.Context(), id, *req.Quantity)
	if err != nil {
		return fail(c, err, "adjust quantity")
	}

	return response.Success(c, "Quantity updated successfully", fiber.Map{
		"item": item,
	})
}

// Shortages handles listing critical then low items
// @Summary Stock shortages
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /inventory/shortages [get]
func (h *InventoryHandler) Shortages(c *fiber.Ctx) error {
	items, err := h.inventoryService.Shortages(c.Context())
	if err != nil {
		return fail(c, err, "list shortages")
	}

	return response.Success(c, "Shortages retrieved successfully", fiber.Map{
		"items": items,
	})
}

// Expired handles listing items past their expiry date
// @Summary Expired stock
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /inventory/expired [get]
func (h *InventoryHandler) Expired(c *fiber.Ctx) error {
	items, err := h.inventoryService.Expired(c.Context(), time.Now())
	if err != nil {
		return fail(c, err, "list expired items")
	}

	return response.Success(c, "Expired items retrieved successfully", fiber.Map{
		"items": items,
	})
}

// Report handles running the stock scan on demand
// @Summary Stock report
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /inventory/report [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	report, err := h.alertService.Scan(c.Context())
	if err != nil {
		return fail(c, err, "scan inventory")
	}

	return response.Success(c, "Stock report generated", report)
}
