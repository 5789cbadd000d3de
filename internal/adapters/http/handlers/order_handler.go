package handlers

import (
	"fmt"

	"dentlab-backoffice/internal/adapters/http/middleware"
	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/core/services"
	"dentlab-backoffice/internal/pkg/pagination"
	"dentlab-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles work orders
type OrderHandler struct {
	orderService *services.OrderService
	slipService  *services.SlipService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService, slipService *services.SlipService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		slipService:  slipService,
	}
}

// Create handles creating a work order
// @Summary Create order
// @Description Prices the order for the doctor at creation; the price never changes afterwards
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateOrderInput true "Order data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.CreateOrderInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.orderService.Create(c.Context(), p, &req)
	if err != nil {
		return fail(c, err, "create order")
	}

	return response.Created(c, "Order created successfully", fiber.Map{
		"order": order,
	})
}

// List handles listing orders. Doctors only see their own.
// @Summary List orders
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Order status"
// @Param doctor_id query int false "Doctor ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	input := &services.ListOrdersInput{}
	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseOrderStatus(raw)
		if !ok {
			return response.BadRequest(c, fmt.Sprintf("Unknown status %q", raw))
		}
		input.Status = status
	}
	if raw := c.QueryInt("doctor_id", 0); raw > 0 {
		doctorID := uint(raw)
		input.DoctorID = &doctorID
	}

	params := pagination.GetParams(c)
	orders, total, err := h.orderService.List(c.Context(), p, input, params)
	if err != nil {
		return fail(c, err, "list orders")
	}

	return response.Paginated(c, "Orders retrieved successfully", orders, params, total)
}

// Get handles getting an order
// @Summary Get order
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid order ID")
	}

	order, err := h.orderService.Get(c.Context(), p, id)
	if err != nil {
		return fail(c, err, "get order")
	}

	return response.Success(c, "Order retrieved successfully", fiber.Map{
		"order": order,
	})
}

// TransitionRequest represents an explicit status change
type TransitionRequest struct {
	Status     string  `json:"status"`
	Technician *string `json:"technician"`
	Note       string  `json:"note"`
}

// Transition handles moving an order to a named status
// @Summary Change order status
// @Description Staff may jump to any later status; couriers only pick up and deliver
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param body body TransitionRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders/{id}/transition [put]
func (h *OrderHandler) Transition(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid order ID")
	}

	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	// Unknown names fall through to the state machine, which rejects them
	target, _ := domain.ParseOrderStatus(req.Status)

	order, err := h.orderService.Transition(c.Context(), p, id, &services.TransitionInput{
		Target:     target,
		Technician: req.Technician,
		Note:       req.Note,
	})
	if err != nil {
		return fail(c, err, "change order status")
	}

	return response.Success(c, "Order status updated successfully", fiber.Map{
		"order": order,
	})
}

// Advance handles moving an order one step forward
// @Summary Advance order
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders/{id}/advance [post]
func (h *OrderHandler) Advance(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid order ID")
	}

	order, err := h.orderService.Advance(c.Context(), p, id)
	if err != nil {
		return fail(c, err, "advance order")
	}

	return response.Success(c, "Order advanced successfully", fiber.Map{
		"order": order,
	})
}

// History handles listing an order's status changes
// @Summary Order history
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} response.Response
// @Router /orders/{id}/history [get]
func (h *OrderHandler) History(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid order ID")
	}

	events, err := h.orderService.History(c.Context(), p, id)
	if err != nil {
		return fail(c, err, "get order history")
	}

	return response.Success(c, "Order history retrieved successfully", fiber.Map{
		"history": events,
	})
}

// Slip handles exporting an order slip as PDF
// @Summary Order slip
// @Tags Orders
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Response
// @Router /orders/{id}/slip [get]
func (h *OrderHandler) Slip(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid order ID")
	}

	order, err := h.orderService.Get(c.Context(), p, id)
	if err != nil {
		return fail(c, err, "export order slip")
	}

	pdf, err := h.slipService.Render(order)
	if err != nil {
		return fail(c, err, "render order slip")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s.pdf"`, order.OrderNumber))
	return c.Send(pdf)
}

// Track handles the public tracking lookup
// @Summary Track order
// @Description Public status lookup by tracking token
// @Tags Tracking
// @Produce json
// @Param token path string true "Tracking token"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /track/{token} [get]
func (h *OrderHandler) Track(c *fiber.Ctx) error {
	view, err := h.orderService.GetByTrackingToken(c.Context(), c.Params("token"))
	if err != nil {
		return fail(c, err, "track order")
	}

	return response.Success(c, "Order found", fiber.Map{
		"order": view,
	})
}
