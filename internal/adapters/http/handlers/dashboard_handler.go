package handlers

import (
	"dentlab-backoffice/internal/adapters/http/middleware"
	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/core/services"
	"dentlab-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetStaffDashboard returns the lab-wide overview
// @Summary Staff Dashboard
// @Description Order counts by status, recent orders and stock alerts (staff only)
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/staff [get]
func (h *DashboardHandler) GetStaffDashboard(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.dashboardService.GetStaffDashboard(c.Context(), p)
	if err != nil {
		return fail(c, err, "get staff dashboard")
	}

	return response.Success(c, "Staff dashboard retrieved successfully", data)
}

// GetMyDashboard returns the dashboard matching the caller's role
// @Summary My Dashboard
// @Description Staff get the lab overview, doctors get their own orders
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetMyDashboard(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var data interface{}
	var err error

	if p.Is(domain.RoleDoctor) {
		data, err = h.dashboardService.GetDoctorDashboard(c.Context(), p)
	} else {
		data, err = h.dashboardService.GetStaffDashboard(c.Context(), p)
	}

	if err != nil {
		return fail(c, err, "get dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", fiber.Map{
		"role": p.Role,
		"data": data,
	})
}
