package handlers

import (
	"strings"

	"dentlab-backoffice/internal/adapters/http/middleware"
	"dentlab-backoffice/internal/core/services"
	"dentlab-backoffice/internal/pkg/pagination"
	"dentlab-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AssistantHandler handles the doctors' question assistant
type AssistantHandler struct {
	assistantService *services.AssistantService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistantService *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// AskRequest represents a doctor's question
type AskRequest struct {
	Question string `json:"question"`
}

// Ask handles answering a question
// @Summary Ask the assistant
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AskRequest true "Question"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /assistant/ask [post]
func (h *AssistantHandler) Ask(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Question) == "" {
		return response.BadRequest(c, "Question is required")
	}

	reply, err := h.assistantService.Reply(c.Context(), p, req.Question)
	if err != nil {
		return fail(c, err, "answer question")
	}

	return response.Success(c, "OK", reply)
}

// History lists the calling doctor's past questions
// @Summary Assistant history
// @Tags Assistant
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /assistant/history [get]
func (h *AssistantHandler) History(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	exchanges, total, err := h.assistantService.History(c.Context(), p, params)
	if err != nil {
		return fail(c, err, "list assistant history")
	}

	return response.Paginated(c, "Assistant history retrieved successfully", exchanges, params, total)
}
