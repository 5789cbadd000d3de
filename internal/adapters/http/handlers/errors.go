package handlers

import (
	"errors"
	"log"
	"strconv"

	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// errorKinds maps domain error kinds to HTTP statuses. Checked in order,
// so the specific kinds come before the ErrNotFound they wrap.
var errorKinds = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrAuthenticationFailure, fiber.StatusUnauthorized, "AUTHENTICATION_FAILED"},
	{domain.ErrTokenExpired, fiber.StatusUnauthorized, "TOKEN_EXPIRED"},
	{domain.ErrTokenInvalid, fiber.StatusUnauthorized, "TOKEN_INVALID"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnknownService, fiber.StatusNotFound, "UNKNOWN_SERVICE"},
	{domain.ErrUnknownDoctor, fiber.StatusNotFound, "UNKNOWN_DOCTOR"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicateEntry, fiber.StatusConflict, "DUPLICATE_ENTRY"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrInvalidCategory, fiber.StatusBadRequest, "INVALID_CATEGORY"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
}

// fail writes err with the status of its kind. The message carries the
// service's detail, e.g. which role an action required.
func fail(c *fiber.Ctx, err error, action string) error {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.err) {
			if kind.err == domain.ErrAuthenticationFailure {
				return response.Fail(c, kind.status, kind.code, "Invalid handle or password")
			}
			return response.Fail(c, kind.status, kind.code, err.Error())
		}
	}
	log.Printf("❌ Failed to %s: %v", action, err)
	return response.InternalServerError(c, "Failed to "+action)
}

// paramID parses a numeric path parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
