package middleware

import (
	"context"
	"errors"
	"strings"

	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// TokenValidator turns an access token into a principal
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, accessToken string) (*domain.Principal, error)
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		principal, err := tokens.ValidateAccessToken(c.Context(), accessToken)
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			if errors.Is(err, domain.ErrAuthenticationFailure) {
				return response.Unauthorized(c, "Account is inactive")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	names := make([]string, len(allowedRoles))
	for i, r := range allowedRoles {
		names[i] = string(r)
	}
	message := "This action requires one of: " + strings.Join(names, ", ")

	return func(c *fiber.Ctx) error {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if principal.Is(allowedRoles...) {
			return c.Next()
		}
		return response.Forbidden(c, message)
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// StaffOnly middleware allows every lab role and rejects referring doctors
func StaffOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin, domain.RoleFrontDesk, domain.RoleTechnician, domain.RoleCourier)
}

// DoctorOnly middleware allows only referring doctors
func DoctorOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleDoctor)
}

// CurrentPrincipal returns the principal set by AuthMiddleware
func CurrentPrincipal(c *fiber.Ctx) (*domain.Principal, bool) {
	p, ok := c.Locals(principalKey).(*domain.Principal)
	return p, ok && p != nil
}

// extractToken reads the access token from the cookie, then the Authorization header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}
