package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dentlab-backoffice/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

type stubTokens map[string]*domain.Principal

func (s stubTokens) ValidateAccessToken(ctx context.Context, token string) (*domain.Principal, error) {
	switch token {
	case "expired":
		return nil, domain.ErrTokenExpired
	case "inactive":
		return nil, domain.ErrAuthenticationFailure
	}
	p, ok := s[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return p, nil
}

func TestAuthAndRoleMiddleware(t *testing.T) {
	doctorID := uint(7)
	tokens := stubTokens{
		"admin":  {UserID: 1, Handle: "owner", Role: domain.RoleAdmin},
		"doctor": {UserID: 2, Handle: "dr.seneida", Role: domain.RoleDoctor, DoctorID: &doctorID},
	}

	app := fiber.New()
	app.Get("/staff", AuthMiddleware(tokens), StaffOnly(), func(c *fiber.Ctx) error {
		p, _ := CurrentPrincipal(c)
		return c.SendString(p.Handle)
	})
	app.Get("/doctor", AuthMiddleware(tokens), DoctorOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	testCases := []struct {
		name   string
		path   string
		header string
		cookie string
		want   int
	}{
		{"missing token", "/staff", "", "", http.StatusUnauthorized},
		{"expired token", "/staff", "Bearer expired", "", http.StatusUnauthorized},
		{"unknown token", "/staff", "Bearer nope", "", http.StatusUnauthorized},
		{"inactive account", "/staff", "Bearer inactive", "", http.StatusUnauthorized},
		{"staff via header", "/staff", "Bearer admin", "", http.StatusOK},
		{"staff via cookie", "/staff", "", "admin", http.StatusOK},
		{"doctor on staff route", "/staff", "Bearer doctor", "", http.StatusForbidden},
		{"doctor route", "/doctor", "Bearer doctor", "", http.StatusNoContent},
		{"admin on doctor route", "/doctor", "Bearer admin", "", http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tc.cookie})
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Errorf("status %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestCacheHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/public", CacheControl(10*time.Minute), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/none", NoCacheHeaders(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/public", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get("Cache-Control"); got != "public, max-age=600" {
		t.Errorf("public cache header %q", got)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/none", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get("Cache-Control"); got != "no-store, no-cache, must-revalidate" {
		t.Errorf("no-cache header %q", got)
	}
}
