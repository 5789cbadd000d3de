package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"dentlab-backoffice/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

func TestFailMapsErrorKinds(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{"authentication", domain.ErrAuthenticationFailure, http.StatusUnauthorized, "AUTHENTICATION_FAILED"},
		{"expired token", domain.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"forbidden with detail", fmt.Errorf("%w: needs ADMIN", domain.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{"unknown service", fmt.Errorf("%w: \"Corona de Oro\"", domain.ErrUnknownService), http.StatusNotFound, "UNKNOWN_SERVICE"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"duplicate", domain.ErrDuplicateEntry, http.StatusConflict, "DUPLICATE_ENTRY"},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{"invalid category", domain.ErrInvalidCategory, http.StatusBadRequest, "INVALID_CATEGORY"},
		{"invalid quantity", domain.ErrInvalidQuantity, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return fail(c, tc.err, "run test") })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			var body struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
				Code    string `json:"code"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.wantCode || body.Code != tc.wantKind || body.Success {
				t.Errorf("got %d %s, want %d %s", resp.StatusCode, body.Code, tc.wantCode, tc.wantKind)
			}
		})
	}
}

func TestFailKeepsRoleDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return fail(c, fmt.Errorf("%w: overriding discounts requires one of ADMIN", domain.ErrForbidden), "override discount")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "forbidden: overriding discounts requires one of ADMIN" {
		t.Errorf("error message %q", body["error"])
	}
}
