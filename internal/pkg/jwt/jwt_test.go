package jwt

import (
	"errors"
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("access-secret", "refresh-secret", 15, 7)
	doctorID := uint(4)

	token, err := m.GenerateAccessToken(Claims{UserID: 9, Handle: "dr.rivera", Role: "DOCTOR", DoctorID: &doctorID})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 9 || claims.Role != "DOCTOR" || claims.DoctorID == nil || *claims.DoctorID != 4 {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != Issuer {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := NewManager("access-secret", "refresh-secret", 15, 7)

	refresh, err := m.GenerateRefreshToken(1, "token-id")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ValidateAccessToken(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}
	if _, err := m.ValidateRefreshToken(refresh); err != nil {
		t.Errorf("validate refresh: %v", err)
	}
}

func TestExpiredToken(t *testing.T) {
	m := NewManager("access-secret", "refresh-secret", -1, 7)

	token, err := m.GenerateAccessToken(Claims{UserID: 1, Handle: "admin", Role: "ADMIN"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ValidateAccessToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}
