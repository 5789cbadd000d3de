package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/adapters/persistence/repositories"
	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/pkg/jwt"
	"dentlab-backoffice/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	doctorRepo       repositories.DoctorRepository
	tokens           *jwt.Manager
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	doctorRepo repositories.DoctorRepository,
	tokens *jwt.Manager,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		doctorRepo:       doctorRepo,
		tokens:           tokens,
	}
}

// RegisterDoctorInput represents doctor self-registration input
type RegisterDoctorInput struct {
	Handle    string `json:"handle"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Clinic    string `json:"clinic"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// LoginInput represents login input
type LoginInput struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Authenticate resolves a handle and credential to a principal. Unknown
// handle, wrong credential and inactive account all yield the same
// ErrAuthenticationFailure, and every path pays for one bcrypt compare.
func (s *AuthService) Authenticate(ctx context.Context, handle, credential string) (*domain.Principal, *models.User, error) {
	handle = strings.TrimSpace(handle)

	user, err := s.userRepo.GetByHandle(ctx, handle)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hash := ""
	if user != nil {
		hash = user.Password
	}
	matched := password.Verify(credential, hash)

	var reason string
	switch {
	case user == nil:
		reason = "unknown handle"
	case !matched:
		reason = "credential mismatch"
	case !user.IsActive:
		reason = "account inactive"
	}
	if reason != "" {
		log.Printf("⚠️ Authentication failed for %q: %s", handle, reason)
		return nil, nil, domain.ErrAuthenticationFailure
	}

	principal, err := s.principalFor(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("✅ Authenticated %s as %s", user.Handle, user.Role)
	return principal, user, nil
}

// Login authenticates and issues a token pair
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	principal, user, err := s.Authenticate(ctx, input.Handle, input.Password)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, principal, user)
}

// RegisterDoctor creates a referring doctor's account and profile and signs them in
func (s *AuthService) RegisterDoctor(ctx context.Context, input *RegisterDoctorInput) (*AuthResponse, error) {
	input.Handle = strings.TrimSpace(input.Handle)
	input.Name = strings.TrimSpace(input.Name)
	if len(input.Handle) < 3 {
		return nil, invalidInput("handle must be at least 3 characters")
	}
	if input.Name == "" {
		return nil, invalidInput("name is required")
	}
	if !password.ValidatePassword(input.Password) {
		return nil, invalidInput("password must be at least %d characters", password.MinLength)
	}

	exists, err := s.userRepo.ExistsByHandle(ctx, input.Handle)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: handle %q is already taken", domain.ErrDuplicateEntry, input.Handle)
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	rate, _ := domain.DiscountFor(domain.CategoryRegular)
	user := &models.User{
		Handle:   input.Handle,
		Password: hashed,
		Role:     domain.RoleDoctor,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		IsActive: true,
	}
	doctor := &models.Doctor{
		Name:         input.Name,
		Clinic:       input.Clinic,
		Specialty:    input.Specialty,
		Phone:        input.Phone,
		Email:        input.Email,
		Category:     domain.CategoryRegular,
		DiscountRate: rate,
		IsActive:     true,
	}
	if err := s.userRepo.CreateWithDoctor(ctx, user, doctor); err != nil {
		return nil, storeErr(err, domain.ErrNotFound)
	}

	log.Printf("✅ Doctor registered: %s (doctor #%d)", user.Handle, doctor.ID)

	principal := &domain.Principal{UserID: user.ID, Handle: user.Handle, Name: user.Name, Role: user.Role, DoctorID: &doctor.ID}
	return s.issue(ctx, principal, user)
}

// Refresh rotates a refresh token and issues a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, tokenErr(err)
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: refresh token revoked or unknown", domain.ErrTokenInvalid))
	}
	if stored.IsRevoked() || stored.UserID != claims.UserID {
		return nil, domain.ErrTokenInvalid
	}
	if stored.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, storeErr(err, domain.ErrTokenInvalid)
	}
	if !user.IsActive {
		log.Printf("⚠️ Refresh refused for inactive user %s", user.Handle)
		return nil, domain.ErrAuthenticationFailure
	}

	// Token rotation
	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}

	principal, err := s.principalFor(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for user: %s", user.Handle)
	return s.issue(ctx, principal, user)
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
		return err
	}
	log.Printf("✅ User logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}
	log.Printf("✅ All sessions revoked for user ID: %d", userID)
	return nil
}

// ValidateAccessToken turns an access token into the request's principal.
// The account is reloaded on every call, so deactivation and role changes
// apply to tokens already issued.
func (s *AuthService) ValidateAccessToken(ctx context.Context, accessToken string) (*domain.Principal, error) {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, tokenErr(err)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		log.Printf("⚠️ Rejected access token of inactive account %q", user.Handle)
		return nil, domain.ErrAuthenticationFailure
	}
	if !user.Role.Valid() {
		return nil, domain.ErrTokenInvalid
	}

	p := &domain.Principal{
		UserID: user.ID,
		Handle: user.Handle,
		Name:   user.Name,
		Role:   user.Role,
	}
	if user.Role == domain.RoleDoctor {
		p.DoctorID = claims.DoctorID
	}
	return p, nil
}

// Me returns the account behind a principal
func (s *AuthService) Me(ctx context.Context, p *domain.Principal) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: user #%d", domain.ErrNotFound, p.UserID))
	}
	resp := user.ToResponse()
	resp.DoctorID = p.DoctorID
	return resp, nil
}

// principalFor builds the principal of an account, attaching the doctor profile for doctors
func (s *AuthService) principalFor(ctx context.Context, user *models.User) (*domain.Principal, error) {
	p := &domain.Principal{UserID: user.ID, Handle: user.Handle, Name: user.Name, Role: user.Role}
	if user.Role != domain.RoleDoctor {
		return p, nil
	}

	doctor, err := s.doctorRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("❌ Doctor account %s has no doctor profile", user.Handle)
			return nil, domain.ErrAuthenticationFailure
		}
		return nil, err
	}
	p.DoctorID = &doctor.ID
	return p, nil
}

// issue signs an access token and stores a new refresh token
func (s *AuthService) issue(ctx context.Context, p *domain.Principal, user *models.User) (*AuthResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(jwt.Claims{
		UserID:   p.UserID,
		Handle:   p.Handle,
		Name:     p.Name,
		Role:     string(p.Role),
		DoctorID: p.DoctorID,
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(p.UserID, uuid.NewString())
	if err != nil {
		return nil, err
	}

	err = s.refreshTokenRepo.Create(ctx, &models.RefreshToken{
		UserID:    p.UserID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: s.tokens.RefreshExpiry(),
	})
	if err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	resp.DoctorID = p.DoctorID
	return &AuthResponse{
		User:         resp,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func tokenErr(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return domain.ErrTokenExpired
	}
	return domain.ErrTokenInvalid
}

// PurgeExpiredSessions deletes refresh tokens past their expiry
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	return s.refreshTokenRepo.DeleteExpired(ctx)
}
