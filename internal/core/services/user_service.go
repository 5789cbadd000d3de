package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/adapters/persistence/repositories"
	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/pkg/pagination"
	"dentlab-backoffice/internal/pkg/password"
)

// UserService handles account administration
type UserService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	doctorRepo       repositories.DoctorRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	doctorRepo repositories.DoctorRepository,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		doctorRepo:       doctorRepo,
	}
}

// CreateUserInput represents a new account created by an administrator
type CreateUserInput struct {
	Handle   string      `json:"handle"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	Role     domain.Role `json:"role"`
	Clinic   string      `json:"clinic"` // doctor accounts only
}

// ChangePasswordInput represents a self-service credential change
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// CreateUser creates an account. Doctor accounts get a Regular profile in the same transaction.
func (s *UserService) CreateUser(ctx context.Context, p *domain.Principal, input *CreateUserInput) (*models.UserResponse, error) {
	if err := requireRole(p, "creating accounts", domain.RoleAdmin); err != nil {
		return nil, err
	}

	input.Handle = strings.TrimSpace(input.Handle)
	input.Name = strings.TrimSpace(input.Name)
	switch {
	case len(input.Handle) < 3:
		return nil, invalidInput("handle must be at least 3 characters")
	case input.Name == "":
		return nil, invalidInput("name is required")
	case !input.Role.Valid():
		return nil, invalidInput("unknown role %q", input.Role)
	case !password.ValidatePassword(input.Password):
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

	user := &models.User{
		Handle:   input.Handle,
		Password: hashed,
		Role:     input.Role,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		IsActive: true,
	}

	var resp *models.UserResponse
	if input.Role == domain.RoleDoctor {
		rate, _ := domain.DiscountFor(domain.CategoryRegular)
		doctor := &models.Doctor{
			Name:         input.Name,
			Clinic:       input.Clinic,
			Phone:        input.Phone,
			Email:        input.Email,
			Category:     domain.CategoryRegular,
			DiscountRate: rate,
			IsActive:     true,
		}
		if err := s.userRepo.CreateWithDoctor(ctx, user, doctor); err != nil {
			return nil, storeErr(err, domain.ErrNotFound)
		}
		resp = user.ToResponse()
		resp.DoctorID = &doctor.ID
	} else {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, storeErr(err, domain.ErrNotFound)
		}
		resp = user.ToResponse()
	}

	log.Printf("✅ User %s created by %s with role %s", user.Handle, p.Handle, user.Role)
	return resp, nil
}

// ListUsers lists accounts with pagination
func (s *UserService) ListUsers(ctx context.Context, p *domain.Principal, params *pagination.Params) ([]*models.UserResponse, int64, error) {
	if err := requireRole(p, "listing accounts", domain.RoleAdmin); err != nil {
		return nil, 0, err
	}

	users, total, err := s.userRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*models.UserResponse, len(users))
	for i, user := range users {
		out[i] = s.withDoctor(ctx, user)
	}
	return out, total, nil
}

// GetUser gets an account by ID
func (s *UserService) GetUser(ctx context.Context, p *domain.Principal, id uint) (*models.UserResponse, error) {
	if err := requireRole(p, "viewing accounts", domain.RoleAdmin); err != nil {
		return nil, err
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withDoctor(ctx, user), nil
}

// SetRole changes an account's role. Doctor accounts are tied to their
// profile, so roles cannot be changed into or out of DOCTOR.
func (s *UserService) SetRole(ctx context.Context, p *domain.Principal, id uint, role domain.Role) (*models.UserResponse, error) {
	if err := requireRole(p, "changing roles", domain.RoleAdmin); err != nil {
		return nil, err
	}
	if id == p.UserID {
		return nil, fmt.Errorf("%w: administrators cannot change their own role", domain.ErrForbidden)
	}
	if !role.Valid() {
		return nil, invalidInput("unknown role %q", role)
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user.ToResponse(), nil
	}
	if user.Role == domain.RoleDoctor || role == domain.RoleDoctor {
		return nil, invalidInput("doctor accounts are created through doctor registration and keep the %s role", domain.RoleDoctor)
	}

	old := user.Role
	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	// Access tokens carry the role; force a fresh login
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
		return nil, err
	}

	log.Printf("✅ User %s role changed %s -> %s by %s", user.Handle, old, role, p.Handle)
	return user.ToResponse(), nil
}

// SetActive activates or deactivates an account. Users are never deleted.
func (s *UserService) SetActive(ctx context.Context, p *domain.Principal, id uint, active bool) (*models.UserResponse, error) {
	if err := requireRole(p, "activating or deactivating accounts", domain.RoleAdmin); err != nil {
		return nil, err
	}
	if id == p.UserID && !active {
		return nil, fmt.Errorf("%w: administrators cannot deactivate themselves", domain.ErrForbidden)
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if !active {
		if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	log.Printf("✅ User %s active=%v set by %s", user.Handle, active, p.Handle)
	return s.withDoctor(ctx, user), nil
}

// ResetCredential sets a new credential for an account and ends its sessions
func (s *UserService) ResetCredential(ctx context.Context, p *domain.Principal, id uint, newPassword string) error {
	if err := requireRole(p, "resetting credentials", domain.RoleAdmin); err != nil {
		return err
	}
	if !password.ValidatePassword(newPassword) {
		return invalidInput("password must be at least %d characters", password.MinLength)
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}

	log.Printf("✅ Credential reset for %s by %s", user.Handle, p.Handle)
	return nil
}

// ChangePassword lets any principal change their own credential
func (s *UserService) ChangePassword(ctx context.Context, p *domain.Principal, input *ChangePasswordInput) error {
	user, err := s.find(ctx, p.UserID)
	if err != nil {
		return err
	}
	if !password.Verify(input.OldPassword, user.Password) {
		return fmt.Errorf("%w: current password is incorrect", domain.ErrInvalidInput)
	}
	if !password.ValidatePassword(input.NewPassword) {
		return invalidInput("password must be at least %d characters", password.MinLength)
	}
	return s.setPassword(ctx, user, input.NewPassword)
}

func (s *UserService) setPassword(ctx context.Context, user *models.User, plain string) error {
	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}
	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	return s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID)
}

func (s *UserService) find(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: user #%d", domain.ErrNotFound, id))
	}
	return user, nil
}

func (s *UserService) withDoctor(ctx context.Context, user *models.User) *models.UserResponse {
	resp := user.ToResponse()
	if user.Role == domain.RoleDoctor {
		if doctor, err := s.doctorRepo.GetByUserID(ctx, user.ID); err == nil {
			resp.DoctorID = &doctor.ID
		}
	}
	return resp
}
