package services

import (
	"context"
	"errors"
	"testing"

	"dentlab-backoffice/internal/core/domain"
	"dentlab-backoffice/internal/pkg/pagination"
)

func TestUserAdministration(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	root, err := env.userSvc.CreateUser(ctx, &domain.Principal{UserID: 100, Handle: "bootstrap", Role: domain.RoleAdmin}, &CreateUserInput{
		Handle: "owner", Password: "owner-password", Name: "Owner", Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatal(err)
	}
	owner := &domain.Principal{UserID: root.ID, Handle: root.Handle, Role: domain.RoleAdmin}

	tech, err := env.userSvc.CreateUser(ctx, owner, &CreateUserInput{
		Handle: "tecnico1", Password: "technician-pass", Name: "Carlos López", Role: domain.RoleTechnician,
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("non admin is forbidden", func(t *testing.T) {
		_, err := env.userSvc.CreateUser(ctx, frontDesk, &CreateUserInput{
			Handle: "intruso", Password: "password1", Name: "X", Role: domain.RoleAdmin,
		})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("cannot change own role", func(t *testing.T) {
		_, err := env.userSvc.SetRole(ctx, owner, owner.UserID, domain.RoleTechnician)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("cannot deactivate self", func(t *testing.T) {
		_, err := env.userSvc.SetActive(ctx, owner, owner.UserID, false)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("role change", func(t *testing.T) {
		updated, err := env.userSvc.SetRole(ctx, owner, tech.ID, domain.RoleCourier)
		if err != nil {
			t.Fatal(err)
		}
		if updated.Role != domain.RoleCourier {
			t.Errorf("role = %s", updated.Role)
		}
		if _, err := env.userSvc.SetRole(ctx, owner, tech.ID, domain.RoleDoctor); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("promotion to doctor: expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("reset credential", func(t *testing.T) {
		if err := env.userSvc.ResetCredential(ctx, owner, tech.ID, "short"); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if err := env.userSvc.ResetCredential(ctx, owner, tech.ID, "brand-new-pass"); err != nil {
			t.Fatal(err)
		}
		if _, _, err := env.auth.Authenticate(ctx, "tecnico1", "brand-new-pass"); err != nil {
			t.Errorf("login with new credential: %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, err := env.userSvc.GetUser(ctx, owner, 999); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("doctor account gets a profile", func(t *testing.T) {
		dr, err := env.userSvc.CreateUser(ctx, owner, &CreateUserInput{
			Handle: "dr.nuevo", Password: "doctor-pass", Name: "Dr. Nuevo", Role: domain.RoleDoctor, Clinic: "Norte",
		})
		if err != nil {
			t.Fatal(err)
		}
		if dr.DoctorID == nil {
			t.Fatal("expected a doctor profile")
		}
	})

	users, total, err := env.userSvc.ListUsers(ctx, owner, pagination.New(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(users) != 2 {
		t.Errorf("list: total %d, page size %d", total, len(users))
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p, _ := env.addDoctor(t, "dr.pw", domain.CategoryRegular)

	err := env.userSvc.ChangePassword(ctx, p, &ChangePasswordInput{OldPassword: "wrong-pass", NewPassword: "new-doctor-pass"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := env.userSvc.ChangePassword(ctx, p, &ChangePasswordInput{OldPassword: "doctor-pass", NewPassword: "new-doctor-pass"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := env.auth.Authenticate(ctx, "dr.pw", "new-doctor-pass"); err != nil {
		t.Errorf("login with changed credential: %v", err)
	}
}
