package services

import (
	"errors"
	"fmt"
	"strings"

	"dentlab-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// storeErr translates persistence errors into domain kinds. A missing
// record becomes notFound, a unique-key violation becomes ErrDuplicateEntry.
func storeErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", domain.ErrDuplicateEntry, err)
	default:
		return err
	}
}

// requireRole fails with ErrForbidden naming the roles an action needs
func requireRole(p *domain.Principal, action string, roles ...domain.Role) error {
	if p.Is(roles...) {
		return nil
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return fmt.Errorf("%w: %s requires one of %s", domain.ErrForbidden, action, strings.Join(names, ", "))
}

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}
