package domain

import (
	"errors"
	"fmt"
)

// Error kinds reported by the core. Services wrap them with detail,
// callers match with errors.Is.
var (
	ErrNotFound              = errors.New("resource not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrForbidden             = errors.New("forbidden")
	ErrDuplicateEntry        = errors.New("duplicate entry")
	ErrAuthenticationFailure = errors.New("authentication failed")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenInvalid          = errors.New("token invalid")
)

// Order, registry and inventory errors
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidCategory   = errors.New("invalid doctor category")
	ErrInvalidQuantity   = errors.New("invalid quantity")
)

// Pricing lookups. Both are also ErrNotFound.
var (
	ErrUnknownService = fmt.Errorf("unknown service: %w", ErrNotFound)
	ErrUnknownDoctor  = fmt.Errorf("unknown doctor: %w", ErrNotFound)
)
