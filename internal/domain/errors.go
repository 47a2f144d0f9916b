package domain

import "errors"

// Sentinel errors shared across services; the HTTP layer maps each
// kind to a status code. Ownership violations surface as ErrNotFound
// so callers cannot probe for other users' resources.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrForbidden          = errors.New("forbidden")
	ErrExternalSource     = errors.New("external flight source unavailable")
)
