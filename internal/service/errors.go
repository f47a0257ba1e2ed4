package service

import (
	"errors"

	"github.com/caddieai/caddie/internal/validation"
)

var (
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrFeatureDisabled    = errors.New("feature is not configured")
	ErrRateLimited        = errors.New("rate limit exceeded")
)

// invalid reports a single-field validation failure.
func invalid(field string, err error) error {
	return validation.Errors{field: err.Error()}
}
