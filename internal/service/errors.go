package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stemsi/portfolio-backend/internal/repository"
)

// Domain errors surfaced to handlers.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrVersionConflict    = errors.New("version conflict")
)

// missingFields builds an ErrValidation naming the absent fields.
func missingFields(fields ...string) error {
	return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(fields, ", "))
}

// translate maps repository sentinels onto domain errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrDuplicateEmail
	case errors.Is(err, repository.ErrVersionConflict):
		return ErrVersionConflict
	default:
		return err
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
