package service

import (
	"errors"
	"fmt"

	"scenehub/internal/microservices/http-api/repository"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyReported = errors.New("already reported")
)

// notFound translates the repository's record-not-found into "<what> not found" wrapping
// ErrNotFound and leaves other errors alone.
func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
