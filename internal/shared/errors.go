package shared

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicate indicates a write violating a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates user input that failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrStorageUnavailable indicates the record store could not be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// ClassifyDBError maps driver-level failures onto the shared sentinel set so
// handlers never leak raw database errors to the user.
func ClassifyDBError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case strings.HasPrefix(pgErr.Code, "08"):
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "connection refused") {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return err
}

// UserSafeMessage converts an error into notice text suitable for rendering.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicate):
		return "A record with that value already exists."
	case errors.Is(err, ErrNotFound):
		return "The requested record was not found."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, ErrStorageUnavailable):
		return "The data store is currently unavailable. Please try again."
	case errors.Is(err, ErrValidation):
		return "Some fields contain invalid values."
	default:
		return "Something went wrong. Please try again."
	}
}
