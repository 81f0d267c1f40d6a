package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/clientdesk/clientdesk/internal/shared"
)

// DefaultUsername and DefaultPassword seed the initial staff account so a
// fresh install can be signed into before any other user exists.
const (
	DefaultUsername = "teste"
	DefaultPassword = "teste1"
)

// Service wraps authentication business rules.
type Service struct {
	logger *slog.Logger
	repo   Repository
}

// NewService constructs a new Service.
func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

// Authenticate validates username/password credentials. Unknown users and
// wrong passwords fail identically so the response does not reveal which
// usernames exist.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// UserByID resolves a stored session user reference back to an account.
func (s *Service) UserByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// EnsureDefaultUser creates the seed account if it does not exist yet.
// Safe to call on every startup; a concurrent create is tolerated.
func (s *Service) EnsureDefaultUser(ctx context.Context) error {
	_, err := s.repo.FindByUsername(ctx, DefaultUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("look up default user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}

	if _, err := s.repo.Create(ctx, DefaultUsername, string(hash)); err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("create default user: %w", err)
	}
	s.logger.Info("provisioned default user", "username", DefaultUsername)
	return nil
}
