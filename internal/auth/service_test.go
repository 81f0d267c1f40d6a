package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/clientdesk/clientdesk/internal/auth"
	"github.com/clientdesk/clientdesk/internal/shared"
	_ "github.com/clientdesk/clientdesk/testing"
)

type stubRepo struct {
	users  map[string]*auth.User
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: make(map[string]*auth.User), nextID: 1}
}

func (s *stubRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	if _, ok := s.users[username]; ok {
		return 0, shared.ErrDuplicate
	}
	id := s.nextID
	s.nextID++
	s.users[username] = &auth.User{ID: id, Username: username, PasswordHash: passwordHash}
	return id, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := newStubRepo()
	repo.users["staff"] = &auth.User{ID: 1, Username: "staff", PasswordHash: string(hash)}
	service := auth.NewService(testLogger(), repo)

	user, err := service.Authenticate(context.Background(), "staff", "correctpass")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("expected user 1, got %d", user.ID)
	}
}

func TestAuthenticateRejectsUniformly(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := newStubRepo()
	repo.users["staff"] = &auth.User{ID: 1, Username: "staff", PasswordHash: string(hash)}
	service := auth.NewService(testLogger(), repo)

	// Wrong password and unknown username must be indistinguishable.
	if _, err := service.Authenticate(context.Background(), "staff", "wrongpass"); err != shared.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Authenticate(context.Background(), "nobody", "correctpass"); err != shared.ErrInvalidCredentials {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestEnsureDefaultUserIdempotent(t *testing.T) {
	repo := newStubRepo()
	service := auth.NewService(testLogger(), repo)

	for i := 0; i < 2; i++ {
		if err := service.EnsureDefaultUser(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(repo.users))
	}
	user := repo.users[auth.DefaultUsername]
	if user == nil {
		t.Fatalf("default user missing")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(auth.DefaultPassword)); err != nil {
		t.Fatalf("default password does not verify: %v", err)
	}

	// A concurrent create surfacing as a duplicate is tolerated.
	repo.users["racer"] = &auth.User{ID: 99, Username: "racer"}
	if err := service.EnsureDefaultUser(context.Background()); err != nil {
		t.Fatalf("after concurrent create: %v", err)
	}
}
