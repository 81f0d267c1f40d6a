package shared_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clientdesk/clientdesk/internal/shared"
)

func newCSRFSession(t *testing.T) *shared.Session {
	t.Helper()
	store := shared.NewMemorySessionStore()
	manager := shared.NewSessionManager(store, "clientdesk_session", "test-secret", time.Hour, false)
	req := httptest.NewRequest("GET", "/", nil)
	sess, err := manager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return sess
}

func TestCSRFTokenStablePerSession(t *testing.T) {
	csrf := shared.NewCSRFManager("csrf-secret")
	sess := newCSRFSession(t)

	first, err := csrf.EnsureToken(context.Background(), sess)
	if err != nil {
		t.Fatalf("ensure token: %v", err)
	}
	if first == "" {
		t.Fatal("expected a non-empty token")
	}
	second, err := csrf.EnsureToken(context.Background(), sess)
	if err != nil {
		t.Fatalf("ensure token again: %v", err)
	}
	if first != second {
		t.Fatalf("token changed within one session: %q then %q", first, second)
	}
	if err := csrf.VerifyToken(context.Background(), sess, first); err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
}

func TestCSRFTokenMismatchRejected(t *testing.T) {
	csrf := shared.NewCSRFManager("csrf-secret")
	sess := newCSRFSession(t)

	if _, err := csrf.EnsureToken(context.Background(), sess); err != nil {
		t.Fatalf("ensure token: %v", err)
	}

	other := newCSRFSession(t)
	foreign, err := csrf.EnsureToken(context.Background(), other)
	if err != nil {
		t.Fatalf("ensure foreign token: %v", err)
	}
	if err := csrf.VerifyToken(context.Background(), sess, foreign); !errors.Is(err, shared.ErrCSRFTokenMismatch) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
}

func TestCSRFTokenMissingRejected(t *testing.T) {
	csrf := shared.NewCSRFManager("csrf-secret")
	sess := newCSRFSession(t)

	if err := csrf.VerifyToken(context.Background(), sess, "anything"); !errors.Is(err, shared.ErrCSRFTokenMissing) {
		t.Fatalf("expected missing-token error for token-less session, got %v", err)
	}
	if _, err := csrf.EnsureToken(context.Background(), sess); err != nil {
		t.Fatalf("ensure token: %v", err)
	}
	if err := csrf.VerifyToken(context.Background(), sess, ""); !errors.Is(err, shared.ErrCSRFTokenMissing) {
		t.Fatalf("expected missing-token error for empty submission, got %v", err)
	}
}
