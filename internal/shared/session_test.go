package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/clientdesk/clientdesk/internal/shared"
	_ "github.com/clientdesk/clientdesk/testing"
)

func sessionStores(t *testing.T) map[string]shared.SessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	return map[string]shared.SessionStore{
		"redis":  shared.NewRedisSessionStore(redisClient),
		"memory": shared.NewMemorySessionStore(),
	}
}

func TestSessionRoundTrip(t *testing.T) {
	for name, store := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			manager := shared.NewSessionManager(store, "test_session", "secret", time.Hour, false)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			sess, err := manager.Load(context.Background(), req)
			if err != nil {
				t.Fatalf("load session: %v", err)
			}
			sess.SetUser("42")
			sess.Set("theme", "dark")

			res := httptest.NewRecorder()
			if err := manager.Commit(context.Background(), res, req, sess); err != nil {
				t.Fatalf("commit session: %v", err)
			}

			cookies := res.Result().Cookies()
			if len(cookies) == 0 {
				t.Fatalf("expected session cookie")
			}

			next := httptest.NewRequest(http.MethodGet, "/", nil)
			next.AddCookie(&http.Cookie{Name: manager.CookieName(), Value: sess.ID})
			loaded, err := manager.Load(context.Background(), next)
			if err != nil {
				t.Fatalf("reload session: %v", err)
			}
			if loaded.User() != "42" {
				t.Fatalf("expected user 42, got %q", loaded.User())
			}
			if loaded.Get("theme") != "dark" {
				t.Fatalf("expected stored value to survive reload")
			}
		})
	}
}

func TestSessionDestroyInvalidatesStoredState(t *testing.T) {
	for name, store := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			manager := shared.NewSessionManager(store, "test_session", "secret", time.Hour, false)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			sess, err := manager.Load(context.Background(), req)
			if err != nil {
				t.Fatalf("load session: %v", err)
			}
			sess.SetUser("7")
			res := httptest.NewRecorder()
			if err := manager.Commit(context.Background(), res, req, sess); err != nil {
				t.Fatalf("commit session: %v", err)
			}

			manager.Destroy(sess)
			destroyRes := httptest.NewRecorder()
			if err := manager.Commit(context.Background(), destroyRes, req, sess); err != nil {
				t.Fatalf("commit destroyed session: %v", err)
			}

			// Presenting the old cookie must not resurrect the user.
			stale := httptest.NewRequest(http.MethodGet, "/", nil)
			stale.AddCookie(&http.Cookie{Name: manager.CookieName(), Value: sess.ID})
			loaded, err := manager.Load(context.Background(), stale)
			if err != nil {
				t.Fatalf("reload after destroy: %v", err)
			}
			if loaded.User() != "" {
				t.Fatalf("expected empty user after destroy, got %q", loaded.User())
			}
		})
	}
}

func TestSessionFlashSurvivesOneReload(t *testing.T) {
	for name, store := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			manager := shared.NewSessionManager(store, "test_session", "secret", time.Hour, false)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			sess, err := manager.Load(context.Background(), req)
			if err != nil {
				t.Fatalf("load session: %v", err)
			}
			sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "saved"})
			res := httptest.NewRecorder()
			if err := manager.Commit(context.Background(), res, req, sess); err != nil {
				t.Fatalf("commit session: %v", err)
			}

			next := httptest.NewRequest(http.MethodGet, "/", nil)
			next.AddCookie(&http.Cookie{Name: manager.CookieName(), Value: sess.ID})
			loaded, err := manager.Load(context.Background(), next)
			if err != nil {
				t.Fatalf("reload session: %v", err)
			}

			flash := loaded.PopFlash()
			if flash == nil || flash.Message != "saved" {
				t.Fatalf("expected flash to survive redirect, got %+v", flash)
			}
			if loaded.PopFlash() != nil {
				t.Fatalf("expected flash to be consumed after one pop")
			}

			nextRes := httptest.NewRecorder()
			if err := manager.Commit(context.Background(), nextRes, next, loaded); err != nil {
				t.Fatalf("commit after pop: %v", err)
			}

			final := httptest.NewRequest(http.MethodGet, "/", nil)
			final.AddCookie(&http.Cookie{Name: manager.CookieName(), Value: sess.ID})
			reloaded, err := manager.Load(context.Background(), final)
			if err != nil {
				t.Fatalf("final reload: %v", err)
			}
			if reloaded.PopFlash() != nil {
				t.Fatalf("expected no flash after it was shown")
			}
		})
	}
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := shared.NewMemorySessionStore()
	ctx := context.Background()

	if err := store.Set(ctx, "sid", []byte("payload"), time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := store.Get(ctx, "sid"); err != shared.ErrNoSession {
		t.Fatalf("expected ErrNoSession for expired entry, got %v", err)
	}
}
