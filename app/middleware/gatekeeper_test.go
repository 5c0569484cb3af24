package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aitp-labs/aitp-server/app/middleware"
	"github.com/aitp-labs/aitp-server/app/session"
	"github.com/aitp-labs/aitp-server/app/token"

	"github.com/labstack/echo/v4"
)

func newGuard(t *testing.T) (*middleware.Gatekeeper, *token.Codec, *session.Manager) {
	t.Helper()
	codec := token.NewCodec("test-secret", time.Hour)
	manager := session.NewManager(time.Hour, false)
	return middleware.NewGatekeeper(codec, manager, middleware.DefaultRoutes()), codec, manager
}

func runGuard(t *testing.T, guard *middleware.Gatekeeper, path string, cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	forwarded := false
	handler := guard.Guard(func(c echo.Context) error {
		forwarded = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return ctx, rec, forwarded
}

func sessionCookie(t *testing.T, codec *token.Codec, userID, email, name string) *http.Cookie {
	t.Helper()
	signed, err := codec.Issue(userID, email, name)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	return &http.Cookie{Name: session.CookieName, Value: signed}
}

func clearedSessionCookie(t *testing.T, rec *httptest.ResponseRecorder) bool {
	t.Helper()
	res := rec.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == session.CookieName && c.Value == "" && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestGuardForwardsPublicRoutes(t *testing.T) {
	guard, _, _ := newGuard(t)

	for _, path := range []string{"/", "/auth/login", "/login", "/register", "/auth/me"} {
		if _, _, forwarded := runGuard(t, guard, path, nil); !forwarded {
			t.Fatalf("expected %s to be forwarded", path)
		}
	}
}

func TestGuardForwardsUnclassifiedRoutes(t *testing.T) {
	guard, _, _ := newGuard(t)

	if _, _, forwarded := runGuard(t, guard, "/favicon.ico", nil); !forwarded {
		t.Fatalf("expected unclassified path to pass through")
	}
}

func TestGuardProtectedAPIWithoutCookie(t *testing.T) {
	guard, _, _ := newGuard(t)

	_, rec, forwarded := runGuard(t, guard, "/api/itineraries", nil)
	if forwarded {
		t.Fatalf("expected request to be short-circuited")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected machine-readable error body, got %s", rec.Body.String())
	}
}

func TestGuardProtectedPageRedirectsToLogin(t *testing.T) {
	guard, _, _ := newGuard(t)

	_, rec, forwarded := runGuard(t, guard, "/saved", nil)
	if forwarded {
		t.Fatalf("expected request to be short-circuited")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != "/auth/login?redirect=%2Fsaved" {
		t.Fatalf("unexpected redirect target %q", got)
	}
}

func TestGuardExpiredTokenClearsCookie(t *testing.T) {
	now := time.Now()
	expiredCodec := token.NewCodec("test-secret", time.Hour, token.WithClock(func() time.Time {
		return now.Add(-2 * time.Hour)
	}))
	cookie := sessionCookie(t, expiredCodec, "user-1", "ana@x.com", "Ana")

	guard, _, _ := newGuard(t)
	_, rec, forwarded := runGuard(t, guard, "/api/itineraries", cookie)
	if forwarded {
		t.Fatalf("expected request to be short-circuited")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !clearedSessionCookie(t, rec) {
		t.Fatalf("expected cookie-clear directive on expired token")
	}
}

func TestGuardTamperedTokenRejected(t *testing.T) {
	otherCodec := token.NewCodec("other-secret", time.Hour)
	cookie := sessionCookie(t, otherCodec, "user-1", "ana@x.com", "")

	guard, _, _ := newGuard(t)
	_, rec, forwarded := runGuard(t, guard, "/api/itineraries", cookie)
	if forwarded {
		t.Fatalf("expected request to be short-circuited")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGuardInvalidTokenOnPageRedirectsAndClears(t *testing.T) {
	guard, _, _ := newGuard(t)
	cookie := &http.Cookie{Name: session.CookieName, Value: "garbage"}

	_, rec, forwarded := runGuard(t, guard, "/profile", cookie)
	if forwarded {
		t.Fatalf("expected request to be short-circuited")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != "/auth/login?redirect=%2Fprofile" {
		t.Fatalf("unexpected redirect target %q", got)
	}
	if !clearedSessionCookie(t, rec) {
		t.Fatalf("expected cookie-clear directive on invalid token")
	}
}

func TestGuardPropagatesIdentityOnProtectedAPI(t *testing.T) {
	guard, codec, _ := newGuard(t)
	cookie := sessionCookie(t, codec, "user-1", "ana@x.com", "Ana")

	ctx, rec, forwarded := runGuard(t, guard, "/api/itineraries/it-42", cookie)
	if !forwarded {
		t.Fatalf("expected request to be forwarded, got %d", rec.Code)
	}
	if got, _ := ctx.Get(middleware.ContextUserID).(string); got != "user-1" {
		t.Fatalf("expected user_id in context, got %q", got)
	}
	if got, _ := ctx.Get(middleware.ContextUserEmail).(string); got != "ana@x.com" {
		t.Fatalf("expected user_email in context, got %q", got)
	}
	if got, _ := ctx.Get(middleware.ContextUserName).(string); got != "Ana" {
		t.Fatalf("expected user_name in context, got %q", got)
	}
}

func TestGuardSegmentMatching(t *testing.T) {
	guard, _, _ := newGuard(t)

	// nested resource under a protected collection is protected
	if _, rec, forwarded := runGuard(t, guard, "/api/itineraries/123", nil); forwarded || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected nested path to be protected")
	}

	// an adjacent name sharing the prefix is not
	if _, _, forwarded := runGuard(t, guard, "/generate-extra", nil); !forwarded {
		t.Fatalf("expected /generate-extra to pass through")
	}

	// root pattern must not swallow everything
	if _, rec, forwarded := runGuard(t, guard, "/profile", nil); forwarded || rec.Code != http.StatusFound {
		t.Fatalf("expected /profile to remain protected")
	}
}
