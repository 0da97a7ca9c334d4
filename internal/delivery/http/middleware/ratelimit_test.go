package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

// echoVerifier treats the token itself as the user ID.
type echoVerifier struct{}

func (echoVerifier) Verify(token string) (string, error) {
	return token, nil
}

func TestRateLimiter_LimitFunc(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            rate.Limit(1),
		Burst:           2,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	handler := rl.LimitFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	do := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec
	}

	// Burst allows the first two requests, then the client is throttled.
	for i := 0; i < 2; i++ {
		if rec := do("10.0.0.1:1234"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
	rec := do("10.0.0.1:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After header")
	}

	// A different client has its own budget.
	if rec := do("10.0.0.2:1234"); rec.Code != http.StatusOK {
		t.Errorf("expected separate budget per client, got %d", rec.Code)
	}
}

func TestRateLimiter_KeysAuthenticatedUsersSeparately(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            rate.Limit(1),
		Burst:           1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	// The production chain for authenticated routes: the limiter runs
	// after RequireAuth so it sees the resolved user ID.
	handler := RequireAuth(echoVerifier{})(rl.LimitFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(userID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("Authorization", "Bearer "+userID)
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec
	}

	// Two users behind the same address do not share a budget.
	if rec := do("user-1"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := do("user-2"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := do("user-1"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for exhausted user, got %d", rec.Code)
	}
}
