package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"conferencecentral/internal/domain"
)

type stubVerifier struct {
	userID string
	err    error
}

func (v *stubVerifier) Verify(token string) (string, error) {
	if v.err != nil {
		return "", v.err
	}
	return v.userID, nil
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   *stubVerifier
		wantStatus int
		wantUserID string
	}{
		{
			name:       "missing header",
			header:     "",
			verifier:   &stubVerifier{userID: "user-1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc123",
			verifier:   &stubVerifier{userID: "user-1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token",
			header:     "Bearer   ",
			verifier:   &stubVerifier{userID: "user-1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "rejected token",
			header:     "Bearer bad-token",
			verifier:   &stubVerifier{err: domain.ErrUnauthenticated},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			header:     "Bearer good-token",
			verifier:   &stubVerifier{userID: "user-1"},
			wantStatus: http.StatusOK,
			wantUserID: "user-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID string
			var called bool
			next := func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotUserID, _ = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			RequireAuth(tt.verifier)(next)(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusOK {
				if !called {
					t.Fatal("expected next handler to run")
				}
				if gotUserID != tt.wantUserID {
					t.Errorf("expected user ID %q, got %q", tt.wantUserID, gotUserID)
				}
			} else if called {
				t.Error("next handler must not run on auth failure")
			}
		})
	}
}
