package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"authform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoAccount(w http.ResponseWriter, r *http.Request) {
	username, _ := GetUsername(r.Context())
	email, _ := GetEmail(r.Context())
	w.Write([]byte(username + "|" + email))
}

func TestJWTMiddleware(t *testing.T) {
	j := NewJWTManager("middleware-secret", time.Minute)
	token, err := j.Generate("alice", "alice@example.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
		wantError  string
	}{
		{"valid token", "Bearer " + token, http.StatusOK, "alice|alice@example.com", ""},
		{"lowercase scheme", "bearer " + token, http.StatusOK, "alice|alice@example.com", ""},
		{"missing header", "", http.StatusUnauthorized, "", "Authorization header required"},
		{"no scheme", token, http.StatusUnauthorized, "", "Authorization header must be Bearer <token>"},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, "", "Invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			JWTMiddleware(j, http.HandlerFunc(echoAccount)).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantError != "" {
				var body models.ErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, tt.wantError, body.Message)
				return
			}
			assert.Equal(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestMethodMiddleware(t *testing.T) {
	h := MethodMiddleware(http.MethodPost)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/user/login", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/user/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST", rr.Header().Get("Allow"))
	assert.JSONEq(t, `{"message":"Method not allowed"}`, rr.Body.String())
}
