package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"authform/internal/models"
)

// JWTMiddleware validates Bearer tokens and injects the account into the request context
func JWTMiddleware(jwtManager JWT, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Expect header in format "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			writeError(w, http.StatusUnauthorized, "Authorization header must be Bearer <token>")
			return
		}

		claims, err := jwtManager.Verify(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := WithUsername(r.Context(), claims.Username)
		ctx = WithEmail(ctx, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MethodMiddleware enforces allowed HTTP methods for a handler
func MethodMiddleware(allowedMethods ...string) func(http.Handler) http.Handler {
	methods := make(map[string]struct{}, len(allowedMethods))
	for _, m := range allowedMethods {
		methods[m] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := methods[r.Method]; !ok {
				w.Header().Set("Allow", strings.Join(allowedMethods, ", "))
				writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Message: msg})
}
