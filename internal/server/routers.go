package server

import (
	"net/http"

	"authform/internal/auth"
	"authform/internal/handlers"
	"authform/internal/log"
	"authform/internal/metrics"

	"github.com/google/uuid"
)

// scopedRoute represents a single API route
type scopedRoute struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
	Protected   bool // whether the route requires JWT
}

// NewRouter initializes all routes and returns an http.Handler
func NewRouter(jwtManager auth.JWT, userHandler handlers.UserHandlerInterface, m *metrics.AuthMetrics, logger log.Logger) http.Handler {
	if logger == nil {
		logger = log.GetLogger()
	}

	routes := []scopedRoute{
		// Public routes
		{
			Name:        "RegisterUser",
			Method:      http.MethodPost,
			Pattern:     "/user/register",
			HandlerFunc: userHandler.Register,
		},
		{
			Name:        "LoginUser",
			Method:      http.MethodPost,
			Pattern:     "/user/login",
			HandlerFunc: userHandler.Login,
		},
		{
			Name:        "Healthz",
			Method:      http.MethodGet,
			Pattern:     "/healthz",
			HandlerFunc: handlers.Healthz,
		},
		{
			Name:        "Metrics",
			Method:      http.MethodGet,
			Pattern:     "/metrics",
			HandlerFunc: m.Handler().ServeHTTP,
		},

		// Protected routes
		{
			Name:        "CurrentUser",
			Method:      http.MethodGet,
			Pattern:     "/user/me",
			HandlerFunc: userHandler.Me,
			Protected:   true,
		},
	}

	mux := http.NewServeMux()
	for _, route := range routes {
		var handler http.Handler = auth.MethodMiddleware(route.Method)(route.HandlerFunc)

		// Wrap protected routes with JWT middleware
		if route.Protected {
			handler = auth.JWTMiddleware(jwtManager, handler)
		}

		mux.Handle(route.Pattern, m.Instrument(route.Pattern, handler))
	}

	return withRequestLogging(logger, mux)
}

// withRequestLogging tags each request with an id and logs it once served
func withRequestLogging(logger log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := log.WithRequestID(r.Context(), id)
		rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.InfoContext(ctx, "request served", "method", r.Method, "path", r.URL.Path, "status", rec.status)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
