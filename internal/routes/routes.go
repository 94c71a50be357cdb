package routes

import (
	"net/http"
	"time"

	"github.com/jobos/frontend/internal/app"
	"github.com/jobos/frontend/internal/handler"
	"github.com/jobos/frontend/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler()
	auth := handler.NewAuthHandler(app.AuthService, app.Sessions)
	dashboard := handler.NewDashboardHandler(app.UploadService, app.Sessions, app.Cfg.MaxUploadSize)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", home.Healthz)
	mux.HandleFunc("GET /{$}", home.HomePage)

	// Auth (form posts are rate limited per IP)
	rateLimit := middleware.RateLimit(middleware.NewRateLimiter(app.Cfg.AuthRateLimit, app.Cfg.AuthRateWindow))

	mux.HandleFunc("GET /signup", auth.SignupPage)
	mux.HandleFunc("POST /signup", rateLimit(auth.Signup))
	mux.HandleFunc("GET /signin", auth.SigninPage)
	mux.HandleFunc("POST /signin", rateLimit(auth.Signin))
	mux.HandleFunc("POST /signout", auth.Signout)

	// ============================================================================
	// PROTECTED ROUTES (/dashboard*)
	// ============================================================================

	mux.HandleFunc("GET /dashboard", middleware.RequireSession(dashboard.DashboardPage))
	mux.HandleFunc("POST /dashboard/uploads", middleware.RequireSession(dashboard.Upload))
	mux.HandleFunc("DELETE /dashboard/uploads/{id}", middleware.RequireSession(dashboard.Delete))
	mux.HandleFunc("POST /dashboard/uploads/{id}/delete", middleware.RequireSession(dashboard.Delete))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),                           // Config must be first (CSRF and layouts read it)
		middleware.NonceMiddleware,                           // Generate CSP nonce for each request (must be before SecurityHeaders)
		middleware.SecurityHeaders,                           // Security headers for all responses
		middleware.RequestLogging,                            // Request id + access log
		middleware.MaxBodySize(app.Cfg.MaxUploadSize),        // Cap bodies before CSRF parses forms
		middleware.CSRFProtection,                            // CSRF protection for all state-changing requests
		middleware.SessionMiddleware(app.Sessions, time.Now), // Token cookie -> *session.Session
		middleware.WithURLPath,
	)

	return handler
}
