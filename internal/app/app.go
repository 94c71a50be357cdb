package app

import (
	"log/slog"

	"github.com/jobos/frontend/internal/apiclient"
	"github.com/jobos/frontend/internal/config"
	"github.com/jobos/frontend/internal/service"
	"github.com/jobos/frontend/internal/session"
)

type App struct {
	Cfg           *config.Config
	API           *apiclient.Client
	Sessions      *session.CookieStore
	AuthService   *service.AuthService
	UploadService *service.UploadService
}

func New(cfg *config.Config) *App {
	// Remote API
	api := apiclient.New(cfg.APIURL, apiclient.WithTimeout(cfg.APITimeout))
	slog.Debug("api client configured", "api_url", api.BaseURL(), "timeout", cfg.APITimeout)

	// Session storage
	sessions := session.NewCookieStore(cfg.SessionCookieName, cfg.SessionMaxAge, cfg.SecureCookies)

	// Services
	authService := service.NewAuthService(api)
	uploadService := service.NewUploadService(api)

	return &App{
		Cfg:           cfg,
		API:           api,
		Sessions:      sessions,
		AuthService:   authService,
		UploadService: uploadService,
	}
}
