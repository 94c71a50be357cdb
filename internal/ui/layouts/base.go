package layouts

import (
	"context"
	"encoding/json"

	"github.com/jobos/frontend/internal/ctxkeys"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// AppName returns the configured application name for page headers.
func AppName(ctx context.Context) string {
	if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
		return cfg.AppName
	}
	return "JOB OS"
}

func pageTitle(ctx context.Context, title string) string {
	if title == "" {
		return AppName(ctx)
	}
	return title + " · " + AppName(ctx)
}

// csrfHeaders is the hx-headers value that makes htmx send the token on every request.
func csrfHeaders(ctx context.Context) (string, error) {
	b, err := json.Marshal(map[string]string{"X-CSRF-Token": ctxkeys.CSRFToken(ctx)})
	return string(b), err
}
