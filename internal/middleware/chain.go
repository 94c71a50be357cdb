package middleware

import "net/http"

// Chain wraps h so the middlewares run in the order given (first is outermost).
//
//	handler := Chain(mux,
//	    Config(cfg),        // runs first
//	    RequestLogging,     // runs second
//	    WithURLPath,        // runs last, right before mux
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
