package middleware

import "net/http"

// bodyOverhead leaves room for multipart boundaries and the CSRF field on top of the file itself.
const bodyOverhead = 1 << 20

// MaxBodySize caps request bodies before anything parses them.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit+bodyOverhead)
			}
			next.ServeHTTP(w, r)
		})
	}
}
