package middlewares

import (
	"net/http"

	"github.com/axalapp/claims-api-service/internal/config"
)

// ContentLengthMiddleware bounds POST bodies. Declared lengths are rejected up
// front, chunked bodies are cut off while the handler decodes them.
func ContentLengthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	maxLength := cfg.Server.MaxContentLength
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				if r.ContentLength > maxLength {
					http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, maxLength)
			}
			next.ServeHTTP(w, r)
		})
	}
}
