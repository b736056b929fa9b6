package middlewares

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/unrolled/secure"
)

// The swagger UI loads its assets from the CDNs below, every other route only
// ever returns JSON.
const (
	swaggerPathPrefix = "/swagger/"

	swaggerContentSecurityPolicy = "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' https://cdnjs.cloudflare.com; " +
		"style-src 'self' 'unsafe-inline' https://cdnjs.cloudflare.com; " +
		"img-src 'self' data:; " +
		"object-src 'none'; frame-ancestors 'self'; base-uri 'self'"
	apiContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"
)

func newSecure(csp string) *secure.Secure {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: csp,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	})
}

// SecurityHeadersMiddleware sets the security headers, with a looser content
// security policy on the swagger UI
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	apiSec := newSecure(apiContentSecurityPolicy)
	swaggerSec := newSecure(swaggerContentSecurityPolicy)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sec := apiSec
			if strings.HasPrefix(r.URL.Path, swaggerPathPrefix) {
				sec = swaggerSec
			}
			if err := sec.Process(w, r); err != nil {
				log.Ctx(r.Context()).Error().Err(err).Msg("error while applying security headers")
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
