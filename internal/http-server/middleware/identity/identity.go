package identity

import (
	"net"
	"net/http"

	"survilav/lib/api/cont"
)

// New resolves the caller's network identity and stores it in the
// request context. RemoteAddr is already rewritten by chi's RealIP
// middleware when an X-Forwarded-For header is present.
func New() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			if host == "" {
				host = "unknown"
			}
			ctx := cont.PutIdentity(r.Context(), host)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
