package adminauth

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"survilav/lib/api/response"
	"survilav/lib/sl"
)

// Auth is the credential check the middleware delegates to.
type Auth interface {
	AuthorizeAdmin(key string) bool
}

// New guards admin endpoints with a shared secret, taken from the
// X-API-Key header or the api_key query parameter, and logs every
// request passing through.
func New(log *slog.Logger, auth Auth) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.adminauth")
	log.With(mod).Info("admin auth middleware initialized")

	return func(next http.Handler) http.Handler {

		fn := func(w http.ResponseWriter, r *http.Request) {
			id := middleware.GetReqID(r.Context())
			logger := log.With(
				mod,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("request_id", id),
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t1 := time.Now()
			defer func() {
				logger.With(
					slog.Int("status", ww.Status()),
					slog.Int("size", ww.BytesWritten()),
					slog.Float64("duration", time.Since(t1).Seconds()),
				).Info("incoming admin request")
			}()

			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}
			if key == "" {
				logger = logger.With(sl.Err(fmt.Errorf("api key not provided")))
				authFailed(ww, r)
				return
			}
			logger = logger.With(sl.Secret("api_key", key))

			if auth == nil || !auth.AuthorizeAdmin(key) {
				logger = logger.With(sl.Err(fmt.Errorf("api key rejected")))
				authFailed(ww, r)
				return
			}

			ww.Header().Set("X-Request-ID", id)
			next.ServeHTTP(ww, r)
		}

		return http.HandlerFunc(fn)
	}
}

func authFailed(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error("Invalid or missing API key"))
}
