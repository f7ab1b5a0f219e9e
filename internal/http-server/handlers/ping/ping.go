package ping

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"survilav/lib/api/response"
	"survilav/lib/sl"
)

func Ping(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.With(sl.Module("http.handlers.ping")).Debug("ping received")
		render.JSON(w, r, response.Ok(map[string]string{"status": "pong"}))
	}
}
