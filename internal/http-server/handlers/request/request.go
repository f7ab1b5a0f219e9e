package request

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"survilav/entity"
	"survilav/lib/api/cont"
	"survilav/lib/api/response"
	"survilav/lib/sl"
)

type Core interface {
	SubmitRequest(form *entity.SubmitForm, identity string) error
	CancelRequest(nickname string) error
	ListRequests() ([]entity.Request, error)
}

// Submit handles POST /api/request. The client identity comes from the
// request context, resolved by the identity middleware.
func Submit(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.request")

		identity := cont.GetIdentity(r.Context())
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("identity", identity),
		)

		var form entity.SubmitForm
		if err := render.Bind(r, &form); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}
		logger = logger.With(
			slog.String("nickname", form.Nickname),
			sl.Code(form.Invite),
		)

		if err := handler.SubmitRequest(&form, identity); err != nil {
			logger.Error("submit request", sl.Err(err))
			render.Status(r, submitStatus(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger.Debug("request submitted")

		render.JSON(w, r, response.Ok(map[string]string{"message": "Request submitted."}))
	}
}

// Cancel handles POST /api/cancel?nickname=.
func Cancel(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.request")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		nickname := strings.TrimSpace(r.URL.Query().Get("nickname"))
		if nickname == "" {
			logger.Error("cancel request", sl.Err(fmt.Errorf("nickname not provided")))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Nickname not provided"))
			return
		}
		logger = logger.With(slog.String("nickname", nickname))

		if err := handler.CancelRequest(nickname); err != nil {
			logger.Error("cancel request", sl.Err(err))
			if errors.Is(err, entity.ErrRequestNotFound) {
				render.Status(r, http.StatusNotFound)
			} else {
				render.Status(r, http.StatusInternalServerError)
			}
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger.Debug("request canceled")

		render.JSON(w, r, response.Ok(map[string]string{"message": fmt.Sprintf("Request %s removed.", nickname)}))
	}
}

// List handles GET /api/request/list (admin only).
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.request")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		records, err := handler.ListRequests()
		if err != nil {
			logger.Error("list requests", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger.Debug("requests listed", slog.Int("count", len(records)))

		render.JSON(w, r, response.Ok(records))
	}
}

// submitStatus maps core submit errors to status codes: everything the
// caller can correct is 400, the rest is a server-side failure.
func submitStatus(err error) int {
	var vErr *entity.ValidationError
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, entity.ErrDuplicateIdentity),
		errors.Is(err, entity.ErrInviteNotFound),
		errors.Is(err, entity.ErrInviteExpired),
		errors.Is(err, entity.ErrInviteExhausted):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
