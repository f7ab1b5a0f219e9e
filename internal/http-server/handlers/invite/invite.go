package invite

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"survilav/entity"
	"survilav/lib/api/response"
	"survilav/lib/sl"
)

type Core interface {
	CreateInvite(form *entity.InviteForm) (*entity.Invite, error)
	ValidateInvite(code string) (*entity.InviteSummary, error)
	DeleteInvite(code string) error
	ListInvites() ([]entity.InviteSummary, error)
}

// Create handles POST /api/invite/create (admin only).
func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.invite")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var form entity.InviteForm
		if err := render.Bind(r, &form); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		invite, err := handler.CreateInvite(&form)
		if err != nil {
			logger.Error("create invite", sl.Err(err))
			if errors.Is(err, entity.ErrDuplicateCode) {
				render.Status(r, http.StatusBadRequest)
			} else {
				render.Status(r, http.StatusInternalServerError)
			}
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger.Debug("invite created", sl.Code(invite.Code))

		render.JSON(w, r, response.Ok(map[string]interface{}{
			"code":       invite.Code,
			"expires_at": invite.ExpiresAt,
			"max_uses":   invite.MaxUses,
		}))
	}
}

// Validate handles GET /api/invite/validate?code=. Public: the summary
// it returns carries no usage detail.
func Validate(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.invite")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		code := strings.TrimSpace(r.URL.Query().Get("code"))
		if code == "" {
			logger.Error("validate invite", sl.Err(fmt.Errorf("code not provided")))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Code not provided"))
			return
		}
		logger = logger.With(sl.Code(code))

		summary, err := handler.ValidateInvite(code)
		if err != nil {
			logger.Info("validate invite", sl.Err(err))
			render.Status(r, validateStatus(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger.Debug("invite valid", slog.Int("uses", summary.Uses))

		render.JSON(w, r, response.Ok(summary))
	}
}

// Delete handles POST /api/invite/delete?code= (admin only).
func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.invite")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		code := strings.TrimSpace(r.URL.Query().Get("code"))
		if code == "" {
			logger.Error("delete invite", sl.Err(fmt.Errorf("code not provided")))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Code not provided"))
			return
		}
		logger = logger.With(sl.Code(code))

		if err := handler.DeleteInvite(code); err != nil {
			logger.Error("delete invite", sl.Err(err))
			if errors.Is(err, entity.ErrInviteNotFound) {
				render.Status(r, http.StatusNotFound)
			} else {
				render.Status(r, http.StatusInternalServerError)
			}
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger.Debug("invite deleted")

		render.JSON(w, r, response.Ok(map[string]string{"message": fmt.Sprintf("Invite %s removed.", code)}))
	}
}

// List handles GET /api/invite/list (admin only). Includes full usage
// detail.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.invite")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		summaries, err := handler.ListInvites()
		if err != nil {
			logger.Error("list invites", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger.Debug("invites listed", slog.Int("count", len(summaries)))

		render.JSON(w, r, response.Ok(summaries))
	}
}

func validateStatus(err error) int {
	switch {
	case errors.Is(err, entity.ErrInviteNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInviteExpired),
		errors.Is(err, entity.ErrInviteExhausted):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
