// Package resetpassword реализует HTTP-обработчик погашения токена
// сброса пароля.
package resetpassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/services/auth"
)

// Request — входные данные для установки нового пароля.
type Request struct {
	Password string `json:"password" validate:"required,min=8"`
}

// Service описывает интерфейс погашения токена сброса.
type Service interface {
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

// Handler обрабатывает HTTP-запросы погашения токена сброса.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetpassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rawToken := chi.URLParam(r, "resetToken")
	if rawToken == "" {
		log.Error("missing reset token")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("token is invalid or expired, please try again"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.ResetPassword(r.Context(), rawToken, req.Password); err != nil {
		if errors.Is(err, auth.ErrResetTokenInvalid) {
			log.Error("reset token invalid or expired")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("token is invalid or expired, please try again"))
			return
		}
		log.Error("failed to reset password", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to reset password"))
		return
	}

	log.Info("password reset")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "password changed successfully",
	}))
}
