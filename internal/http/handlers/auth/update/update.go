// Package update реализует HTTP-обработчик обновления профиля:
// имя и, при наличии файла в multipart-форме, аватар.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-platform/internal/http/formfile"
	"github.com/magabrotheeeer/lms-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/services/auth"
)

// Request — входные данные для обновления профиля. Все поля опциональны.
type Request struct {
	FullName string `json:"full_name" validate:"omitempty,min=5,max=30"`
}

// Service описывает интерфейс обновления профиля.
type Service interface {
	UpdateProfile(ctx context.Context, userUID, fullName, avatarPath string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы обновления профиля.
type Handler struct {
	log       *slog.Logger
	service   Service
	validate  *validator.Validate
	uploadDir string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, uploadDir string) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		validate:  validator.New(),
		uploadDir: uploadDir,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized, please login"))
		return
	}

	var req Request
	var avatarPath string
	if formfile.IsMultipart(r) {
		path, err := formfile.Save(r, "avatar", h.uploadDir)
		if err != nil {
			log.Error("failed to save avatar file", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
		avatarPath = path
		req.FullName = r.FormValue("full_name")
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userUID, req.FullName, avatarPath)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			log.Error("user not found", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user does not exist"))
			return
		}
		log.Error("failed to update profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update profile"))
		return
	}

	log.Info("profile updated", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":    user,
		"message": "user details updated successfully",
	}))
}
