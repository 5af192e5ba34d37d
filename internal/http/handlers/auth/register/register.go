// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Запрос принимается как JSON или multipart/form-data; во втором случае
// вместе с полями может прийти файл аватара, который сохраняется локально
// и передаётся сервису для загрузки на медиа-хостинг.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-platform/internal/http/formfile"
	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/services/auth"
)

// Request — входные данные для регистрации
type Request struct {
	FullName string `json:"full_name" validate:"required,min=5,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, fullName, email, password, avatarPath string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
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

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Данные нового пользователя"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /user/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Register(r.Context(), req.FullName, req.Email, req.Password, avatarPath)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			log.Error("email already taken", slog.String("email", req.Email))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("user already exists"))
			return
		}
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	log.Info("user registered", slog.String("email", user.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":    user,
		"message": "user registered successfully",
	}))
}
