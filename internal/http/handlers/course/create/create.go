// Package create реализует HTTP-обработчик создания курса.
//
// Запрос принимается как JSON или multipart/form-data; во втором случае
// вместе с полями может прийти файл обложки.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-platform/internal/http/formfile"
	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// Service описывает интерфейс создания курса.
type Service interface {
	Create(ctx context.Context, dummy models.DummyCourse, thumbnailPath string) (int, error)
}

// Handler обрабатывает HTTP-запросы создания курса.
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
	const op = "handlers.course.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCourse
	var thumbnailPath string
	if formfile.IsMultipart(r) {
		path, err := formfile.Save(r, "thumbnail", h.uploadDir)
		if err != nil {
			log.Error("failed to save thumbnail file", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
		thumbnailPath = path
		req.Title = r.FormValue("title")
		req.Description = r.FormValue("description")
		req.Category = r.FormValue("category")
		req.CreatedBy = r.FormValue("created_by")
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

	id, err := h.service.Create(r.Context(), req, thumbnailPath)
	if err != nil {
		log.Error("failed to create course", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create course"))
		return
	}

	log.Info("course created", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":      id,
		"message": "course created successfully",
	}))
}
