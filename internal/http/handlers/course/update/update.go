// Package update реализует HTTP-обработчик частичного обновления курса.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/services/course"
)

// Request — входные данные для обновления курса. Все поля опциональны,
// пустые значения оставляют прежние.
type Request struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	CreatedBy   string `json:"created_by"`
}

// Service описывает интерфейс обновления курса.
type Service interface {
	Update(ctx context.Context, id int, dummy models.DummyCourse) error
}

// Handler обрабатывает HTTP-запросы обновления курса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	idStr := chi.URLParam(r, "courseId")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		log.Error("invalid course id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid course id"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	dummy := models.DummyCourse{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CreatedBy:   req.CreatedBy,
	}
	if err := h.service.Update(r.Context(), id, dummy); err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			log.Error("course not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("course does not exist"))
			return
		}
		log.Error("failed to update course", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update course"))
		return
	}

	log.Info("course updated", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "course updated successfully",
	}))
}
