// Package read реализует HTTP-обработчик чтения курса вместе с лекциями.
// Доступ ограничен подписчиками и администраторами.
package read

import (
	"context"
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

// Service описывает интерфейс чтения курса.
type Service interface {
	Read(ctx context.Context, id int) (*models.Course, error)
}

// Handler обрабатывает HTTP-запросы чтения курса.
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
	const op = "handlers.course.read"

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

	result, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			log.Error("course not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("course does not exist"))
			return
		}
		log.Error("failed to read course", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read course"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"course":   result,
		"lectures": result.Lectures,
	}))
}
