// Package removelecture реализует HTTP-обработчик удаления лекции из курса.
package removelecture

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
	"github.com/magabrotheeeer/lms-platform/internal/services/course"
)

// Service описывает интерфейс удаления лекции.
type Service interface {
	RemoveLecture(ctx context.Context, courseID, index int) (int, error)
}

// Handler обрабатывает HTTP-запросы удаления лекции.
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
	const op = "handlers.course.removelecture"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	courseID, err := strconv.Atoi(chi.URLParam(r, "courseId"))
	if err != nil {
		log.Error("invalid course id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid course id"))
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "lectureIndex"))
	if err != nil || index < 0 {
		log.Error("invalid lecture index format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid lecture index"))
		return
	}

	count, err := h.service.RemoveLecture(r.Context(), courseID, index)
	if err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			log.Error("course or lecture not found", slog.Int("id", courseID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("course or lecture does not exist"))
			return
		}
		log.Error("failed to remove lecture", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove lecture"))
		return
	}

	log.Info("lecture removed", slog.Int("course_id", courseID), slog.Int("number_of_lectures", count))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"number_of_lectures": count,
		"message":            "lecture removed successfully",
	}))
}
