// Package addlecture реализует HTTP-обработчик добавления лекции в курс.
//
// Запрос принимается как JSON или multipart/form-data; во втором случае
// вместе с полями может прийти видеофайл лекции.
package addlecture

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
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-platform/internal/http/formfile"
	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/services/course"
)

// Service описывает интерфейс добавления лекции.
type Service interface {
	AddLecture(ctx context.Context, courseID int, dummy models.DummyLecture, mediaPath string) (int, error)
}

// Handler обрабатывает HTTP-запросы добавления лекции.
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
	const op = "handlers.course.addlecture"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	idStr := chi.URLParam(r, "courseId")
	courseID, err := strconv.Atoi(idStr)
	if err != nil {
		log.Error("invalid course id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid course id"))
		return
	}

	var req models.DummyLecture
	var mediaPath string
	if formfile.IsMultipart(r) {
		path, err := formfile.Save(r, "lecture", h.uploadDir)
		if err != nil {
			log.Error("failed to save lecture file", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
		mediaPath = path
		req.Title = r.FormValue("title")
		req.Description = r.FormValue("description")
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

	count, err := h.service.AddLecture(r.Context(), courseID, req, mediaPath)
	if err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			log.Error("course not found", slog.Int("id", courseID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("course does not exist"))
			return
		}
		log.Error("failed to add lecture", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to add lecture"))
		return
	}

	log.Info("lecture added", slog.Int("course_id", courseID), slog.Int("number_of_lectures", count))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"number_of_lectures": count,
		"message":            "lecture added successfully",
	}))
}
