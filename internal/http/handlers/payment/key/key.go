// Package key отдаёт публичный идентификатор ключа платёжного провайдера,
// который фронтенд использует для виджета оплаты.
package key

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-platform/internal/http/response"
)

// Service описывает интерфейс получения ключа.
type Service interface {
	KeyID() string
}

// Handler обрабатывает HTTP-запросы получения ключа.
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
	const op = "handlers.payment.key"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	log.Info("payment key requested")
	render.JSON(w, r, response.OKWithData(map[string]string{
		"key": h.service.KeyID(),
	}))
}
