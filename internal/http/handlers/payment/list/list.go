// Package list реализует HTTP-обработчик списка подписок для админки.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/paymentprovider"
)

const defaultCount = 10

// Service описывает интерфейс получения списка подписок и платежей.
type Service interface {
	List(ctx context.Context, count int) (*paymentprovider.SubscriptionList, []*models.Payment, error)
}

// Handler обрабатывает HTTP-запросы списка подписок.
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
	const op = "handlers.payment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	count := defaultCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Error("invalid count parameter", slog.String("count", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid count parameter"))
			return
		}
		count = parsed
	}

	subscriptions, payments, err := h.service.List(r.Context(), count)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list subscriptions"))
		return
	}

	log.Info("subscriptions listed", slog.Int("count", subscriptions.Count))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscriptions": subscriptions,
		"payments":      payments,
	}))
}
