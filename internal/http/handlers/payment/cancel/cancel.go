// Package cancel реализует HTTP-обработчик отмены подписки.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/services/payment"
)

// Service описывает интерфейс отмены подписки.
type Service interface {
	Cancel(ctx context.Context, userUID string) error
}

// Handler обрабатывает HTTP-запросы отмены подписки.
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
	const op = "handlers.payment.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("missing user uid in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized, please login"))
		return
	}

	if err := h.service.Cancel(r.Context(), userUID); err != nil {
		switch {
		case errors.Is(err, payment.ErrAdminNotAllowed):
			log.Error("admin cannot cancel a subscription")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("admin cannot cancel a subscription"))
		case errors.Is(err, payment.ErrNoSubscription):
			log.Error("no subscription to cancel", slog.String("uid", userUID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("no active subscription to cancel"))
		case errors.Is(err, payment.ErrUserNotFound):
			log.Error("user not found", slog.String("uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user does not exist"))
		default:
			log.Error("failed to cancel subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to cancel subscription"))
		}
		return
	}

	log.Info("subscription cancelled", slog.String("uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]string{
		"message": "subscription cancelled successfully",
	}))
}
