// Package verify реализует HTTP-обработчик подтверждения оплаты.
//
// Фронтенд после успешной оплаты присылает пару идентификаторов и
// подпись провайдера; сервис проверяет подпись и активирует подписку.
package verify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/services/payment"
)

// Request описывает тело запроса подтверждения оплаты.
type Request struct {
	PaymentID      string `json:"razorpay_payment_id" validate:"required"`
	SubscriptionID string `json:"razorpay_subscription_id" validate:"required"`
	Signature      string `json:"razorpay_signature" validate:"required"`
}

// Service описывает интерфейс подтверждения оплаты.
type Service interface {
	Verify(ctx context.Context, userUID, paymentID, subscriptionID, signature string) error
}

// Handler обрабатывает HTTP-запросы подтверждения оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"

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

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	err := h.service.Verify(r.Context(), userUID, req.PaymentID, req.SubscriptionID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrSignatureMismatch):
			log.Error("payment signature mismatch", slog.String("payment_id", req.PaymentID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment verification failed"))
		case errors.Is(err, payment.ErrUserNotFound):
			log.Error("user not found", slog.String("uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user does not exist"))
		default:
			log.Error("failed to verify payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to verify payment"))
		}
		return
	}

	log.Info("payment verified", slog.String("payment_id", req.PaymentID))
	render.JSON(w, r, response.OKWithData(map[string]string{
		"message": "payment verified successfully",
	}))
}
