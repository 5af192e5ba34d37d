package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// SubscriberOnly возвращает middleware, пропускающий администраторов
// и пользователей с активной подпиской. Статус берётся из claims
// токена, то есть отражает состояние на момент входа.
func SubscriberOnly(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized, please login"))
				return
			}

			status, _ := r.Context().Value(SubscriptionStatus).(string)
			if role != models.RoleAdmin && status != models.SubscriptionActive {
				log.Error("subscription is not active, access denied",
					slog.String("status", status))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("please subscribe to access this course"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
