package middlewarectx

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-platform/internal/http/response"
)

// RequireRoles возвращает middleware, пропускающий только пользователей
// с одной из перечисленных ролей. Работает после JWTMiddleware.
func RequireRoles(log *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized, please login"))
				return
			}

			if !slices.Contains(roles, role) {
				log.Error("insufficient role", slog.String("role", role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("you do not have permission to access this route"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
