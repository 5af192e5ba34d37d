// Package lms предоставляет маршруты и жизненный цикл основного приложения.
package lms

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/lms-platform/internal/config"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/auth/changepassword"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/auth/forgotpassword"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/auth/update"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/course/addlecture"
	coursecreate "github.com/magabrotheeeer/lms-platform/internal/http/handlers/course/create"
	courselist "github.com/magabrotheeeer/lms-platform/internal/http/handlers/course/list"
	courseread "github.com/magabrotheeeer/lms-platform/internal/http/handlers/course/read"
	courseremove "github.com/magabrotheeeer/lms-platform/internal/http/handlers/course/remove"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/course/removelecture"
	courseupdate "github.com/magabrotheeeer/lms-platform/internal/http/handlers/course/update"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/payment/buy"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/payment/cancel"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/payment/key"
	paymentlist "github.com/magabrotheeeer/lms-platform/internal/http/handlers/payment/list"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/payment/verify"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/payment/webhook"
	"github.com/magabrotheeeer/lms-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/lms-platform/internal/models"
	authservice "github.com/magabrotheeeer/lms-platform/internal/services/auth"
	courseservice "github.com/magabrotheeeer/lms-platform/internal/services/course"
	paymentservice "github.com/magabrotheeeer/lms-platform/internal/services/payment"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, jwtMaker jwt.Maker,
	authService *authservice.Service, courseService *courseservice.Service, paymentService *paymentservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			// Открытые конечные точки
			r.Post("/register", register.New(logger, authService, cfg.UploadDir).ServeHTTP)
			r.Post("/login", login.New(logger, authService, cfg.TokenTTL).ServeHTTP)
			r.Get("/logout", logout.New(logger).ServeHTTP)
			r.Post("/reset", forgotpassword.New(logger, authService).ServeHTTP)
			r.Post("/reset/{resetToken}", resetpassword.New(logger, authService).ServeHTTP)

			// Группа с JWT аутентификацией
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
				r.Use(middlewarectx.RateLimitMiddleware(logger))
				r.Get("/", profile.New(logger, authService).ServeHTTP)
				r.Put("/update", update.New(logger, authService, cfg.UploadDir).ServeHTTP)
				r.Post("/change-password", changepassword.New(logger, authService).ServeHTTP)
			})
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", courselist.New(logger, courseService).ServeHTTP)

			// Просмотр лекций доступен подписчикам и администратору
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
				r.Use(middlewarectx.SubscriberOnly(logger))
				r.Get("/{courseId}", courseread.New(logger, courseService).ServeHTTP)
			})

			// Управление курсами доступно только администратору
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
				r.Use(middlewarectx.RequireRoles(logger, models.RoleAdmin))
				r.Post("/", coursecreate.New(logger, courseService, cfg.UploadDir).ServeHTTP)
				r.Put("/{courseId}", courseupdate.New(logger, courseService).ServeHTTP)
				r.Delete("/{courseId}", courseremove.New(logger, courseService).ServeHTTP)
				r.Post("/{courseId}/lectures", addlecture.New(logger, courseService, cfg.UploadDir).ServeHTTP)
				r.Delete("/{courseId}/lectures/{lectureIndex}", removelecture.New(logger, courseService).ServeHTTP)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
				r.Get("/key", key.New(logger, paymentService).ServeHTTP)
				r.Post("/subscribe", buy.New(logger, paymentService).ServeHTTP)
				r.Post("/verify", verify.New(logger, paymentService).ServeHTTP)
				r.Post("/unsubscribe", cancel.New(logger, paymentService).ServeHTTP)
			})

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
				r.Use(middlewarectx.RequireRoles(logger, models.RoleAdmin))
				r.Get("/", paymentlist.New(logger, paymentService).ServeHTTP)
			})

			// Webhook endpoint (без аутентификации)
			r.Post("/webhook", webhook.New(logger, paymentService, cfg.WebhookSecret).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
