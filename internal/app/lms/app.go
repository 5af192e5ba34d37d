package lms

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lms-platform/internal/cache"
	"github.com/magabrotheeeer/lms-platform/internal/config"
	"github.com/magabrotheeeer/lms-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/lms-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/lms-platform/internal/lib/smtp"
	"github.com/magabrotheeeer/lms-platform/internal/mediaprovider"
	"github.com/magabrotheeeer/lms-platform/internal/migrations"
	"github.com/magabrotheeeer/lms-platform/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/lms-platform/internal/services/auth"
	courseservice "github.com/magabrotheeeer/lms-platform/internal/services/course"
	paymentservice "github.com/magabrotheeeer/lms-platform/internal/services/payment"
	senderservice "github.com/magabrotheeeer/lms-platform/internal/services/sender"
	"github.com/magabrotheeeer/lms-platform/internal/storage/repository"
)

// App держит HTTP-сервер и внешние соединения основного приложения.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
}

// New собирает приложение: хранилище, миграции, кэш, брокер,
// внешних провайдеров, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	app := &App{logger: logger, db: db}

	// Брокер не обязателен: без него квитанции просто не отправляются.
	var publisher paymentservice.Publisher
	if cfg.RabbitURL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
		if err != nil {
			logger.Warn("rabbitmq unavailable, receipts disabled", slog.Any("err", err))
		} else {
			ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
			if err != nil {
				conn.Close()
				return nil, err
			}
			app.rabbitConn = conn
			app.rabbitCh = ch
			publisher = rabbitmq.NewPublisher(ch)
		}
	}

	providerClient := paymentprovider.NewClient(cfg.PaymentKeyID, cfg.PaymentSecret, cfg.PaymentAPIURL)
	mediaClient := mediaprovider.NewClient(cfg.Media)
	transport := smtp.NewTransport(cfg.SMTP, logger)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	senderService := senderservice.New(transport, logger)
	authService := authservice.New(db, jwtMaker, senderService, mediaClient, cfg.FrontendURL, logger)
	courseService := courseservice.New(db, cacheRedis, mediaClient, logger)
	paymentService := paymentservice.New(db, db, providerClient, publisher, cfg.PaymentPlanID, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, jwtMaker, authService, courseService, paymentService)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return app, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.rabbitCh != nil {
			a.rabbitCh.Close()
		}
		if a.rabbitConn != nil {
			a.rabbitConn.Close()
		}
		a.db.DB.Close()
		return err
	}
}
