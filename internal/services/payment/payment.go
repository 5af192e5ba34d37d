// Package payment содержит бизнес-логику покупки, подтверждения и
// отмены подписок через платёжного провайдера.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/paymentprovider"
	"github.com/magabrotheeeer/lms-platform/internal/storage/repository"
)

// Ошибки уровня сервиса.
var (
	// ErrAdminNotAllowed администратор не покупает и не отменяет подписку.
	ErrAdminNotAllowed = errors.New("admin cannot manage subscription")
	// ErrNoSubscription у пользователя нет привязанной подписки.
	ErrNoSubscription = errors.New("no subscription to cancel")
	// ErrSignatureMismatch подпись платежа не сошлась.
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	// ErrUserNotFound пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository описывает контракт для обновления подписки пользователя.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetUserBySubscriptionID(ctx context.Context, subscriptionID string) (*models.User, error)
	UpdateSubscription(ctx context.Context, userUID, subscriptionID, status string) error
	UpdateSubscriptionStatus(ctx context.Context, userUID, status string) error
}

// PaymentRepository описывает контракт для записи платежей.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment models.Payment) (int, error)
	ListPayments(ctx context.Context, limit, offset int) ([]*models.Payment, error)
}

// Provider описывает контракт платёжного провайдера.
type Provider interface {
	CreateSubscription(ctx context.Context, planID string) (*paymentprovider.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*paymentprovider.Subscription, error)
	ListSubscriptions(ctx context.Context, count int) (*paymentprovider.SubscriptionList, error)
	VerifySignature(paymentID, subscriptionID, signature string) bool
	KeyID() string
}

// Publisher публикует события в очередь уведомлений. Может быть nil,
// тогда квитанции не отправляются.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service реализует бизнес-логику платежей и подписок.
type Service struct {
	users     UserRepository
	payments  PaymentRepository
	provider  Provider
	publisher Publisher
	planID    string
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, payments PaymentRepository, provider Provider, publisher Publisher, planID string, log *slog.Logger) *Service {
	return &Service{
		users:     users,
		payments:  payments,
		provider:  provider,
		publisher: publisher,
		planID:    planID,
		log:       log,
	}
}

// KeyID возвращает публичный идентификатор ключа провайдера.
func (s *Service) KeyID() string {
	return s.provider.KeyID()
}

// Buy создаёт подписку у провайдера и привязывает её к пользователю.
// Администратору подписка не нужна и не продаётся.
func (s *Service) Buy(ctx context.Context, userUID string) (string, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if user.Role == models.RoleAdmin {
		return "", ErrAdminNotAllowed
	}

	sub, err := s.provider.CreateSubscription(ctx, s.planID)
	if err != nil {
		return "", fmt.Errorf("create subscription: %w", err)
	}
	if err := s.users.UpdateSubscription(ctx, userUID, sub.ID, sub.Status); err != nil {
		return "", err
	}

	s.log.Info("subscription created", slog.String("subscription_id", sub.ID))
	return sub.ID, nil
}

// Verify проверяет подпись провайдера над парой (payment_id,
// subscription_id), сохраняет платёж, активирует подписку и публикует
// квитанцию в очередь уведомлений.
func (s *Service) Verify(ctx context.Context, userUID, paymentID, subscriptionID, signature string) error {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !s.provider.VerifySignature(paymentID, subscriptionID, signature) {
		return ErrSignatureMismatch
	}

	if _, err := s.payments.CreatePayment(ctx, models.Payment{
		UserUID:        userUID,
		PaymentID:      paymentID,
		SubscriptionID: subscriptionID,
		Signature:      signature,
	}); err != nil {
		return err
	}
	if err := s.users.UpdateSubscriptionStatus(ctx, userUID, models.SubscriptionActive); err != nil {
		return err
	}

	s.publishReceipt(user, paymentID, subscriptionID)
	return nil
}

// Cancel отменяет подписку пользователя у провайдера.
func (s *Service) Cancel(ctx context.Context, userUID string) error {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Role == models.RoleAdmin {
		return ErrAdminNotAllowed
	}
	if user.Subscription.ID == "" {
		return ErrNoSubscription
	}

	sub, err := s.provider.CancelSubscription(ctx, user.Subscription.ID)
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	return s.users.UpdateSubscription(ctx, userUID, sub.ID, sub.Status)
}

// List возвращает последние count подписок у провайдера вместе с
// записанными в базе платежами.
func (s *Service) List(ctx context.Context, count int) (*paymentprovider.SubscriptionList, []*models.Payment, error) {
	subs, err := s.provider.ListSubscriptions(ctx, count)
	if err != nil {
		return nil, nil, fmt.Errorf("list subscriptions: %w", err)
	}
	payments, err := s.payments.ListPayments(ctx, count, 0)
	if err != nil {
		return nil, nil, err
	}
	return subs, payments, nil
}

// ProcessWebhookEvent обрабатывает платёжное уведомление провайдера.
// Подпись уже проверена обработчиком webhook.
func (s *Service) ProcessWebhookEvent(ctx context.Context, event, subscriptionID string) error {
	user, err := s.users.GetUserBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	switch event {
	case "subscription.activated":
		return s.users.UpdateSubscriptionStatus(ctx, user.UID, models.SubscriptionActive)
	case "subscription.cancelled":
		return s.users.UpdateSubscriptionStatus(ctx, user.UID, models.SubscriptionCancelled)
	default:
		s.log.Info("ignoring webhook event", slog.String("event", event))
		return nil
	}
}

func (s *Service) publishReceipt(user *models.User, paymentID, subscriptionID string) {
	if s.publisher == nil {
		return
	}
	receipt := models.Receipt{
		Email:          user.Email,
		FullName:       user.FullName,
		PaymentID:      paymentID,
		SubscriptionID: subscriptionID,
	}
	if err := s.publisher.Publish("receipt", receipt); err != nil {
		s.log.Warn("failed to publish receipt", sl.Err(err))
	}
}
