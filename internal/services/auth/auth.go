// Package auth содержит бизнес-логику регистрации, аутентификации
// и восстановления пароля.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/lms-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/lms-platform/internal/lib/password"
	"github.com/magabrotheeeer/lms-platform/internal/lib/resettoken"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/mediaprovider"
	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/storage/repository"
)

// Ошибки уровня сервиса. Обработчики транслируют их в HTTP-статусы.
var (
	// ErrEmailTaken пользователь с таким email уже существует.
	ErrEmailTaken = errors.New("email already taken")
	// ErrInvalidCredentials неверная пара email/пароль или старый пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrResetTokenInvalid токен сброса не выдавался или истёк.
	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")
)

// Заглушка аватара до первой успешной загрузки файла.
const placeholderAvatarURL = "https://res.cloudinary.com/demo/image/upload/avatar.png"

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdatePassword(ctx context.Context, userUID, passwordHash string) error
	SetResetToken(ctx context.Context, userUID, tokenHash string, expiry time.Time) error
	ClearResetToken(ctx context.Context, userUID string) error
	FindUserByResetToken(ctx context.Context, tokenHash string) (*models.User, error)
	ResetPassword(ctx context.Context, userUID, passwordHash string) error
	UpdateFullName(ctx context.Context, userUID, fullName string) error
	UpdateAvatar(ctx context.Context, userUID string, avatar models.Avatar) error
}

// Mailer описывает контракт синхронной отправки письма.
// Ошибка отправки возвращается вызывающему.
type Mailer interface {
	Send(to, subject, body string) error
}

// MediaUploader описывает контракт медиа-хостинга для аватаров.
type MediaUploader interface {
	Upload(ctx context.Context, filePath string) (*mediaprovider.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

// Service отвечает за регистрацию, авторизацию, профиль
// и восстановление пароля.
type Service struct {
	users       UserRepository
	jwtMaker    jwt.Maker
	mailer      Mailer
	media       MediaUploader
	frontendURL string
	log         *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker, mailer Mailer, media MediaUploader, frontendURL string, log *slog.Logger) *Service {
	return &Service{
		users:       users,
		jwtMaker:    jwtMaker,
		mailer:      mailer,
		media:       media,
		frontendURL: frontendURL,
		log:         log,
	}
}

// normalizeEmail приводит email к каноническому виду для уникального индекса.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью USER. Если передан путь до файла аватара, файл загружается на
// медиа-хостинг после создания записи.
func (s *Service) Register(ctx context.Context, fullName, email, rawPassword, avatarPath string) (*models.User, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	user := models.User{
		FullName:     strings.ToLower(strings.TrimSpace(fullName)),
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleUser, // дефолтная роль при регистрации
		Avatar: models.Avatar{
			PublicID:  email,
			SecureURL: placeholderAvatarURL,
		},
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if avatarPath != "" {
		result, err := s.media.Upload(ctx, avatarPath)
		if err != nil {
			return nil, fmt.Errorf("avatar upload failed: %w", err)
		}
		avatar := models.Avatar{PublicID: result.PublicID, SecureURL: result.SecureURL}
		if err := s.users.UpdateAvatar(ctx, uid, avatar); err != nil {
			return nil, err
		}
	}

	return s.users.GetUser(ctx, uid)
}

// Login проверяет пароль пользователя и генерирует JWT сессии.
// Claims токена — снимок роли и статуса подписки на момент входа.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Role, user.Email, user.Subscription.Status)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GetUser возвращает профиль пользователя по UID.
func (s *Service) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword заменяет пароль после проверки старого.
func (s *Service) ChangePassword(ctx context.Context, userUID, oldPassword, newPassword string) error {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := password.CompareHash(user.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userUID, hashed)
}

// ForgotPassword генерирует одноразовый токен сброса, сохраняет его хэш
// со сроком действия и отправляет сырой токен на почту. При ошибке
// отправки поля сброса очищаются, ошибка возвращается вызывающему.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	raw, hash, err := resettoken.New()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(resettoken.TTL)
	if err := s.users.SetResetToken(ctx, user.UID, hash, expiry); err != nil {
		return err
	}

	resetURL := s.frontendURL + "/reset-password/" + raw
	subject := "Reset Password"
	body := "You can reset your password by clicking at " + resetURL + " ."

	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		s.log.Error("failed to send reset email, clearing reset token", sl.Err(err))
		if clearErr := s.users.ClearResetToken(ctx, user.UID); clearErr != nil {
			s.log.Error("failed to clear reset token", sl.Err(clearErr))
		}
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ResetPassword хэширует предъявленный токен, ищет пользователя с таким
// хэшем и непросроченным сроком действия, и заменяет пароль, очищая
// поля сброса.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	user, err := s.users.FindUserByResetToken(ctx, resettoken.Hash(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	return s.users.ResetPassword(ctx, user.UID, hashed)
}

// UpdateProfile обновляет имя и, если передан файл, аватар пользователя.
// Старый файл аватара удаляется с медиа-хостинга перед загрузкой нового.
func (s *Service) UpdateProfile(ctx context.Context, userUID, fullName, avatarPath string) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if fullName != "" {
		if err := s.users.UpdateFullName(ctx, userUID, strings.ToLower(strings.TrimSpace(fullName))); err != nil {
			return nil, err
		}
	}

	if avatarPath != "" {
		if user.Avatar.PublicID != "" && user.Avatar.PublicID != user.Email {
			if err := s.media.Destroy(ctx, user.Avatar.PublicID); err != nil {
				s.log.Warn("failed to destroy old avatar", sl.Err(err))
			}
		}
		result, err := s.media.Upload(ctx, avatarPath)
		if err != nil {
			return nil, fmt.Errorf("avatar upload failed: %w", err)
		}
		avatar := models.Avatar{PublicID: result.PublicID, SecureURL: result.SecureURL}
		if err := s.users.UpdateAvatar(ctx, userUID, avatar); err != nil {
			return nil, err
		}
	}

	return s.users.GetUser(ctx, userUID)
}
