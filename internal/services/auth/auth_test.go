package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lms-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/lms-platform/internal/lib/password"
	"github.com/magabrotheeeer/lms-platform/internal/mediaprovider"
	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/storage/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userUID, passwordHash string) error {
	args := m.Called(ctx, userUID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, userUID, tokenHash string, expiry time.Time) error {
	args := m.Called(ctx, userUID, tokenHash, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) ClearResetToken(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ResetPassword(ctx context.Context, userUID, passwordHash string) error {
	args := m.Called(ctx, userUID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateFullName(ctx context.Context, userUID, fullName string) error {
	args := m.Called(ctx, userUID, fullName)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, userUID string, avatar models.Avatar) error {
	args := m.Called(ctx, userUID, avatar)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

type MockMediaUploader struct {
	mock.Mock
}

func (m *MockMediaUploader) Upload(ctx context.Context, filePath string) (*mediaprovider.UploadResult, error) {
	args := m.Called(ctx, filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mediaprovider.UploadResult), args.Error(1)
}

func (m *MockMediaUploader) Destroy(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(users *MockUserRepository, mailer *MockMailer, media *MockMediaUploader) *Service {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	return New(users, maker, mailer, media, "http://localhost:5173", newNoopLogger())
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name          string
		fullName      string
		email         string
		avatarPath    string
		setupMocks    func(*MockUserRepository, *MockMediaUploader)
		expectedError error
	}{
		{
			name:     "успешная регистрация без аватара",
			fullName: "John Smith",
			email:    "John@Example.com",
			setupMocks: func(r *MockUserRepository, _ *MockMediaUploader) {
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Email == "john@example.com" &&
						u.FullName == "john smith" &&
						u.Role == models.RoleUser &&
						u.PasswordHash != "secret123"
				})).Return("uid-1", nil).Once()
				r.On("GetUser", mock.Anything, "uid-1").
					Return(&models.User{UID: "uid-1", Email: "john@example.com"}, nil).Once()
			},
		},
		{
			name:     "email уже занят",
			fullName: "John Smith",
			email:    "john@example.com",
			setupMocks: func(r *MockUserRepository, _ *MockMediaUploader) {
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return("", repository.ErrEmailTaken).Once()
			},
			expectedError: ErrEmailTaken,
		},
		{
			name:       "регистрация с загрузкой аватара",
			fullName:   "John Smith",
			email:      "john@example.com",
			avatarPath: "/tmp/avatar.png",
			setupMocks: func(r *MockUserRepository, media *MockMediaUploader) {
				r.On("CreateUser", mock.Anything, mock.Anything).Return("uid-2", nil).Once()
				media.On("Upload", mock.Anything, "/tmp/avatar.png").
					Return(&mediaprovider.UploadResult{PublicID: "lms/abc", SecureURL: "https://cdn/abc.png"}, nil).Once()
				r.On("UpdateAvatar", mock.Anything, "uid-2", models.Avatar{
					PublicID:  "lms/abc",
					SecureURL: "https://cdn/abc.png",
				}).Return(nil).Once()
				r.On("GetUser", mock.Anything, "uid-2").
					Return(&models.User{UID: "uid-2"}, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			mailer := new(MockMailer)
			media := new(MockMediaUploader)
			tt.setupMocks(users, media)

			svc := newTestService(users, mailer, media)
			user, err := svc.Register(context.Background(), tt.fullName, tt.email, "secret123", tt.avatarPath)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
			}
			users.AssertExpectations(t)
			media.AssertExpectations(t)
		})
	}
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("correct-password")
	require.NoError(t, err)

	storedUser := &models.User{
		UID:          "uid-1",
		Email:        "john@example.com",
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	tests := []struct {
		name          string
		email         string
		rawPassword   string
		setupMocks    func(*MockUserRepository)
		expectedError error
	}{
		{
			name:        "успешный вход",
			email:       "John@example.com",
			rawPassword: "correct-password",
			setupMocks: func(r *MockUserRepository) {
				r.On("GetUserByEmail", mock.Anything, "john@example.com").Return(storedUser, nil).Once()
			},
		},
		{
			name:        "неверный пароль",
			email:       "john@example.com",
			rawPassword: "wrong-password",
			setupMocks: func(r *MockUserRepository) {
				r.On("GetUserByEmail", mock.Anything, "john@example.com").Return(storedUser, nil).Once()
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:        "пользователь не существует",
			email:       "ghost@example.com",
			rawPassword: "whatever",
			setupMocks: func(r *MockUserRepository) {
				r.On("GetUserByEmail", mock.Anything, "ghost@example.com").
					Return(nil, repository.ErrNotFound).Once()
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMocks(users)

			svc := newTestService(users, new(MockMailer), new(MockMediaUploader))
			token, user, err := svc.Login(context.Background(), tt.email, tt.rawPassword)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, "uid-1", user.UID)

				claims, parseErr := jwt.NewJWTMaker("test-secret", time.Hour).ParseToken(token)
				require.NoError(t, parseErr)
				assert.Equal(t, "uid-1", claims.UserUID)
				assert.Equal(t, models.RoleUser, claims.Role)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestService_ChangePassword(t *testing.T) {
	hash, err := password.GetHash("old-password")
	require.NoError(t, err)
	storedUser := &models.User{UID: "uid-1", PasswordHash: hash}

	t.Run("успешная смена пароля", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetUser", mock.Anything, "uid-1").Return(storedUser, nil).Once()
		users.On("UpdatePassword", mock.Anything, "uid-1", mock.AnythingOfType("string")).Return(nil).Once()

		svc := newTestService(users, new(MockMailer), new(MockMediaUploader))
		err := svc.ChangePassword(context.Background(), "uid-1", "old-password", "new-password")
		assert.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("неверный старый пароль", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetUser", mock.Anything, "uid-1").Return(storedUser, nil).Once()

		svc := newTestService(users, new(MockMailer), new(MockMediaUploader))
		err := svc.ChangePassword(context.Background(), "uid-1", "wrong", "new-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		users.AssertExpectations(t)
	})
}

func TestService_ForgotPassword(t *testing.T) {
	storedUser := &models.User{UID: "uid-1", Email: "john@example.com"}

	t.Run("токен сохраняется и письмо уходит", func(t *testing.T) {
		users := new(MockUserRepository)
		mailer := new(MockMailer)
		users.On("GetUserByEmail", mock.Anything, "john@example.com").Return(storedUser, nil).Once()
		users.On("SetResetToken", mock.Anything, "uid-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil).Once()
		mailer.On("Send", "john@example.com", "Reset Password", mock.AnythingOfType("string")).
			Return(nil).Once()

		svc := newTestService(users, mailer, new(MockMediaUploader))
		err := svc.ForgotPassword(context.Background(), "john@example.com")
		assert.NoError(t, err)
		users.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("ошибка отправки очищает токен", func(t *testing.T) {
		users := new(MockUserRepository)
		mailer := new(MockMailer)
		users.On("GetUserByEmail", mock.Anything, "john@example.com").Return(storedUser, nil).Once()
		users.On("SetResetToken", mock.Anything, "uid-1", mock.Anything, mock.Anything).Return(nil).Once()
		mailer.On("Send", "john@example.com", mock.Anything, mock.Anything).
			Return(errors.New("smtp down")).Once()
		users.On("ClearResetToken", mock.Anything, "uid-1").Return(nil).Once()

		svc := newTestService(users, mailer, new(MockMediaUploader))
		err := svc.ForgotPassword(context.Background(), "john@example.com")
		assert.Error(t, err)
		users.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("пользователь не зарегистрирован", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetUserByEmail", mock.Anything, "ghost@example.com").
			Return(nil, repository.ErrNotFound).Once()

		svc := newTestService(users, new(MockMailer), new(MockMediaUploader))
		err := svc.ForgotPassword(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
		users.AssertExpectations(t)
	})
}

func TestService_ResetPassword(t *testing.T) {
	t.Run("успешный сброс пароля", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindUserByResetToken", mock.Anything, mock.AnythingOfType("string")).
			Return(&models.User{UID: "uid-1"}, nil).Once()
		users.On("ResetPassword", mock.Anything, "uid-1", mock.AnythingOfType("string")).Return(nil).Once()

		svc := newTestService(users, new(MockMailer), new(MockMediaUploader))
		err := svc.ResetPassword(context.Background(), "rawtoken", "new-password")
		assert.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("токен не найден или истёк", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindUserByResetToken", mock.Anything, mock.AnythingOfType("string")).
			Return(nil, repository.ErrNotFound).Once()

		svc := newTestService(users, new(MockMailer), new(MockMediaUploader))
		err := svc.ResetPassword(context.Background(), "badtoken", "new-password")
		assert.ErrorIs(t, err, ErrResetTokenInvalid)
		users.AssertExpectations(t)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	t.Run("обновление имени и аватара", func(t *testing.T) {
		storedUser := &models.User{
			UID:   "uid-1",
			Email: "john@example.com",
			Avatar: models.Avatar{
				PublicID:  "lms/old",
				SecureURL: "https://cdn/old.png",
			},
		}
		users := new(MockUserRepository)
		media := new(MockMediaUploader)
		users.On("GetUser", mock.Anything, "uid-1").Return(storedUser, nil).Once()
		users.On("UpdateFullName", mock.Anything, "uid-1", "new name").Return(nil).Once()
		media.On("Destroy", mock.Anything, "lms/old").Return(nil).Once()
		media.On("Upload", mock.Anything, "/tmp/new.png").
			Return(&mediaprovider.UploadResult{PublicID: "lms/new", SecureURL: "https://cdn/new.png"}, nil).Once()
		users.On("UpdateAvatar", mock.Anything, "uid-1", models.Avatar{
			PublicID:  "lms/new",
			SecureURL: "https://cdn/new.png",
		}).Return(nil).Once()
		users.On("GetUser", mock.Anything, "uid-1").
			Return(&models.User{UID: "uid-1", FullName: "new name"}, nil).Once()

		svc := newTestService(users, new(MockMailer), media)
		user, err := svc.UpdateProfile(context.Background(), "uid-1", "New Name", "/tmp/new.png")
		assert.NoError(t, err)
		assert.Equal(t, "new name", user.FullName)
		users.AssertExpectations(t)
		media.AssertExpectations(t)
	})
}
