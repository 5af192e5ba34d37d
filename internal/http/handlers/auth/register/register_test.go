package register

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/services/auth"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, fullName, email, password, avatarPath string) (*models.User, error) {
	args := m.Called(ctx, fullName, email, password, avatarPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация",
			body: `{"full_name":"john smith","email":"john@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "john smith", "john@example.com", "secret123", "").
					Return(&models.User{UID: "uid-1", Email: "john@example.com", Role: models.RoleUser}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"user registered successfully"`,
		},
		{
			name: "email уже занят",
			body: `{"full_name":"john smith","email":"john@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "john smith", "john@example.com", "secret123", "").
					Return(nil, auth.ErrEmailTaken).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"user already exists"}`,
		},
		{
			name: "email с пробелами по краям принимается",
			body: `{"full_name":"john smith","email":"  john@example.com ","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "john smith", "john@example.com", "secret123", "").
					Return(&models.User{UID: "uid-1", Email: "john@example.com", Role: models.RoleUser}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"user registered successfully"`,
		},
		{
			name:           "слишком короткое имя",
			body:           `{"full_name":"ab","email":"john@example.com","password":"secret123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `full_name`,
		},
		{
			name:           "некорректный email",
			body:           `{"full_name":"john smith","email":"not-an-email","password":"secret123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `email`,
		},
		{
			name:           "битый JSON",
			body:           `{"full_name":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "внутренняя ошибка",
			body: `{"full_name":"john smith","email":"john@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "john smith", "john@example.com", "secret123", "").
					Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to register user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, t.TempDir())

			req := httptest.NewRequest(http.MethodPost, "/user/register", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			// Хэш пароля не должен утекать в ответ
			assert.False(t, strings.Contains(w.Body.String(), "password_hash"))

			mockService.AssertExpectations(t)
		})
	}
}
