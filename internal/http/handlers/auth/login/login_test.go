package login

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lms-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/services/auth"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
		expectCookie   bool
	}{
		{
			name: "успешный вход выдаёт куку",
			body: `{"email":"john@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "john@example.com", "secret123").
					Return("signed.jwt.token", &models.User{UID: "uid-1", Email: "john@example.com"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"message":"user logged in successfully"`,
			expectCookie:   true,
		},
		{
			name: "email с пробелами по краям принимается",
			body: `{"email":" john@example.com  ","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "john@example.com", "secret123").
					Return("signed.jwt.token", &models.User{UID: "uid-1", Email: "john@example.com"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"message":"user logged in successfully"`,
			expectCookie:   true,
		},
		{
			name: "неверные учетные данные",
			body: `{"email":"john@example.com","password":"wrongpass1"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "john@example.com", "wrongpass1").
					Return("", nil, auth.ErrInvalidCredentials).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"email or password do not match"}`,
		},
		{
			name:           "короткий пароль не проходит валидацию",
			body:           `{"email":"john@example.com","password":"short"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `password`,
		},
		{
			name:           "битый JSON",
			body:           `{"email":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, 168*time.Hour)

			req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			cookies := w.Result().Cookies()
			if tt.expectCookie {
				require.Len(t, cookies, 1)
				cookie := cookies[0]
				assert.Equal(t, middlewarectx.CookieName, cookie.Name)
				assert.Equal(t, "signed.jwt.token", cookie.Value)
				assert.True(t, cookie.HttpOnly)
				assert.Equal(t, int((168 * time.Hour).Seconds()), cookie.MaxAge)
			} else {
				assert.Empty(t, cookies)
			}

			mockService.AssertExpectations(t)
		})
	}
}
