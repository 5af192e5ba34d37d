package read

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/services/course"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, id int) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		courseID       string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "курс с лекциями возвращается",
			courseID: "1",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, 1).Return(&models.Course{
					ID:    1,
					Title: "Go basics",
					Lectures: []models.Lecture{
						{Title: "Intro"},
					},
					NumberOfLectures: 1,
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Go basics"`,
		},
		{
			name:           "некорректный id",
			courseID:       "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid course id"}`,
		},
		{
			name:     "курс не найден",
			courseID: "99",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, 99).Return(nil, course.ErrCourseNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"course does not exist"}`,
		},
		{
			name:     "ошибка хранилища",
			courseID: "1",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, 1).Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to read course"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/courses/"+tt.courseID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("courseId", tt.courseID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
