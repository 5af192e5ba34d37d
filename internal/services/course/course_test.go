package course

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lms-platform/internal/mediaprovider"
	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/storage/repository"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateCourse(ctx context.Context, course models.Course) (int, error) {
	args := m.Called(ctx, course)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ListCourses(ctx context.Context) ([]*models.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Course), args.Error(1)
}

func (m *MockRepository) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockRepository) UpdateCourse(ctx context.Context, id int, dummy models.DummyCourse) (int, error) {
	args := m.Called(ctx, id, dummy)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) UpdateThumbnail(ctx context.Context, id int, thumbnail models.Media) error {
	args := m.Called(ctx, id, thumbnail)
	return args.Error(0)
}

func (m *MockRepository) RemoveCourse(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) AddLecture(ctx context.Context, courseID int, lecture models.Lecture) (int, error) {
	args := m.Called(ctx, courseID, lecture)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) RemoveLecture(ctx context.Context, courseID, index int) (int, error) {
	args := m.Called(ctx, courseID, index)
	return args.Int(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
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

func TestService_List(t *testing.T) {
	courses := []*models.Course{
		{ID: 1, Title: "Go basics"},
		{ID: 2, Title: "Advanced Go"},
	}

	t.Run("каталог читается из хранилища и кешируется", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		cache.On("Get", "courses:catalog", mock.Anything).Return(false, nil).Once()
		repo.On("ListCourses", mock.Anything).Return(courses, nil).Once()
		cache.On("Set", "courses:catalog", courses, time.Hour).Return(nil).Once()

		svc := New(repo, cache, new(MockMediaUploader), newNoopLogger())
		result, err := svc.List(context.Background())
		assert.NoError(t, err)
		assert.Len(t, result, 2)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("попадание в кеш не трогает хранилище", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		cache.On("Get", "courses:catalog", mock.Anything).Return(true, nil).Once()

		svc := New(repo, cache, new(MockMediaUploader), newNoopLogger())
		_, err := svc.List(context.Background())
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "ListCourses", mock.Anything)
	})

	t.Run("ошибка кеша не мешает чтению из хранилища", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		cache.On("Get", "courses:catalog", mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("ListCourses", mock.Anything).Return(courses, nil).Once()
		cache.On("Set", "courses:catalog", courses, time.Hour).Return(errors.New("redis down")).Once()

		svc := New(repo, cache, new(MockMediaUploader), newNoopLogger())
		result, err := svc.List(context.Background())
		assert.NoError(t, err)
		assert.Len(t, result, 2)
	})
}

func TestService_Create(t *testing.T) {
	dummy := models.DummyCourse{
		Title:       "Go basics",
		Description: "Introductory course about Go",
		Category:    "programming",
		CreatedBy:   "admin",
	}

	t.Run("создание курса с обложкой", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		media := new(MockMediaUploader)

		repo.On("CreateCourse", mock.Anything, mock.Anything).Return(7, nil).Once()
		media.On("Upload", mock.Anything, "/tmp/thumb.png").
			Return(&mediaprovider.UploadResult{PublicID: "lms/thumb", SecureURL: "https://cdn/thumb.png"}, nil).Once()
		repo.On("UpdateThumbnail", mock.Anything, 7, models.Media{
			PublicID:  "lms/thumb",
			SecureURL: "https://cdn/thumb.png",
		}).Return(nil).Once()
		cache.On("Invalidate", "courses:catalog").Return(nil).Once()

		svc := New(repo, cache, media, newNoopLogger())
		id, err := svc.Create(context.Background(), dummy, "/tmp/thumb.png")
		assert.NoError(t, err)
		assert.Equal(t, 7, id)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
		media.AssertExpectations(t)
	})

	t.Run("ошибка загрузки обложки", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		media := new(MockMediaUploader)

		repo.On("CreateCourse", mock.Anything, mock.Anything).Return(7, nil).Once()
		media.On("Upload", mock.Anything, "/tmp/thumb.png").
			Return(nil, errors.New("upload failed")).Once()

		svc := New(repo, cache, media, newNoopLogger())
		_, err := svc.Create(context.Background(), dummy, "/tmp/thumb.png")
		assert.Error(t, err)
	})
}

func TestService_Read(t *testing.T) {
	t.Run("курс с лекциями", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetCourse", mock.Anything, 1).Return(&models.Course{
			ID:    1,
			Title: "Go basics",
			Lectures: []models.Lecture{
				{Title: "Intro"},
			},
			NumberOfLectures: 1,
		}, nil).Once()

		svc := New(repo, new(MockCache), new(MockMediaUploader), newNoopLogger())
		course, err := svc.Read(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, 1, course.NumberOfLectures)
	})

	t.Run("курс не найден", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetCourse", mock.Anything, 99).Return(nil, repository.ErrNotFound).Once()

		svc := New(repo, new(MockCache), new(MockMediaUploader), newNoopLogger())
		_, err := svc.Read(context.Background(), 99)
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})
}

func TestService_Remove(t *testing.T) {
	t.Run("удаление инвалидирует кеш", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		repo.On("RemoveCourse", mock.Anything, 1).Return(1, nil).Once()
		cache.On("Invalidate", "courses:catalog").Return(nil).Once()

		svc := New(repo, cache, new(MockMediaUploader), newNoopLogger())
		assert.NoError(t, svc.Remove(context.Background(), 1))
		cache.AssertExpectations(t)
	})

	t.Run("курс не найден", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("RemoveCourse", mock.Anything, 99).Return(0, nil).Once()

		svc := New(repo, new(MockCache), new(MockMediaUploader), newNoopLogger())
		assert.ErrorIs(t, svc.Remove(context.Background(), 99), ErrCourseNotFound)
	})
}

func TestService_AddLecture(t *testing.T) {
	dummy := models.DummyLecture{Title: "Intro", Description: "First lecture"}

	t.Run("лекция с видеофайлом", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		media := new(MockMediaUploader)

		media.On("Upload", mock.Anything, "/tmp/lecture.mp4").
			Return(&mediaprovider.UploadResult{PublicID: "lms/lec", SecureURL: "https://cdn/lec.mp4"}, nil).Once()
		repo.On("AddLecture", mock.Anything, 1, mock.MatchedBy(func(l models.Lecture) bool {
			return l.Title == "Intro" && l.Media.PublicID == "lms/lec"
		})).Return(3, nil).Once()
		cache.On("Invalidate", "courses:catalog").Return(nil).Once()

		svc := New(repo, cache, media, newNoopLogger())
		count, err := svc.AddLecture(context.Background(), 1, dummy, "/tmp/lecture.mp4")
		assert.NoError(t, err)
		assert.Equal(t, 3, count)
		repo.AssertExpectations(t)
		media.AssertExpectations(t)
	})

	t.Run("курс не найден", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("AddLecture", mock.Anything, 99, mock.Anything).Return(0, repository.ErrNotFound).Once()

		svc := New(repo, new(MockCache), new(MockMediaUploader), newNoopLogger())
		_, err := svc.AddLecture(context.Background(), 99, dummy, "")
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})
}

func TestService_RemoveLecture(t *testing.T) {
	t.Run("удаление лекции по индексу", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)
		repo.On("RemoveLecture", mock.Anything, 1, 0).Return(2, nil).Once()
		cache.On("Invalidate", "courses:catalog").Return(nil).Once()

		svc := New(repo, cache, new(MockMediaUploader), newNoopLogger())
		count, err := svc.RemoveLecture(context.Background(), 1, 0)
		assert.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("индекс вне диапазона", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("RemoveLecture", mock.Anything, 1, 10).Return(0, repository.ErrNotFound).Once()

		svc := New(repo, new(MockCache), new(MockMediaUploader), newNoopLogger())
		_, err := svc.RemoveLecture(context.Background(), 1, 10)
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})
}
