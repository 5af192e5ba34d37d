// Package course содержит бизнес-логику каталога курсов и лекций,
// включая кеширование каталога.
package course

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/lms-platform/internal/mediaprovider"
	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/storage/repository"
)

// ErrCourseNotFound курс не найден.
var ErrCourseNotFound = errors.New("course not found")

// Ключ кеша каталога курсов.
const catalogCacheKey = "courses:catalog"

// CourseRepository определяет методы для работы с курсами в хранилище.
type CourseRepository interface {
	// CreateCourse добавляет новый курс и возвращает его ID.
	CreateCourse(ctx context.Context, course models.Course) (int, error)
	// ListCourses возвращает каталог курсов без лекций.
	ListCourses(ctx context.Context) ([]*models.Course, error)
	// GetCourse возвращает курс по ID вместе с лекциями.
	GetCourse(ctx context.Context, id int) (*models.Course, error)
	// UpdateCourse частично обновляет поля курса.
	UpdateCourse(ctx context.Context, id int, dummy models.DummyCourse) (int, error)
	// UpdateThumbnail обновляет обложку курса.
	UpdateThumbnail(ctx context.Context, id int, thumbnail models.Media) error
	// RemoveCourse удаляет курс и возвращает количество удалённых записей.
	RemoveCourse(ctx context.Context, id int) (int, error)
	// AddLecture добавляет лекцию и возвращает новое количество лекций.
	AddLecture(ctx context.Context, courseID int, lecture models.Lecture) (int, error)
	// RemoveLecture удаляет лекцию по индексу и возвращает новое количество.
	RemoveLecture(ctx context.Context, courseID, index int) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// MediaUploader описывает контракт медиа-хостинга для обложек и лекций.
type MediaUploader interface {
	Upload(ctx context.Context, filePath string) (*mediaprovider.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

// Service реализует бизнес-логику каталога курсов, включая кеширование.
type Service struct {
	repo  CourseRepository
	cache Cache
	media MediaUploader
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo CourseRepository, cache Cache, media MediaUploader, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		media: media,
		log:   log,
	}
}

// List возвращает каталог курсов без лекций, используя кеш или хранилище.
func (s *Service) List(ctx context.Context) ([]*models.Course, error) {
	var result []*models.Course
	found, err := s.cache.Get(catalogCacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read catalog cache", slog.Any("err", err))
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(catalogCacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache catalog", slog.Any("err", err))
	}
	return result, nil
}

// Create создает новый курс. Если передан путь до файла обложки, файл
// загружается на медиа-хостинг после создания записи. Кеш каталога
// инвалидируется.
func (s *Service) Create(ctx context.Context, dummy models.DummyCourse, thumbnailPath string) (int, error) {
	course := models.Course{
		Title:       dummy.Title,
		Description: dummy.Description,
		Category:    dummy.Category,
		CreatedBy:   dummy.CreatedBy,
	}
	id, err := s.repo.CreateCourse(ctx, course)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new course", slog.Int("id", id))

	if thumbnailPath != "" {
		result, err := s.media.Upload(ctx, thumbnailPath)
		if err != nil {
			return 0, fmt.Errorf("thumbnail upload failed: %w", err)
		}
		thumbnail := models.Media{PublicID: result.PublicID, SecureURL: result.SecureURL}
		if err := s.repo.UpdateThumbnail(ctx, id, thumbnail); err != nil {
			return 0, err
		}
	}

	s.invalidateCatalog()
	return id, nil
}

// Read возвращает курс с лекциями по ID.
func (s *Service) Read(ctx context.Context, id int) (*models.Course, error) {
	course, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// Update частично обновляет поля курса и инвалидирует кеш каталога.
func (s *Service) Update(ctx context.Context, id int, dummy models.DummyCourse) error {
	count, err := s.repo.UpdateCourse(ctx, id, dummy)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCourseNotFound
	}
	s.invalidateCatalog()
	return nil
}

// Remove удаляет курс по ID и инвалидирует кеш каталога.
func (s *Service) Remove(ctx context.Context, id int) error {
	count, err := s.repo.RemoveCourse(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCourseNotFound
	}
	s.invalidateCatalog()
	return nil
}

// AddLecture добавляет лекцию в курс. Если передан путь до видеофайла,
// файл загружается на медиа-хостинг. Возвращает новое количество лекций.
func (s *Service) AddLecture(ctx context.Context, courseID int, dummy models.DummyLecture, mediaPath string) (int, error) {
	lecture := models.Lecture{
		Title:       dummy.Title,
		Description: dummy.Description,
	}
	if mediaPath != "" {
		result, err := s.media.Upload(ctx, mediaPath)
		if err != nil {
			return 0, fmt.Errorf("lecture upload failed: %w", err)
		}
		lecture.Media = models.Media{PublicID: result.PublicID, SecureURL: result.SecureURL}
	}

	count, err := s.repo.AddLecture(ctx, courseID, lecture)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrCourseNotFound
		}
		return 0, err
	}
	s.invalidateCatalog()
	return count, nil
}

// RemoveLecture удаляет лекцию курса по индексу. Возвращает новое
// количество лекций.
func (s *Service) RemoveLecture(ctx context.Context, courseID, index int) (int, error) {
	count, err := s.repo.RemoveLecture(ctx, courseID, index)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrCourseNotFound
		}
		return 0, err
	}
	s.invalidateCatalog()
	return count, nil
}

func (s *Service) invalidateCatalog() {
	if err := s.cache.Invalidate(catalogCacheKey); err != nil {
		s.log.Warn("failed to invalidate catalog cache", slog.String("key", catalogCacheKey), slog.Any("err", err))
	}
}
